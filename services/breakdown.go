// ABOUTME: Resource breakdown allocator for reporting
// ABOUTME: Splits raw cluster capacity into named segments that never exceed the total

package services

import (
	"math"

	"github.com/markalston/vm-migration-sizer/models"
)

// Segment names shared by the CPU, memory, and storage breakdowns.
const (
	SegmentReservations   = "infrastructure reservations"
	SegmentWorkload       = "workload"
	SegmentFixedOverhead  = "per-VM fixed overhead"
	SegmentPropOverhead   = "per-VM proportional overhead"
	SegmentReplication    = "replication overhead"
	SegmentHeadroom       = "operational headroom"
	SegmentMetadata       = "metadata overhead"
	SegmentGrowth         = "growth allowance"
	SegmentVirtualization = "virtualization overhead"
	SegmentFree           = "free"
)

type segmentInput struct {
	name  string
	value float64
}

// fillSegments assigns each value in order, clamped to what remains of raw.
// The free segment takes the non-negative residual.
func fillSegments(raw float64, inputs []segmentInput) []models.Segment {
	raw = math.Max(0, raw)
	remaining := raw
	segments := make([]models.Segment, 0, len(inputs)+1)

	for _, in := range inputs {
		v := math.Min(math.Max(0, in.value), remaining)
		remaining -= v
		segments = append(segments, models.Segment{Name: in.name, Value: v})
	}
	segments = append(segments, models.Segment{Name: SegmentFree, Value: math.Max(0, remaining)})

	if raw > 0 {
		for i := range segments {
			segments[i].Percent = round2(segments[i].Value / raw * 100)
		}
	}
	return segments
}

// AllocateBreakdown decomposes the final cluster's raw CPU, memory, and
// storage into workload, overhead, reservation, and free segments.
func AllocateBreakdown(profile models.HardwareProfile, policy models.SizingPolicy, demand models.WorkloadDemand, capacity models.CapacityResult, requirement models.NodeRequirement) []models.ResourceBreakdown {
	nodes := float64(max(0, requirement.FinalNodeCount))
	o := policy.Overheads
	vms := float64(demand.VMCount)

	cpuScale := capacity.ThreadMultiplier * policy.CPUOvercommitRatio
	cpuRaw := nodes * float64(profile.PhysicalCores) * cpuScale
	cpu := models.ResourceBreakdown{
		Dimension: models.DimensionCPU,
		Unit:      "vCPU",
		RawTotal:  cpuRaw,
		Segments: fillSegments(cpuRaw, []segmentInput{
			{SegmentReservations, nodes * capacity.ReservedCPU * cpuScale},
			{SegmentWorkload, demand.TotalVCPU},
			{SegmentFixedOverhead, vms * o.PerVMFixedCPU},
			{SegmentPropOverhead, demand.TotalVCPU * o.PerVMCPUPct / 100},
		}),
	}

	memRaw := nodes * profile.MemoryGiB * policy.MemoryOvercommitRatio
	memory := models.ResourceBreakdown{
		Dimension: models.DimensionMemory,
		Unit:      "GiB",
		RawTotal:  memRaw,
		Segments: fillSegments(memRaw, []segmentInput{
			{SegmentReservations, nodes * capacity.ReservedMemoryGiB * policy.MemoryOvercommitRatio},
			{SegmentWorkload, demand.TotalMemoryGiB},
			{SegmentFixedOverhead, vms * o.PerVMFixedMemoryGiB},
			{SegmentPropOverhead, demand.TotalMemoryGiB * o.PerVMMemoryPct / 100},
		}),
	}

	storageRaw := nodes * profile.RawStorage()
	var replicated float64
	if policy.ReplicationFactor > 0 {
		replicated = storageRaw / float64(policy.ReplicationFactor)
	}
	operational := replicated * policy.OperationalCapacityPct / 100
	grown := demand.StorageGiB * requirement.GrowthMultiplier
	storage := models.ResourceBreakdown{
		Dimension: models.DimensionStorage,
		Unit:      "GiB",
		RawTotal:  storageRaw,
		Segments: fillSegments(storageRaw, []segmentInput{
			{SegmentReplication, storageRaw - replicated},
			{SegmentHeadroom, replicated - operational},
			{SegmentMetadata, operational * policy.MetadataOverheadPct / 100},
			{SegmentWorkload, demand.StorageGiB},
			{SegmentGrowth, grown - demand.StorageGiB},
			{SegmentVirtualization, grown * policy.VirtOverheadPct / 100},
		}),
	}

	return []models.ResourceBreakdown{cpu, memory, storage}
}
