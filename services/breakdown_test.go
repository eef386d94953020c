// ABOUTME: Tests for the resource breakdown allocator
// ABOUTME: Validates segment values, sums, clamping, and non-negative free capacity

package services

import (
	"testing"

	"github.com/markalston/vm-migration-sizer/models"
)

func referenceBreakdown(t *testing.T) []models.ResourceBreakdown {
	t.Helper()
	profile := referenceProfile()
	policy := referencePolicy()
	demand := referenceDemand()
	capacity := ComputeCapacity(profile, policy)
	req := ResolveFinalNodeCount(SolveRequirements(capacity, policy, demand), policy)
	return AllocateBreakdown(profile, policy, demand, capacity, req)
}

func segmentValue(t *testing.T, b models.ResourceBreakdown, name string) float64 {
	t.Helper()
	s, ok := b.Segment(name)
	if !ok {
		t.Fatalf("%s breakdown missing segment %q", b.Dimension, name)
	}
	return s.Value
}

func TestAllocateBreakdown_Dimensions(t *testing.T) {
	breakdowns := referenceBreakdown(t)

	if len(breakdowns) != 3 {
		t.Fatalf("Expected 3 breakdowns, got %d", len(breakdowns))
	}
	for i, d := range models.Dimensions() {
		if breakdowns[i].Dimension != d {
			t.Errorf("Position %d: expected %s, got %s", i, d, breakdowns[i].Dimension)
		}
	}
}

func TestAllocateBreakdown_CPU(t *testing.T) {
	cpu := referenceBreakdown(t)[0]

	// 27 × 32 × 1.25 × 5
	assertClose(t, "CPU raw", 5400, cpu.RawTotal)
	// 27 × 11 × 1.25 × 5
	assertClose(t, "reservations", 1856.25, segmentValue(t, cpu, SegmentReservations))
	assertClose(t, "workload", 1000, segmentValue(t, cpu, SegmentWorkload))
	assertClose(t, "fixed overhead", 25, segmentValue(t, cpu, SegmentFixedOverhead))
	assertClose(t, "proportional overhead", 0, segmentValue(t, cpu, SegmentPropOverhead))
	assertClose(t, "free", 2518.75, segmentValue(t, cpu, SegmentFree))
	assertClose(t, "sum", cpu.RawTotal, cpu.Sum())
}

func TestAllocateBreakdown_Memory(t *testing.T) {
	memory := referenceBreakdown(t)[1]

	assertClose(t, "memory raw", 6912, memory.RawTotal)
	assertClose(t, "reservations", 1404, segmentValue(t, memory, SegmentReservations))
	assertClose(t, "workload", 4000, segmentValue(t, memory, SegmentWorkload))
	assertClose(t, "fixed overhead", 50, segmentValue(t, memory, SegmentFixedOverhead))
	assertClose(t, "proportional overhead", 40, segmentValue(t, memory, SegmentPropOverhead))
	assertClose(t, "free", 1418, segmentValue(t, memory, SegmentFree))
	assertClose(t, "sum", memory.RawTotal, memory.Sum())
}

func TestAllocateBreakdown_Storage(t *testing.T) {
	storage := referenceBreakdown(t)[2]

	assertClose(t, "storage raw", 691200, storage.RawTotal)
	assertClose(t, "replication", 460800, segmentValue(t, storage, SegmentReplication))
	assertClose(t, "headroom", 57600, segmentValue(t, storage, SegmentHeadroom))
	assertClose(t, "metadata", 25920, segmentValue(t, storage, SegmentMetadata))
	assertClose(t, "workload", 51200, segmentValue(t, storage, SegmentWorkload))
	assertClose(t, "growth", 22528, segmentValue(t, storage, SegmentGrowth))
	assertClose(t, "virtualization", 11059.2, segmentValue(t, storage, SegmentVirtualization))
	assertClose(t, "free", 62092.8, segmentValue(t, storage, SegmentFree))
	assertClose(t, "sum", storage.RawTotal, storage.Sum())
}

func TestAllocateBreakdown_ClampsOverflow(t *testing.T) {
	profile := referenceProfile()
	policy := referencePolicy()
	demand := referenceDemand()
	capacity := ComputeCapacity(profile, policy)

	// Far too few nodes for the workload
	req := models.NodeRequirement{FinalNodeCount: 3, GrowthMultiplier: GrowthMultiplier(policy)}
	breakdowns := AllocateBreakdown(profile, policy, demand, capacity, req)

	for _, b := range breakdowns {
		if b.Sum() > b.RawTotal+1e-6 {
			t.Errorf("%s segments sum to %g, above raw %g", b.Dimension, b.Sum(), b.RawTotal)
		}
		for _, s := range b.Segments {
			if s.Value < 0 {
				t.Errorf("%s segment %q is negative: %g", b.Dimension, s.Name, s.Value)
			}
		}
		if free, _ := b.Segment(SegmentFree); free.Value != 0 {
			t.Errorf("%s free should clamp to 0, got %g", b.Dimension, free.Value)
		}
	}
}

func TestAllocateBreakdown_PercentagesSumToHundred(t *testing.T) {
	for _, b := range referenceBreakdown(t) {
		var total float64
		for _, s := range b.Segments {
			total += s.Percent
		}
		if total < 99.9 || total > 100.1 {
			t.Errorf("%s percentages sum to %g", b.Dimension, total)
		}
	}
}

func TestAllocateBreakdown_ZeroNodes(t *testing.T) {
	profile := referenceProfile()
	policy := referencePolicy()
	capacity := ComputeCapacity(profile, policy)

	breakdowns := AllocateBreakdown(profile, policy, referenceDemand(), capacity, models.NodeRequirement{})

	for _, b := range breakdowns {
		if b.RawTotal != 0 || b.Sum() != 0 {
			t.Errorf("%s: expected empty breakdown, got raw %g sum %g", b.Dimension, b.RawTotal, b.Sum())
		}
	}
}
