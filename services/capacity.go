// ABOUTME: Per-node capacity and reservation model for a hardware profile
// ABOUTME: Converts cores, memory, and raw flash into usable vCPU, GiB, and storage

package services

import (
	"math"

	"github.com/markalston/vm-migration-sizer/models"
)

// epsilon absorbs float error in products that are mathematically integral.
const epsilon = 1e-9

func floorTol(x float64) float64 {
	return math.Floor(x + epsilon)
}

func ceilTol(x float64) float64 {
	return math.Ceil(x - epsilon)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// ComputeReservations returns the CPU cores and memory GiB reserved per node
// for the host system and the storage service. Storage reservations scale
// linearly with the profile's device count.
func ComputeReservations(profile models.HardwareProfile, policy models.SizingPolicy) (float64, float64) {
	r := policy.Reservations
	devices := float64(profile.DeviceCount)

	cpu := r.SystemCPU + r.StorageBaseCPU + r.StoragePerDeviceCPU*devices
	mem := r.SystemMemoryGiB + r.StorageBaseMemoryGiB + r.StoragePerDeviceMemoryGiB*devices

	return cpu, mem
}

// ComputeCapacity derives usable per-node capacity. Reservations larger than
// the profile floor the affected dimension to zero rather than going negative.
func ComputeCapacity(profile models.HardwareProfile, policy models.SizingPolicy) models.CapacityResult {
	reservedCPU, reservedMem := ComputeReservations(profile, policy)
	threads := policy.ThreadMultiplier()
	raw := profile.RawStorage()

	result := models.CapacityResult{
		ReservedCPU:       reservedCPU,
		ReservedMemoryGiB: reservedMem,
		PhysicalCores:     profile.PhysicalCores,
		MemoryGiB:         profile.MemoryGiB,
		RawStorageGiB:     raw,
		ThreadMultiplier:  threads,
	}

	availableCores := math.Max(0, float64(profile.PhysicalCores)-reservedCPU)
	result.VCPUCapacity = int(floorTol(availableCores * threads * policy.CPUOvercommitRatio))

	availableMem := math.Max(0, profile.MemoryGiB-reservedMem)
	result.MemoryCapacityGiB = int(floorTol(availableMem * policy.MemoryOvercommitRatio))

	if policy.ReplicationFactor > 0 {
		usable := raw *
			(1 / float64(policy.ReplicationFactor)) *
			(policy.OperationalCapacityPct / 100) *
			(1 - policy.MetadataOverheadPct/100)
		result.UsableStorageGiB = int(floorTol(math.Max(0, usable)))
	}

	return result
}
