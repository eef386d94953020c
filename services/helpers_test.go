// ABOUTME: Shared fixtures for sizing engine tests
// ABOUTME: Provides the reference NVMe profile, policy, and workload demand

package services

import (
	"math"
	"testing"

	"github.com/markalston/vm-migration-sizer/models"
)

// referenceProfile is a 32-core, 256 GiB node with 8×3200 GiB NVMe devices.
func referenceProfile() models.HardwareProfile {
	return models.HardwareProfile{
		Name:                   "nvme-32c-256g",
		Vendor:                 "generic",
		PhysicalCores:          32,
		Threads:                64,
		MemoryGiB:              256,
		RawStorageGiB:          25600,
		DeviceCount:            8,
		DeviceSizeGiB:          3200,
		SupportsTargetPlatform: true,
	}
}

// referencePolicy is 5:1 CPU, 1:1 memory, RF3, 75% operational, 15% metadata,
// N+2, quorum 3, fault domains of 3, 20%/yr growth over 2 years.
func referencePolicy() models.SizingPolicy {
	p := models.DefaultSizingPolicy()
	p.CPUOvercommitRatio = 5
	p.HyperthreadingEnabled = true
	p.HyperthreadingMultiplier = 1.25
	p.MemoryOvercommitRatio = 1
	p.ReplicationFactor = 3
	p.OperationalCapacityPct = 75
	p.MetadataOverheadPct = 15
	p.RedundancyNodes = 2
	p.EvictionThresholdPct = 10
	p.AnnualGrowthPct = 20
	p.PlanningHorizonYears = 2
	p.VirtOverheadPct = 15
	p.QuorumFloor = 3
	p.FaultDomainAlignment = true
	p.FaultDomainSize = 3
	p.DegradedFailedNodes = 2
	return p
}

// referenceDemand is 250 VMs, 1000 vCPU, 4000 GiB memory, 50 TiB in-use storage.
func referenceDemand() models.WorkloadDemand {
	return models.WorkloadDemand{
		VMCount:        250,
		TotalVCPU:      1000,
		TotalMemoryGiB: 4000,
		StorageGiB:     50 * 1024,
		StorageBasis:   models.StorageInUse,
	}
}

func assertClose(t *testing.T, name string, expected, got float64) {
	t.Helper()
	if math.Abs(expected-got) > 1e-6 {
		t.Errorf("Expected %s %g, got %g", name, expected, got)
	}
}
