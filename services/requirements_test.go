// ABOUTME: Tests for the node requirement solver
// ABOUTME: Validates effective demand, per-dimension counts, and infeasible profiles

package services

import (
	"testing"

	"github.com/markalston/vm-migration-sizer/models"
)

func TestGrowthMultiplier_CompoundsAnnually(t *testing.T) {
	tests := []struct {
		growth   float64
		years    int
		expected float64
	}{
		{20, 2, 1.44},
		{10, 3, 1.331},
		{0, 5, 1},
		{50, 0, 1},
	}

	for _, tt := range tests {
		policy := referencePolicy()
		policy.AnnualGrowthPct = tt.growth
		policy.PlanningHorizonYears = tt.years
		assertClose(t, "growth multiplier", tt.expected, GrowthMultiplier(policy))
	}
}

func TestComputeEffectiveDemand(t *testing.T) {
	eff := ComputeEffectiveDemand(referenceDemand(), referencePolicy())

	// 1000 + 250 × 0.1
	assertClose(t, "effective CPU", 1025, eff.CPU)
	// 4000 + 250 × 0.2 + 4000 × 1%
	assertClose(t, "effective memory", 4090, eff.MemoryGiB)
	// 51200 × 1.44 × 1.15
	assertClose(t, "effective storage", 84787.2, eff.StorageGiB)
	assertClose(t, "growth multiplier", 1.44, eff.GrowthMultiplier)
}

func TestSolveRequirements_Reference(t *testing.T) {
	policy := referencePolicy()
	capacity := ComputeCapacity(referenceProfile(), policy)

	req := SolveRequirements(capacity, policy, referenceDemand())

	if !req.Feasible {
		t.Fatalf("Expected feasible requirement, got: %s", req.InfeasibleReason)
	}
	if req.CPUNodes != 8 {
		t.Errorf("Expected 8 CPU nodes, got %d", req.CPUNodes)
	}
	if req.MemoryNodes != 21 {
		t.Errorf("Expected 21 memory nodes, got %d", req.MemoryNodes)
	}
	if req.StorageNodes != 16 {
		t.Errorf("Expected 16 storage nodes, got %d", req.StorageNodes)
	}
	if req.LimitingDimension != models.DimensionMemory {
		t.Errorf("Expected memory to be limiting, got %s", req.LimitingDimension)
	}
	if req.QuorumAdjusted != 21 {
		t.Errorf("Expected baseline 21, got %d", req.QuorumAdjusted)
	}
}

func TestSolveRequirements_ExactDivisionDoesNotRoundUp(t *testing.T) {
	policy := referencePolicy()
	policy.Overheads = models.OverheadReference{}
	capacity := models.CapacityResult{VCPUCapacity: 100, MemoryCapacityGiB: 100, UsableStorageGiB: 100}
	policy.AnnualGrowthPct = 0
	policy.VirtOverheadPct = 10

	// 1000 × 1.1 = 1100.0000000000002 in float64
	req := SolveRequirements(capacity, policy, models.WorkloadDemand{TotalVCPU: 500, TotalMemoryGiB: 300, StorageGiB: 1000})

	if req.CPUNodes != 5 || req.MemoryNodes != 3 {
		t.Errorf("Expected 5 CPU / 3 memory nodes, got %d / %d", req.CPUNodes, req.MemoryNodes)
	}
	if req.StorageNodes != 11 {
		t.Errorf("Expected 11 storage nodes, got %d", req.StorageNodes)
	}
}

func TestSolveRequirements_TieBreakPrefersCPU(t *testing.T) {
	policy := referencePolicy()
	policy.Overheads = models.OverheadReference{}
	policy.AnnualGrowthPct = 0
	policy.VirtOverheadPct = 0
	capacity := models.CapacityResult{VCPUCapacity: 10, MemoryCapacityGiB: 10, UsableStorageGiB: 10}

	tests := []struct {
		name     string
		demand   models.WorkloadDemand
		expected models.Dimension
	}{
		{"all equal", models.WorkloadDemand{TotalVCPU: 50, TotalMemoryGiB: 50, StorageGiB: 50}, models.DimensionCPU},
		{"memory and storage tie", models.WorkloadDemand{TotalVCPU: 10, TotalMemoryGiB: 70, StorageGiB: 70}, models.DimensionMemory},
		{"cpu and storage tie", models.WorkloadDemand{TotalVCPU: 70, TotalMemoryGiB: 10, StorageGiB: 70}, models.DimensionCPU},
		{"storage alone", models.WorkloadDemand{TotalVCPU: 10, TotalMemoryGiB: 10, StorageGiB: 70}, models.DimensionStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := SolveRequirements(capacity, policy, tt.demand)
			if req.LimitingDimension != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, req.LimitingDimension)
			}
		})
	}
}

func TestSolveRequirements_ZeroDemand(t *testing.T) {
	policy := referencePolicy()
	capacity := ComputeCapacity(referenceProfile(), policy)

	req := SolveRequirements(capacity, policy, models.WorkloadDemand{})

	if !req.Feasible {
		t.Fatal("Zero demand should be feasible")
	}
	if req.CPUNodes != 0 || req.MemoryNodes != 0 || req.StorageNodes != 0 {
		t.Errorf("Expected zero per-dimension nodes, got %d/%d/%d", req.CPUNodes, req.MemoryNodes, req.StorageNodes)
	}
	if req.QuorumAdjusted != policy.QuorumFloor {
		t.Errorf("Expected baseline at quorum floor %d, got %d", policy.QuorumFloor, req.QuorumAdjusted)
	}
}

func TestSolveRequirements_Infeasible(t *testing.T) {
	policy := referencePolicy()
	profile := referenceProfile()
	profile.PhysicalCores = 10 // 11 cores reserved
	capacity := ComputeCapacity(profile, policy)

	req := SolveRequirements(capacity, policy, referenceDemand())

	if req.Feasible {
		t.Fatal("Expected infeasible requirement")
	}
	if len(req.InfeasibleDimensions) != 1 || req.InfeasibleDimensions[0] != models.DimensionCPU {
		t.Errorf("Expected cpu to be infeasible, got %v", req.InfeasibleDimensions)
	}
	if req.InfeasibleReason == "" {
		t.Error("Expected an infeasible reason")
	}
	if req.LimitingDimension != models.DimensionCPU {
		t.Errorf("Expected cpu as limiting dimension, got %s", req.LimitingDimension)
	}
}

func TestSolveRequirements_ZeroCapacityWithoutDemandIsFeasible(t *testing.T) {
	policy := referencePolicy()
	capacity := models.CapacityResult{VCPUCapacity: 0, MemoryCapacityGiB: 100, UsableStorageGiB: 100}

	req := SolveRequirements(capacity, policy, models.WorkloadDemand{TotalMemoryGiB: 50})

	if !req.Feasible {
		t.Errorf("No CPU demand means zero CPU capacity is fine, got: %s", req.InfeasibleReason)
	}
}
