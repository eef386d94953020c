// ABOUTME: Node requirement solver for aggregate workload demand
// ABOUTME: Computes per-dimension node counts and the limiting dimension

package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/markalston/vm-migration-sizer/models"
)

// EffectiveDemand holds workload totals after overheads and growth.
type EffectiveDemand struct {
	CPU              float64
	MemoryGiB        float64
	StorageGiB       float64
	GrowthMultiplier float64
}

// GrowthMultiplier compounds the annual growth rate over the planning horizon.
func GrowthMultiplier(policy models.SizingPolicy) float64 {
	return math.Pow(1+policy.AnnualGrowthPct/100, float64(policy.PlanningHorizonYears))
}

// ComputeEffectiveDemand folds per-VM overheads into CPU and memory, and
// growth plus virtualization overhead into storage.
func ComputeEffectiveDemand(demand models.WorkloadDemand, policy models.SizingPolicy) EffectiveDemand {
	o := policy.Overheads
	vms := float64(demand.VMCount)
	growth := GrowthMultiplier(policy)

	return EffectiveDemand{
		CPU:              demand.TotalVCPU + vms*o.PerVMFixedCPU + demand.TotalVCPU*o.PerVMCPUPct/100,
		MemoryGiB:        demand.TotalMemoryGiB + vms*o.PerVMFixedMemoryGiB + demand.TotalMemoryGiB*o.PerVMMemoryPct/100,
		StorageGiB:       demand.StorageGiB * growth * (1 + policy.VirtOverheadPct/100),
		GrowthMultiplier: growth,
	}
}

// nodesFor returns ceil(demand / perNode). ok is false when demand is positive
// but the node has no capacity for it.
func nodesFor(demand float64, perNode int) (int, bool) {
	if demand <= 0 {
		return 0, true
	}
	if perNode <= 0 {
		return 0, false
	}
	return int(ceilTol(demand / float64(perNode))), true
}

// SolveRequirements computes per-dimension node counts for the demand and the
// quorum-adjusted baseline. A dimension with zero capacity and positive demand
// marks the result infeasible instead of returning an error.
func SolveRequirements(capacity models.CapacityResult, policy models.SizingPolicy, demand models.WorkloadDemand) models.NodeRequirement {
	eff := ComputeEffectiveDemand(demand, policy)

	req := models.NodeRequirement{
		EffectiveCPUDemand:        eff.CPU,
		EffectiveMemoryDemandGiB:  eff.MemoryGiB,
		EffectiveStorageDemandGiB: eff.StorageGiB,
		GrowthMultiplier:          eff.GrowthMultiplier,
		Feasible:                  true,
	}

	var ok bool
	if req.CPUNodes, ok = nodesFor(eff.CPU, capacity.VCPUCapacity); !ok {
		req.InfeasibleDimensions = append(req.InfeasibleDimensions, models.DimensionCPU)
	}
	if req.MemoryNodes, ok = nodesFor(eff.MemoryGiB, capacity.MemoryCapacityGiB); !ok {
		req.InfeasibleDimensions = append(req.InfeasibleDimensions, models.DimensionMemory)
	}
	if req.StorageNodes, ok = nodesFor(eff.StorageGiB, capacity.UsableStorageGiB); !ok {
		req.InfeasibleDimensions = append(req.InfeasibleDimensions, models.DimensionStorage)
	}

	if len(req.InfeasibleDimensions) > 0 {
		req.Feasible = false
		names := make([]string, len(req.InfeasibleDimensions))
		for i, d := range req.InfeasibleDimensions {
			names[i] = string(d)
		}
		req.InfeasibleReason = fmt.Sprintf("profile has no usable %s capacity after reservations", strings.Join(names, ", "))
		req.LimitingDimension = req.InfeasibleDimensions[0]
		return req
	}

	req.LimitingDimension = models.LimitingDimension(req.CPUNodes, req.MemoryNodes, req.StorageNodes)
	req.QuorumAdjusted = BaselineMinimum(req, policy)

	return req
}

// BaselineMinimum is the largest per-dimension node count, never below the quorum floor.
func BaselineMinimum(req models.NodeRequirement, policy models.SizingPolicy) int {
	return max(policy.QuorumFloor, req.CPUNodes, req.MemoryNodes, req.StorageNodes)
}
