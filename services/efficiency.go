// ABOUTME: Cluster efficiency analyzer for healthy and degraded scenarios
// ABOUTME: Spreads demand over surviving nodes and classifies utilization

package services

import (
	"github.com/markalston/vm-migration-sizer/models"
)

// AnalyzeEfficiency computes per-node allocation and utilization when
// failedNodes of finalNodes are lost. The surviving count never drops below
// the quorum floor; QuorumHealthy reports whether it had to be clamped.
func AnalyzeEfficiency(finalNodes int, demand models.WorkloadDemand, capacity models.CapacityResult, policy models.SizingPolicy, failedNodes int) models.EfficiencySnapshot {
	failedNodes = max(0, failedNodes)
	remaining := finalNodes - failedNodes
	surviving := max(policy.QuorumFloor, remaining, 1)

	eff := ComputeEffectiveDemand(demand, policy)

	snap := models.EfficiencySnapshot{
		FailedNodes:      failedNodes,
		SurvivingNodes:   surviving,
		VMsPerNode:       int(ceilTol(float64(demand.VMCount) / float64(surviving))),
		VCPUPerNode:      int(ceilTol(eff.CPU / float64(surviving))),
		MemoryPerNodeGiB: int(ceilTol(eff.MemoryGiB / float64(surviving))),
		QuorumHealthy:    remaining >= policy.QuorumFloor,
	}
	snap.DataAtRisk = !snap.QuorumHealthy

	var cpuPct, memPct float64
	snap.CPUStatus, cpuPct = classify(snap.VCPUPerNode, capacity.VCPUCapacity)
	snap.MemoryStatus, memPct = classify(snap.MemoryPerNodeGiB, capacity.MemoryCapacityGiB)
	snap.CPUUtilizationPct = round2(cpuPct)
	snap.MemoryUtilizationPct = round2(memPct)
	snap.Status = models.WorstStatus(snap.CPUStatus, snap.MemoryStatus)

	return snap
}

// classify returns the status and utilization of perNode against capacity.
// Demand on a node with no capacity is critical.
func classify(perNode, capacity int) (models.Status, float64) {
	if capacity <= 0 {
		if perNode > 0 {
			return models.StatusCritical, 0
		}
		return models.StatusGood, 0
	}
	pct := float64(perNode) / float64(capacity) * 100
	return models.ClassifyUtilization(pct), pct
}
