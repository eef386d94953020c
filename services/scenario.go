// ABOUTME: Scenario calculator for what-if policy analysis
// ABOUTME: Plans current vs proposed policies and reports warnings and deltas

package services

import (
	"fmt"

	"github.com/markalston/vm-migration-sizer/models"
)

// ScenarioCalculator compares two sizing policies for the same workload
type ScenarioCalculator struct {
	planner *PlanningCalculator
}

// NewScenarioCalculator creates a new calculator
func NewScenarioCalculator() *ScenarioCalculator {
	return &ScenarioCalculator{planner: NewPlanningCalculator()}
}

// GenerateWarnings produces warnings based on the proposed plan
func (c *ScenarioCalculator) GenerateWarnings(current, proposed models.PlanResult) []models.ScenarioWarning {
	var warnings []models.ScenarioWarning

	if !proposed.Feasible() {
		return append(warnings, models.ScenarioWarning{
			Severity: "critical",
			Message:  fmt.Sprintf("Proposed policy cannot host the workload: %s", proposed.Requirement.InfeasibleReason),
		})
	}

	// Degraded-state utilization warnings
	degraded := proposed.Degraded
	worst := max(degraded.CPUUtilizationPct, degraded.MemoryUtilizationPct)
	if worst >= models.CriticalThresholdPct {
		warnings = append(warnings, models.ScenarioWarning{
			Severity: "critical",
			Message:  fmt.Sprintf("Exceeds safe utilization with %d failed nodes (%.1f%%)", degraded.FailedNodes, worst),
		})
	} else if worst >= models.WarningThresholdPct {
		warnings = append(warnings, models.ScenarioWarning{
			Severity: "warning",
			Message:  fmt.Sprintf("Approaching capacity limits with %d failed nodes (%.1f%%)", degraded.FailedNodes, worst),
		})
	}

	if degraded.DataAtRisk {
		warnings = append(warnings, models.ScenarioWarning{
			Severity: "critical",
			Message:  fmt.Sprintf("Storage quorum lost with %d failed nodes: data at risk", degraded.FailedNodes),
		})
	}

	// Redundancy reduction warning
	if current.Feasible() && current.Requirement.FinalNodeCount > 0 {
		cur := current.Requirement.FinalNodeCount
		reduction := float64(cur-proposed.Requirement.FinalNodeCount) / float64(cur) * 100
		if reduction >= 50 {
			warnings = append(warnings, models.ScenarioWarning{
				Severity: "warning",
				Message:  "Significant redundancy reduction",
			})
		}
	}

	if proposed.Policy.CPUOvercommitRatio > current.Policy.CPUOvercommitRatio && proposed.CPURiskLevel == "high" {
		warnings = append(warnings, models.ScenarioWarning{
			Severity: "info",
			Message:  fmt.Sprintf("CPU overcommit of %.1f:1 carries high contention risk", proposed.Policy.CPUOvercommitRatio),
		})
	}

	return warnings
}

// Compare plans the workload under both policies and computes the delta
func (c *ScenarioCalculator) Compare(profile models.HardwareProfile, demand models.WorkloadDemand, current, proposed models.SizingPolicy) (models.PlanComparison, error) {
	currentPlan, err := c.planner.Plan(profile, current, demand)
	if err != nil {
		return models.PlanComparison{}, fmt.Errorf("current policy: %w", err)
	}
	proposedPlan, err := c.planner.Plan(profile, proposed, demand)
	if err != nil {
		return models.PlanComparison{}, fmt.Errorf("proposed policy: %w", err)
	}

	currentNodes := currentPlan.Requirement.FinalNodeCount
	proposedNodes := proposedPlan.Requirement.FinalNodeCount

	var redundancyChange string
	if proposedNodes > currentNodes {
		redundancyChange = "improved"
	} else if proposedNodes < currentNodes {
		redundancyChange = "reduced"
	} else {
		redundancyChange = "unchanged"
	}

	return models.PlanComparison{
		Current:  currentPlan,
		Proposed: proposedPlan,
		Warnings: c.GenerateWarnings(currentPlan, proposedPlan),
		Delta: models.ScenarioDelta{
			NodeChange:                  proposedNodes - currentNodes,
			UsableStorageChangeGiB:      proposedNodes*proposedPlan.Capacity.UsableStorageGiB - currentNodes*currentPlan.Capacity.UsableStorageGiB,
			DegradedMemoryUtilChangePct: round2(proposedPlan.Degraded.MemoryUtilizationPct - currentPlan.Degraded.MemoryUtilizationPct),
			DegradedCPUUtilChangePct:    round2(proposedPlan.Degraded.CPUUtilizationPct - currentPlan.Degraded.CPUUtilizationPct),
			RedundancyChange:            redundancyChange,
		},
		Recommendations: models.GenerateRecommendations(proposedPlan),
	}, nil
}
