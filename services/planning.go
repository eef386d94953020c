// ABOUTME: Sizing pipeline that turns a profile, policy, and demand into a plan
// ABOUTME: Runs capacity, requirements, redundancy, efficiency, and breakdown in order

package services

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/markalston/vm-migration-sizer/models"
)

// PlanningCalculator runs the sizing pipeline. It holds no state and is safe
// for concurrent use.
type PlanningCalculator struct{}

// NewPlanningCalculator creates a new planning calculator
func NewPlanningCalculator() *PlanningCalculator {
	return &PlanningCalculator{}
}

// Validate checks all three inputs and joins every failure.
func (c *PlanningCalculator) Validate(profile models.HardwareProfile, policy models.SizingPolicy, demand models.WorkloadDemand) error {
	return errors.Join(profile.Validate(), policy.Validate(), demand.Validate())
}

// Plan sizes a cluster of profile nodes for demand under policy. Invalid
// inputs return an error; a profile that cannot host the workload returns a
// plan with Feasible() false.
func (c *PlanningCalculator) Plan(profile models.HardwareProfile, policy models.SizingPolicy, demand models.WorkloadDemand) (models.PlanResult, error) {
	if err := c.Validate(profile, policy, demand); err != nil {
		return models.PlanResult{}, err
	}
	if demand.StorageBasis == "" {
		demand.StorageBasis = models.StorageInUse
	}

	capacity := ComputeCapacity(profile, policy)
	requirement := ResolveFinalNodeCount(SolveRequirements(capacity, policy, demand), policy)

	result := models.PlanResult{
		Profile:      profile,
		Policy:       policy,
		Demand:       demand,
		Capacity:     capacity,
		Requirement:  requirement,
		CPURiskLevel: models.CPURiskLevel(policy.CPUOvercommitRatio),
		Summary:      models.PlanSummary{ProfileName: profile.Name},
	}

	if !requirement.Feasible {
		slog.Debug("Profile cannot host workload", "profile", profile.Name, "reason", requirement.InfeasibleReason)
		return result, nil
	}

	final := requirement.FinalNodeCount
	result.Healthy = AnalyzeEfficiency(final, demand, capacity, policy, 0)
	result.Degraded = AnalyzeEfficiency(final, demand, capacity, policy, policy.DegradedFailedNodes)
	result.Breakdown = AllocateBreakdown(profile, policy, demand, capacity, requirement)
	result.Utilization = models.NodeUtilization(capacity, result.Healthy, requirement.EffectiveStorageDemandGiB)
	result.Summary.RecommendedNodes = final
	result.Summary.StorageTiB = round2(float64(final*capacity.UsableStorageGiB) / 1024)

	return result, nil
}

// Recommend plans every profile that supports the target platform and ranks
// the feasible ones by node count, then name.
func (c *PlanningCalculator) Recommend(profiles []models.HardwareProfile, policy models.SizingPolicy, demand models.WorkloadDemand) ([]models.ProfileRecommendation, error) {
	if err := errors.Join(policy.Validate(), demand.Validate()); err != nil {
		return nil, err
	}

	recommendations := make([]models.ProfileRecommendation, 0, len(profiles))
	for _, profile := range profiles {
		if !profile.SupportsTargetPlatform {
			continue
		}

		plan, err := c.Plan(profile, policy, demand)
		if err != nil {
			slog.Warn("Skipping invalid profile", "profile", profile.Name, "error", err)
			continue
		}
		if !plan.Feasible() {
			continue
		}

		recommendations = append(recommendations, models.ProfileRecommendation{
			ProfileName:       profile.Name,
			Label:             profile.Label(),
			NodeCount:         plan.Requirement.FinalNodeCount,
			LimitingDimension: plan.Requirement.LimitingDimension,
			DegradedStatus:    plan.Degraded.Status,
			StorageTiB:        plan.Summary.StorageTiB,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].NodeCount != recommendations[j].NodeCount {
			return recommendations[i].NodeCount < recommendations[j].NodeCount
		}
		return recommendations[i].ProfileName < recommendations[j].ProfileName
	})

	return recommendations, nil
}
