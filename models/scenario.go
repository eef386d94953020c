// ABOUTME: Data models for what-if policy comparison
// ABOUTME: Current vs proposed plans with warnings and deltas

package models

import "fmt"

// ScenarioWarning represents a tradeoff warning
type ScenarioWarning struct {
	Severity string `json:"severity"` // "info", "warning", "critical"
	Message  string `json:"message"`
}

// ScenarioDelta represents changes between current and proposed
type ScenarioDelta struct {
	NodeChange                  int     `json:"node_change"`
	UsableStorageChangeGiB      int     `json:"usable_storage_change_gib"`
	DegradedMemoryUtilChangePct float64 `json:"degraded_memory_util_change_pct"`
	DegradedCPUUtilChangePct    float64 `json:"degraded_cpu_util_change_pct"`
	RedundancyChange            string  `json:"redundancy_change"` // "improved", "reduced", "unchanged"
}

// PlanComparison represents full comparison response
type PlanComparison struct {
	Current         PlanResult        `json:"current"`
	Proposed        PlanResult        `json:"proposed"`
	Warnings        []ScenarioWarning `json:"warnings"`
	Delta           ScenarioDelta     `json:"delta"`
	Recommendations []Recommendation  `json:"recommendations,omitempty"`
}

// ClusterShape returns a formatted size string like "27×32c/256GiB/8x3200GiB"
func (p PlanResult) ClusterShape() string {
	return fmt.Sprintf("%d×%s", p.Requirement.FinalNodeCount, p.Profile.Label())
}
