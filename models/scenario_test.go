// ABOUTME: Tests for what-if comparison models
// ABOUTME: Validates cluster shape formatting and comparison payload shape

package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPlanResult_ClusterShape(t *testing.T) {
	plan := PlanResult{
		Profile:     HardwareProfile{PhysicalCores: 32, MemoryGiB: 256, DeviceCount: 8, DeviceSizeGiB: 3200},
		Requirement: NodeRequirement{FinalNodeCount: 27},
	}

	if got := plan.ClusterShape(); got != "27×32c/256GiB/8x3200GiB" {
		t.Errorf("Expected '27×32c/256GiB/8x3200GiB', got '%s'", got)
	}
}

func TestPlanComparison_JSONFields(t *testing.T) {
	cmp := PlanComparison{
		Warnings: []ScenarioWarning{{Severity: "warning", Message: "Degraded memory utilization at 80.4%"}},
		Delta:    ScenarioDelta{NodeChange: -3, RedundancyChange: "reduced"},
	}

	data, err := json.Marshal(cmp)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	for _, key := range []string{`"current"`, `"proposed"`, `"warnings"`, `"node_change":-3`, `"redundancy_change":"reduced"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Expected JSON to contain %s, got %s", key, data)
		}
	}
	if strings.Contains(string(data), `"recommendations"`) {
		t.Error("Empty recommendations should be omitted")
	}
}
