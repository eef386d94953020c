// ABOUTME: Remediation recommendations for sizing plans
// ABOUTME: Suggests extra nodes, overcommit changes, or a better-balanced profile

package models

import (
	"fmt"
	"math"
	"sort"
)

// RecommendationType defines the type of remediation
type RecommendationType string

const (
	RecommendationAddNodes         RecommendationType = "add_nodes"
	RecommendationRaiseOvercommit  RecommendationType = "raise_overcommit"
	RecommendationRebalanceProfile RecommendationType = "rebalance_profile"
)

// Recommendation represents an actionable change to a sizing plan
type Recommendation struct {
	Type             RecommendationType `json:"type"`
	Priority         int                `json:"priority"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	Impact           string             `json:"impact"`
	ImpactLevel      string             `json:"impact_level"`
	Resource         Dimension          `json:"resource"`
	NodesToAdd       int                `json:"nodes_to_add,omitempty"`
	NewCPUOvercommit float64            `json:"new_cpu_overcommit,omitempty"`
}

// maxSearchNodes bounds the add-nodes search.
const maxSearchNodes = 4096

// GenerateAddNodesRecommendation finds the smallest node count whose degraded
// CPU and memory utilization both fall below the warning threshold. With
// fault-domain alignment only multiples of the domain size are considered.
func GenerateAddNodesRecommendation(plan PlanResult) *Recommendation {
	if !plan.Feasible() || plan.Degraded.Status == StatusGood {
		return nil
	}
	cpuCap := float64(plan.Capacity.VCPUCapacity)
	memCap := float64(plan.Capacity.MemoryCapacityGiB)
	if cpuCap <= 0 || memCap <= 0 {
		return nil
	}

	req := plan.Requirement
	failed := plan.Degraded.FailedNodes
	step := 1
	if plan.Policy.FaultDomainAlignment && plan.Policy.FaultDomainSize > 1 {
		step = plan.Policy.FaultDomainSize
	}
	// Candidates stay on fault-domain multiples when alignment is on.
	start := ((req.FinalNodeCount + step) / step) * step
	for nodes := start; nodes <= maxSearchNodes; nodes += step {
		surviving := nodes - failed
		if surviving < plan.Policy.QuorumFloor {
			surviving = plan.Policy.QuorumFloor
		}
		vcpu := math.Ceil(req.EffectiveCPUDemand/float64(surviving) - 1e-9)
		mem := math.Ceil(req.EffectiveMemoryDemandGiB/float64(surviving) - 1e-9)
		if vcpu/cpuCap*100 < WarningThresholdPct && mem/memCap*100 < WarningThresholdPct {
			toAdd := nodes - req.FinalNodeCount
			resource := DimensionMemory
			if plan.Degraded.CPUUtilizationPct > plan.Degraded.MemoryUtilizationPct {
				resource = DimensionCPU
			}
			return &Recommendation{
				Type:        RecommendationAddNodes,
				Priority:    1,
				Title:       "Add Nodes",
				Description: fmt.Sprintf("Add %d node(s) so the cluster stays below %.0f%% utilization after %d failure(s)", toAdd, WarningThresholdPct, failed),
				Impact:      fmt.Sprintf("Cluster grows from %d to %d nodes", req.FinalNodeCount, nodes),
				ImpactLevel: "high",
				Resource:    resource,
				NodesToAdd:  toAdd,
			}
		}
	}
	return nil
}

// GenerateRaiseOvercommitRecommendation suggests a higher CPU overcommit when CPU limits the plan.
func GenerateRaiseOvercommitRecommendation(plan PlanResult) *Recommendation {
	if !plan.Feasible() || plan.Requirement.LimitingDimension != DimensionCPU {
		return nil
	}
	current := plan.Policy.CPUOvercommitRatio
	if current >= 8 {
		return nil
	}
	proposed := math.Min(current+2, 8)
	return &Recommendation{
		Type:             RecommendationRaiseOvercommit,
		Priority:         2,
		Title:            "Raise CPU Overcommit",
		Description:      fmt.Sprintf("Increase CPU overcommit from %.1f:1 to %.1f:1", current, proposed),
		Impact:           fmt.Sprintf("CPU overcommit risk becomes %s", CPURiskLevel(proposed)),
		ImpactLevel:      "medium",
		Resource:         DimensionCPU,
		NewCPUOvercommit: proposed,
	}
}

// GenerateRebalanceRecommendation flags a profile whose limiting dimension
// needs at least 1.5x the nodes of the next dimension.
func GenerateRebalanceRecommendation(plan PlanResult) *Recommendation {
	if !plan.Feasible() {
		return nil
	}
	req := plan.Requirement
	ranked := RankDimensionsByNodes(req.CPUNodes, req.MemoryNodes, req.StorageNodes)
	if ranked[1].Nodes == 0 || float64(ranked[0].Nodes) < 1.5*float64(ranked[1].Nodes) {
		return nil
	}
	return &Recommendation{
		Type:        RecommendationRebalanceProfile,
		Priority:    3,
		Title:       "Choose a Better-Balanced Profile",
		Description: fmt.Sprintf("%s needs %d nodes while %s needs %d; pick a profile with more %s per node", ranked[0].Dimension, ranked[0].Nodes, ranked[1].Dimension, ranked[1].Nodes, ranked[0].Dimension),
		Impact:      "Reduces stranded capacity in the other dimensions",
		ImpactLevel: "low",
		Resource:    ranked[0].Dimension,
	}
}

// GenerateRecommendations creates a prioritized list of recommendations
func GenerateRecommendations(plan PlanResult) []Recommendation {
	var recs []Recommendation

	if rec := GenerateAddNodesRecommendation(plan); rec != nil {
		recs = append(recs, *rec)
	}
	if rec := GenerateRaiseOvercommitRecommendation(plan); rec != nil {
		recs = append(recs, *rec)
	}
	if rec := GenerateRebalanceRecommendation(plan); rec != nil {
		recs = append(recs, *rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority < recs[j].Priority
	})

	return recs
}
