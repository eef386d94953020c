// ABOUTME: Multi-resource bottleneck analysis for cluster sizing
// ABOUTME: Ranks dimensions by node count and per-node utilization

package models

import (
	"fmt"
	"math"
	"sort"
)

// ResourceUtilization represents the per-node utilization of a single dimension
type ResourceUtilization struct {
	Name           Dimension `json:"name"`
	UsedPercent    float64   `json:"used_percent"`
	TotalCapacity  int       `json:"total_capacity"`
	UsedCapacity   int       `json:"used_capacity"`
	Unit           string    `json:"unit"`
	IsConstraining bool      `json:"is_constraining"`
}

// RankResourcesByUtilization sorts resources by utilization percentage in descending order
// and marks the highest utilization resource as constraining.
func RankResourcesByUtilization(resources []ResourceUtilization) []ResourceUtilization {
	if len(resources) == 0 {
		return resources
	}

	// Make a copy to avoid modifying the original slice
	ranked := make([]ResourceUtilization, len(resources))
	copy(ranked, resources)

	// Stable sort by utilization descending (preserves original order for equal values)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].UsedPercent > ranked[j].UsedPercent
	})

	for i := range ranked {
		ranked[i].IsConstraining = (i == 0)
	}

	return ranked
}

// GetConstrainingResource returns the resource with the highest utilization
func GetConstrainingResource(resources []ResourceUtilization) *ResourceUtilization {
	if len(resources) == 0 {
		return nil
	}

	ranked := RankResourcesByUtilization(resources)
	return &ranked[0]
}

// DimensionNodes pairs a dimension with the node count it demands.
type DimensionNodes struct {
	Dimension Dimension `json:"dimension"`
	Nodes     int       `json:"nodes"`
}

// RankDimensionsByNodes orders dimensions by node count, largest first.
// Ties keep the precedence CPU > memory > storage.
func RankDimensionsByNodes(cpuNodes, memoryNodes, storageNodes int) []DimensionNodes {
	ranked := []DimensionNodes{
		{Dimension: DimensionCPU, Nodes: cpuNodes},
		{Dimension: DimensionMemory, Nodes: memoryNodes},
		{Dimension: DimensionStorage, Nodes: storageNodes},
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Nodes > ranked[j].Nodes
	})
	return ranked
}

// LimitingDimension returns the dimension demanding the most nodes.
func LimitingDimension(cpuNodes, memoryNodes, storageNodes int) Dimension {
	return RankDimensionsByNodes(cpuNodes, memoryNodes, storageNodes)[0].Dimension
}

// NodeUtilization builds the per-node utilization list for a snapshot.
// Storage utilization spreads the effective storage demand over surviving nodes.
func NodeUtilization(capacity CapacityResult, snapshot EfficiencySnapshot, effectiveStorageGiB float64) []ResourceUtilization {
	var resources []ResourceUtilization

	if capacity.VCPUCapacity > 0 {
		resources = append(resources, ResourceUtilization{
			Name:          DimensionCPU,
			UsedPercent:   snapshot.CPUUtilizationPct,
			TotalCapacity: capacity.VCPUCapacity,
			UsedCapacity:  snapshot.VCPUPerNode,
			Unit:          "vCPU",
		})
	}

	if capacity.MemoryCapacityGiB > 0 {
		resources = append(resources, ResourceUtilization{
			Name:          DimensionMemory,
			UsedPercent:   snapshot.MemoryUtilizationPct,
			TotalCapacity: capacity.MemoryCapacityGiB,
			UsedCapacity:  snapshot.MemoryPerNodeGiB,
			Unit:          "GiB",
		})
	}

	if capacity.UsableStorageGiB > 0 && snapshot.SurvivingNodes > 0 {
		perNode := int(math.Ceil(effectiveStorageGiB/float64(snapshot.SurvivingNodes) - 1e-9))
		resources = append(resources, ResourceUtilization{
			Name:          DimensionStorage,
			UsedPercent:   float64(perNode) / float64(capacity.UsableStorageGiB) * 100,
			TotalCapacity: capacity.UsableStorageGiB,
			UsedCapacity:  perNode,
			Unit:          "GiB",
		})
	}

	return RankResourcesByUtilization(resources)
}

// BottleneckSummary generates a human-readable summary of ranked utilization
func BottleneckSummary(ranked []ResourceUtilization) string {
	if len(ranked) == 0 {
		return "No resources to analyze."
	}

	constraining := ranked[0]
	return fmt.Sprintf("%s is your constraint at %.1f%% per-node utilization.",
		constraining.Name, constraining.UsedPercent)
}
