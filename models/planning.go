// ABOUTME: Data models for cluster sizing results
// ABOUTME: Per-node capacity, node requirements, efficiency snapshots, and breakdowns

package models

// CapacityResult holds usable per-node capacity and the inputs that produced it.
type CapacityResult struct {
	VCPUCapacity      int     `json:"vcpu_capacity"`       // Usable vCPUs per node
	MemoryCapacityGiB int     `json:"memory_capacity_gib"` // Usable memory per node
	UsableStorageGiB  int     `json:"usable_storage_gib"`  // Usable storage per node
	ReservedCPU       float64 `json:"reserved_cpu"`
	ReservedMemoryGiB float64 `json:"reserved_memory_gib"`
	PhysicalCores     int     `json:"physical_cores"`
	MemoryGiB         float64 `json:"memory_gib"`
	RawStorageGiB     float64 `json:"raw_storage_gib"`
	ThreadMultiplier  float64 `json:"thread_multiplier"`
}

// For returns the per-node capacity of a dimension.
func (c CapacityResult) For(d Dimension) int {
	switch d {
	case DimensionCPU:
		return c.VCPUCapacity
	case DimensionMemory:
		return c.MemoryCapacityGiB
	case DimensionStorage:
		return c.UsableStorageGiB
	}
	return 0
}

// NodeRequirement is the node count derivation from demand to the final total.
type NodeRequirement struct {
	CPUNodes                  int         `json:"cpu_nodes"`
	MemoryNodes               int         `json:"memory_nodes"`
	StorageNodes              int         `json:"storage_nodes"`
	LimitingDimension         Dimension   `json:"limiting_dimension"`
	EffectiveCPUDemand        float64     `json:"effective_cpu_demand"`
	EffectiveMemoryDemandGiB  float64     `json:"effective_memory_demand_gib"`
	EffectiveStorageDemandGiB float64     `json:"effective_storage_demand_gib"`
	GrowthMultiplier          float64     `json:"growth_multiplier"`
	QuorumAdjusted            int         `json:"quorum_adjusted"`
	EvictionAdjusted          int         `json:"eviction_adjusted"`
	RedundancyAdjusted        int         `json:"redundancy_adjusted"` // Pre-rounding total
	FinalNodeCount            int         `json:"final_node_count"`
	Feasible                  bool        `json:"feasible"`
	InfeasibleDimensions      []Dimension `json:"infeasible_dimensions,omitempty"`
	InfeasibleReason          string      `json:"infeasible_reason,omitempty"`
}

// NodesFor returns the per-dimension node count.
func (r NodeRequirement) NodesFor(d Dimension) int {
	switch d {
	case DimensionCPU:
		return r.CPUNodes
	case DimensionMemory:
		return r.MemoryNodes
	case DimensionStorage:
		return r.StorageNodes
	}
	return 0
}

// EfficiencySnapshot is per-node allocation and utilization for one scenario.
type EfficiencySnapshot struct {
	FailedNodes          int     `json:"failed_nodes"`
	SurvivingNodes       int     `json:"surviving_nodes"`
	VMsPerNode           int     `json:"vms_per_node"`
	VCPUPerNode          int     `json:"vcpu_per_node"`
	MemoryPerNodeGiB     int     `json:"memory_per_node_gib"`
	CPUUtilizationPct    float64 `json:"cpu_utilization_pct"`
	MemoryUtilizationPct float64 `json:"memory_utilization_pct"`
	CPUStatus            Status  `json:"cpu_status"`
	MemoryStatus         Status  `json:"memory_status"`
	Status               Status  `json:"status"`
	QuorumHealthy        bool    `json:"quorum_healthy"`
	DataAtRisk           bool    `json:"data_at_risk"`
}

// Segment is one named share of a dimension's raw capacity.
type Segment struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// ResourceBreakdown decomposes the cluster's raw capacity in one dimension.
type ResourceBreakdown struct {
	Dimension Dimension `json:"dimension"`
	Unit      string    `json:"unit"`
	RawTotal  float64   `json:"raw_total"`
	Segments  []Segment `json:"segments"`
}

// Segment returns the named segment, if present.
func (b ResourceBreakdown) Segment(name string) (Segment, bool) {
	for _, s := range b.Segments {
		if s.Name == name {
			return s, true
		}
	}
	return Segment{}, false
}

// Sum returns the total of all segments.
func (b ResourceBreakdown) Sum() float64 {
	var total float64
	for _, s := range b.Segments {
		total += s.Value
	}
	return total
}

// PlanSummary is the scalar hand-off to cost and migration-wave planning.
type PlanSummary struct {
	RecommendedNodes int     `json:"recommended_nodes"`
	ProfileName      string  `json:"profile_name"`
	StorageTiB       float64 `json:"storage_tib"` // Usable storage of the final cluster
}

// PlanResult is the complete output of one sizing run.
type PlanResult struct {
	Profile      HardwareProfile       `json:"profile"`
	Policy       SizingPolicy          `json:"policy"`
	Demand       WorkloadDemand        `json:"demand"`
	Capacity     CapacityResult        `json:"capacity"`
	Requirement  NodeRequirement       `json:"requirement"`
	Healthy      EfficiencySnapshot    `json:"healthy"`
	Degraded     EfficiencySnapshot    `json:"degraded"`
	Breakdown    []ResourceBreakdown   `json:"breakdown"`
	Utilization  []ResourceUtilization `json:"utilization"`
	CPURiskLevel string                `json:"cpu_risk_level"`
	Summary      PlanSummary           `json:"summary"`
}

// Feasible reports whether the profile can host the workload.
func (p PlanResult) Feasible() bool {
	return p.Requirement.Feasible
}

// ProfileRecommendation ranks one catalog profile for a workload.
type ProfileRecommendation struct {
	ProfileName       string    `json:"profile_name"`
	Label             string    `json:"label"`
	NodeCount         int       `json:"node_count"`
	LimitingDimension Dimension `json:"limiting_dimension"`
	DegradedStatus    Status    `json:"degraded_status"`
	StorageTiB        float64   `json:"storage_tib"`
}
