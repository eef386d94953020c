// ABOUTME: Request and response bodies for the sizing HTTP API
// ABOUTME: Shared by the service handlers and the CLI API client

package models

import (
	"encoding/json"
	"time"
)

// PlanRequest sizes one profile. Profile wins over ProfileName. Policy is a
// partial SizingPolicy overlaid onto the service defaults.
type PlanRequest struct {
	ProfileName string           `json:"profile_name,omitempty"`
	Profile     *HardwareProfile `json:"profile,omitempty"`
	Policy      json.RawMessage  `json:"policy,omitempty"`
	Demand      WorkloadDemand   `json:"demand"`
}

// RecommendRequest ranks catalog profiles, or Profiles when supplied.
type RecommendRequest struct {
	Profiles []HardwareProfile `json:"profiles,omitempty"`
	Policy   json.RawMessage   `json:"policy,omitempty"`
	Demand   WorkloadDemand    `json:"demand"`
}

// RecommendResponse lists feasible profiles, best first.
type RecommendResponse struct {
	Recommendations []ProfileRecommendation `json:"recommendations"`
	Evaluated       int                     `json:"evaluated"`
	Source          string                  `json:"source"`
}

// CompareRequest compares two policies. Current is overlaid onto the service
// defaults and Proposed is overlaid onto Current.
type CompareRequest struct {
	ProfileName string           `json:"profile_name,omitempty"`
	Profile     *HardwareProfile `json:"profile,omitempty"`
	Demand      WorkloadDemand   `json:"demand"`
	Current     json.RawMessage  `json:"current,omitempty"`
	Proposed    json.RawMessage  `json:"proposed,omitempty"`
}

// EfficiencyRequest evaluates an explicit cluster size.
type EfficiencyRequest struct {
	ProfileName string           `json:"profile_name,omitempty"`
	Profile     *HardwareProfile `json:"profile,omitempty"`
	Policy      json.RawMessage  `json:"policy,omitempty"`
	Demand      WorkloadDemand   `json:"demand"`
	Nodes       int              `json:"nodes"`
	FailedNodes int              `json:"failed_nodes"`
}

// AggregateRequest totals a posted VM inventory.
type AggregateRequest struct {
	VMs               []VMRecord `json:"vms"`
	StorageBasis      string     `json:"storage_basis,omitempty"`
	IncludePoweredOff bool       `json:"include_powered_off,omitempty"`
	Cluster           string     `json:"cluster,omitempty"`
}

// DemandResponse is an aggregated demand with where it came from.
type DemandResponse struct {
	Demand     WorkloadDemand `json:"demand"`
	Source     string         `json:"source"`
	VMsScanned int            `json:"vms_scanned"`
	Cached     bool           `json:"cached"`
	Timestamp  time.Time      `json:"timestamp"`
}

// ProfilesResponse lists catalog profiles.
type ProfilesResponse struct {
	Source   string            `json:"source"`
	Profiles []HardwareProfile `json:"profiles"`
}

// HealthResponse reports service and dependency status.
type HealthResponse struct {
	Status       string `json:"status"`
	Catalog      string `json:"catalog"`
	CatalogError string `json:"catalog_error,omitempty"`
	Profiles     int    `json:"profiles"`
	Source       string `json:"source"`
	VSphere      string `json:"vsphere"`
	CacheEntries int    `json:"cache_entries"`
}

// OverlayPolicy decodes a partial policy document onto base. Fields absent
// from raw keep their base values.
func OverlayPolicy(base SizingPolicy, raw json.RawMessage) (SizingPolicy, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return base, nil
	}
	out := base
	if err := json.Unmarshal(raw, &out); err != nil {
		return SizingPolicy{}, err
	}
	return out, nil
}
