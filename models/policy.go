// ABOUTME: Sizing policy settings with bounded validation
// ABOUTME: Overcommit, replication, headroom, redundancy, growth, and overhead constants

package models

import (
	"errors"
	"fmt"
	"math"
)

// ReservationPolicy holds fixed and per-device infrastructure reservations per node.
type ReservationPolicy struct {
	SystemCPU                 float64 `json:"system_cpu" yaml:"system_cpu"`
	SystemMemoryGiB           float64 `json:"system_memory_gib" yaml:"system_memory_gib"`
	StorageBaseCPU            float64 `json:"storage_base_cpu" yaml:"storage_base_cpu"`
	StorageBaseMemoryGiB      float64 `json:"storage_base_memory_gib" yaml:"storage_base_memory_gib"`
	StoragePerDeviceCPU       float64 `json:"storage_per_device_cpu" yaml:"storage_per_device_cpu"`
	StoragePerDeviceMemoryGiB float64 `json:"storage_per_device_memory_gib" yaml:"storage_per_device_memory_gib"`
}

// OverheadReference holds per-VM overhead constants. Supplied as versioned data.
type OverheadReference struct {
	Version             string  `json:"version,omitempty" yaml:"version"`
	PerVMFixedCPU       float64 `json:"per_vm_fixed_cpu" yaml:"per_vm_fixed_cpu"`
	PerVMCPUPct         float64 `json:"per_vm_cpu_pct" yaml:"per_vm_cpu_pct"`
	PerVMFixedMemoryGiB float64 `json:"per_vm_fixed_memory_gib" yaml:"per_vm_fixed_memory_gib"`
	PerVMMemoryPct      float64 `json:"per_vm_memory_pct" yaml:"per_vm_memory_pct"`
}

// SizingPolicy is the full set of sizing knobs. Passed by value; never shared.
type SizingPolicy struct {
	CPUOvercommitRatio       float64 `json:"cpu_overcommit_ratio"`
	HyperthreadingEnabled    bool    `json:"hyperthreading_enabled"`
	HyperthreadingMultiplier float64 `json:"hyperthreading_multiplier"`
	MemoryOvercommitRatio    float64 `json:"memory_overcommit_ratio"`
	ReplicationFactor        int     `json:"replication_factor"`
	OperationalCapacityPct   float64 `json:"operational_capacity_pct"`
	MetadataOverheadPct      float64 `json:"metadata_overhead_pct"`
	RedundancyNodes          int     `json:"redundancy_nodes"`
	EvictionThresholdPct     float64 `json:"eviction_threshold_pct"`
	AnnualGrowthPct          float64 `json:"annual_growth_pct"`
	PlanningHorizonYears     int     `json:"planning_horizon_years"`
	VirtOverheadPct          float64 `json:"virt_overhead_pct"`
	QuorumFloor              int     `json:"quorum_floor"`
	FaultDomainAlignment     bool    `json:"fault_domain_alignment"`
	FaultDomainSize          int     `json:"fault_domain_size"`
	DegradedFailedNodes      int     `json:"degraded_failed_nodes"`

	Reservations ReservationPolicy `json:"reservations"`
	Overheads    OverheadReference `json:"overheads"`
}

// DefaultOverheadReference returns the bundled per-VM overhead constants.
func DefaultOverheadReference() OverheadReference {
	return OverheadReference{
		Version:             "2024.1",
		PerVMFixedCPU:       0.1,
		PerVMCPUPct:         0,
		PerVMFixedMemoryGiB: 0.2,
		PerVMMemoryPct:      1,
	}
}

// DefaultReservationPolicy returns the default node reservations.
func DefaultReservationPolicy() ReservationPolicy {
	return ReservationPolicy{
		SystemCPU:                 1,
		SystemMemoryGiB:           4,
		StorageBaseCPU:            2,
		StorageBaseMemoryGiB:      8,
		StoragePerDeviceCPU:       1,
		StoragePerDeviceMemoryGiB: 5,
	}
}

// DefaultSizingPolicy returns the policy used when the caller supplies none.
func DefaultSizingPolicy() SizingPolicy {
	return SizingPolicy{
		CPUOvercommitRatio:       4,
		HyperthreadingEnabled:    true,
		HyperthreadingMultiplier: 1.25,
		MemoryOvercommitRatio:    1,
		ReplicationFactor:        3,
		OperationalCapacityPct:   75,
		MetadataOverheadPct:      15,
		RedundancyNodes:          1,
		EvictionThresholdPct:     10,
		AnnualGrowthPct:          10,
		PlanningHorizonYears:     3,
		VirtOverheadPct:          15,
		QuorumFloor:              3,
		FaultDomainAlignment:     true,
		FaultDomainSize:          3,
		DegradedFailedNodes:      2,
		Reservations:             DefaultReservationPolicy(),
		Overheads:                DefaultOverheadReference(),
	}
}

// ThreadMultiplier returns the hyperthreading multiplier, or 1 when disabled.
func (p SizingPolicy) ThreadMultiplier() float64 {
	if p.HyperthreadingEnabled {
		return p.HyperthreadingMultiplier
	}
	return 1
}

// ValidationError reports a policy or input field outside its documented bound.
type ValidationError struct {
	Field   string  `json:"field"`
	Value   float64 `json:"value"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Message string  `json:"message,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s must be between %g and %g, got %g", e.Field, e.Min, e.Max, e.Value)
}

// IsValidationError reports whether err contains a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidationErrors unpacks every ValidationError joined into err.
func ValidationErrors(err error) []*ValidationError {
	if err == nil {
		return nil
	}
	var out []*ValidationError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, ValidationErrors(e)...)
		}
		return out
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		out = append(out, ve)
	}
	return out
}

func checkRange(field string, value, min, max float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &ValidationError{Field: field, Min: min, Max: max,
			Message: fmt.Sprintf("must be a finite number between %g and %g", min, max)}
	}
	if value < min || value > max {
		return &ValidationError{Field: field, Value: value, Min: min, Max: max}
	}
	return nil
}

// joinChecks joins the non-nil errors in checks.
func joinChecks(checks []error) error {
	var errs []error
	for _, err := range checks {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Validate checks every field against its bound. All failures are joined.
func (p SizingPolicy) Validate() error {
	checks := []error{
		checkRange("cpu_overcommit_ratio", p.CPUOvercommitRatio, 1, 20),
		checkRange("hyperthreading_multiplier", p.HyperthreadingMultiplier, 1, 2),
		checkRange("memory_overcommit_ratio", p.MemoryOvercommitRatio, 1, 4),
		checkRange("replication_factor", float64(p.ReplicationFactor), 2, 5),
		checkRange("operational_capacity_pct", p.OperationalCapacityPct, 0, 100),
		checkRange("metadata_overhead_pct", p.MetadataOverheadPct, 0, 100),
		checkRange("redundancy_nodes", float64(p.RedundancyNodes), 0, 16),
		checkRange("eviction_threshold_pct", p.EvictionThresholdPct, 0, 90),
		checkRange("annual_growth_pct", p.AnnualGrowthPct, 0, 100),
		checkRange("planning_horizon_years", float64(p.PlanningHorizonYears), 0, 10),
		checkRange("virt_overhead_pct", p.VirtOverheadPct, 0, 100),
		checkRange("quorum_floor", float64(p.QuorumFloor), 1, 16),
		checkRange("fault_domain_size", float64(p.FaultDomainSize), 1, 16),
		checkRange("degraded_failed_nodes", float64(p.DegradedFailedNodes), 0, 16),
	}
	checks = append(checks, p.Reservations.validate()...)
	checks = append(checks, p.Overheads.Validate()...)
	return joinChecks(checks)
}

func (r ReservationPolicy) validate() []error {
	return []error{
		checkRange("reservations.system_cpu", r.SystemCPU, 0, 256),
		checkRange("reservations.system_memory_gib", r.SystemMemoryGiB, 0, 4096),
		checkRange("reservations.storage_base_cpu", r.StorageBaseCPU, 0, 256),
		checkRange("reservations.storage_base_memory_gib", r.StorageBaseMemoryGiB, 0, 4096),
		checkRange("reservations.storage_per_device_cpu", r.StoragePerDeviceCPU, 0, 64),
		checkRange("reservations.storage_per_device_memory_gib", r.StoragePerDeviceMemoryGiB, 0, 512),
	}
}

// Validate checks the overhead constants. Returned slice may contain nils.
func (o OverheadReference) Validate() []error {
	return []error{
		checkRange("overheads.per_vm_fixed_cpu", o.PerVMFixedCPU, 0, 64),
		checkRange("overheads.per_vm_cpu_pct", o.PerVMCPUPct, 0, 100),
		checkRange("overheads.per_vm_fixed_memory_gib", o.PerVMFixedMemoryGiB, 0, 512),
		checkRange("overheads.per_vm_memory_pct", o.PerVMMemoryPct, 0, 100),
	}
}
