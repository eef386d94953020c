// ABOUTME: Workload demand snapshot and VM inventory aggregation
// ABOUTME: Filters powered-on, non-template VMs and totals them under a storage basis

package models

import (
	"fmt"
	"strings"
)

// StorageBasis selects which storage measurement is used as demand.
type StorageBasis string

const (
	StorageProvisioned StorageBasis = "provisioned"
	StorageInUse       StorageBasis = "in_use"
	StorageRawDisk     StorageBasis = "raw_disk"
)

// ParseStorageBasis accepts the canonical names plus a few spellings.
func ParseStorageBasis(s string) (StorageBasis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "in_use", "in-use", "inuse", "used":
		return StorageInUse, nil
	case "provisioned":
		return StorageProvisioned, nil
	case "raw_disk", "raw-disk", "raw", "disk":
		return StorageRawDisk, nil
	default:
		return "", fmt.Errorf("unknown storage basis %q (want provisioned, in_use, or raw_disk)", s)
	}
}

// WorkloadDemand is the aggregate demand of the workload being migrated.
type WorkloadDemand struct {
	VMCount        int          `json:"vm_count"`
	TotalVCPU      float64      `json:"total_vcpu"`
	TotalMemoryGiB float64      `json:"total_memory_gib"`
	StorageGiB     float64      `json:"storage_gib"`
	StorageBasis   StorageBasis `json:"storage_basis"`
}

// IsZero reports whether the demand requests nothing.
func (d WorkloadDemand) IsZero() bool {
	return d.VMCount == 0 && d.TotalVCPU == 0 && d.TotalMemoryGiB == 0 && d.StorageGiB == 0
}

// Demand bounds. Larger totals are rejected before they reach the engine.
const (
	MaxVMCount          = 1_000_000
	MaxTotalVCPU        = 100_000_000
	MaxTotalMemoryGiB   = 1_000_000_000
	MaxDemandStorageGiB = 10_000_000_000
)

// Validate rejects negative, non-finite, or oversized totals and unknown
// storage bases. All failures are joined.
func (d WorkloadDemand) Validate() error {
	checks := []error{
		checkRange("demand.vm_count", float64(d.VMCount), 0, MaxVMCount),
		checkRange("demand.total_vcpu", d.TotalVCPU, 0, MaxTotalVCPU),
		checkRange("demand.total_memory_gib", d.TotalMemoryGiB, 0, MaxTotalMemoryGiB),
		checkRange("demand.storage_gib", d.StorageGiB, 0, MaxDemandStorageGiB),
	}
	switch d.StorageBasis {
	case "", StorageProvisioned, StorageInUse, StorageRawDisk:
	default:
		checks = append(checks, &ValidationError{Field: "demand.storage_basis", Message: fmt.Sprintf("unknown basis %q", d.StorageBasis)})
	}
	return joinChecks(checks)
}

// VMRecord is one virtual machine from the source inventory.
type VMRecord struct {
	Name            string  `json:"name" yaml:"name"`
	PowerState      string  `json:"power_state" yaml:"power_state"`
	Template        bool    `json:"template,omitempty" yaml:"template,omitempty"`
	VCPUs           int     `json:"vcpus" yaml:"vcpus"`
	MemoryMiB       int     `json:"memory_mib" yaml:"memory_mib"`
	ProvisionedGiB  float64 `json:"provisioned_gib" yaml:"provisioned_gib"`
	InUseGiB        float64 `json:"in_use_gib" yaml:"in_use_gib"`
	DiskCapacityGiB float64 `json:"disk_capacity_gib" yaml:"disk_capacity_gib"`
	Cluster         string  `json:"cluster,omitempty" yaml:"cluster,omitempty"`
}

// IsPoweredOn reports whether the VM is running.
func (v VMRecord) IsPoweredOn() bool {
	switch strings.ToLower(v.PowerState) {
	case "poweredon", "powered_on", "on", "running":
		return true
	}
	return false
}

// StorageFor returns the VM's storage figure under the given basis.
func (v VMRecord) StorageFor(basis StorageBasis) float64 {
	switch basis {
	case StorageProvisioned:
		return v.ProvisionedGiB
	case StorageRawDisk:
		return v.DiskCapacityGiB
	default:
		return v.InUseGiB
	}
}

// AggregateOptions controls which VMs contribute to demand.
type AggregateOptions struct {
	IncludePoweredOff bool   `json:"include_powered_off"`
	Cluster           string `json:"cluster,omitempty"` // Empty = all clusters
}

// AggregateDemand totals the relevant subset of an inventory into a WorkloadDemand.
// Templates are always excluded.
func AggregateDemand(vms []VMRecord, basis StorageBasis, opts AggregateOptions) WorkloadDemand {
	if basis == "" {
		basis = StorageInUse
	}
	demand := WorkloadDemand{StorageBasis: basis}

	for _, vm := range vms {
		if vm.Template {
			continue
		}
		if !opts.IncludePoweredOff && !vm.IsPoweredOn() {
			continue
		}
		if opts.Cluster != "" && vm.Cluster != opts.Cluster {
			continue
		}
		demand.VMCount++
		demand.TotalVCPU += float64(vm.VCPUs)
		demand.TotalMemoryGiB += float64(vm.MemoryMiB) / 1024
		demand.StorageGiB += vm.StorageFor(basis)
	}

	return demand
}

// CPURiskLevel returns the risk level based on the vCPU:pCPU overcommit ratio
// Thresholds: ≤4:1 = low, 4:1-8:1 = medium, >8:1 = high
func CPURiskLevel(ratio float64) string {
	if ratio <= 4.0 {
		return "low"
	}
	if ratio <= 8.0 {
		return "medium"
	}
	return "high"
}
