// ABOUTME: Shared flags for profile, demand, and sizing policy input
// ABOUTME: Builds engine inputs locally or partial policy overlays for the API

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/markalston/vm-migration-sizer/catalog"
	"github.com/markalston/vm-migration-sizer/models"
	"github.com/spf13/cobra"
)

// demandInput collects workload demand from flags or a JSON file.
type demandInput struct {
	file         string
	vms          int
	vcpu         float64
	memoryGiB    float64
	storageGiB   float64
	storageBasis string
}

func (d *demandInput) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&d.file, "demand-file", "", "JSON file holding a demand document or a VM inventory")
	f.IntVar(&d.vms, "vms", 0, "Number of VMs to migrate")
	f.Float64Var(&d.vcpu, "vcpu", 0, "Total vCPUs across all VMs")
	f.Float64Var(&d.memoryGiB, "memory-gib", 0, "Total configured memory in GiB")
	f.Float64Var(&d.storageGiB, "storage-gib", 0, "Total storage in GiB")
	f.StringVar(&d.storageBasis, "storage-basis", string(models.StorageInUse), "Storage basis: provisioned, in_use, or raw_disk")
}

// load returns the demand. A file wins over the individual flags. The file
// may hold a demand document or an inventory ({"vms": [...]}) which is
// aggregated on the selected storage basis.
func (d *demandInput) load() (models.WorkloadDemand, error) {
	basis, err := models.ParseStorageBasis(d.storageBasis)
	if err != nil {
		return models.WorkloadDemand{}, err
	}

	if d.file == "" {
		demand := models.WorkloadDemand{
			VMCount:        d.vms,
			TotalVCPU:      d.vcpu,
			TotalMemoryGiB: d.memoryGiB,
			StorageGiB:     d.storageGiB,
			StorageBasis:   basis,
		}
		return demand, demand.Validate()
	}

	data, err := os.ReadFile(d.file)
	if err != nil {
		return models.WorkloadDemand{}, fmt.Errorf("reading demand file: %w", err)
	}

	var doc struct {
		models.WorkloadDemand
		VMs []models.VMRecord `json:"vms"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.WorkloadDemand{}, fmt.Errorf("parsing demand file %s: %w", d.file, err)
	}

	demand := doc.WorkloadDemand
	if len(doc.VMs) > 0 {
		demand = models.AggregateDemand(doc.VMs, basis, models.AggregateOptions{})
	}
	if demand.StorageBasis == "" {
		demand.StorageBasis = basis
	}
	return demand, demand.Validate()
}

// policyInput holds the sizing knobs exposed as flags. Only flags the user
// sets are applied, so unset knobs keep the defaults of whoever plans.
type policyInput struct {
	cpuOvercommit       float64
	memoryOvercommit    float64
	hyperthreading      bool
	replicationFactor   int
	operationalPct      float64
	redundancyNodes     int
	evictionPct         float64
	growthPct           float64
	horizonYears        int
	virtOverheadPct     float64
	faultDomains        bool
	degradedFailedNodes int
}

// policyFlag maps a flag name to its JSON policy field.
type policyFlag struct {
	flag  string
	field string
	value func(p *policyInput) interface{}
	apply func(p *policyInput, s *models.SizingPolicy)
}

var policyFlags = []policyFlag{
	{"cpu-overcommit", "cpu_overcommit_ratio",
		func(p *policyInput) interface{} { return p.cpuOvercommit },
		func(p *policyInput, s *models.SizingPolicy) { s.CPUOvercommitRatio = p.cpuOvercommit }},
	{"memory-overcommit", "memory_overcommit_ratio",
		func(p *policyInput) interface{} { return p.memoryOvercommit },
		func(p *policyInput, s *models.SizingPolicy) { s.MemoryOvercommitRatio = p.memoryOvercommit }},
	{"hyperthreading", "hyperthreading_enabled",
		func(p *policyInput) interface{} { return p.hyperthreading },
		func(p *policyInput, s *models.SizingPolicy) { s.HyperthreadingEnabled = p.hyperthreading }},
	{"replication-factor", "replication_factor",
		func(p *policyInput) interface{} { return p.replicationFactor },
		func(p *policyInput, s *models.SizingPolicy) { s.ReplicationFactor = p.replicationFactor }},
	{"operational-pct", "operational_capacity_pct",
		func(p *policyInput) interface{} { return p.operationalPct },
		func(p *policyInput, s *models.SizingPolicy) { s.OperationalCapacityPct = p.operationalPct }},
	{"redundancy-nodes", "redundancy_nodes",
		func(p *policyInput) interface{} { return p.redundancyNodes },
		func(p *policyInput, s *models.SizingPolicy) { s.RedundancyNodes = p.redundancyNodes }},
	{"eviction-pct", "eviction_threshold_pct",
		func(p *policyInput) interface{} { return p.evictionPct },
		func(p *policyInput, s *models.SizingPolicy) { s.EvictionThresholdPct = p.evictionPct }},
	{"growth-pct", "annual_growth_pct",
		func(p *policyInput) interface{} { return p.growthPct },
		func(p *policyInput, s *models.SizingPolicy) { s.AnnualGrowthPct = p.growthPct }},
	{"horizon-years", "planning_horizon_years",
		func(p *policyInput) interface{} { return p.horizonYears },
		func(p *policyInput, s *models.SizingPolicy) { s.PlanningHorizonYears = p.horizonYears }},
	{"virt-overhead-pct", "virt_overhead_pct",
		func(p *policyInput) interface{} { return p.virtOverheadPct },
		func(p *policyInput, s *models.SizingPolicy) { s.VirtOverheadPct = p.virtOverheadPct }},
	{"fault-domains", "fault_domain_alignment",
		func(p *policyInput) interface{} { return p.faultDomains },
		func(p *policyInput, s *models.SizingPolicy) { s.FaultDomainAlignment = p.faultDomains }},
	{"degraded-failed-nodes", "degraded_failed_nodes",
		func(p *policyInput) interface{} { return p.degradedFailedNodes },
		func(p *policyInput, s *models.SizingPolicy) { s.DegradedFailedNodes = p.degradedFailedNodes }},
}

func (p *policyInput) bind(cmd *cobra.Command) {
	d := models.DefaultSizingPolicy()
	f := cmd.Flags()
	f.Float64Var(&p.cpuOvercommit, "cpu-overcommit", d.CPUOvercommitRatio, "vCPU to logical CPU overcommit ratio")
	f.Float64Var(&p.memoryOvercommit, "memory-overcommit", d.MemoryOvercommitRatio, "Memory overcommit ratio")
	f.BoolVar(&p.hyperthreading, "hyperthreading", d.HyperthreadingEnabled, "Count hyperthreads toward CPU capacity")
	f.IntVar(&p.replicationFactor, "replication-factor", d.ReplicationFactor, "Storage replication factor (2 or 3)")
	f.Float64Var(&p.operationalPct, "operational-pct", d.OperationalCapacityPct, "Usable share of post-replication storage")
	f.IntVar(&p.redundancyNodes, "redundancy-nodes", d.RedundancyNodes, "Spare nodes (N+k)")
	f.Float64Var(&p.evictionPct, "eviction-pct", d.EvictionThresholdPct, "Headroom held back for VM eviction")
	f.Float64Var(&p.growthPct, "growth-pct", d.AnnualGrowthPct, "Annual workload growth")
	f.IntVar(&p.horizonYears, "horizon-years", d.PlanningHorizonYears, "Planning horizon in years")
	f.Float64Var(&p.virtOverheadPct, "virt-overhead-pct", d.VirtOverheadPct, "Virtualization overhead applied to storage")
	f.BoolVar(&p.faultDomains, "fault-domains", d.FaultDomainAlignment, "Round node counts to whole fault domains")
	f.IntVar(&p.degradedFailedNodes, "degraded-failed-nodes", d.DegradedFailedNodes, "Failed nodes in the degraded snapshot")
}

// apply returns base with every explicitly set flag applied.
func (p *policyInput) apply(cmd *cobra.Command, base models.SizingPolicy) models.SizingPolicy {
	out := base
	for _, pf := range policyFlags {
		if cmd.Flags().Changed(pf.flag) {
			pf.apply(p, &out)
		}
	}
	return out
}

// overlay returns the explicitly set flags as a partial policy document, or
// nil when none are set.
func (p *policyInput) overlay(cmd *cobra.Command) json.RawMessage {
	fields := map[string]interface{}{}
	for _, pf := range policyFlags {
		if cmd.Flags().Changed(pf.flag) {
			fields[pf.field] = pf.value(p)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	data, _ := json.Marshal(fields)
	return data
}

// profileInput selects a hardware profile by name from a catalog.
type profileInput struct {
	name        string
	catalogFile string
}

func (p *profileInput) bind(cmd *cobra.Command, withName bool) {
	if withName {
		cmd.Flags().StringVarP(&p.name, "profile", "p", "nvme-32c-256g", "Hardware profile name")
	}
	cmd.Flags().StringVar(&p.catalogFile, "catalog-file", "", "YAML profile catalog (default: bundled profiles)")
}

// catalog opens the local profile catalog.
func (p *profileInput) catalog() (*catalog.Catalog, error) {
	source, err := catalog.NewSource(catalog.Options{File: p.catalogFile})
	if err != nil {
		return nil, err
	}
	return catalog.New(source, 0), nil
}

// resolve looks up the named profile in the local catalog.
func (p *profileInput) resolve(ctx context.Context) (models.HardwareProfile, error) {
	cat, err := p.catalog()
	if err != nil {
		return models.HardwareProfile{}, err
	}
	defer cat.Close()
	return cat.Get(ctx, p.name)
}
