// ABOUTME: vSphere client for source VM inventory discovery via govmomi
// ABOUTME: Lists VMs with CPU, memory, and storage figures and aggregates workload demand

package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/markalston/vm-migration-sizer/models"
	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

const bytesPerGiB = 1 << 30

// VSphereCredentials holds vCenter connection info
type VSphereCredentials struct {
	Host       string
	Username   string
	Password   string
	Datacenter string
	Insecure   bool
}

// VSphereClient wraps govmomi client for inventory discovery
type VSphereClient struct {
	creds      VSphereCredentials
	client     *govmomi.Client
	finder     *find.Finder
	datacenter *object.Datacenter
}

// NewVSphereClient creates a new vSphere client
func NewVSphereClient(creds VSphereCredentials) *VSphereClient {
	return &VSphereClient{
		creds: creds,
	}
}

// Connect establishes connection to vCenter
func (v *VSphereClient) Connect(ctx context.Context) error {
	host := v.creds.Host
	if !strings.HasPrefix(host, "https://") && !strings.HasPrefix(host, "http://") {
		host = "https://" + host
	}
	if !strings.HasSuffix(host, "/sdk") {
		host += "/sdk"
	}

	u, err := url.Parse(host)
	if err != nil {
		return fmt.Errorf("invalid vCenter URL '%s': %w", v.creds.Host, err)
	}
	u.User = url.UserPassword(v.creds.Username, v.creds.Password)

	client, err := govmomi.NewClient(ctx, u, v.creds.Insecure)
	if err != nil {
		// Provide more specific error messages
		errStr := err.Error()
		if strings.Contains(errStr, "connection refused") {
			return fmt.Errorf("connection refused to vCenter at %s - verify the host is reachable", v.creds.Host)
		}
		if strings.Contains(errStr, "no such host") {
			return fmt.Errorf("cannot resolve vCenter hostname '%s' - verify DNS", v.creds.Host)
		}
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "Cannot complete login") {
			return fmt.Errorf("authentication failed - verify username and password")
		}
		if strings.Contains(errStr, "certificate") || strings.Contains(errStr, "x509") {
			return fmt.Errorf("SSL certificate error connecting to %s - try setting VSPHERE_INSECURE=true", v.creds.Host)
		}
		return fmt.Errorf("failed to connect to vCenter at %s: %w", v.creds.Host, err)
	}

	v.client = client
	v.finder = find.NewFinder(client.Client, true)

	dc, err := v.finder.DatacenterOrDefault(ctx, v.creds.Datacenter)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("datacenter '%s' not found - verify the datacenter name", v.creds.Datacenter)
		}
		return fmt.Errorf("error accessing datacenter '%s': %w", v.creds.Datacenter, err)
	}
	v.datacenter = dc
	v.finder.SetDatacenter(dc)

	slog.Info("vSphere connected successfully")
	slog.Debug("vSphere connection details", "host", v.creds.Host, "datacenter", dc.Name())
	return nil
}

// Disconnect closes the vCenter connection
func (v *VSphereClient) Disconnect(ctx context.Context) error {
	if v.client != nil {
		return v.client.Logout(ctx)
	}
	return nil
}

// IsConnected returns true if client has an active connection
func (v *VSphereClient) IsConnected() bool {
	return v.client != nil && v.client.Valid()
}

// GetClusterNames returns the compute cluster names in the datacenter
func (v *VSphereClient) GetClusterNames(ctx context.Context) ([]string, error) {
	if v.finder == nil {
		return nil, fmt.Errorf("vSphere client not connected")
	}
	clusters, err := v.finder.ClusterComputeResourceList(ctx, "*")
	if err != nil {
		if _, ok := err.(*find.NotFoundError); ok {
			return nil, nil
		}
		return nil, fmt.Errorf("listing clusters: %w", err)
	}

	names := make([]string, len(clusters))
	for i, c := range clusters {
		names[i] = c.Name()
	}
	return names, nil
}

// ListVMs returns every VM in the datacenter, templates included
func (v *VSphereClient) ListVMs(ctx context.Context) ([]models.VMRecord, error) {
	return v.FilterVMsByPattern(ctx, "*")
}

// FilterVMsByPattern finds VMs matching a name pattern
func (v *VSphereClient) FilterVMsByPattern(ctx context.Context, pattern string) ([]models.VMRecord, error) {
	if v.finder == nil {
		return nil, fmt.Errorf("vSphere client not connected")
	}
	vms, err := v.finder.VirtualMachineList(ctx, pattern)
	if err != nil {
		// No VMs found is not an error
		if _, ok := err.(*find.NotFoundError); ok {
			return nil, nil
		}
		return nil, fmt.Errorf("listing VMs: %w", err)
	}

	hostClusters := make(map[types.ManagedObjectReference]string)
	result := make([]models.VMRecord, 0, len(vms))
	for _, vm := range vms {
		record, err := v.getVMRecord(ctx, vm, hostClusters)
		if err != nil {
			slog.Debug("Skipping unreadable VM", "vm", vm.Name(), "error", err)
			continue
		}
		result = append(result, record)
	}

	return result, nil
}

// getVMRecord retrieves VM configuration and storage usage
func (v *VSphereClient) getVMRecord(ctx context.Context, vm *object.VirtualMachine, hostClusters map[types.ManagedObjectReference]string) (models.VMRecord, error) {
	var vmMo mo.VirtualMachine
	err := vm.Properties(ctx, vm.Reference(), []string{"name", "config", "runtime", "summary"}, &vmMo)
	if err != nil {
		return models.VMRecord{}, err
	}

	record := models.VMRecord{
		Name:       vmMo.Name,
		PowerState: string(vmMo.Runtime.PowerState),
	}
	if record.Name == "" {
		record.Name = vm.Name()
	}

	if vmMo.Config != nil {
		record.VCPUs = int(vmMo.Config.Hardware.NumCPU)
		record.MemoryMiB = int(vmMo.Config.Hardware.MemoryMB)
		record.Template = vmMo.Config.Template

		var diskBytes int64
		for _, device := range vmMo.Config.Hardware.Device {
			if disk, ok := device.(*types.VirtualDisk); ok {
				diskBytes += disk.CapacityInBytes
			}
		}
		record.DiskCapacityGiB = float64(diskBytes) / bytesPerGiB
	}

	if s := vmMo.Summary.Storage; s != nil {
		record.InUseGiB = float64(s.Committed) / bytesPerGiB
		record.ProvisionedGiB = float64(s.Committed+s.Uncommitted) / bytesPerGiB
	}

	if vmMo.Runtime.Host != nil {
		record.Cluster = v.clusterForHost(ctx, *vmMo.Runtime.Host, hostClusters)
	}

	return record, nil
}

// clusterForHost resolves the compute cluster of a host, memoized per listing
func (v *VSphereClient) clusterForHost(ctx context.Context, ref types.ManagedObjectReference, cache map[types.ManagedObjectReference]string) string {
	if name, ok := cache[ref]; ok {
		return name
	}

	var name string
	host := object.NewHostSystem(v.client.Client, ref)
	var hostMo mo.HostSystem
	if err := host.Properties(ctx, host.Reference(), []string{"parent"}, &hostMo); err == nil {
		if hostMo.Parent != nil && hostMo.Parent.Type == "ClusterComputeResource" {
			var clusterMo mo.ClusterComputeResource
			cluster := object.NewClusterComputeResource(v.client.Client, *hostMo.Parent)
			if err := cluster.Properties(ctx, cluster.Reference(), []string{"name"}, &clusterMo); err == nil {
				name = clusterMo.Name
			}
		}
	}

	cache[ref] = name
	return name
}

// InventoryDemand lists the datacenter's VMs and aggregates them into a
// workload demand under the given storage basis.
func (v *VSphereClient) InventoryDemand(ctx context.Context, basis models.StorageBasis, includePoweredOff bool) (models.WorkloadDemand, error) {
	vms, err := v.ListVMs(ctx)
	if err != nil {
		return models.WorkloadDemand{}, fmt.Errorf("listing inventory: %w", err)
	}

	demand := models.AggregateDemand(vms, basis, models.AggregateOptions{IncludePoweredOff: includePoweredOff})
	slog.Info("vSphere inventory aggregated",
		"vms_listed", len(vms),
		"vms_counted", demand.VMCount,
		"storage_basis", demand.StorageBasis,
	)
	return demand, nil
}

// VSphereClientFromEnv creates a client from environment variables
func VSphereClientFromEnv(host, user, pass, datacenter string, insecure bool) *VSphereClient {
	return NewVSphereClient(VSphereCredentials{
		Host:       host,
		Username:   user,
		Password:   pass,
		Datacenter: datacenter,
		Insecure:   insecure,
	})
}
