// ABOUTME: Tests for demand aggregation handlers
// ABOUTME: Covers posted inventories and the vSphere source via the govmomi simulator

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/markalston/vm-migration-sizer/models"
	"github.com/markalston/vm-migration-sizer/services"
	"github.com/vmware/govmomi/simulator"
)

func TestAggregateDemandHandler(t *testing.T) {
	h := newTestHandler(t)

	body := `{
		"vms": [
			{"name":"web-1","power_state":"poweredOn","vcpus":4,"memory_mib":8192,"provisioned_gib":100,"in_use_gib":40,"disk_capacity_gib":100},
			{"name":"db-1","power_state":"poweredOn","vcpus":8,"memory_mib":32768,"provisioned_gib":500,"in_use_gib":300,"disk_capacity_gib":500},
			{"name":"old-1","power_state":"poweredOff","vcpus":2,"memory_mib":4096,"provisioned_gib":50,"in_use_gib":10,"disk_capacity_gib":50},
			{"name":"tmpl","power_state":"poweredOff","template":true,"vcpus":2,"memory_mib":4096,"provisioned_gib":40,"in_use_gib":20,"disk_capacity_gib":40}
		],
		"storage_basis": "provisioned"
	}`
	w := postJSON(t, h.AggregateDemand, "/api/v1/demand/aggregate", body)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.DemandResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.VMsScanned != 4 {
		t.Errorf("Expected 4 VMs scanned, got %d", resp.VMsScanned)
	}
	if resp.Demand.VMCount != 2 {
		t.Errorf("Expected 2 powered-on VMs, got %d", resp.Demand.VMCount)
	}
	if resp.Demand.TotalVCPU != 12 {
		t.Errorf("Expected 12 vCPU, got %v", resp.Demand.TotalVCPU)
	}
	if resp.Demand.TotalMemoryGiB != 40 {
		t.Errorf("Expected 40 GiB memory, got %v", resp.Demand.TotalMemoryGiB)
	}
	if resp.Demand.StorageGiB != 600 {
		t.Errorf("Expected 600 GiB provisioned, got %v", resp.Demand.StorageGiB)
	}
	if resp.Demand.StorageBasis != models.StorageProvisioned {
		t.Errorf("Expected provisioned basis, got %s", resp.Demand.StorageBasis)
	}
}

func TestAggregateDemandHandler_BadBasis(t *testing.T) {
	h := newTestHandler(t)

	w := postJSON(t, h.AggregateDemand, "/api/v1/demand/aggregate", `{"vms":[],"storage_basis":"thin"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestVSphereDemandHandler_NotConfigured(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/demand/vsphere", nil)
	w := httptest.NewRecorder()
	h.VSphereDemand(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestVSphereDemandHandler_Simulator(t *testing.T) {
	model := simulator.VPX()
	if err := model.Create(); err != nil {
		t.Fatalf("Failed to create simulator model: %v", err)
	}
	t.Cleanup(model.Remove)

	server := model.Service.NewServer()
	t.Cleanup(server.Close)

	password, _ := server.URL.User.Password()
	h := newTestHandler(t)
	h.SetVSphereClient(services.NewVSphereClient(services.VSphereCredentials{
		Host:       server.URL.Host,
		Username:   server.URL.User.Username(),
		Password:   password,
		Datacenter: "DC0",
		Insecure:   true,
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/demand/vsphere?basis=provisioned", nil)
	w := httptest.NewRecorder()
	h.VSphereDemand(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.DemandResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Source != "vsphere" {
		t.Errorf("Expected vsphere source, got %s", resp.Source)
	}
	if resp.VMsScanned == 0 || resp.Demand.VMCount == 0 {
		t.Errorf("Expected simulator VMs, got scanned=%d counted=%d", resp.VMsScanned, resp.Demand.VMCount)
	}
	if resp.Cached {
		t.Error("First response should not be cached")
	}

	// Second request is served from cache
	w = httptest.NewRecorder()
	h.VSphereDemand(w, httptest.NewRequest(http.MethodGet, "/api/v1/demand/vsphere?basis=provisioned", nil))
	var cached models.DemandResponse
	if err := json.NewDecoder(w.Body).Decode(&cached); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !cached.Cached {
		t.Error("Expected second response to be cached")
	}
}

func TestVSphereDemandHandler_BadQuery(t *testing.T) {
	h := newTestHandler(t)
	h.SetVSphereClient(services.NewVSphereClient(services.VSphereCredentials{Host: "unused"}))

	for _, query := range []string{"?basis=thin", "?include_powered_off=sometimes"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/demand/vsphere"+query, nil)
		w := httptest.NewRecorder()
		h.VSphereDemand(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", query, w.Code)
		}
	}
}
