// ABOUTME: End-to-end tests for the sizing service
// ABOUTME: Drives inventory aggregation, planning, ranking, and comparison through the real router

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/markalston/vm-migration-sizer/cache"
	"github.com/markalston/vm-migration-sizer/handlers"
	"github.com/markalston/vm-migration-sizer/middleware"
	"github.com/markalston/vm-migration-sizer/models"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c := cache.New(time.Minute)
	t.Cleanup(c.Close)
	h := handlers.NewHandler(nil, c, nil)
	server := httptest.NewServer(newRouter(h, middleware.CORSWithConfig([]string{"https://sizer.example.com"})))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return resp
}

// TestInventoryToPlanE2E aggregates an inventory, then sizes and ranks
// clusters for the resulting demand.
func TestInventoryToPlanE2E(t *testing.T) {
	server := newTestServer(t)

	vms := make([]models.VMRecord, 0, 100)
	for i := 0; i < 100; i++ {
		vms = append(vms, models.VMRecord{
			Name:            "app",
			PowerState:      "poweredOn",
			VCPUs:           4,
			MemoryMiB:       16384,
			ProvisionedGiB:  200,
			InUseGiB:        120,
			DiskCapacityGiB: 200,
		})
	}
	// Templates and powered-off VMs are ignored by default
	vms = append(vms,
		models.VMRecord{Name: "golden", PowerState: "poweredOff", Template: true, VCPUs: 2, MemoryMiB: 4096},
		models.VMRecord{Name: "retired", PowerState: "poweredOff", VCPUs: 16, MemoryMiB: 65536},
	)

	var demandResp models.DemandResponse
	resp := postJSON(t, server.URL+"/api/v1/demand/aggregate", models.AggregateRequest{VMs: vms}, &demandResp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 from aggregate, got %d", resp.StatusCode)
	}
	demand := demandResp.Demand
	if demand.VMCount != 100 || demand.TotalVCPU != 400 || demand.TotalMemoryGiB != 1600 {
		t.Fatalf("Unexpected demand: %+v", demand)
	}
	if demand.StorageGiB != 12000 {
		t.Errorf("Expected 12000 GiB in-use storage, got %v", demand.StorageGiB)
	}

	var plan models.PlanResult
	resp = postJSON(t, server.URL+"/api/v1/plan", models.PlanRequest{ProfileName: "nvme-32c-256g", Demand: demand}, &plan)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 from plan, got %d", resp.StatusCode)
	}
	if !plan.Feasible() {
		t.Fatalf("Expected feasible plan, got %s", plan.Requirement.InfeasibleReason)
	}
	if plan.Summary.RecommendedNodes%plan.Policy.FaultDomainSize != 0 {
		t.Errorf("Expected node count aligned to fault domains, got %d", plan.Summary.RecommendedNodes)
	}
	if plan.Summary.RecommendedNodes < plan.Policy.QuorumFloor {
		t.Errorf("Expected at least quorum nodes, got %d", plan.Summary.RecommendedNodes)
	}
	if len(plan.Breakdown) != 3 {
		t.Errorf("Expected 3 breakdowns, got %d", len(plan.Breakdown))
	}

	var ranked models.RecommendResponse
	resp = postJSON(t, server.URL+"/api/v1/plan/recommend", models.RecommendRequest{Demand: demand}, &ranked)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 from recommend, got %d", resp.StatusCode)
	}
	if len(ranked.Recommendations) == 0 {
		t.Fatal("Expected at least one feasible profile")
	}
	best := ranked.Recommendations[0]
	if best.NodeCount > plan.Summary.RecommendedNodes {
		t.Errorf("Best profile needs %d nodes, more than nvme-32c-256g's %d", best.NodeCount, plan.Summary.RecommendedNodes)
	}
}

// TestCompareE2E checks a what-if that drops overcommit to 1:1.
func TestCompareE2E(t *testing.T) {
	server := newTestServer(t)

	demand := models.WorkloadDemand{VMCount: 250, TotalVCPU: 1000, TotalMemoryGiB: 4000, StorageGiB: 51200, StorageBasis: models.StorageInUse}
	req := models.CompareRequest{
		ProfileName: "nvme-32c-256g",
		Demand:      demand,
		Proposed:    json.RawMessage(`{"cpu_overcommit_ratio":1}`),
	}

	var comparison models.PlanComparison
	resp := postJSON(t, server.URL+"/api/v1/plan/compare", req, &comparison)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 from compare, got %d", resp.StatusCode)
	}
	if comparison.Proposed.Summary.RecommendedNodes < comparison.Current.Summary.RecommendedNodes {
		t.Errorf("Lower overcommit should not need fewer nodes: current %d, proposed %d",
			comparison.Current.Summary.RecommendedNodes, comparison.Proposed.Summary.RecommendedNodes)
	}
	if comparison.Delta.NodeChange != comparison.Proposed.Summary.RecommendedNodes-comparison.Current.Summary.RecommendedNodes {
		t.Errorf("Delta.NodeChange %d does not match plans", comparison.Delta.NodeChange)
	}
}

func TestRouterE2E_MethodsAndMiddleware(t *testing.T) {
	server := newTestServer(t)

	// Wrong method is rejected by the router
	resp, err := http.Get(server.URL + "/api/v1/plan")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET /api/v1/plan, got %d", resp.StatusCode)
	}

	// Non-JSON bodies are rejected
	resp, err = http.Post(server.URL+"/api/v1/plan", "text/plain", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("Expected 415 for text/plain, got %d", resp.StatusCode)
	}

	// Responses carry a request ID
	resp, err = http.Get(server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET health failed: %v", err)
	}
	resp.Body.Close()
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}

	// Preflight from an allowed origin
	preflight, _ := http.NewRequest(http.MethodOptions, server.URL+"/api/v1/plan", nil)
	preflight.Header.Set("Origin", "https://sizer.example.com")
	preflight.Header.Set("Access-Control-Request-Method", "POST")
	resp, err = http.DefaultClient.Do(preflight)
	if err != nil {
		t.Fatalf("OPTIONS failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204 for preflight, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://sizer.example.com" {
		t.Errorf("Expected allowed origin echoed, got %q", got)
	}
}

func TestMetricsEndpointE2E(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 from /metrics, got %d", resp.StatusCode)
	}
}
