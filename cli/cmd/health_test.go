// ABOUTME: Tests for the health command
// ABOUTME: Verifies health check output formatting and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/markalston/vm-migration-sizer/models"
)

func healthServer(t *testing.T, resp models.HealthResponse) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/health" {
			t.Errorf("expected path /api/v1/health, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFormatHealthHuman(t *testing.T) {
	resp := &models.HealthResponse{
		Status:   "ok",
		Catalog:  "ok",
		Source:   "bundled",
		Profiles: 6,
		VSphere:  "not_configured",
	}

	output := formatHealthHuman("http://localhost:8080", resp)

	if !strings.Contains(output, "http://localhost:8080") {
		t.Error("expected output to contain backend URL")
	}
	if !strings.Contains(output, "ok (bundled, 6 profiles)") {
		t.Errorf("expected catalog line, got:\n%s", output)
	}
	if strings.Contains(output, "Catalog Error") {
		t.Error("expected no catalog error line when healthy")
	}
}

func TestFormatHealthHuman_CatalogError(t *testing.T) {
	resp := &models.HealthResponse{Status: "degraded", Catalog: "error", CatalogError: "catalog fetch returned status 502"}

	output := formatHealthHuman("http://localhost:8080", resp)
	if !strings.Contains(output, "Catalog Error: catalog fetch returned status 502") {
		t.Errorf("expected catalog error line, got:\n%s", output)
	}
}

func TestFormatHealthJSON(t *testing.T) {
	resp := &models.HealthResponse{Status: "ok", VSphere: "not_configured"}

	output := formatHealthJSON("http://localhost:8080", resp)

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["backend"] != "http://localhost:8080" {
		t.Errorf("expected backend URL in JSON, got %v", parsed["backend"])
	}
	if parsed["vsphere"] != "not_configured" {
		t.Errorf("expected vsphere status in JSON, got %v", parsed["vsphere"])
	}
}

func TestHealthCommand_Success(t *testing.T) {
	resetOutputFlags(t)
	server := healthServer(t, models.HealthResponse{Status: "ok", Catalog: "ok"})

	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runHealth(context.Background(), &buf)

	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("ok")) {
		t.Error("expected ok in output")
	}
}

func TestHealthCommand_Degraded(t *testing.T) {
	resetOutputFlags(t)
	server := healthServer(t, models.HealthResponse{Status: "degraded", Catalog: "error"})

	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	if exitCode := runHealth(context.Background(), &buf); exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
}

func TestHealthCommand_YAML(t *testing.T) {
	resetOutputFlags(t)
	outputFormat = formatYAML
	server := healthServer(t, models.HealthResponse{Status: "ok", Profiles: 6})

	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	if exitCode := runHealth(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "profiles: 6") {
		t.Errorf("expected YAML output, got:\n%s", buf.String())
	}
}

func TestHealthCommand_ConnectionError(t *testing.T) {
	resetOutputFlags(t)
	apiURL = "http://localhost:99999"
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runHealth(context.Background(), &buf)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Error:")) {
		t.Error("expected error message in output")
	}
}
