// ABOUTME: HTTP handlers for the cluster sizing API
// ABOUTME: Holds shared dependencies and JSON request/response helpers

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/markalston/vm-migration-sizer/cache"
	"github.com/markalston/vm-migration-sizer/catalog"
	"github.com/markalston/vm-migration-sizer/config"
	"github.com/markalston/vm-migration-sizer/models"
	"github.com/markalston/vm-migration-sizer/services"
)

// maxRequestBodySize limits JSON request bodies to 1MB to prevent DOS attacks
const maxRequestBodySize = 1 << 20 // 1MB

type Handler struct {
	cfg           *config.Config
	cache         *cache.Cache
	catalog       *catalog.Catalog
	vsphereClient *services.VSphereClient
	vsphereMutex  sync.Mutex // serializes connect/list/disconnect on the shared client
	planningCalc  *services.PlanningCalculator
	scenarioCalc  *services.ScenarioCalculator
	defaultPolicy models.SizingPolicy
}

// NewHandler wires the handlers. Any argument may be nil: a nil catalog
// falls back to the bundled profiles and a nil cache disables memoization.
func NewHandler(cfg *config.Config, c *cache.Cache, cat *catalog.Catalog) *Handler {
	if cat == nil {
		cat = catalog.New(catalog.BundledSource{}, 0)
	}
	h := &Handler{
		cfg:           cfg,
		cache:         c,
		catalog:       cat,
		planningCalc:  services.NewPlanningCalculator(),
		scenarioCalc:  services.NewScenarioCalculator(),
		defaultPolicy: models.DefaultSizingPolicy(),
	}

	if cfg != nil {
		h.defaultPolicy = cfg.DefaultPolicy()

		// vSphere client is optional
		if cfg.VSphereConfigured() {
			h.vsphereClient = services.VSphereClientFromEnv(
				cfg.VSphereHost,
				cfg.VSphereUsername,
				cfg.VSpherePassword,
				cfg.VSphereDatacenter,
				cfg.VSphereInsecure,
			)
		}
	}

	return h
}

// SetVSphereClient replaces the vSphere inventory source.
func (h *Handler) SetVSphereClient(client *services.VSphereClient) {
	h.vsphereMutex.Lock()
	h.vsphereClient = client
	h.vsphereMutex.Unlock()
}

// decodeJSON limits and decodes the request body into v. It writes the
// error response and returns false on failure.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	// Limit request body size to prevent DOS attacks
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeError(w, "Request body too large", http.StatusBadRequest)
			return false
		}
		h.writeErrorWithDetails(w, "Invalid JSON", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// resolveProfile returns the inline profile, or looks name up in the catalog.
func (h *Handler) resolveProfile(ctx context.Context, w http.ResponseWriter, name string, inline *models.HardwareProfile) (models.HardwareProfile, bool) {
	if inline != nil {
		return *inline, true
	}
	if name == "" {
		h.writeError(w, "Either profile_name or profile is required", http.StatusBadRequest)
		return models.HardwareProfile{}, false
	}

	profile, err := h.catalog.Get(ctx, name)
	if err != nil {
		if errors.Is(err, catalog.ErrProfileNotFound) {
			h.writeErrorWithDetails(w, "Profile not found", name, http.StatusNotFound)
			return models.HardwareProfile{}, false
		}
		slog.Error("Catalog lookup failed", "profile", name, "error", err)
		h.writeError(w, "Profile catalog temporarily unavailable", http.StatusServiceUnavailable)
		return models.HardwareProfile{}, false
	}
	return profile, true
}

// resolvePolicy overlays raw onto base and writes a 400 on malformed input.
func (h *Handler) resolvePolicy(w http.ResponseWriter, base models.SizingPolicy, raw json.RawMessage) (models.SizingPolicy, bool) {
	policy, err := models.OverlayPolicy(base, raw)
	if err != nil {
		h.writeErrorWithDetails(w, "Invalid policy", err.Error(), http.StatusBadRequest)
		return models.SizingPolicy{}, false
	}
	return policy, true
}

// writeEngineError maps validation failures to 400 and everything else to 500.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	if models.IsValidationError(err) {
		h.writeErrorWithDetails(w, "Invalid sizing input", err.Error(), http.StatusBadRequest)
		return
	}
	slog.Error("Sizing failed", "error", err)
	h.writeError(w, "Sizing failed", http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeErrorWithDetails(w, message, "", code)
}

func (h *Handler) writeErrorWithDetails(w http.ResponseWriter, message, details string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Error:   message,
		Details: details,
		Code:    code,
	})
}
