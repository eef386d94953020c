// ABOUTME: HTTP handlers for health and catalog listing endpoints
// ABOUTME: Reports catalog and vSphere status and serves the profile list

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/markalston/vm-migration-sizer/models"
)

// Health returns API health status including catalog, vSphere, and cache status.
// A failing catalog marks the service degraded but still answers 200.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:  "ok",
		Catalog: "ok",
		Source:  h.catalog.SourceName(),
		VSphere: "not_configured",
	}

	profiles, err := h.catalog.List(r.Context())
	if err != nil {
		slog.Warn("Catalog unavailable during health check", "error", err)
		resp.Status = "degraded"
		resp.Catalog = "error"
		resp.CatalogError = err.Error()
	} else {
		resp.Profiles = len(profiles)
	}

	h.vsphereMutex.Lock()
	if h.vsphereClient != nil {
		resp.VSphere = "configured"
	}
	h.vsphereMutex.Unlock()

	if h.cache != nil {
		resp.CacheEntries = h.cache.Len()
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// Profiles lists the hardware catalog. ?supported=true drops profiles that
// cannot run the target platform.
func (h *Handler) Profiles(w http.ResponseWriter, r *http.Request) {
	onlySupported := false
	if raw := r.URL.Query().Get("supported"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeErrorWithDetails(w, "Invalid supported filter", err.Error(), http.StatusBadRequest)
			return
		}
		onlySupported = v
	}

	profiles, err := h.catalog.List(r.Context())
	if err != nil {
		slog.Error("Catalog list failed", "error", err)
		h.writeError(w, "Profile catalog temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	if onlySupported {
		filtered := profiles[:0]
		for _, p := range profiles {
			if p.SupportsTargetPlatform {
				filtered = append(filtered, p)
			}
		}
		profiles = filtered
	}

	h.writeJSON(w, http.StatusOK, models.ProfilesResponse{
		Source:   h.catalog.SourceName(),
		Profiles: profiles,
	})
}
