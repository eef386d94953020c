// ABOUTME: HTTP handlers for workload demand aggregation
// ABOUTME: Totals posted VM inventories or live vSphere inventory into a WorkloadDemand

package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/markalston/vm-migration-sizer/models"
)

// AggregateDemand totals a posted VM inventory.
// HTTP method validation handled by Go 1.22+ router pattern matching.
func (h *Handler) AggregateDemand(w http.ResponseWriter, r *http.Request) {
	var req models.AggregateRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	basis, err := models.ParseStorageBasis(req.StorageBasis)
	if err != nil {
		h.writeErrorWithDetails(w, "Invalid storage basis", err.Error(), http.StatusBadRequest)
		return
	}

	demand := models.AggregateDemand(req.VMs, basis, models.AggregateOptions{
		IncludePoweredOff: req.IncludePoweredOff,
		Cluster:           req.Cluster,
	})

	h.writeJSON(w, http.StatusOK, models.DemandResponse{
		Demand:     demand,
		Source:     "request",
		VMsScanned: len(req.VMs),
		Timestamp:  time.Now(),
	})
}

// VSphereDemand aggregates demand from the live vSphere inventory.
// Query parameters: basis, include_powered_off, cluster.
func (h *Handler) VSphereDemand(w http.ResponseWriter, r *http.Request) {
	h.vsphereMutex.Lock()
	configured := h.vsphereClient != nil
	h.vsphereMutex.Unlock()
	if !configured {
		h.writeError(w, "vSphere not configured. Set VSPHERE_HOST, VSPHERE_USERNAME, VSPHERE_PASSWORD, and VSPHERE_DATACENTER environment variables.", http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query()
	basis, err := models.ParseStorageBasis(query.Get("basis"))
	if err != nil {
		h.writeErrorWithDetails(w, "Invalid storage basis", err.Error(), http.StatusBadRequest)
		return
	}
	includePoweredOff := false
	if raw := query.Get("include_powered_off"); raw != "" {
		includePoweredOff, err = strconv.ParseBool(raw)
		if err != nil {
			h.writeErrorWithDetails(w, "Invalid include_powered_off", err.Error(), http.StatusBadRequest)
			return
		}
	}
	opts := models.AggregateOptions{IncludePoweredOff: includePoweredOff, Cluster: query.Get("cluster")}

	// Check cache first
	cacheKey := fmt.Sprintf("demand:vsphere:%s:%t:%s", basis, opts.IncludePoweredOff, opts.Cluster)
	if h.cache != nil {
		if cached, found := h.cache.Get(cacheKey); found {
			slog.Debug("vSphere demand cache hit")
			resp := cached.(models.DemandResponse)
			resp.Cached = true
			h.writeJSON(w, http.StatusOK, resp)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	vms, err := h.listVSphereVMs(ctx)
	if err != nil {
		slog.Error("vSphere inventory fetch failed", "error", err)
		h.writeError(w, "Inventory service temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := models.DemandResponse{
		Demand:     models.AggregateDemand(vms, basis, opts),
		Source:     "vsphere",
		VMsScanned: len(vms),
		Timestamp:  time.Now(),
	}

	if h.cache != nil {
		ttl := 5 * time.Minute
		if h.cfg != nil {
			ttl = time.Duration(h.cfg.VSphereCacheTTL) * time.Second
		}
		h.cache.SetWithTTL(cacheKey, resp, ttl)
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) listVSphereVMs(ctx context.Context) ([]models.VMRecord, error) {
	h.vsphereMutex.Lock()
	defer h.vsphereMutex.Unlock()

	if err := h.vsphereClient.Connect(ctx); err != nil {
		return nil, err
	}
	defer h.vsphereClient.Disconnect(ctx)

	return h.vsphereClient.ListVMs(ctx)
}
