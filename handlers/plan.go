// ABOUTME: HTTP handlers for cluster planning endpoints
// ABOUTME: Full plans, profile ranking, and explicit efficiency snapshots

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/markalston/vm-migration-sizer/cache"
	"github.com/markalston/vm-migration-sizer/metrics"
	"github.com/markalston/vm-migration-sizer/models"
	"github.com/markalston/vm-migration-sizer/services"
)

// planKey identifies a memoized plan.
type planKey struct {
	Profile models.HardwareProfile
	Policy  models.SizingPolicy
	Demand  models.WorkloadDemand
}

// Plan sizes a cluster for one profile.
// HTTP method validation handled by Go 1.22+ router pattern matching.
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	var req models.PlanRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	profile, ok := h.resolveProfile(r.Context(), w, req.ProfileName, req.Profile)
	if !ok {
		return
	}
	policy, ok := h.resolvePolicy(w, h.defaultPolicy, req.Policy)
	if !ok {
		return
	}

	plan, err := h.plan(profile, policy, req.Demand)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, plan)
}

// plan runs the engine, memoizing results in the TTL cache when one is set.
func (h *Handler) plan(profile models.HardwareProfile, policy models.SizingPolicy, demand models.WorkloadDemand) (models.PlanResult, error) {
	compute := func() (interface{}, error) {
		result, err := h.planningCalc.Plan(profile, policy, demand)
		switch {
		case err != nil:
			metrics.ObservePlan(metrics.OutcomeInvalid, 0)
		case result.Feasible():
			metrics.ObservePlan(metrics.OutcomeFeasible, result.Summary.RecommendedNodes)
		default:
			metrics.ObservePlan(metrics.OutcomeInfeasible, 0)
		}
		return result, err
	}

	if h.cache == nil {
		result, err := compute()
		if err != nil {
			return models.PlanResult{}, err
		}
		return result.(models.PlanResult), nil
	}

	key, err := cache.Key("plan", planKey{Profile: profile, Policy: policy, Demand: demand})
	if err != nil {
		slog.Warn("Plan cache key failed, computing uncached", "error", err)
		result, err := compute()
		if err != nil {
			return models.PlanResult{}, err
		}
		return result.(models.PlanResult), nil
	}

	result, hit, err := h.cache.GetOrLoad(key, compute)
	if err != nil {
		return models.PlanResult{}, err
	}
	metrics.ObservePlanCache(hit)
	if hit {
		slog.Debug("Plan cache hit", "profile", profile.Name)
	}
	return result.(models.PlanResult), nil
}

// Recommend ranks every eligible profile for the workload.
// HTTP method validation handled by Go 1.22+ router pattern matching.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	policy, ok := h.resolvePolicy(w, h.defaultPolicy, req.Policy)
	if !ok {
		return
	}

	profiles := req.Profiles
	source := "request"
	if len(profiles) == 0 {
		var err error
		profiles, err = h.catalog.List(r.Context())
		if err != nil {
			slog.Error("Catalog list failed", "error", err)
			h.writeError(w, "Profile catalog temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		source = h.catalog.SourceName()
	}

	recommendations, err := h.planningCalc.Recommend(profiles, policy, req.Demand)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, models.RecommendResponse{
		Recommendations: recommendations,
		Evaluated:       len(profiles),
		Source:          source,
	})
}

// Efficiency evaluates a caller-chosen node count and failure count.
// HTTP method validation handled by Go 1.22+ router pattern matching.
func (h *Handler) Efficiency(w http.ResponseWriter, r *http.Request) {
	var req models.EfficiencyRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if req.Nodes < 1 {
		h.writeErrorWithDetails(w, "Invalid sizing input", "nodes must be at least 1", http.StatusBadRequest)
		return
	}
	if req.FailedNodes < 0 {
		h.writeErrorWithDetails(w, "Invalid sizing input", "failed_nodes must not be negative", http.StatusBadRequest)
		return
	}

	profile, ok := h.resolveProfile(r.Context(), w, req.ProfileName, req.Profile)
	if !ok {
		return
	}
	policy, ok := h.resolvePolicy(w, h.defaultPolicy, req.Policy)
	if !ok {
		return
	}
	if err := h.planningCalc.Validate(profile, policy, req.Demand); err != nil {
		h.writeEngineError(w, err)
		return
	}

	capacity := services.ComputeCapacity(profile, policy)
	snapshot := services.AnalyzeEfficiency(req.Nodes, req.Demand, capacity, policy, req.FailedNodes)

	h.writeJSON(w, http.StatusOK, snapshot)
}

// PolicyDefaults returns the sizing policy applied when a request omits fields.
func (h *Handler) PolicyDefaults(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.defaultPolicy)
}
