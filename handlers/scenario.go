// ABOUTME: HTTP handler for scenario comparison endpoint
// ABOUTME: Provides what-if analysis comparing current vs proposed sizing policies

package handlers

import (
	"net/http"

	"github.com/markalston/vm-migration-sizer/models"
)

// CompareScenario plans the workload under the current and proposed policies.
// HTTP method validation handled by Go 1.22+ router pattern matching.
func (h *Handler) CompareScenario(w http.ResponseWriter, r *http.Request) {
	var req models.CompareRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	profile, ok := h.resolveProfile(r.Context(), w, req.ProfileName, req.Profile)
	if !ok {
		return
	}
	current, ok := h.resolvePolicy(w, h.defaultPolicy, req.Current)
	if !ok {
		return
	}
	proposed, ok := h.resolvePolicy(w, current, req.Proposed)
	if !ok {
		return
	}

	comparison, err := h.scenarioCalc.Compare(profile, req.Demand, current, proposed)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, comparison)
}
