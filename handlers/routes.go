// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import "net/http"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health & catalog
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},
		{Method: http.MethodGet, Path: "/api/v1/profiles", Handler: h.Profiles},
		{Method: http.MethodGet, Path: "/api/v1/policy/defaults", Handler: h.PolicyDefaults},

		// Planning
		{Method: http.MethodPost, Path: "/api/v1/plan", Handler: h.Plan},
		{Method: http.MethodPost, Path: "/api/v1/plan/recommend", Handler: h.Recommend},
		{Method: http.MethodPost, Path: "/api/v1/plan/compare", Handler: h.CompareScenario},
		{Method: http.MethodPost, Path: "/api/v1/efficiency", Handler: h.Efficiency},

		// Demand
		{Method: http.MethodPost, Path: "/api/v1/demand/aggregate", Handler: h.AggregateDemand},
		{Method: http.MethodGet, Path: "/api/v1/demand/vsphere", Handler: h.VSphereDemand},

		// Documentation
		{Method: http.MethodGet, Path: "/api/v1/openapi.yaml", Handler: h.OpenAPISpec},
	}
}
