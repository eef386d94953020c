// ABOUTME: CORS middleware for API cross-origin requests
// ABOUTME: Echoes allow-listed origins and answers preflight OPTIONS requests

package middleware

import (
	"net/http"
	"slices"
)

const (
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type, Accept"
)

// CORS returns middleware that allows any origin. Selected when
// CORS_ALLOWED_ORIGINS is "*".
func CORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
		w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// CORSWithConfig returns middleware that only echoes origins in allowed.
// Requests from other origins are served without CORS headers, so the
// browser blocks them. An empty list blocks every cross-origin request.
func CORSWithConfig(allowed []string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && slices.Contains(allowed, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next(w, r)
		}
	}
}

// CORSFor picks the CORS middleware for a CORS_ALLOWED_ORIGINS list. A "*"
// entry allows any origin.
func CORSFor(origins []string) func(http.HandlerFunc) http.HandlerFunc {
	if slices.Contains(origins, "*") {
		return CORS
	}
	return CORSWithConfig(origins)
}
