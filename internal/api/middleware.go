// Package api implements the Catime REST API using chi.
package api

import (
	"net/http"
	"strings"
)

// AuthMiddleware guards the font endpoints with a static Bearer token.
// Disabled mode (enabled false) passes everything through, the usual
// setup for a local single-user instance; enabled mode requires a valid
// "Authorization: Bearer <token>" header on every request.
func AuthMiddleware(enabled bool, token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
