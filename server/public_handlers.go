package server

import (
	"net/http"
	"time"
)

// PublicInfoHandler describes the API surface for unauthenticated callers.
func (s *Server) PublicInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"application": s.config.GetAppName(),
			"version":     "1.0",
			"description": "API with JWT authentication",
			"endpoints": []string{
				"POST " + RouteAuthLogin + " - Obtain a token",
				"POST " + RouteAuthLogout + " - Log out",
				"GET " + RouteAuthValidate + " - Validate a token",
				"GET " + RouteDataUserInfo + " - User details",
				"GET " + RouteDataAdminData + " - Admin data (Admin only)",
				"GET " + RouteDataStats + " - Statistics",
			},
		})
	}
}

// HealthHandler reports liveness.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "Healthy",
			"timestamp": time.Now().UTC(),
			"uptime":    int(time.Since(s.startedAt).Seconds()),
		})
	}
}
