package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/go-token-service/users"
)

// UserInfoHandler returns the authenticated principal's details.
func (s *Server) UserInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, _ := r.Context().Value(ContextKeyUsername).(string)
		role, _ := r.Context().Value(ContextKeyRole).(users.RoleType)

		writeJSON(w, http.StatusOK, map[string]any{
			"message":   fmt.Sprintf("Hello, %s!", username),
			"username":  username,
			"role":      string(role),
			"timestamp": time.Now().UTC(),
			"data":      []string{"Record 1", "Record 2", "Record 3"},
		})
	}
}

// AdminDataHandler is gated on the Admin role claim.
func (s *Server) AdminDataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":     "This is administrative data",
			"secretInfo":  "Available to administrators only",
			"accessLevel": "Administrator",
		})
	}
}

// StatsHandler returns demonstration statistics for the principal.
func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, _ := r.Context().Value(ContextKeyUsername).(string)
		now := time.Now().UTC()

		writeJSON(w, http.StatusOK, map[string]any{
			"user":          username,
			"lastLogin":     now.Add(-1 * time.Hour),
			"totalRequests": 42,
			"activeSince":   now.AddDate(0, 0, -7),
		})
	}
}
