package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-token-service/users"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUsername stores the authenticated username
	ContextKeyUsername ContextKey = "username"
	// ContextKeyRole stores the authenticated role
	ContextKeyRole ContextKey = "role"
	// ContextKeyToken stores the raw bearer token
	ContextKeyToken ContextKey = "token"
)

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// RequireBearer ensures a bearer credential is present without judging it.
// Handlers behind it decide what an invalid token means; the validate
// endpoint reports isValid=false instead of rejecting the request.
func (s *Server) RequireBearer() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeJSONError(w, "unauthorized", "Missing or malformed Authorization header", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyToken, token)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireAuth validates the bearer token end to end: signature, standard
// claims, then the session ledger. Ledger state is re-checked on every
// request since a previously valid token can become invalid without its
// bytes changing.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeJSONError(w, "unauthorized", "Missing or malformed Authorization header", http.StatusUnauthorized)
				return
			}

			result := s.auth.Validate(token, "")
			if !result.Valid() {
				log.Debug().Str("reason", string(result.Reason)).Str("path", r.URL.Path).Msg("rejected bearer token")
				writeJSONError(w, "unauthorized", "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUsername, result.Username)
			ctx = context.WithValue(ctx, ContextKeyRole, result.Role)
			ctx = context.WithValue(ctx, ContextKeyToken, token)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRole gates a route on the role claim embedded in the validated
// token. Must be chained after RequireAuth.
func (s *Server) RequireRole(role users.RoleType) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			tokenRole, ok := r.Context().Value(ContextKeyRole).(users.RoleType)
			if !ok || tokenRole != role {
				writeJSONError(w, "forbidden", "Insufficient role", http.StatusForbidden)
				return
			}
			next(w, r)
		}
	}
}

// AppCheckMiddleware rejects requests without a User-Agent header. The data
// routes are reserved for the desktop and web clients, which always send one.
func (s *Server) AppCheckMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.UserAgent() == "" {
			writeJSONError(w, "forbidden", "Access only via application", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
