package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jrsteele09/go-token-service/users"
	"github.com/rs/zerolog/log"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

type validateResponse struct {
	IsValid  bool   `json:"isValid"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message"`
}

// LoginHandler authenticates against the credential directory and returns a
// freshly issued, activated bearer token.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "invalid_request", "Malformed JSON body", http.StatusBadRequest)
			return
		}

		result, err := s.auth.Login(req.Username, req.Password)
		if err != nil {
			if errors.Is(err, users.ErrInvalidCredentials) {
				log.Warn().Str("username", req.Username).Msg("failed login attempt")
				writeJSONError(w, "invalid_credentials", "Invalid username or password", http.StatusUnauthorized)
				return
			}
			log.Error().Err(err).Str("username", req.Username).Msg("login failed")
			writeJSONError(w, "server_error", "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info().Str("username", result.Username).Msg("user logged in")
		writeJSON(w, http.StatusOK, loginResponse{
			Token:     result.Token,
			ExpiresAt: result.ExpiresAt,
			Username:  result.Username,
			Role:      string(result.Role),
		})
	}
}

// LogoutHandler revokes the presented token. The full bearer gate ran before
// this handler, so the token in context verified end to end.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, _ := r.Context().Value(ContextKeyToken).(string)
		username, _ := r.Context().Value(ContextKeyUsername).(string)

		if err := s.auth.Logout(token); err != nil {
			log.Error().Err(err).Str("username", username).Msg("logout failed")
			writeJSONError(w, "server_error", "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info().Str("username", username).Msg("user logged out")
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	}
}

// ValidateHandler reports whether the presented token is still good. An
// invalid-but-well-formed token is an expected outcome: the response is
// always 200 with isValid set accordingly.
func (s *Server) ValidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, _ := r.Context().Value(ContextKeyToken).(string)

		result := s.auth.Validate(token, "")

		message := "Token is invalid"
		if result.Valid() {
			message = "Token is valid"
		}

		writeJSON(w, http.StatusOK, validateResponse{
			IsValid:  result.Valid(),
			Username: result.Username,
			Message:  message,
		})
	}
}
