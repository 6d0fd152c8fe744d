// Package auth orchestrates the token lifecycle: directory authentication,
// credential issuance, ledger activation, and revocation on logout.
package auth

import (
	"time"

	"github.com/jrsteele09/go-token-service/sessions"
	"github.com/jrsteele09/go-token-service/token"
	"github.com/jrsteele09/go-token-service/users"
	"github.com/pkg/errors"
)

// Repos holds the collaborator dependencies for the Service.
type Repos struct {
	Directory users.Directory // Credential directory
	Ledger    sessions.Ledger // Session ledger
}

// LoginResult is returned to the caller on a successful login.
type LoginResult struct {
	Token     string
	Username  string
	Role      users.RoleType
	ExpiresAt time.Time
}

// Service coordinates the Issuer, Validator and session ledger.
type Service struct {
	repos     Repos
	issuer    *token.Issuer
	validator *token.Validator
	nowTime   func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes a new Service with required dependencies.
func NewService(repos Repos, issuer *token.Issuer, validator *token.Validator, options ...ServiceOption) (*Service, error) {
	if repos.Directory == nil {
		return nil, errors.New("[NewService] Directory is required")
	}
	if repos.Ledger == nil {
		return nil, errors.New("[NewService] Ledger is required")
	}
	if issuer == nil {
		return nil, errors.New("[NewService] issuer is required")
	}
	if validator == nil {
		return nil, errors.New("[NewService] validator is required")
	}

	service := &Service{
		repos:     repos,
		issuer:    issuer,
		validator: validator,
		nowTime:   time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// Login authenticates the principal against the credential directory, mints a
// credential and activates it in the session ledger. Issuance and activation
// are separate steps so a failed activation never leaves a signed token
// half-registered. A fresh login overwrites current(username); it does not
// revoke the token it supersedes, which is rejected by the current-pointer
// check alone from then on.
func (s *Service) Login(username, secret string) (*LoginResult, error) {
	user, err := s.repos.Directory.Authenticate(username, secret)
	if err != nil {
		return nil, err
	}

	issued, err := s.issuer.Issue(user)
	if err != nil {
		return nil, errors.Wrap(err, "Service.Login Issue")
	}

	// Ledger entries share the credential's own lifetime clock.
	ttl := issued.ExpiresAt.Sub(s.nowTime())
	if err := s.repos.Ledger.Activate(issued.Token, issued.Username, ttl); err != nil {
		return nil, errors.Wrap(err, "Service.Login Activate")
	}

	return &LoginResult{
		Token:     issued.Token,
		Username:  issued.Username,
		Role:      issued.Role,
		ExpiresAt: issued.ExpiresAt,
	}, nil
}

// Logout revokes the presented token for the remainder of its natural
// lifetime and clears its active entry. Tokens that fail signature or claim
// verification return InvalidTokenErr; ledger state does not matter here, so
// revoking an already superseded or logged-out token succeeds.
func (s *Service) Logout(rawToken string) error {
	result := s.validator.Validate(rawToken, "")

	switch result.Reason {
	case token.ReasonBadSignature, token.ReasonExpired, token.ReasonBadClaims:
		return InvalidTokenErr
	}

	ttl := result.ExpiresAt.Sub(s.nowTime())
	if ttl <= 0 {
		return InvalidTokenErr
	}

	if err := s.repos.Ledger.Revoke(rawToken, ttl); err != nil {
		return errors.Wrap(err, "Service.Logout Revoke")
	}
	return nil
}

// Validate reports whether the presented token is currently good for the
// claimed username. Invalid tokens are an expected outcome, carried in the
// Result's Reason rather than an error.
func (s *Service) Validate(rawToken, claimedUsername string) token.Result {
	return s.validator.Validate(rawToken, claimedUsername)
}
