// Package token mints and validates signed bearer credentials. Issuance and
// ledger activation are deliberately separate concerns: the Issuer only signs,
// and the Validator combines signature verification with session ledger state
// to produce a single accept/reject decision.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-token-service/internal/config"
	"github.com/jrsteele09/go-token-service/users"
	"github.com/pkg/errors"
)

// RoleClaim is the custom claim carrying the principal's role.
const RoleClaim = "role"

// IssuedToken is the result of minting a credential. Writing the session
// ledger entries is the caller's responsibility.
type IssuedToken struct {
	Token     string
	ID        string // jti
	Username  string
	Role      users.RoleType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer mints signed, time-bounded credentials for authenticated principals.
type Issuer struct {
	config  config.JWTConfig
	signer  Signer
	nowFunc func() time.Time
}

type IssuerOption func(*Issuer)

// WithIssuerNowFunc sets the clock (primarily for testing).
func WithIssuerNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

// NewIssuer validates the signing configuration up front; a missing key,
// issuer or audience is fatal at startup, not per request.
func NewIssuer(cfg config.JWTConfig, signer Signer, options ...IssuerOption) (*Issuer, error) {
	if cfg == nil {
		return nil, errors.New("[NewIssuer] config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if signer == nil {
		return nil, errors.New("[NewIssuer] signer is required")
	}

	issuer := &Issuer{
		config:  cfg,
		signer:  signer,
		nowFunc: time.Now,
	}

	for _, opt := range options {
		opt(issuer)
	}

	return issuer, nil
}

// Issue mints a credential for a principal that already passed directory
// authentication. Each call generates a fresh jti; no ledger writes happen
// here.
func (i *Issuer) Issue(user *users.User) (*IssuedToken, error) {
	if user == nil || user.Username == "" {
		return nil, errors.New("[Issuer.Issue] user is required")
	}

	now := i.nowFunc()
	expiresAt := now.Add(i.config.GetSessionLifetime())
	jti := uuid.New().String()

	claims := jwt.MapClaims{
		"iss":     i.config.GetIssuer(),
		"sub":     user.Username,
		"aud":     i.config.GetAudience(),
		RoleClaim: string(user.Role),
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
		"jti":     jti,
	}

	signedToken, err := i.signer.Sign(claims)
	if err != nil {
		return nil, errors.Wrap(err, "Issuer.Issue Sign")
	}

	return &IssuedToken{
		Token:     signedToken,
		ID:        jti,
		Username:  user.Username,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}
