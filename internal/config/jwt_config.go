package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	signingKeyEnvVar      = "JWT_KEY"
	issuerEnvVar          = "JWT_ISSUER"
	audienceEnvVar        = "JWT_AUDIENCE"
	sessionLifetimeEnvVar = "SESSION_LIFETIME"

	// DefaultSessionLifetime bounds every issued credential and all ledger
	// entries derived from it.
	DefaultSessionLifetime = 8 * time.Hour
)

type JWTConfig interface {
	GetSigningKey() string
	GetIssuer() string
	GetAudience() string
	GetSessionLifetime() time.Duration
	Validate() error
}

// ConfigurationError reports missing signing configuration. It is fatal at
// startup, never a per-request outcome.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// JWT holds the signing configuration, loaded once at process start and
// treated as immutable thereafter.
type JWT struct {
	signingKey      string
	issuer          string
	audience        string
	sessionLifetime time.Duration
}

var _ JWTConfig = JWT{}

func NewJWT(signingKey, issuer, audience string, sessionLifetime time.Duration) JWT {
	if sessionLifetime <= 0 {
		sessionLifetime = DefaultSessionLifetime
	}
	return JWT{
		signingKey:      signingKey,
		issuer:          issuer,
		audience:        audience,
		sessionLifetime: sessionLifetime,
	}
}

func jwtFromEnv() JWT {
	lifetime := DefaultSessionLifetime
	if raw := GetEnv(sessionLifetimeEnvVar, ""); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			lifetime = parsed
		}
	}

	return NewJWT(
		GetEnv(signingKeyEnvVar, ""),
		GetEnv(issuerEnvVar, ""),
		GetEnv(audienceEnvVar, ""),
		lifetime,
	)
}

func (j JWT) GetSigningKey() string { return j.signingKey }

func (j JWT) GetIssuer() string { return j.issuer }

func (j JWT) GetAudience() string { return j.audience }

func (j JWT) GetSessionLifetime() time.Duration { return j.sessionLifetime }

// Validate returns a ConfigurationError when the signing key, issuer or
// audience are not configured.
func (j JWT) Validate() error {
	var missing []string
	if j.signingKey == "" {
		missing = append(missing, signingKeyEnvVar)
	}
	if j.issuer == "" {
		missing = append(missing, issuerEnvVar)
	}
	if j.audience == "" {
		missing = append(missing, audienceEnvVar)
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}
