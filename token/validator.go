package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-token-service/internal/config"
	"github.com/jrsteele09/go-token-service/sessions"
	"github.com/jrsteele09/go-token-service/users"
)

// Reason classifies a validation outcome. Every value other than ReasonValid
// is an expected rejection, not an error.
type Reason string

const (
	ReasonValid        Reason = "valid"
	ReasonBadSignature Reason = "bad_signature"
	ReasonExpired      Reason = "expired"
	ReasonBadClaims    Reason = "bad_claims"
	ReasonRevoked      Reason = "revoked"
	ReasonInactive     Reason = "inactive"
	ReasonSuperseded   Reason = "superseded"
)

// Result is the validation decision for a presented token. Username, Role and
// ExpiresAt are populated once the signature and claims have verified, even
// when a later ledger check rejects the token.
type Result struct {
	Reason    Reason
	Username  string
	Role      users.RoleType
	ExpiresAt time.Time
}

func (r Result) Valid() bool {
	return r.Reason == ReasonValid
}

// Validator combines cryptographic verification with session ledger state.
// The signature alone cannot be invalidated before its embedded expiry; the
// ledger supplies revocation and the single-active-session policy.
type Validator struct {
	signer  Signer
	ledger  sessions.Ledger
	parser  *jwt.Parser
	nowFunc func() time.Time
}

type ValidatorOption func(*Validator)

// WithValidatorNowFunc sets the clock (primarily for testing).
func WithValidatorNowFunc(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.nowFunc = now
	}
}

func NewValidator(cfg config.JWTConfig, signer Signer, ledger sessions.Ledger, options ...ValidatorOption) (*Validator, error) {
	if cfg == nil {
		return nil, errors.New("[NewValidator] config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if signer == nil {
		return nil, errors.New("[NewValidator] signer is required")
	}
	if ledger == nil {
		return nil, errors.New("[NewValidator] ledger is required")
	}

	v := &Validator{
		signer:  signer,
		ledger:  ledger,
		nowFunc: time.Now,
	}

	for _, opt := range options {
		opt(v)
	}

	// Zero leeway: no clock-skew tolerance on expiry.
	v.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{signer.GetSigningMethod().Alg()}),
		jwt.WithIssuer(cfg.GetIssuer()),
		jwt.WithAudience(cfg.GetAudience()),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return v.nowFunc() }),
	)

	return v, nil
}

// Validate runs the full decision procedure, short-circuiting on the first
// failure: signature and structure, standard claims (issuer, audience,
// expiry), then the ledger. The ledger is consulted on every call even for
// tokens that verified before, since a token can stop being valid without its
// bytes changing. An empty claimedUsername defaults to the token's subject.
func (v *Validator) Validate(rawToken, claimedUsername string) Result {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return Result{Reason: ReasonBadSignature}
	}

	parsed, err := v.parser.Parse(rawToken, v.signer.GetVerificationKey)
	if err != nil {
		return Result{Reason: classifyParseError(err)}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Result{Reason: ReasonBadClaims}
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims[RoleClaim].(string)
	exp, _ := claims["exp"].(float64)

	if sub == "" {
		return Result{Reason: ReasonBadClaims}
	}
	if claimedUsername == "" {
		claimedUsername = sub
	}

	result := Result{
		Username:  sub,
		Role:      users.RoleType(role),
		ExpiresAt: time.Unix(int64(exp), 0),
	}

	if sub != claimedUsername {
		result.Reason = ReasonBadClaims
		return result
	}

	// Ledger faults fail closed: a token we cannot check is a token we
	// reject.
	revoked, err := v.ledger.IsRevoked(rawToken)
	if err != nil {
		result.Reason = ReasonInactive
		return result
	}
	if revoked {
		result.Reason = ReasonRevoked
		return result
	}

	active, err := v.ledger.IsActive(rawToken)
	if err != nil || !active {
		result.Reason = ReasonInactive
		return result
	}

	current, err := v.ledger.CurrentTokenFor(claimedUsername)
	if err != nil {
		result.Reason = ReasonInactive
		return result
	}
	if current != rawToken {
		result.Reason = ReasonSuperseded
		return result
	}

	result.Reason = ReasonValid
	return result
}

func classifyParseError(err error) Reason {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonBadSignature
	case errors.Is(err, jwt.ErrTokenExpired),
		errors.Is(err, jwt.ErrTokenNotValidYet):
		return ReasonExpired
	default:
		return ReasonBadClaims
	}
}
