package token_test

import (
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-token-service/internal/config"
	"github.com/jrsteele09/go-token-service/sessions"
	"github.com/jrsteele09/go-token-service/token"
	"github.com/jrsteele09/go-token-service/users"
	"github.com/stretchr/testify/require"
)

// validatorFixture wires an issuer, ledger and validator onto one mutable clock.
type validatorFixture struct {
	mu        sync.Mutex
	now       time.Time
	signer    *token.HMACsigner
	ledger    *sessions.InMemoryLedger
	issuer    *token.Issuer
	validator *token.Validator
}

func newValidatorFixture(t *testing.T) *validatorFixture {
	t.Helper()

	f := &validatorFixture{now: time.Now().Truncate(time.Second)}
	nowFunc := func() time.Time {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.now
	}

	f.signer = token.NewHMACSigner(secretStr)
	f.ledger = sessions.NewInMemoryLedger(sessions.WithNowFunc(nowFunc))

	var err error
	f.issuer, err = token.NewIssuer(testJWTConfig(), f.signer, token.WithIssuerNowFunc(nowFunc))
	require.NoError(t, err)

	f.validator, err = token.NewValidator(testJWTConfig(), f.signer, f.ledger, token.WithValidatorNowFunc(nowFunc))
	require.NoError(t, err)

	return f
}

func (f *validatorFixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// issueAndActivate mirrors what the login flow does.
func (f *validatorFixture) issueAndActivate(t *testing.T, user *users.User) *token.IssuedToken {
	t.Helper()

	issued, err := f.issuer.Issue(user)
	require.NoError(t, err)
	require.NoError(t, f.ledger.Activate(issued.Token, issued.Username, sessionLifetime))
	return issued
}

func TestValidateAcceptsFreshlyActivatedToken(t *testing.T) {
	f := newValidatorFixture(t)
	issued := f.issueAndActivate(t, testUser())

	result := f.validator.Validate(issued.Token, testUsername)
	require.True(t, result.Valid())
	require.Equal(t, token.ReasonValid, result.Reason)
	require.Equal(t, testUsername, result.Username)
	require.Equal(t, users.RoleUser, result.Role)
	require.Equal(t, issued.ExpiresAt.Unix(), result.ExpiresAt.Unix())
}

func TestValidateDefaultsClaimedUsernameToSubject(t *testing.T) {
	f := newValidatorFixture(t)
	issued := f.issueAndActivate(t, testUser())

	result := f.validator.Validate(issued.Token, "")
	require.True(t, result.Valid())
	require.Equal(t, testUsername, result.Username)
}

func TestValidateRejectsTamperedSignature(t *testing.T) {
	f := newValidatorFixture(t)
	issued := f.issueAndActivate(t, testUser())

	// Flip one byte in the signature segment.
	tampered := []byte(issued.Token)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	result := f.validator.Validate(string(tampered), testUsername)
	require.Equal(t, token.ReasonBadSignature, result.Reason)
}

func TestValidateRejectsTamperedTokenBeforeLedgerChecks(t *testing.T) {
	f := newValidatorFixture(t)
	issued := f.issueAndActivate(t, testUser())
	require.NoError(t, f.ledger.Revoke(issued.Token, sessionLifetime))

	tampered := issued.Token[:len(issued.Token)-2] + "xx"
	result := f.validator.Validate(tampered, testUsername)
	require.Equal(t, token.ReasonBadSignature, result.Reason)
}

func TestValidateRejectsGarbage(t *testing.T) {
	f := newValidatorFixture(t)

	for _, raw := range []string{"", "   ", "not-a-token", "a.b", "a.b.c.d"} {
		result := f.validator.Validate(raw, testUsername)
		require.Equal(t, token.ReasonBadSignature, result.Reason, "input %q", raw)
	}
}

func TestValidateRejectsExpiredTokenRegardlessOfLedger(t *testing.T) {
	f := newValidatorFixture(t)
	issued := f.issueAndActivate(t, testUser())

	// Keep the ledger entry alive past the embedded expiry to prove the
	// signature backstop wins.
	require.NoError(t, f.ledger.Activate(issued.Token, issued.Username, 2*sessionLifetime))
	f.advance(sessionLifetime + time.Second)

	result := f.validator.Validate(issued.Token, testUsername)
	require.Equal(t, token.ReasonExpired, result.Reason)
}

func TestValidateRejectsWrongAudience(t *testing.T) {
	f := newValidatorFixture(t)

	otherIssuer, err := token.NewIssuer(
		config.NewJWT(secretStr, issuerStr, "other-api", sessionLifetime),
		f.signer,
	)
	require.NoError(t, err)

	issued, err := otherIssuer.Issue(testUser())
	require.NoError(t, err)
	require.NoError(t, f.ledger.Activate(issued.Token, issued.Username, sessionLifetime))

	result := f.validator.Validate(issued.Token, testUsername)
	require.Equal(t, token.ReasonBadClaims, result.Reason)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	f := newValidatorFixture(t)

	otherIssuer, err := token.NewIssuer(
		config.NewJWT(secretStr, "com.otherissuer", audienceStr, sessionLifetime),
		f.signer,
	)
	require.NoError(t, err)

	issued, err := otherIssuer.Issue(testUser())
	require.NoError(t, err)
	require.NoError(t, f.ledger.Activate(issued.Token, issued.Username, sessionLifetime))

	result := f.validator.Validate(issued.Token, testUsername)
	require.Equal(t, token.ReasonBadClaims, result.Reason)
}

func TestValidateRejectsSubjectMismatch(t *testing.T) {
	f := newValidatorFixture(t)
	issued := f.issueAndActivate(t, testUser())

	result := f.validator.Validate(issued.Token, "someone-else")
	require.Equal(t, token.ReasonBadClaims, result.Reason)
}

func TestValidateRejectsRevokedToken(t *testing.T) {
	f := newValidatorFixture(t)
	issued := f.issueAndActivate(t, testUser())
	require.NoError(t, f.ledger.Revoke(issued.Token, sessionLifetime))

	// Terminal: re-checking many times never resurrects the token.
	for i := 0; i < 5; i++ {
		result := f.validator.Validate(issued.Token, testUsername)
		require.Equal(t, token.ReasonRevoked, result.Reason)
	}
}

func TestValidateRejectsNeverActivatedToken(t *testing.T) {
	f := newValidatorFixture(t)

	issued, err := f.issuer.Issue(testUser())
	require.NoError(t, err)

	result := f.validator.Validate(issued.Token, testUsername)
	require.Equal(t, token.ReasonInactive, result.Reason)
}

func TestValidateRejectsNaturallyExpiredActivation(t *testing.T) {
	f := newValidatorFixture(t)

	issued, err := f.issuer.Issue(testUser())
	require.NoError(t, err)
	require.NoError(t, f.ledger.Activate(issued.Token, issued.Username, time.Hour))

	// Past the activation's ttl but well before the embedded expiry.
	f.advance(2 * time.Hour)

	result := f.validator.Validate(issued.Token, testUsername)
	require.Equal(t, token.ReasonInactive, result.Reason)
}

func TestValidateRejectsSupersededToken(t *testing.T) {
	f := newValidatorFixture(t)

	first := f.issueAndActivate(t, testUser())
	f.advance(time.Second) // distinct iat so the tokens differ
	second := f.issueAndActivate(t, testUser())

	result := f.validator.Validate(first.Token, testUsername)
	require.Equal(t, token.ReasonSuperseded, result.Reason)

	result = f.validator.Validate(second.Token, testUsername)
	require.True(t, result.Valid())
}
