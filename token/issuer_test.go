package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-token-service/internal/config"
	"github.com/jrsteele09/go-token-service/token"
	"github.com/jrsteele09/go-token-service/users"
	"github.com/stretchr/testify/require"
)

const (
	secretStr       = "test-signing-key-1234"
	issuerStr       = "com.testissuer"
	audienceStr     = "api"
	testUsername    = "user1"
	sessionLifetime = 8 * time.Hour
)

func testJWTConfig() config.JWT {
	return config.NewJWT(secretStr, issuerStr, audienceStr, sessionLifetime)
}

func testUser() *users.User {
	return &users.User{Username: testUsername, Role: users.RoleUser}
}

func TestIssueEmbedsExpectedClaims(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	signer := token.NewHMACSigner(secretStr)

	issuer, err := token.NewIssuer(testJWTConfig(), signer, token.WithIssuerNowFunc(func() time.Time { return now }))
	require.NoError(t, err)

	issued, err := issuer.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)
	require.NotEmpty(t, issued.ID)
	require.Equal(t, testUsername, issued.Username)
	require.Equal(t, users.RoleUser, issued.Role)
	require.Equal(t, now, issued.IssuedAt)
	require.Equal(t, now.Add(sessionLifetime), issued.ExpiresAt)

	parsed, err := jwtlib.Parse(issued.Token, signer.GetVerificationKey)
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	require.True(t, ok)
	require.Equal(t, issuerStr, claims["iss"])
	require.Equal(t, audienceStr, claims["aud"])
	require.Equal(t, testUsername, claims["sub"])
	require.Equal(t, string(users.RoleUser), claims[token.RoleClaim])
	require.Equal(t, issued.ID, claims["jti"])
	require.EqualValues(t, now.Unix(), claims["iat"])
	require.EqualValues(t, now.Add(sessionLifetime).Unix(), claims["exp"])
}

func TestIssueGeneratesFreshJTIPerCall(t *testing.T) {
	signer := token.NewHMACSigner(secretStr)
	issuer, err := token.NewIssuer(testJWTConfig(), signer)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		issued, err := issuer.Issue(testUser())
		require.NoError(t, err)
		require.False(t, seen[issued.ID], "jti collision: %s", issued.ID)
		seen[issued.ID] = true
	}
}

func TestNewIssuerRequiresSigningConfiguration(t *testing.T) {
	signer := token.NewHMACSigner(secretStr)

	tests := []struct {
		name string
		cfg  config.JWT
	}{
		{"missing key", config.NewJWT("", issuerStr, audienceStr, sessionLifetime)},
		{"missing issuer", config.NewJWT(secretStr, "", audienceStr, sessionLifetime)},
		{"missing audience", config.NewJWT(secretStr, issuerStr, "", sessionLifetime)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := token.NewIssuer(tc.cfg, signer)
			require.Error(t, err)

			var cfgErr *config.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestIssueRequiresPrincipal(t *testing.T) {
	issuer, err := token.NewIssuer(testJWTConfig(), token.NewHMACSigner(secretStr))
	require.NoError(t, err)

	_, err = issuer.Issue(nil)
	require.Error(t, err)

	_, err = issuer.Issue(&users.User{})
	require.Error(t, err)
}
