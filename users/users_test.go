package users_test

import (
	"testing"

	"github.com/jrsteele09/go-token-service/users"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := users.HashPassword("secret123")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hash)

	require.True(t, users.CheckPasswordHash("secret123", hash))
	require.False(t, users.CheckPasswordHash("secret124", hash))
}

func TestDemoDirectoryAuthenticate(t *testing.T) {
	directory, err := users.NewDemoDirectory()
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		secret   string
		wantRole users.RoleType
		wantErr  bool
	}{
		{"user1 ok", "user1", "password1", users.RoleUser, false},
		{"user2 ok", "user2", "password2", users.RoleUser, false},
		{"admin ok", "admin", "admin123", users.RoleAdmin, false},
		{"wrong password", "user1", "password2", "", true},
		{"unknown user", "user3", "password1", "", true},
		{"usernames are case-sensitive", "Admin", "admin123", "", true},
		{"empty", "", "", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			principal, err := directory.Authenticate(tc.username, tc.secret)
			if tc.wantErr {
				require.ErrorIs(t, err, users.ErrInvalidCredentials)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.username, principal.Username)
			require.Equal(t, tc.wantRole, principal.Role)
		})
	}
}

func TestAuthenticateReturnsCopy(t *testing.T) {
	directory, err := users.NewDemoDirectory()
	require.NoError(t, err)

	first, err := directory.Authenticate("user1", "password1")
	require.NoError(t, err)
	first.Role = users.RoleAdmin

	second, err := directory.Authenticate("user1", "password1")
	require.NoError(t, err)
	require.Equal(t, users.RoleUser, second.Role)
}

func TestAddRequiresUsername(t *testing.T) {
	directory := users.NewStaticDirectory()
	require.Error(t, directory.Add("", "secret", users.RoleUser))
}
