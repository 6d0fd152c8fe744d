package users

import (
	"sync"

	"github.com/pkg/errors"
)

// StaticDirectory is an in-memory credential directory. Usernames are
// case-sensitive.
type StaticDirectory struct {
	mu    sync.RWMutex
	users map[string]*User
}

var _ Directory = (*StaticDirectory)(nil)

func NewStaticDirectory() *StaticDirectory {
	return &StaticDirectory{
		users: make(map[string]*User),
	}
}

// NewDemoDirectory returns a directory seeded with the reference deployment's
// demonstration accounts.
func NewDemoDirectory() (*StaticDirectory, error) {
	d := NewStaticDirectory()

	seed := []struct {
		username string
		secret   string
		role     RoleType
	}{
		{"user1", "password1", RoleUser},
		{"user2", "password2", RoleUser},
		{"admin", "admin123", RoleAdmin},
	}

	for _, s := range seed {
		if err := d.Add(s.username, s.secret, s.role); err != nil {
			return nil, errors.Wrap(err, "NewDemoDirectory Add")
		}
	}

	return d, nil
}

// Add hashes the secret and stores the user, replacing any existing record.
func (d *StaticDirectory) Add(username, secret string, role RoleType) error {
	if username == "" {
		return errors.New("[StaticDirectory.Add] username is required")
	}

	hash, err := HashPassword(secret)
	if err != nil {
		return errors.Wrap(err, "StaticDirectory.Add HashPassword")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[username] = &User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	return nil
}

// Authenticate returns the principal for a matching username+secret pair, or
// ErrInvalidCredentials. A miss is a normal negative result, never a fault.
func (d *StaticDirectory) Authenticate(username, secret string) (*User, error) {
	d.mu.RLock()
	user, ok := d.users[username]
	d.mu.RUnlock()

	if !ok || !CheckPasswordHash(secret, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// Copy so callers cannot mutate the stored record.
	principal := *user
	return &principal, nil
}
