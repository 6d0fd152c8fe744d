package users

import "errors"

// ErrInvalidCredentials is the normal negative result of an authentication
// attempt. It is never treated as an infrastructure fault.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Directory maps a username+secret pair to a principal record.
type Directory interface {
	Authenticate(username, secret string) (*User, error)
}
