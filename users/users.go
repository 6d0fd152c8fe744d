package users

import (
	"golang.org/x/crypto/bcrypt"
)

// RoleType represents a user's role as embedded in issued credentials.
type RoleType string

const (
	RoleUser  RoleType = "User"
	RoleAdmin RoleType = "Admin"
)

// User is a principal record sourced from the credential directory. It is
// immutable once authenticated; the token subsystem never mutates it.
type User struct {
	Username     string   `json:"username,omitempty"` // Unique, case-sensitive
	PasswordHash string   `json:"-"`                  // Hashed secret - never serialize
	Role         RoleType `json:"role,omitempty"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
