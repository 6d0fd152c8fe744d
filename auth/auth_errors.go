package auth

import "errors"

var (
	InvalidTokenErr = errors.New("invalid token")
)
