package auth

import "errors"

var (
	// ErrMissingKey indicates a credential was constructed without key
	// material.
	ErrMissingKey = errors.New("auth: missing key material")

	// ErrMissingToken indicates a bearer credential has no token.
	ErrMissingToken = errors.New("auth: missing token")
)
