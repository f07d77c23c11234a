package service

import "errors"

// Error kinds returned by the services. Callers match them with errors.Is;
// the wrapped message carries the detail.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAlreadyExists   = errors.New("already exists")
	ErrNotFound        = errors.New("not found")
	// ErrUnauthenticated is returned for both an unknown email and a wrong
	// password.
	ErrUnauthenticated = errors.New("invalid email or password")
)
