// Package apperrors defines the sentinel errors shared across services and
// handlers. Services wrap them with context via fmt.Errorf and %w; handlers
// map them to HTTP status codes with errors.Is.
package apperrors

import "errors"

var (
	// ErrValidation marks malformed or inconsistent input (e.g. password
	// confirmation mismatch). Maps to 400.
	ErrValidation = errors.New("invalid input")

	// ErrConflict marks a uniqueness violation (username or email already
	// registered). Maps to 409.
	ErrConflict = errors.New("already exists")

	// ErrNotFound marks a lookup for an unknown account. Maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrAuthentication marks failed credential verification, including
	// disabled accounts. Maps to 401.
	ErrAuthentication = errors.New("authentication failed")
)
