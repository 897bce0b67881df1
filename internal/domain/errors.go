package domain

import "errors"

var (
	// ErrNotFound covers unknown tokens, users, record indices and categories.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks malformed or out-of-range input; nothing was mutated.
	ErrValidation = errors.New("validation error")
	// ErrConflict marks a duplicate user or category name on creation.
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials is returned by login for an unknown name or a password mismatch.
	ErrInvalidCredentials = errors.New("invalid name or password")
	// ErrUnavailable signals that BMI cannot be computed from the stored profile.
	ErrUnavailable = errors.New("unavailable")
)
