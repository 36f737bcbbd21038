package storage

import "errors"

// Storage errors shared by all implementations.
var (
	// ErrNotFound is returned when a requested artifact does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when an insert violates a unique key.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
