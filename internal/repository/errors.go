package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by lookups that match no record.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a write violates a uniqueness constraint.
	ErrAlreadyExists = errors.New("already exists")
)

// Duplicate wraps ErrAlreadyExists with the violating field, e.g. "username: already exists".
func Duplicate(field string) error {
	return fmt.Errorf("%s: %w", field, ErrAlreadyExists)
}
