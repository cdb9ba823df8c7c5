package domain

import (
	"errors"
	"fmt"
)

// ErrBikeNotFound is returned by repositories when no row matches the key.
var ErrBikeNotFound = errors.New("bike not found")

// ValidationError describes the first rule a bike violates.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StorageError wraps any failure reported by the store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
