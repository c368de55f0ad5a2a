package partloader

import (
	"errors"
	"fmt"
)

// Sentinel errors for resolution, loading and data store operations.
// All use prefix "partloader:" for identification. Callers should use errors.Is/errors.As.
var (
	ErrNotFound      = errors.New("partloader: no candidate file found in search paths")
	ErrAlreadyExists = errors.New("partloader: template or key already exists")
	ErrKeyNotFound   = errors.New("partloader: key does not exist")
	ErrInvalidKey    = errors.New("partloader: key is empty after normalization")
	ErrUnknownOption = errors.New("partloader: unknown configuration option")
	ErrInvalidConfig = errors.New("partloader: configuration is invalid")
	ErrExecute       = errors.New("partloader: file execution failed")
	ErrInvalidData   = errors.New("partloader: executed file did not evaluate to a mapping")
)

// StoreError wraps a sentinel error with template and key context.
// Use errors.Is(err, ErrKeyNotFound) and errors.As(err, &storeErr) to inspect.
// Key is empty when the error concerns the whole template.
type StoreError struct {
	Template string
	Key      string
	Err      error
}

// Error implements error.
func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("partloader: template %q: %v", e.Template, e.Err)
	}
	return fmt.Sprintf("partloader: key %q in template %q: %v", e.Key, e.Template, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/errors.As.
func (e *StoreError) Unwrap() error { return e.Err }

// Compile-time check that StoreError implements error.
var _ error = (*StoreError)(nil)
