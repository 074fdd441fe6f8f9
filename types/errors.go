/*
Copyright © 2025 DerithAI
*/
package types

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError rejects malformed input before a hunt is created or
// mutated. It never corresponds to a persisted record.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Reason)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError flags operations referencing an unknown hunt id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("hunt %q not found", e.ID)
}

// ExecutionError captures a failed execution attempt. It is recorded on
// the hunt and drives the retry policy; it never escapes the executor.
type ExecutionError struct {
	Kind   string // directive kind that failed
	Detail string
	Err    error
}

func (e *ExecutionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s execution failed: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s execution failed: %v", e.Kind, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// TimeoutError marks an attempt that exceeded its wall-clock budget. Like
// ExecutionError it is captured into the hunt's error field, not raised.
type TimeoutError struct {
	Kind  string
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s execution timed out after %s", e.Kind, e.Limit)
}

// StoreIOError wraps a persistence failure. Unlike execution errors it
// must propagate to the caller of the mutating operation.
type StoreIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreIOError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreIOError) Unwrap() error { return e.Err }

// IsNotFound reports whether err, at any depth, is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err, at any depth, is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTimeout reports whether err, at any depth, is a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsStoreIO reports whether err, at any depth, is a StoreIOError.
func IsStoreIO(err error) bool {
	var se *StoreIOError
	return errors.As(err, &se)
}
