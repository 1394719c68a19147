package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidRequest signals malformed input (bad kind, empty id, bad page).
	ErrInvalidRequest = errors.New("invalid request")
	// ErrSessionNotFound signals an unknown or evicted browse session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions signals that the session registry is at capacity.
	ErrTooManySessions = errors.New("too many sessions")
	// ErrWrongMode signals an operation that the session's pagination mode does not support.
	ErrWrongMode = errors.New("operation not supported in this pagination mode")
	// ErrEventNotFound signals a missing event (group meta).
	ErrEventNotFound = errors.New("event not found")
	// ErrDataSource signals a failed page fetch from the data source.
	ErrDataSource = errors.New("data source error")
)

// FieldError reports an invalid field together with the reason.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidRequest.Error(), e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidRequest }

// NewFieldError creates an invalid-field error.
func NewFieldError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}
