package domain

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// Failure kinds shared by every entity and action. Adapters map them to
// transport status codes with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnavailable     = errors.New("unavailable")
)

const (
	MsgRequired = "is required"
	MsgTooLong  = "is too long"
)

// Fields collects validation messages keyed by field name. Nested fields use
// dotted names ("settings.notifications.pushover_key").
type Fields map[string]string

// Err returns the collected messages as a *ValidationError, or nil when
// there are none.
func (f Fields) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// ValidationError lists the fields an entity or request failed on. It
// matches ErrValidation with errors.Is; use errors.As to read Fields.
type ValidationError struct {
	Fields Fields
}

// Error lists the fields in name order so messages are stable.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	for i, field := range slices.Sorted(maps.Keys(e.Fields)) {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(field + ": " + e.Fields[field])
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewFieldError returns a ValidationError for a single field.
func NewFieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: Fields{field: msg}}
}
