package services

import (
	"errors"
	"fmt"
)

// Error kinds returned by services. Handlers map them to HTTP status codes.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidInput      = errors.New("invalid input")
)

// Error is a service failure whose Message is safe to return to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool { return target == e.Kind }

// NotFound reports a missing entity, e.g. NotFound("Property").
func NotFound(entity string) error {
	return &Error{Kind: ErrNotFound, Message: entity + " not found"}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransition(entity string, from, to any) error {
	return &Error{Kind: ErrInvalidTransition, Message: fmt.Sprintf("%s cannot move from %q to %q", entity, from, to)}
}

func Invalid(format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("%s: %s", e.Fields[0].Field, e.Fields[0].Message)
	}
	return fmt.Sprintf("%d fields failed validation", len(e.Fields))
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func fieldError(field, format string, args ...any) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: fmt.Sprintf(format, args...)}}}
}

// IsNotFound reports whether err is a NotFound service error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
