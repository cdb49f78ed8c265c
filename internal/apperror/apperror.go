// Package apperror defines the application error taxonomy. Services return
// typed errors and handlers map them to HTTP responses, so status codes and
// payload shapes stay consistent across the API surface.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Type categorizes an application error.
type Type int

const (
	Unknown Type = iota
	// Validation is a missing or malformed request field.
	Validation
	// Unauthenticated is a missing, invalid or expired token.
	Unauthenticated
	// Forbidden means authenticated but not the owner/author.
	Forbidden
	// NotFound covers absent resources and malformed identifiers.
	NotFound
	// Conflict covers duplicate registration, double-like and unlike-when-absent.
	Conflict
	// Upstream is a failure of an external collaborator (GitHub lookup).
	Upstream
	// Internal is an unexpected store or infrastructure failure.
	Internal
)

// FieldError is one entry of a structured validation failure.
type FieldError struct {
	Field   string `json:"param"`
	Message string `json:"msg"`
}

// Error is the application error type. Fields holds the per-field detail for
// Validation errors and is nil otherwise.
type Error struct {
	Type    Type
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the error type to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Type {
	case Validation:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func New(t Type, message string) *Error {
	return &Error{Type: t, Message: message}
}

func Wrap(t Type, message string, err error) *Error {
	return &Error{Type: t, Message: message, Err: err}
}

// NewValidation builds a Validation error from field/message pairs.
func NewValidation(fields ...FieldError) *Error {
	return &Error{Type: Validation, Message: "validation failed", Fields: fields}
}

func NewUnauthenticated(message string) *Error {
	return &Error{Type: Unauthenticated, Message: message}
}

func NewForbidden(message string) *Error {
	return &Error{Type: Forbidden, Message: message}
}

func NewNotFound(message string) *Error {
	return &Error{Type: NotFound, Message: message}
}

func NewConflict(message string) *Error {
	return &Error{Type: Conflict, Message: message}
}

func NewUpstream(message string, err error) *Error {
	return &Error{Type: Upstream, Message: message, Err: err}
}

func NewInternal(message string, err error) *Error {
	return &Error{Type: Internal, Message: message, Err: err}
}

// From extracts an *Error from err, collapsing anything else to Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Type: Internal, Message: "server error", Err: err}
}

// IsType reports whether err is an application error of the given type.
func IsType(err error, t Type) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}
