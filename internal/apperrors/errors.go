package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error by how it is reported to the client.
type Kind int

const (
	Upstream Kind = iota
	Validation
	Unauthenticated
	Forbidden
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	default:
		return "upstream"
	}
}

// Error is an error with a client-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
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

func NewValidation(message string) *Error {
	return &Error{Kind: Validation, Message: message}
}

func NewUnauthenticated(message string) *Error {
	return &Error{Kind: Unauthenticated, Message: message}
}

func NewForbidden(message string, err error) *Error {
	return &Error{Kind: Forbidden, Message: message, Err: err}
}

func NewNotFound(message string) *Error {
	return &Error{Kind: NotFound, Message: message}
}

// NewUpstream wraps a database or provider failure. The message is the one
// shown to clients; the cause is only logged.
func NewUpstream(message string, err error) *Error {
	return &Error{Kind: Upstream, Message: message, Err: err}
}

// KindOf reports the Kind of err. Errors that are not *Error are Upstream.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Upstream
}

// Status maps err to the HTTP status code it is reported with.
func Status(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
