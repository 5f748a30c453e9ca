package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the wire protocol.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindConflict           Kind = "conflict"
	KindNotFound           Kind = "not_found"
	KindUnauthenticated    Kind = "unauthenticated"
	KindAlreadyActive      Kind = "already_active"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindTransport          Kind = "transport"
	KindPersistence        Kind = "persistence"
	KindInternal           Kind = "internal"
)

// Error is a business or protocol error that is returned to the client
// as a structured error response.
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind and, when the target sets one, on Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

// WithCode returns a copy of e tagged with a machine-readable code.
func (e *Error) WithCode(code string) *Error {
	c := *e
	c.Code = code
	return &c
}

var (
	ErrUnauthenticated    = New(KindUnauthenticated, "you must log in first")
	ErrInvalidCredentials = New(KindInvalidCredentials, "invalid username or password")
	ErrAlreadyActive      = New(KindAlreadyActive, "this user already has an active session")
	ErrInvalidFormat      = New(KindTransport, "invalid message format")
	ErrInternal           = New(KindInternal, "internal server error")
)

// Wrap returns err unchanged when it already is an *Error, otherwise it
// wraps it under the given kind and message.
func Wrap(err error, kind Kind, message string) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
