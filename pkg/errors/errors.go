// ================== pkg/errors/errors.go =================
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthenticated = errors.New("unauthorized access")
	ErrForbidden       = errors.New("forbidden access")
	ErrBadRequest      = errors.New("bad request")
	ErrInternal        = errors.New("internal server error")
	ErrDuplicate       = errors.New("resource already exists")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("resource state conflict")
	ErrUnavailable     = errors.New("service unavailable")
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindInvalid
	KindValidation
	KindConflict
	KindUnavailable
)

// Error carries a client-safe message and machine-readable code alongside
// the underlying cause.
type Error struct {
	Kind    Kind
	Code    string
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

// New builds an Error of the given kind.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: sentinelFor(kind)}
}

// Wrap attaches a kind, code and message to err.
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, "UNAUTHORIZED", message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, "FORBIDDEN", message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, "NOT_FOUND", message)
}

func Invalid(code, message string) *Error {
	return New(KindInvalid, code, message)
}

func Validation(message string) *Error {
	return New(KindValidation, "VALIDATION_FAILED", message)
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

func Internal(message string, err error) *Error {
	return Wrap(KindInternal, "INTERNAL_ERROR", message, err)
}

// KindOf reports the kind of err. Plain sentinels are recognised through
// errors.Is; anything else is internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrBadRequest):
		return KindInvalid
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate):
		return KindConflict
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	}
	return KindInternal
}

func sentinelFor(kind Kind) error {
	switch kind {
	case KindUnauthenticated:
		return ErrUnauthenticated
	case KindForbidden:
		return ErrForbidden
	case KindNotFound:
		return ErrNotFound
	case KindInvalid:
		return ErrBadRequest
	case KindValidation:
		return ErrValidation
	case KindConflict:
		return ErrConflict
	case KindUnavailable:
		return ErrUnavailable
	}
	return ErrInternal
}
