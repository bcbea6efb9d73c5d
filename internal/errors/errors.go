// Package errors classifies application failures by Kind so the HTTP layer
// can choose a status without knowing which service produced them.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an Error
type Kind int

const (
	ErrInternal Kind = iota
	ErrNotFound
	ErrValidation
	ErrConflict
	ErrInvalidInput
)

var kindNames = [...]string{
	ErrInternal:     "internal",
	ErrNotFound:     "not_found",
	ErrValidation:   "validation",
	ErrConflict:     "conflict",
	ErrInvalidInput: "invalid_input",
}

// String returns a short name for log lines; unknown kinds read as internal
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[ErrInternal]
	}
	return kindNames[k]
}

// Error carries a Kind, a client-safe message and an optional cause
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind with a formatted message
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(msg string) *Error     { return &Error{Kind: ErrNotFound, Message: msg} }
func Validation(msg string) *Error   { return &Error{Kind: ErrValidation, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: ErrConflict, Message: msg} }
func InvalidInput(msg string) *Error { return &Error{Kind: ErrInvalidInput, Message: msg} }

func NotFoundf(format string, args ...any) *Error     { return New(ErrNotFound, format, args...) }
func Validationf(format string, args ...any) *Error   { return New(ErrValidation, format, args...) }
func Conflictf(format string, args ...any) *Error     { return New(ErrConflict, format, args...) }
func InvalidInputf(format string, args ...any) *Error { return New(ErrInvalidInput, format, args...) }

// Internal hides err behind a generic message
func Internal(err error) *Error {
	return Wrap(err, ErrInternal, "internal error")
}

// Wrap attaches kind and msg to an underlying error
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain.
// Errors that carry no kind are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrInternal
}

// IsKind reports whether err's chain holds an *Error of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return stderrors.As(err, &appErr) && appErr.Kind == kind
}
