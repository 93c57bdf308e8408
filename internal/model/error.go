package model

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

type Error struct {
	ErrCode string `json:"code"`
	Message string `json:"message"`

	kind  Kind
	cause error
}

func (e Error) Error() string {
	return e.Message
}

func (e Error) Code() string {
	return e.ErrCode
}

func (e Error) Kind() Kind {
	return e.kind
}

func (e Error) Unwrap() error {
	return e.cause
}

// Is matches errors sharing the same code, so wrapped or formatted copies of a
// base error still satisfy errors.Is against it.
func (e Error) Is(target error) bool {
	var t Error
	if !errors.As(target, &t) {
		return false
	}
	return t.ErrCode == e.ErrCode
}

// Fmt creates a new error from the base error template with provided arguments
func (e Error) Fmt(args ...any) Error {
	return Error{
		ErrCode: e.ErrCode,
		Message: fmt.Sprintf(e.Message, args...),
		kind:    e.kind,
		cause:   e.cause,
	}
}

// Wrap attaches the underlying cause. The cause is kept for logs and errors.As
// and never rendered to clients.
func (e Error) Wrap(cause error) Error {
	e.cause = cause
	return e
}

func NewError(kind Kind, code, message string) Error {
	return Error{
		ErrCode: code,
		Message: message,
		kind:    kind,
	}
}

// KindOf reports the kind of err. Errors that are not model errors are internal.
func KindOf(err error) Kind {
	var e Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

var (
	ErrInvalidInput    = NewError(KindInvalidInput, "validation", "Validation error: %s")
	ErrSessionNotFound = NewError(KindNotFound, "upload.not_found", "Upload session not found")
	ErrUploadFailed    = NewError(KindInternal, "upload.failed", "Failed to create upload")
	ErrInternal        = NewError(KindInternal, "internal", "Internal server error")
)
