package objectstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable marks failures where no answer came back from storage
// (network errors, timeouts). Everything else is a rejection by the backend.
var ErrUnavailable = errors.New("objectstore: backend unavailable")

// Error describes a failed backend operation.
type Error struct {
	// Op is the capability that failed, e.g. "list_parts"
	Op string
	// Key is the object key involved, if any
	Key string
	// Err is the error returned by the backend SDK
	Err error

	unavailable bool
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("objectstore.%s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("objectstore.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.unavailable {
		return []error{e.Err, ErrUnavailable}
	}
	return []error{e.Err}
}

// Rejected wraps an error the backend answered with.
func Rejected(op, key string, err error) *Error {
	return &Error{Op: op, Key: key, Err: err}
}

// Unavailable wraps an error that never reached a backend answer.
func Unavailable(op, key string, err error) *Error {
	return &Error{Op: op, Key: key, Err: err, unavailable: true}
}

// IsUnavailable reports whether err is a transport-level failure. Context
// cancellation and deadlines count as unavailable even when unwrapped.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}
