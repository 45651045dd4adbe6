package browser

import (
	"errors"
	"fmt"
)

// Class tags an error with the retry policy it demands. The retry
// orchestrator acts on the class, never on the message.
type Class int

const (
	// ClassFatal errors abort immediately: configuration problems and
	// invalid input that no session rebuild can fix.
	ClassFatal Class = iota

	// ClassRetryable errors may succeed after a full session teardown and
	// reinitialize: failed navigations, unsettled pages, extraction trouble.
	ClassRetryable
)

// Error wraps an underlying failure with its class and the operation that
// produced it.
type Error struct {
	Class Class
	Op    string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewFatal wraps err as a fatal error for operation op.
func NewFatal(op string, err error) error {
	return &Error{Class: ClassFatal, Op: op, Err: err}
}

// NewRetryable wraps err as a retryable error for operation op.
func NewRetryable(op string, err error) error {
	return &Error{Class: ClassRetryable, Op: op, Err: err}
}

// IsFatal reports whether err carries the fatal class. Unclassified errors
// are not fatal: the original failure mode here is a wedged browser, so
// anything unknown is worth one more attempt.
func IsFatal(err error) bool {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Class == ClassFatal
	}
	return false
}

// IsRetryable reports whether err may succeed after a session rebuild.
func IsRetryable(err error) bool {
	return err != nil && !IsFatal(err)
}
