// Package errors provides error types and utilities for leadrouter.
// It extends the standard errors package with wrapping and a small set of
// sentinels shared by the platform layer.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios
var (
	// ErrTimeout indicates an operation exceeded its time limit
	ErrTimeout = errors.New("operation timed out")

	// ErrRateLimit indicates a rate limit was exceeded
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input was provided
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication or authorization failed
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServiceUnavailable indicates a service is temporarily unavailable
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInvalidResponse indicates a response could not be parsed
	ErrInvalidResponse = errors.New("invalid response")

	// ErrCircuitOpen indicates the circuit breaker is rejecting calls
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// wrappedError wraps an error with additional context
type wrappedError struct {
	msg   string
	cause error
}

func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: msg, cause: err}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: fmt.Sprintf(format, args...), cause: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats according to a format specifier and returns an error.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Join returns an error that wraps the given errors, discarding nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// IsRateLimit reports whether the error is a rate limit error
func IsRateLimit(err error) bool {
	return Is(err, ErrRateLimit)
}

// IsNotFound reports whether the error is a not found error
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound)
}

// IsCircuitOpen reports whether the error came from an open circuit breaker
func IsCircuitOpen(err error) bool {
	return Is(err, ErrCircuitOpen)
}
