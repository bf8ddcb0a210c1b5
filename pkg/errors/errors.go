// Package errors provides custom error types for the phobost service.
// These errors enable programmatic error checking at the process entry point
// (bind and accept-loop failures are fatal) and in the HTTP layer.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the phobost service
var (
	// ErrBind indicates that the listening socket could not be opened
	ErrBind = errors.New("bind failed")

	// ErrServe indicates that the accept loop terminated with an I/O error
	ErrServe = errors.New("serve failed")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")
)

// BindError represents a failure to open the listening socket.
// It is fatal and never retried.
type BindError struct {
	Address string
	Err     error
}

// Error implements the error interface
func (e *BindError) Error() string {
	return fmt.Sprintf("failed to bind %s: %v", e.Address, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *BindError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *BindError) Is(target error) bool {
	return target == ErrBind
}

// NewBindError creates a new BindError
func NewBindError(address string, err error) *BindError {
	return &BindError{Address: address, Err: err}
}

// ServeError represents an unrecoverable accept-loop failure after a successful bind
type ServeError struct {
	Address string
	Err     error
}

// Error implements the error interface
func (e *ServeError) Error() string {
	if e.Address != "" {
		return fmt.Sprintf("serving %s: %v", e.Address, e.Err)
	}
	return fmt.Sprintf("serving: %v", e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ServeError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ServeError) Is(target error) bool {
	return target == ErrServe
}

// NewServeError creates a new ServeError
func NewServeError(address string, err error) *ServeError {
	return &ServeError{Address: address, Err: err}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// TimeoutError represents an operation timeout
type TimeoutError struct {
	Operation string
	Duration  time.Duration
	Message   string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Duration > 0 {
		return fmt.Sprintf("operation %s timed out after %s: %s", e.Operation, e.Duration, e.Message)
	}
	return fmt.Sprintf("operation %s timed out: %s", e.Operation, e.Message)
}

// Is implements errors.Is support
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(operation string, duration time.Duration, message string) *TimeoutError {
	return &TimeoutError{
		Operation: operation,
		Duration:  duration,
		Message:   message,
	}
}

// Helper functions for error checking

// IsBind checks if an error is a bind failure
func IsBind(err error) bool {
	return errors.Is(err, ErrBind)
}

// IsServe checks if an error is an accept-loop failure
func IsServe(err error) bool {
	return errors.Is(err, ErrServe)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsFatal reports whether err must terminate the process (bind or accept-loop failure)
func IsFatal(err error) bool {
	return IsBind(err) || IsServe(err)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapBind wraps an error as a BindError
func WrapBind(address string, err error) error {
	if err == nil {
		return nil
	}
	return NewBindError(address, err)
}

// WrapServe wraps an error as a ServeError
func WrapServe(address string, err error) error {
	if err == nil {
		return nil
	}
	return NewServeError(address, err)
}

// WrapConfig wraps an error as a ConfigError
func WrapConfig(component, message string, err error) error {
	if err == nil {
		return nil
	}
	return NewConfigError(component, message, err)
}
