package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for the billing schedule engine. Domain and service code
// marks errors against these so callers can branch without string matching.
var (
	ErrNotFound          = new(ErrCodeNotFound, "resource not found")
	ErrValidation        = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation  = new(ErrCodeInvalidOperation, "invalid operation")
	ErrInvalidRecurrence = new(ErrCodeInvalidRecurrence, "recurrence rule cannot be advanced automatically")
	ErrOutOfRange        = new(ErrCodeOutOfRange, "date out of computable range")
	ErrSystem            = new(ErrCodeSystemError, "system error")
)

const (
	ErrCodeNotFound          = "not_found"
	ErrCodeValidation        = "validation_error"
	ErrCodeInvalidOperation  = "invalid_operation"
	ErrCodeInvalidRecurrence = "invalid_recurrence"
	ErrCodeOutOfRange        = "out_of_range"
	ErrCodeSystemError       = "system_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsInvalidRecurrence checks if an error came from a custom recurrence rule
// being used where an automatic step was required
func IsInvalidRecurrence(err error) bool {
	return errors.Is(err, ErrInvalidRecurrence)
}

// IsOutOfRange checks if an error came from occurrence iteration hitting the
// defensive step cap
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}
