// Package errs defines the closed set of error kinds produced by the core
// marketplace operations. Each kind follows the same pattern: a sentinel
// error for classification with errors.Is, a struct carrying details, a
// constructor with and without cause, and Error/Unwrap methods.
//
// The four kinds:
//   - ValidationError: missing or malformed input, invalid status value
//   - NotFoundError: entity does not resolve, or the actor lacks ownership
//     (deliberately indistinguishable, to avoid leaking existence)
//   - ConflictError: claiming an order already assigned to someone else
//   - IntegrityError: a cascading delete step failed and was rolled back
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrIntegrity  = errors.New("integrity failure")
)

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsIntegrity reports whether err is an IntegrityError.
func IsIntegrity(err error) bool { return errors.Is(err, ErrIntegrity) }

// ValidationError reports missing or malformed input detected before any
// mutation takes place.
type ValidationError struct {
	Message string
	Cause   error
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func NewValidationErrorWithCause(message string, cause error) *ValidationError {
	return &ValidationError{Message: message, Cause: cause}
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValidation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError reports that an entity id did not resolve for the acting
// identity. Ownership failures use the same kind on purpose.
type NotFoundError struct {
	Entity string
	ID     string
	Cause  error
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func NewNotFoundErrorWithCause(entity, id string, cause error) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id, Cause: cause}
}

func (e *NotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %s (cause: %s)", e.Entity, e.ID, ErrNotFound, e.Cause)
	}
	return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ConflictError reports that an atomic conditional update lost to a
// concurrent writer, e.g. two delivery partners claiming the same order.
type ConflictError struct {
	Message string
	Cause   error
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func NewConflictErrorWithCause(message string, cause error) *ConflictError {
	return &ConflictError{Message: message, Cause: cause}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrConflict, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrConflict, e.Message)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// IntegrityError reports a failed step inside a cascading delete batch. The
// whole batch has been rolled back when this error is returned.
type IntegrityError struct {
	Entity string
	Cause  error
}

func NewIntegrityError(entity string, cause error) *IntegrityError {
	return &IntegrityError{Entity: entity, Cause: cause}
}

func (e *IntegrityError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s while deleting %s (cause: %s)", ErrIntegrity, e.Entity, e.Cause)
	}
	return fmt.Sprintf("%s while deleting %s", ErrIntegrity, e.Entity)
}

func (e *IntegrityError) Unwrap() error {
	return ErrIntegrity
}
