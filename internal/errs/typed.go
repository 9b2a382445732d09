package errs

import (
	"fmt"
	"strings"
)

// Cause classifies a single field violation.
type Cause string

// Violation causes reported inside a ValidationError.
const (
	CauseMissing      Cause = "missing"
	CauseTooLow       Cause = "too_low"
	CauseTooHigh      Cause = "too_high"
	CauseTooShort     Cause = "too_short"
	CauseTooLong      Cause = "too_long"
	CauseIllegalValue Cause = "illegal_value"
)

// FieldError is a single (field, cause) pair inside a ValidationError.
type FieldError struct {
	Field string
	Cause Cause
}

// ValidationError reports one or more domain constraint violations.
// All violations found before the first mutation are reported together.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Cause))
	}
	return "validation: " + strings.Join(parts, ", ")
}

// Validation builds a ValidationError from (field, cause) pairs.
func Validation(errors ...FieldError) *ValidationError {
	return &ValidationError{Errors: errors}
}

// UniqueViolationError reports an operation that would break a uniqueness invariant.
type UniqueViolationError struct {
	// Fields that collided (e.g. "deviceId", or "nickname"+"userId").
	Fields  []string
	Message string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique violation on [%s]: %s", strings.Join(e.Fields, ", "), e.Message)
}

// UniqueViolation builds a UniqueViolationError for the given fields.
func UniqueViolation(message string, fields ...string) *UniqueViolationError {
	return &UniqueViolationError{Fields: fields, Message: message}
}

// IllegalStateError reports an operation attempted while the target entity
// is in a state that forbids it.
type IllegalStateError struct {
	Entity string
	Reason string
}

func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("illegal state (%s): %s", e.Entity, e.Reason)
}

// IllegalState builds an IllegalStateError.
func IllegalState(entity, reason string) *IllegalStateError {
	return &IllegalStateError{Entity: entity, Reason: reason}
}

// PairingExhaustedError reports that token issuance failed to find a unique
// session id within the allowed number of tries. Operator-visible, not
// user-correctable.
type PairingExhaustedError struct {
	Tries int
}

func (e *PairingExhaustedError) Error() string {
	return fmt.Sprintf("could not create a session after %d tries", e.Tries)
}
