package model

import (
	"errors"
	"fmt"
)

// Sentinel domain failures. The HTTP layer owns the mapping to status codes;
// nothing below the transport ever sees a status code.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrStudentIDTaken     = errors.New("student id already registered")
	ErrAlreadyRated       = errors.New("resource already rated by user")
	ErrAlreadyMember      = errors.New("user is already a member")
	ErrNotMember          = errors.New("user is not a member")
	ErrCapacityExceeded   = errors.New("group is at capacity")
	ErrLastLeader         = errors.New("cannot remove the only leader")
	ErrForbidden          = errors.New("operation not permitted")
)

// ValidationError reports malformed or missing input for a named field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}
