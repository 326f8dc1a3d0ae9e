// Package controller holds what the entity controllers below it share: the error kinds the
// web layer maps to status codes and small gorm helpers.
//
// Controllers define their own sentinels wrapping one of the kinds, e.g.
//
//	ErrRoleNotFound = fmt.Errorf("role %w", controller.ErrNotFound)
package controller

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")

	// ErrNotFound is the kind of every missing entity error.
	ErrNotFound = errors.New("not found")

	// ErrConflict is the kind of every uniqueness violation.
	ErrConflict = errors.New("already exists")

	// ErrForbidden is the kind of business rules blocking an otherwise authorized operation.
	ErrForbidden = errors.New("forbidden by policy")

	// ErrValidation is the kind of malformed or incomplete input.
	ErrValidation = errors.New("invalid input")
)

// ValidationError lists the input fields at fault.
type ValidationError struct {
	Fields []string
	Reason string
}

// NewValidationError returns a ValidationError for the given fields.
func NewValidationError(reason string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Reason: reason}
}

// Error implements error.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}

	return fmt.Sprintf("%s: %s (%s)", ErrValidation, e.Reason, strings.Join(e.Fields, ", "))
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsDuplicate reports whether err is a unique constraint violation.
// It relies on gorm.Config.TranslateError; the message check covers drivers without a translator.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

// IsNotFound reports whether err is gorm's record not found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
