/*
errors.go - Centralized error types for the planner

PURPOSE:
  The calculation core never fails: missing data and bad numbers become
  zeros. Errors exist only at the boundaries - validating input before a
  year is generated, and the persistence collaborator.

ERROR CATEGORIES:
  1. Validation errors - Generation input rejected before running
  2. Store errors - Missing or conflicting records

USAGE:
  if errors.Is(err, planner.ErrRuleAnchorRequired) {
      // ask the user for a start date
  }

SEE ALSO:
  - generate.go: ValidateGeneration
  - store.go: Uses ErrNotFound
*/
package planner

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrTemplateRequired is returned when generation is requested without a template.
	ErrTemplateRequired = errors.New("month template required")

	// ErrRuleAnchorRequired is returned for a biweekly rule without a start date.
	ErrRuleAnchorRequired = errors.New("biweekly rule requires a start date")

	// ErrUnknownPolicy is returned for a generation policy outside the enum.
	ErrUnknownPolicy = errors.New("unknown generation policy")

	// ErrInvalidTemplate is returned when a template's shape is malformed.
	ErrInvalidTemplate = errors.New("invalid month template")

	// ErrInvalidRecord is returned when a record fails field validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a write collides with an existing record.
	ErrConflict = errors.New("record conflict")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RuleError points at the template rule that failed validation.
type RuleError struct {
	Index int
	Err   error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %d: %v", e.Index+1, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

// FieldError names the field of a record that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return ErrInvalidRecord }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrTemplateRequired) ||
		errors.Is(err, ErrRuleAnchorRequired) ||
		errors.Is(err, ErrUnknownPolicy) ||
		errors.Is(err, ErrInvalidTemplate) ||
		errors.Is(err, ErrInvalidRecord)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict returns true if the error indicates a write conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
