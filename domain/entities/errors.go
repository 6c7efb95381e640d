package entities

import (
	"errors"
	"fmt"
)

// ErrConflict is returned when a conditional write loses a race against a
// concurrent interaction. The winning request's effects stand; no
// compensation is required.
var ErrConflict = errors.New("lost concurrent update")

// ValidationError signals bad input from the user (missing field, stake below
// minimum, duplicate players). No state was changed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with a formatted message
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// GuardError signals that a requested transition is not allowed in the
// current state (already a member, blocked, wrong status). Retrying is
// harmless; no state was changed.
type GuardError struct {
	Message string
}

func (e *GuardError) Error() string {
	return e.Message
}

// NewGuardError creates a GuardError with a formatted message
func NewGuardError(format string, args ...any) error {
	return &GuardError{Message: fmt.Sprintf(format, args...)}
}

// DependencyError wraps a persistence or messaging gateway failure that
// occurred partway through a multi-step flow. Compensation (if any) has
// already been attempted by the time it is returned.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// IsUserFacing reports whether err should be shown to the invoking user
// verbatim rather than as a generic failure message.
func IsUserFacing(err error) bool {
	var ve *ValidationError
	var ge *GuardError
	return errors.As(err, &ve) || errors.As(err, &ge) || errors.Is(err, ErrConflict)
}
