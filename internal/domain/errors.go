package domain

import (
	"errors"
	"fmt"
)

// Domain errors (no external dependencies). Handlers map these to HTTP codes;
// wrapped detail must always name the invariant that blocked the action so the
// UI can render an actionable message.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrValidation    = errors.New("validation failed")
	ErrStateConflict = errors.New("state conflict")
	ErrConcurrency   = errors.New("concurrent update, retry the operation")
	ErrForbidden     = errors.New("forbidden")
)

// Validationf wraps ErrValidation with detail about the rejected field or rule.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Conflictf wraps ErrStateConflict with the name of the blocking invariant
// ("day closed", "already exported", "duplicate order", ...).
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStateConflict, fmt.Sprintf(format, args...))
}
