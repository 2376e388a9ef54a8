package billing

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced to callers. Match them with errors.Is.
var (
	ErrInvalidInput             = errors.New("invalid input")
	ErrInvalidAmount            = fmt.Errorf("%w: amount must be greater than 0", ErrInvalidInput)
	ErrNotFound                 = errors.New("not found")
	ErrDuplicateReference       = errors.New("transaction reference already exists, please use a unique transaction reference")
	ErrAmountExceedsOutstanding = errors.New("amount exceeds outstanding amount")
	ErrReferentialIntegrity     = errors.New("referential integrity violation")
	ErrForbidden                = errors.New("forbidden")
	ErrBackwardTransition       = errors.New("invoice status cannot move backward")
)

// Invalid wraps ErrInvalidInput with a field-level message.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound with the kind of entity that is missing.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}
