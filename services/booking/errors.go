package booking

import (
	"fmt"

	reservationRepo "george/database/repository/reservation"
)

// ErrConflict is surfaced when a reserve attempt loses the race against
// another confirmed booking. The workflow treats it as a normal outcome.
var ErrConflict = reservationRepo.ErrConflict

// ValidationError names the exact constraint a supplied booking field
// violated, so the guest can be told what to fix.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Constraint)
}

func newValidationError(field, constraint string) *ValidationError {
	return &ValidationError{Field: field, Constraint: constraint}
}
