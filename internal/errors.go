package internal

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCapacity    = errors.New("invalid capacity")
	ErrCapacityExceeded   = errors.New("batch exceeds cache capacity")
	ErrInvariantViolation = errors.New("index invariant violated")
	ErrInvalidPlan        = errors.New("inconsistent batch plan")
)

func invalidCapacityError(capacity int) error {
	return fmt.Errorf("%w: must be positive but %d was requested", ErrInvalidCapacity, capacity)
}

func capacityExceededError(distinct, capacity int) error {
	return fmt.Errorf(
		"%w: %d distinct keys requested, %d slots available",
		ErrCapacityExceeded, distinct, capacity)
}

// violation panics. Reaching it means the frequency structure or the
// protection bookkeeping is corrupted, which no caller can recover from.
func violation(format string, args ...any) {
	panic(fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...)))
}
