package factor

import (
	"errors"
	"fmt"
)

var (
	// ErrShape is matched by every *ShapeError.
	ErrShape = errors.New("factor: shape violation")

	// ErrUnknownDimension is matched by every *UnknownDimensionError.
	ErrUnknownDimension = errors.New("factor: unknown dimension")

	// ErrIncompatible is returned when two factors cannot be combined.
	ErrIncompatible = errors.New("factor: incompatible factors")

	// ErrInvalidState is matched by every *StateError.
	ErrInvalidState = errors.New("factor: invalid state")

	// ErrNoShape is returned when values or selections are used before both
	// dimension IDs and cardinalities have been declared.
	ErrNoShape = errors.New("factor: dimensions not declared")

	// ErrSelectionConflict is returned when two factors fix the same dimension
	// to different states.
	ErrSelectionConflict = errors.New("factor: conflicting selections")

	// ErrSparseIndexSet is returned when a non-zero weight is written to a slot
	// a sparse factor does not retain.
	ErrSparseIndexSet = errors.New("factor: value outside sparse index set")

	// ErrPlanMismatch is returned when a plan is replayed against a factor or
	// buffer whose shape differs from the one it was built for.
	ErrPlanMismatch = errors.New("factor: plan does not match shape")
)

// ShapeError reports an inconsistent dimension declaration or a buffer whose
// length disagrees with the declared dimensions.
type ShapeError struct {
	Op       string
	Reason   string
	Expected int
	Actual   int
}

func (e *ShapeError) Error() string {
	if e.Expected == e.Actual {
		return fmt.Sprintf("factor: %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("factor: %s: %s: expected %d, got %d", e.Op, e.Reason, e.Expected, e.Actual)
}

func (e *ShapeError) Unwrap() error { return ErrShape }

// UnknownDimensionError reports a dimension ID the factor does not declare.
type UnknownDimensionError struct {
	ID int
}

func (e *UnknownDimensionError) Error() string {
	return fmt.Sprintf("factor: unknown dimension %d", e.ID)
}

func (e *UnknownDimensionError) Unwrap() error { return ErrUnknownDimension }

// IncompatibleError reports a dimension shared by two factors with differing
// cardinalities.
type IncompatibleError struct {
	ID        int
	Card      int
	OtherCard int
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("factor: dimension %d has cardinality %d, other has %d", e.ID, e.Card, e.OtherCard)
}

func (e *IncompatibleError) Unwrap() error { return ErrIncompatible }

// StateError reports a selection outside a dimension's state range.
type StateError struct {
	ID    int
	State int
	Card  int
}

func (e *StateError) Error() string {
	return fmt.Sprintf("factor: state %d out of range for dimension %d with cardinality %d", e.State, e.ID, e.Card)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }
