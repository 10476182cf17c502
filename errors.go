package factorgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/factorgo/factor"
	"github.com/hupe1980/factorgo/network"
	"github.com/hupe1980/factorgo/pool"
)

var (
	// ErrUnknownVariable is returned for a query or evidence variable the
	// network does not declare.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrInvalidEvidence is returned for an observed state outside the
	// variable's range.
	ErrInvalidEvidence = errors.New("invalid evidence")

	// ErrNoRecommendation is returned when the evidence has zero probability,
	// so there is no posterior to rank.
	ErrNoRecommendation = errors.New("no recommendation")

	// ErrClosed is returned by operations on a closed Engine.
	ErrClosed = errors.New("engine closed")
)

// ErrInvalidState indicates an evidence state outside a variable's range.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrInvalidState struct {
	Variable int
	State    int
	Card     int
	cause    error
}

func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("invalid state %d for variable %d with %d states", e.State, e.Variable, e.Card)
}

func (e *ErrInvalidState) Unwrap() []error { return []error{ErrInvalidEvidence, e.cause} }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var se *factor.StateError
	if errors.Is(err, network.ErrInvalidEvidence) && errors.As(err, &se) {
		return &ErrInvalidState{Variable: se.ID, State: se.State, Card: se.Card, cause: err}
	}
	if errors.Is(err, network.ErrInvalidEvidence) {
		return fmt.Errorf("%w: %w", ErrInvalidEvidence, err)
	}
	if errors.Is(err, network.ErrUnknownVariable) {
		return fmt.Errorf("%w: %w", ErrUnknownVariable, err)
	}
	if errors.Is(err, network.ErrZeroPosterior) {
		return fmt.Errorf("%w: %w", ErrNoRecommendation, err)
	}
	if errors.Is(err, pool.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}

	return err
}
