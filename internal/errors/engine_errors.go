package errors

import (
	"errors"
	"fmt"
)

// Engine skip conditions. All four are non-fatal and instrument-scoped: the
// orchestrator skips the instrument for the current cycle and moves on. The
// process never terminates because one instrument's pipeline reported one of
// these.
var (
	// ErrInsufficientData means the price window is shorter than the largest
	// lookback the pipeline needs (the slow trend EMA).
	ErrInsufficientData = errors.New("insufficient data for evaluation window")

	// ErrNoSignal means the confluence gate was not met. Recovered silently,
	// nothing is dispatched.
	ErrNoSignal = errors.New("no qualifying signal")

	// ErrNoValidRiskSetup means the risk planner could not produce a plan
	// meeting the minimum reward:risk, or found no usable structure level.
	ErrNoValidRiskSetup = errors.New("no valid risk setup")

	// ErrVolatileMarket means the trailing volatility guard rejected the
	// window as too choppy for a reliable setup.
	ErrVolatileMarket = errors.New("market too volatile for reliable signals")
)

// CollaboratorError wraps a failure from an external collaborator (price
// fetch, dispatch). It carries the component and operation for logging; the
// orchestration loop treats it as a per-instrument skip.
type CollaboratorError struct {
	Component  string
	Operation  string
	Underlying error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("[%s] %s failed: %v", e.Component, e.Operation, e.Underlying)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Underlying
}

// NewCollaboratorError wraps err with collaborator context. Returns nil for
// a nil err so call sites can wrap unconditionally.
func NewCollaboratorError(component, operation string, err error) *CollaboratorError {
	if err == nil {
		return nil
	}
	return &CollaboratorError{Component: component, Operation: operation, Underlying: err}
}

// IsSkip reports whether err is one of the tagged engine skip conditions
// (as opposed to a collaborator failure or an unexpected error).
func IsSkip(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrNoSignal) ||
		errors.Is(err, ErrNoValidRiskSetup) ||
		errors.Is(err, ErrVolatileMarket)
}

// SkipReason returns a short label for a skip condition, used for metrics
// and log fields. Unknown errors map to "error".
func SkipReason(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, ErrNoSignal):
		return "no_signal"
	case errors.Is(err, ErrNoValidRiskSetup):
		return "no_valid_risk_setup"
	case errors.Is(err, ErrVolatileMarket):
		return "volatile_market"
	default:
		return "error"
	}
}
