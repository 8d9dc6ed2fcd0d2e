package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Level and distribution errors
	ErrInvalidLevel           = errors.New("cut level outside (0,1]")
	ErrDegenerateDistribution = errors.New("degenerate distribution: max possibility is 0")
	ErrEmptyDistribution      = errors.New("distribution has no points")
	ErrPossibilityOutOfRange  = errors.New("possibility value outside [0,1]")
	ErrUnorderedDomain        = errors.New("curve domain values not strictly increasing")
	ErrShapeMismatch          = errors.New("shape and observation representations do not match")

	// Calibration and skill errors
	ErrNoCoverageAtLevel  = errors.New("calibration target outside observed coverage range")
	ErrDegenerateBaseline = errors.New("degenerate baseline")
	ErrInsufficientCases  = errors.New("insufficient cases")

	// Input errors
	ErrEmptyInput     = errors.New("empty input")
	ErrLengthMismatch = errors.New("input lengths do not match")
)

// Error constructors with context
func NewInvalidLevelError(r float64) error {
	return fmt.Errorf("%w: got %g", ErrInvalidLevel, r)
}

func NewDegenerateDistributionError(caseID CaseID) error {
	if caseID.String() == "" {
		return ErrDegenerateDistribution
	}
	return fmt.Errorf("%w (case %s)", ErrDegenerateDistribution, caseID)
}

func NewNoCoverageError(target, lo, hi float64) error {
	return fmt.Errorf("%w: target %g outside [%g, %g]", ErrNoCoverageAtLevel, target, lo, hi)
}

func NewDegenerateBaselineError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDegenerateBaseline, reason)
}

func NewInsufficientCasesError(context string, need, got int) error {
	return fmt.Errorf("%w for %s: need %d, got %d", ErrInsufficientCases, context, need, got)
}

// Error checking helpers
func IsInvalidLevel(err error) bool {
	return errors.Is(err, ErrInvalidLevel)
}

func IsDegenerateDistribution(err error) bool {
	return errors.Is(err, ErrDegenerateDistribution)
}

func IsDegenerateBaseline(err error) bool {
	return errors.Is(err, ErrDegenerateBaseline)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrShapeMismatch)
}
