package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors
	ErrConfiguration  = errors.New("invalid fit configuration")
	ErrInvalidModel   = fmt.Errorf("%w: unsupported model", ErrConfiguration)
	ErrLengthMismatch = fmt.Errorf("%w: measurement arrays differ in length", ErrConfiguration)
	ErrNonPositiveErr = fmt.Errorf("%w: measurement error must be strictly positive", ErrConfiguration)
	ErrNonFinite      = fmt.Errorf("%w: measurement value is not finite", ErrConfiguration)
	ErrParamMismatch  = fmt.Errorf("%w: initial guess does not match parameter count", ErrConfiguration)

	// Data errors
	ErrInsufficientData = errors.New("insufficient data for fit")
	ErrTooFewMeasured   = fmt.Errorf("%w: at least one measurement is required", ErrInsufficientData)

	// Solver errors
	ErrFitDidNotConverge = errors.New("fit did not converge")
)

// Error constructors with context
func NewConfigurationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfiguration, field, reason)
}

func NewInvalidModelError(name string) error {
	return fmt.Errorf("%w %q", ErrInvalidModel, name)
}

func NewInsufficientDataError(points, params int) error {
	return fmt.Errorf("%w: %d measurements for %d free parameters", ErrInsufficientData, points, params)
}

func NewConvergenceError(reason string, iterations int) error {
	return fmt.Errorf("%w after %d iterations: %s", ErrFitDidNotConverge, iterations, reason)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsConvergenceError(err error) bool {
	return errors.Is(err, ErrFitDidNotConverge)
}
