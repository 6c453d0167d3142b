package odr

import (
	"math"

	"odrfit/domain/core"
	"odrfit/internal"
)

const (
	defaultMaxIterations = 50
	defaultDamping       = 1e-3
	minDamping           = 1e-15
	maxDamping           = 1e16
)

// Settings tunes the Levenberg-Marquardt iteration.
type Settings struct {
	MaxIterations int
	// SumSquaresTol stops when the actual and predicted relative reduction of
	// the weighted sum of squares both fall below it.
	SumSquaresTol float64
	// ParamTol stops when the relative step over all unknowns falls below it.
	ParamTol float64
	Damping  float64
	Logger   *internal.Logger
}

// DefaultSettings mirrors the classic ODRPACK tolerances.
func DefaultSettings() Settings {
	eps := math.Nextafter(1, 2) - 1
	return Settings{
		MaxIterations: defaultMaxIterations,
		SumSquaresTol: math.Sqrt(eps),
		ParamTol:      math.Pow(eps, 2.0/3.0),
		Damping:       defaultDamping,
	}
}

// Option configures an Engine.
type Option func(*Settings) error

// WithMaxIterations caps the number of accepted steps.
func WithMaxIterations(n int) Option {
	return func(s *Settings) error {
		if n <= 0 {
			return core.NewConfigurationError("max_iterations", "must be positive")
		}
		s.MaxIterations = n
		return nil
	}
}

// WithSumSquaresTol sets the relative sum of squares tolerance.
func WithSumSquaresTol(tol float64) Option {
	return func(s *Settings) error {
		if !(tol > 0 && tol < 1) {
			return core.NewConfigurationError("sum_squares_tol", "must be in (0, 1)")
		}
		s.SumSquaresTol = tol
		return nil
	}
}

// WithParamTol sets the relative parameter step tolerance.
func WithParamTol(tol float64) Option {
	return func(s *Settings) error {
		if !(tol > 0 && tol < 1) {
			return core.NewConfigurationError("param_tol", "must be in (0, 1)")
		}
		s.ParamTol = tol
		return nil
	}
}

// WithDamping sets the starting Marquardt parameter.
func WithDamping(lambda float64) Option {
	return func(s *Settings) error {
		if !(lambda > 0) {
			return core.NewConfigurationError("damping", "must be positive")
		}
		s.Damping = lambda
		return nil
	}
}

// WithLogger routes per-iteration diagnostics to l.
func WithLogger(l *internal.Logger) Option {
	return func(s *Settings) error {
		s.Logger = l
		return nil
	}
}
