package core

import (
	"errors"
	"testing"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		configuration bool
		insufficient  bool
		convergence   bool
	}{
		{"invalid model", NewInvalidModelError("cubic-spline"), true, false, false},
		{"length mismatch", ErrLengthMismatch, true, false, false},
		{"non-positive error", ErrNonPositiveErr, true, false, false},
		{"param mismatch", ErrParamMismatch, true, false, false},
		{"field", NewConfigurationError("degree", "must be non-negative"), true, false, false},
		{"insufficient", NewInsufficientDataError(2, 4), false, true, false},
		{"empty set", ErrTooFewMeasured, false, true, false},
		{"convergence", NewConvergenceError("iteration limit reached", 50), false, false, true},
	}

	for _, test := range tests {
		if got := IsConfigurationError(test.err); got != test.configuration {
			t.Errorf("%s: IsConfigurationError = %v, want %v", test.name, got, test.configuration)
		}
		if got := IsInsufficientData(test.err); got != test.insufficient {
			t.Errorf("%s: IsInsufficientData = %v, want %v", test.name, got, test.insufficient)
		}
		if got := IsConvergenceError(test.err); got != test.convergence {
			t.Errorf("%s: IsConvergenceError = %v, want %v", test.name, got, test.convergence)
		}
	}
}

func TestInvalidModelIsDistinguishable(t *testing.T) {
	err := NewInvalidModelError("gaussian")
	if !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("expected ErrInvalidModel in chain, got %v", err)
	}
	if errors.Is(ErrLengthMismatch, ErrInvalidModel) {
		t.Error("length mismatch must not be reported as an invalid model")
	}
}
