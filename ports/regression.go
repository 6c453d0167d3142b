package ports

import (
	"context"

	"odrfit/domain/fit"
	"odrfit/domain/measurement"
	"odrfit/domain/model"
)

// RegressionPort runs an errors-in-both-variables regression. A nil beta0
// asks the implementation to use the model's initial guess.
type RegressionPort interface {
	Fit(ctx context.Context, set *measurement.Set, m model.Model, beta0 []float64) (*fit.Result, error)
}
