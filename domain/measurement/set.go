package measurement

import (
	"fmt"
	"math"

	"odrfit/domain/core"
)

// Set is an ordered collection of (x, y) measurements with independent
// standard deviations on both axes. A Set is never modified after construction.
type Set struct {
	x    []float64
	y    []float64
	xErr []float64
	yErr []float64
}

// NewSet copies and validates the four measurement columns.
func NewSet(x, y, xErr, yErr []float64) (*Set, error) {
	if len(x) != len(y) || len(x) != len(xErr) || len(x) != len(yErr) {
		return nil, fmt.Errorf("%w: x=%d y=%d x_err=%d y_err=%d",
			core.ErrLengthMismatch, len(x), len(y), len(xErr), len(yErr))
	}

	s := &Set{
		x:    append([]float64(nil), x...),
		y:    append([]float64(nil), y...),
		xErr: append([]float64(nil), xErr...),
		yErr: append([]float64(nil), yErr...),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// FromRows builds a Set from n-by-4 rows laid out as x, y, x-error, y-error.
func FromRows(rows [][4]float64) (*Set, error) {
	n := len(rows)
	x := make([]float64, n)
	y := make([]float64, n)
	xErr := make([]float64, n)
	yErr := make([]float64, n)
	for i, r := range rows {
		x[i], y[i], xErr[i], yErr[i] = r[0], r[1], r[2], r[3]
	}
	return NewSet(x, y, xErr, yErr)
}

// Validate checks the invariants every fit relies on.
func (s *Set) Validate() error {
	n := len(s.x)
	if len(s.y) != n || len(s.xErr) != n || len(s.yErr) != n {
		return core.ErrLengthMismatch
	}
	if n == 0 {
		return core.ErrTooFewMeasured
	}

	for i := 0; i < n; i++ {
		for _, v := range [...]float64{s.x[i], s.y[i], s.xErr[i], s.yErr[i]} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: row %d", core.ErrNonFinite, i)
			}
		}
		if s.xErr[i] <= 0 {
			return fmt.Errorf("%w: x error %g at row %d", core.ErrNonPositiveErr, s.xErr[i], i)
		}
		if s.yErr[i] <= 0 {
			return fmt.Errorf("%w: y error %g at row %d", core.ErrNonPositiveErr, s.yErr[i], i)
		}
	}
	return nil
}

// Len returns the number of measurements.
func (s *Set) Len() int { return len(s.x) }

// At returns the i-th measurement.
func (s *Set) At(i int) (x, y, xErr, yErr float64) {
	return s.x[i], s.y[i], s.xErr[i], s.yErr[i]
}

// X returns a copy of the x column.
func (s *Set) X() []float64 { return append([]float64(nil), s.x...) }

// Y returns a copy of the y column.
func (s *Set) Y() []float64 { return append([]float64(nil), s.y...) }

// XErr returns a copy of the x standard deviations.
func (s *Set) XErr() []float64 { return append([]float64(nil), s.xErr...) }

// YErr returns a copy of the y standard deviations.
func (s *Set) YErr() []float64 { return append([]float64(nil), s.yErr...) }

// XRange returns the smallest and largest x value.
func (s *Set) XRange() (lo, hi float64) {
	lo, hi = s.x[0], s.x[0]
	for _, v := range s.x[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
