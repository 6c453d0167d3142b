package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"odrfit/domain/core"
)

// Polynomial is sum_{k=0..Degree} beta_k * x^k.
type Polynomial struct {
	degree int
}

// NewPolynomial rejects negative degrees.
func NewPolynomial(degree int) (Polynomial, error) {
	if degree < 0 {
		return Polynomial{}, fmt.Errorf("%w: polynomial degree %d", core.ErrInvalidModel, degree)
	}
	return Polynomial{degree: degree}, nil
}

func (p Polynomial) Degree() int    { return p.degree }
func (Polynomial) Kind() Kind       { return KindPolynomial }
func (p Polynomial) NumParams() int { return p.degree + 1 }

func (p Polynomial) Name() string {
	return fmt.Sprintf("%s (degree %d)", KindPolynomial, p.degree)
}

// Eval uses Horner's scheme.
func (p Polynomial) Eval(beta []float64, x float64) float64 {
	y := 0.0
	for k := p.degree; k >= 0; k-- {
		y = y*x + beta[k]
	}
	return y
}

func (p Polynomial) ParamGrad(_ []float64, x float64, dst []float64) {
	pow := 1.0
	for k := 0; k <= p.degree; k++ {
		dst[k] = pow
		pow *= x
	}
}

func (p Polynomial) Slope(beta []float64, x float64) float64 {
	d := 0.0
	for k := p.degree; k >= 1; k-- {
		d = d*x + float64(k)*beta[k]
	}
	return d
}

// InitialGuess solves the ordinary least squares problem on the Vandermonde
// matrix. It falls back to all-ones when the system is under-determined or
// rank deficient.
func (p Polynomial) InitialGuess(x, y []float64) []float64 {
	n := p.NumParams()
	if len(x) < n || len(x) != len(y) {
		return ones(n)
	}

	a := vandermonde(x, p.degree)
	b := mat.NewVecDense(len(y), append([]float64(nil), y...))
	c := mat.NewVecDense(n, nil)

	var qr mat.QR
	qr.Factorize(a)
	if err := qr.SolveVecTo(c, false, b); err != nil {
		return ones(n)
	}
	return mat.Col(nil, 0, c)
}

// vandermonde builds the len(a) x (degree+1) matrix of powers of a.
func vandermonde(a []float64, degree int) *mat.Dense {
	x := mat.NewDense(len(a), degree+1, nil)
	for i := range a {
		for j, p := 0, 1.0; j <= degree; j, p = j+1, p*a[i] {
			x.Set(i, j, p)
		}
	}
	return x
}
