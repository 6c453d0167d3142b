package odr

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var errSingular = errors.New("normal matrix is not positive definite")

// normalEq holds the Gauss-Newton normal equations of the weighted ODR
// problem at one iterate. Unknowns are ordered (beta, delta). The delta block
// is diagonal, so it is eliminated through the Schur complement and only a
// p x p system is factorized.
type normalEq struct {
	p, n int

	a  *mat.SymDense // sum_i wy g g^T
	c  *mat.Dense    // row i: wy * s_i * g_i
	d  []float64     // wy s^2 + wx
	rb []float64     // -dS/dbeta / 2
	rd []float64     // -dS/ddelta / 2

	scaleA []float64
	scaleD []float64
}

func newNormalEq(pr *problem, st *state) *normalEq {
	p, n := pr.p, pr.n
	ne := &normalEq{
		p:      p,
		n:      n,
		a:      mat.NewSymDense(p, nil),
		c:      mat.NewDense(n, p, nil),
		d:      make([]float64, n),
		rb:     make([]float64, p),
		rd:     make([]float64, n),
		scaleA: make([]float64, p),
		scaleD: make([]float64, n),
	}

	for i := 0; i < n; i++ {
		g := st.grad.RawRowView(i)
		wy, wx := pr.wy[i], pr.wx[i]
		s, e := st.slope[i], st.eps[i]

		ne.a.SymRankOne(ne.a, wy, mat.NewVecDense(p, g))
		floats.AddScaled(ne.rb, -wy*e, g)

		row := ne.c.RawRowView(i)
		floats.ScaleTo(row, wy*s, g)

		ne.d[i] = wy*s*s + wx
		ne.rd[i] = -(wy*s*e + wx*st.delta[i])
		ne.scaleD[i] = ne.d[i]
	}

	for j := 0; j < p; j++ {
		ne.scaleA[j] = ne.a.At(j, j)
		if ne.scaleA[j] <= 0 {
			ne.scaleA[j] = 1
		}
	}
	return ne
}

// reduced returns the Schur complement of the delta block, damped by lambda,
// together with the matching right-hand side.
func (ne *normalEq) reduced(lambda float64) (*mat.SymDense, []float64, []float64) {
	m := mat.NewSymDense(ne.p, nil)
	m.CopySym(ne.a)
	for j := 0; j < ne.p; j++ {
		m.SetSym(j, j, m.At(j, j)+lambda*ne.scaleA[j])
	}

	rhs := append([]float64(nil), ne.rb...)
	d := make([]float64, ne.n)
	for i := 0; i < ne.n; i++ {
		d[i] = ne.d[i] + lambda*ne.scaleD[i]
		ci := ne.c.RawRowView(i)
		m.SymRankOne(m, -1/d[i], mat.NewVecDense(ne.p, ci))
		floats.AddScaled(rhs, -ne.rd[i]/d[i], ci)
	}
	return m, rhs, d
}

// step solves the damped system. pred is the reduction in the weighted sum of
// squares predicted by the linearised model.
func (ne *normalEq) step(lambda float64) (dBeta, dDelta []float64, pred float64, err error) {
	m, rhs, d := ne.reduced(lambda)

	var chol mat.Cholesky
	if ok := chol.Factorize(m); !ok {
		return nil, nil, 0, errSingular
	}
	x := mat.NewVecDense(ne.p, nil)
	if err := chol.SolveVecTo(x, mat.NewVecDense(ne.p, rhs)); err != nil {
		return nil, nil, 0, err
	}

	dBeta = mat.Col(nil, 0, x)
	dDelta = make([]float64, ne.n)
	for i := 0; i < ne.n; i++ {
		dDelta[i] = (ne.rd[i] - floats.Dot(ne.c.RawRowView(i), dBeta)) / d[i]
	}

	pred = floats.Dot(dBeta, ne.rb) + floats.Dot(dDelta, ne.rd)
	for j, v := range dBeta {
		pred += lambda * ne.scaleA[j] * v * v
	}
	for i, v := range dDelta {
		pred += lambda * ne.scaleD[i] * v * v
	}
	return dBeta, dDelta, pred, nil
}

// covariance inverts the undamped reduced matrix, giving the unscaled
// covariance of beta with delta profiled out.
func (ne *normalEq) covariance() (*mat.SymDense, error) {
	m, _, _ := ne.reduced(0)

	var chol mat.Cholesky
	if ok := chol.Factorize(m); !ok {
		return nil, errSingular
	}
	cov := mat.NewSymDense(ne.p, nil)
	if err := chol.InverseTo(cov); err != nil {
		return nil, err
	}
	return cov, nil
}
