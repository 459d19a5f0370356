// Package newton solves small nonlinear systems F(x) = 0 with Newton's
// method when the Jacobian is known. Each iterate solves J(x) Δ = -F(x) by
// LU factorisation.
package newton

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrSingular      = errors.New("newton: singular linear system")
	ErrNoConvergence = errors.New("newton: no convergence")
	ErrDimension     = errors.New("newton: dimension mismatch")
)

// SingularError reports the system that could not be solved.
type SingularError struct {
	A   *mat.Dense
	B   *mat.VecDense
	Err error
}

func (e *SingularError) Error() string {
	return fmt.Sprintf("newton: unable to solve linear system A = %v, b = %v: %v",
		mat.Formatted(e.A, mat.Squeeze()), mat.Formatted(e.B.T(), mat.Squeeze()), e.Err)
}

func (e *SingularError) Unwrap() error { return ErrSingular }

// SolveLinearSystem returns x with A x = b.
func SolveLinearSystem(a *mat.Dense, b *mat.VecDense) (*mat.VecDense, error) {
	r, c := a.Dims()
	if r != c || r != b.Len() {
		return nil, fmt.Errorf("%w: A is %dx%d, b has %d rows", ErrDimension, r, c, b.Len())
	}

	var lu mat.LU
	lu.Factorize(a)
	if cond := lu.Cond(); math.IsInf(cond, 1) || cond > mat.ConditionTolerance {
		return nil, &SingularError{A: a, B: b, Err: mat.Condition(cond)}
	}

	x := mat.NewVecDense(r, nil)
	if err := lu.SolveVecTo(x, false, b); err != nil {
		return nil, &SingularError{A: a, B: b, Err: err}
	}
	return x, nil
}

// Func evaluates F at x.
type Func func(x *mat.VecDense) *mat.VecDense

// Jacobian evaluates dF/dx at x; row i holds the gradient of F_i.
type Jacobian func(x *mat.VecDense) *mat.Dense

type options struct {
	tolerance     float64
	maxIterations int
}

type Option func(*options)

// WithTolerance sets the bound on |Δ|² that ends the iteration.
func WithTolerance(tol float64) Option {
	return func(o *options) { o.tolerance = tol }
}

func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIterations = n }
}

// Method runs Newton's method from x0 and returns the final iterate. The
// step that brought |Δ|² under the tolerance is applied before returning.
func Method(f Func, jac Jacobian, x0 *mat.VecDense, opts ...Option) (*mat.VecDense, error) {
	o := options{tolerance: 1e-12, maxIterations: 100}
	for _, opt := range opts {
		opt(&o)
	}

	x := mat.VecDenseCopyOf(x0)
	for range o.maxIterations {
		rhs := f(x)
		rhs.ScaleVec(-1, rhs)
		delta, err := SolveLinearSystem(jac(x), rhs)
		if err != nil {
			return x, err
		}
		x.AddVec(x, delta)
		if mat.Dot(delta, delta) < o.tolerance {
			return x, nil
		}
	}
	return x, fmt.Errorf("%w after %d iterations", ErrNoConvergence, o.maxIterations)
}
