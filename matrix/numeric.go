package matrix

import (
	"github.com/milosgajdos/go-gnc/errs"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// JacobianStep is the finite difference step used by Jacobian
const JacobianStep = 1e-7

// VecFunc is a vector valued function of a vector
type VecFunc func(x *Matrix) (*Matrix, error)

// DerivFunc returns time derivative of x at time t
type DerivFunc func(t float64, x *Matrix) (*Matrix, error)

// Jacobian returns m x n Jacobian of f evaluated at n-dimensional vector x using
// central differences with a fixed step JacobianStep for every component.
// It returns error if x is not a vector, if f fails or if f does not return m-dimensional vector.
func Jacobian(f VecFunc, x *Matrix, m int) (*Matrix, error) {
	if !x.IsVector() {
		r, c := x.Dims()
		return nil, errs.Dimensionf("jacobian point is not a vector: [%d x %d]", r, c)
	}

	if m <= 0 {
		return nil, errs.Dimensionf("invalid jacobian output dimension: %d", m)
	}

	var fErr error
	fn := func(y, xs []float64) {
		if fErr != nil {
			return
		}

		xv, err := NewVector(xs)
		if err != nil {
			fErr = err
			return
		}

		out, err := f(xv)
		if err != nil {
			fErr = err
			return
		}

		if !out.IsVector() || out.Len() != m {
			r, c := out.Dims()
			fErr = errs.Dimensionf("jacobian function output: expected %d vector, got [%d x %d]", m, r, c)
			return
		}

		copy(y, out.RawData())
	}

	jac := mat.NewDense(m, x.Len(), nil)
	// f is evaluated serially: fErr is not synchronized
	fd.Jacobian(jac, fn, x.RawData(), &fd.JacobianSettings{
		Formula: fd.Central,
		Step:    JacobianStep,
	})

	if fErr != nil {
		return nil, errs.Wrapf(fErr, "failed to evaluate jacobian")
	}

	return &Matrix{d: jac}, nil
}

// RK4 integrates f from time t0 and state x0 over dt using classic
// fixed step fourth order Runge-Kutta method and returns the new state.
func RK4(f DerivFunc, t0 float64, x0 *Matrix, dt float64) (*Matrix, error) {
	if !x0.IsVector() {
		r, c := x0.Dims()
		return nil, errs.Dimensionf("rk4 state is not a vector: [%d x %d]", r, c)
	}

	k0, err := f(t0, x0)
	if err != nil {
		return nil, err
	}

	step := func(k *Matrix, h float64) (*Matrix, error) {
		return x0.Add(k.Scale(h))
	}

	x1, err := step(k0, dt/2)
	if err != nil {
		return nil, err
	}

	k1, err := f(t0+dt/2, x1)
	if err != nil {
		return nil, err
	}

	x2, err := step(k1, dt/2)
	if err != nil {
		return nil, err
	}

	k2, err := f(t0+dt/2, x2)
	if err != nil {
		return nil, err
	}

	x3, err := step(k2, dt)
	if err != nil {
		return nil, err
	}

	k3, err := f(t0+dt, x3)
	if err != nil {
		return nil, err
	}

	// k0 + 2*k1 + 2*k2 + k3
	sum, err := k0.Add(k1.Scale(2))
	if err != nil {
		return nil, err
	}

	if sum, err = sum.Add(k2.Scale(2)); err != nil {
		return nil, err
	}

	if sum, err = sum.Add(k3); err != nil {
		return nil, err
	}

	return x0.Add(sum.Scale(dt / 6))
}
