package measurement

import (
	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
)

// FuncParams are parameters passed through to user supplied measurement functions
type FuncParams struct {
	// Values are function parameter values
	Values []float64
}

// MeasKind implements gnc.MeasParams
func (FuncParams) MeasKind() string { return "func" }

// MeasFunc returns expected measurement of state x
type MeasFunc func(x *matrix.Matrix, p gnc.MeasParams) (*matrix.Matrix, error)

// NonLinear is measurement model given by a function whose Jacobian is computed numerically
type NonLinear struct {
	dim int
	h   MeasFunc
}

// NewNonLinear creates new nonlinear measurement model of dimension dim given by function h.
// It returns error if dim is not positive or h is nil.
func NewNonLinear(dim int, h MeasFunc) (*NonLinear, error) {
	if dim <= 0 {
		return nil, errs.Configf("invalid measurement dimension: %d", dim)
	}

	if h == nil {
		return nil, errs.Configf("nil measurement function")
	}

	return &NonLinear{
		dim: dim,
		h:   h,
	}, nil
}

// Dim returns measurement dimension
func (n *NonLinear) Dim(p gnc.MeasParams) (int, error) {
	return n.dim, nil
}

// Estimate returns h(x).
// It returns error if h does not return vector of the model dimension.
func (n *NonLinear) Estimate(x *matrix.Matrix, p gnc.MeasParams) (*matrix.Matrix, error) {
	if err := checkState(x); err != nil {
		return nil, err
	}

	z, err := n.h(x, p)
	if err != nil {
		return nil, err
	}

	if !z.IsVector() || z.Len() != n.dim {
		r, c := z.Dims()
		return nil, errs.Dimensionf("invalid measurement function output: expected %d vector, got [%d x %d]", n.dim, r, c)
	}

	return z, nil
}

// Jacobian returns numeric Jacobian of h evaluated at x
func (n *NonLinear) Jacobian(x *matrix.Matrix, p gnc.MeasParams) (*matrix.Matrix, error) {
	if err := checkState(x); err != nil {
		return nil, err
	}

	f := func(x *matrix.Matrix) (*matrix.Matrix, error) {
		return n.Estimate(x, p)
	}

	return matrix.Jacobian(f, x, n.dim)
}
