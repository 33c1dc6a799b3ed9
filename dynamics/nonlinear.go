package dynamics

import (
	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
)

// FuncParams are parameters passed through to user supplied functions
type FuncParams struct {
	// Values are function parameter values
	Values []float64
}

// StateTransKind implements gnc.StateTransParams
func (FuncParams) StateTransKind() string { return "func" }

// ContinuousFunc returns time derivative of state x at time t
type ContinuousFunc func(t float64, x *matrix.Matrix, p gnc.StateTransParams) (*matrix.Matrix, error)

// NonLinear is nonlinear continuous-time dynamics integrated with fixed step RK4 method.
// Control input is added after the integration step.
type NonLinear struct {
	base
	dim int
	f   ContinuousFunc
}

// NewNonLinear creates new nonlinear dynamics of dimension dim given by continuous-time function f.
// It returns error if dim is not positive or f is nil.
func NewNonLinear(dim int, f ContinuousFunc, opts ...Option) (*NonLinear, error) {
	if dim <= 0 {
		return nil, errs.Configf("invalid state dimension: %d", dim)
	}

	if f == nil {
		return nil, errs.Configf("nil dynamics function")
	}

	return &NonLinear{
		base: newBase(opts...),
		dim:  dim,
		f:    f,
	}, nil
}

// Dim returns state dimension
func (n *NonLinear) Dim() int {
	return n.dim
}

func (n *NonLinear) step(x *matrix.Matrix, dt float64, p gnc.StateTransParams) (*matrix.Matrix, error) {
	deriv := func(t float64, x *matrix.Matrix) (*matrix.Matrix, error) {
		dx, err := n.f(t, x, p)
		if err != nil {
			return nil, err
		}

		if err := checkState(dx, n.dim); err != nil {
			return nil, errs.Wrapf(err, "invalid dynamics function output")
		}

		return dx, nil
	}

	return matrix.RK4(deriv, 0, x, dt)
}

// Propagate propagates state x over time step dt.
func (n *NonLinear) Propagate(x *matrix.Matrix, dt float64, p *gnc.PropagateParams) (*matrix.Matrix, error) {
	if err := checkState(x, n.dim); err != nil {
		return nil, err
	}

	out, err := n.step(x, dt, stateTrans(p))
	if err != nil {
		return nil, errs.Wrapf(err, "failed to propagate state")
	}

	if out, err = n.addControl(out, dt, p); err != nil {
		return nil, err
	}

	return n.constrain(out, p)
}

// Jacobian returns numeric Jacobian of the integration step evaluated at x.
func (n *NonLinear) Jacobian(x *matrix.Matrix, dt float64, p gnc.StateTransParams) (*matrix.Matrix, error) {
	if err := checkState(x, n.dim); err != nil {
		return nil, err
	}

	f := func(x *matrix.Matrix) (*matrix.Matrix, error) {
		return n.step(x, dt, p)
	}

	return matrix.Jacobian(f, x, n.dim)
}
