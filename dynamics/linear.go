package dynamics

import (
	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/control"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
)

// Linear is discrete-time linear dynamics with constant state transition matrix:
//
//	x[k+1] = F*x[k] + G*u[k]
type Linear struct {
	base
	f *matrix.Matrix
}

// NewLinear creates new linear dynamics with state transition matrix f and returns it.
// It returns error if f is not a square matrix.
func NewLinear(f *matrix.Matrix, opts ...Option) (*Linear, error) {
	if !f.IsSquare() {
		r, c := f.Dims()
		return nil, errs.Dimensionf("invalid state transition matrix dimensions: [%d x %d]", r, c)
	}

	return &Linear{
		base: newBase(opts...),
		f:    f.Clone(),
	}, nil
}

// Dim returns state dimension
func (l *Linear) Dim() int {
	return l.f.Rows()
}

// StateMatrix returns state transition matrix.
// It returns error if any state transition parameters are supplied.
func (l *Linear) StateMatrix(dt float64, p gnc.StateTransParams) (*matrix.Matrix, error) {
	if err := noStateTrans("linear dynamics", p); err != nil {
		return nil, err
	}

	return l.f.Clone(), nil
}

// Propagate propagates state x to the next step.
func (l *Linear) Propagate(x *matrix.Matrix, dt float64, p *gnc.PropagateParams) (*matrix.Matrix, error) {
	if err := checkState(x, l.Dim()); err != nil {
		return nil, err
	}

	f, err := l.StateMatrix(dt, stateTrans(p))
	if err != nil {
		return nil, err
	}

	return l.propagateLinear(f, x, dt, p)
}

// LTI is continuous-time linear time invariant dynamics
//
//	dx/dt = A*x + B*u
//
// discretized for every time step dt:
//
//	F = exp(A*dt)
//	G = integrate(exp(A*t)dt, 0, dt) * B
type LTI struct {
	base
	a *matrix.Matrix
}

// NewLTI creates new LTI dynamics with system matrix a and control matrix b and returns it.
// If b is nil the dynamics has no control model unless one is configured through options.
// It returns error if a is not square or if the number of b rows differs from a.
func NewLTI(a, b *matrix.Matrix, opts ...Option) (*LTI, error) {
	if !a.IsSquare() {
		r, c := a.Dims()
		return nil, errs.Dimensionf("invalid system matrix dimensions: [%d x %d]", r, c)
	}

	var ctl gnc.ControlModel
	if b != nil {
		if b.Rows() != a.Rows() {
			r, c := b.Dims()
			return nil, errs.Dimensionf("invalid control matrix dimensions: [%d x %d]", r, c)
		}
		ctl = &ltiControl{a: a.Clone(), b: b.Clone()}
	}

	lti := &LTI{
		base: newBase(append([]Option{WithControl(ctl)}, opts...)...),
		a:    a.Clone(),
	}

	return lti, nil
}

// Dim returns state dimension
func (l *LTI) Dim() int {
	return l.a.Rows()
}

// StateMatrix returns discretized state transition matrix exp(A*dt).
// It returns error if any state transition parameters are supplied.
func (l *LTI) StateMatrix(dt float64, p gnc.StateTransParams) (*matrix.Matrix, error) {
	if err := noStateTrans("lti dynamics", p); err != nil {
		return nil, err
	}

	return l.a.Scale(dt).Exp()
}

// Propagate propagates state x over time step dt.
func (l *LTI) Propagate(x *matrix.Matrix, dt float64, p *gnc.PropagateParams) (*matrix.Matrix, error) {
	if err := checkState(x, l.Dim()); err != nil {
		return nil, err
	}

	f, err := l.StateMatrix(dt, stateTrans(p))
	if err != nil {
		return nil, err
	}

	return l.propagateLinear(f, x, dt, p)
}

// ltiControl discretizes continuous-time control matrix
type ltiControl struct {
	a *matrix.Matrix
	b *matrix.Matrix
}

// InputMatrix returns discretized control matrix.
// It exponentiates the augmented matrix [A B; 0 0]*dt whose upper right block is G.
func (c *ltiControl) InputMatrix(dt float64, p gnc.ControlParams) (*matrix.Matrix, error) {
	if p != nil {
		return nil, errs.Configf("lti control accepts no control parameters, got: %T", p)
	}

	nx, nu := c.b.Dims()
	aug, err := matrix.Zeros(nx+nu, nx+nu)
	if err != nil {
		return nil, err
	}

	for i := 0; i < nx; i++ {
		for j := 0; j < nx; j++ {
			v, _ := c.a.Get(i, j)
			if err := aug.Set(i, j, v*dt); err != nil {
				return nil, err
			}
		}
		for j := 0; j < nu; j++ {
			v, _ := c.b.Get(i, j)
			if err := aug.Set(i, nx+j, v*dt); err != nil {
				return nil, err
			}
		}
	}

	e, err := aug.Exp()
	if err != nil {
		return nil, err
	}

	g, err := matrix.Zeros(nx, nu)
	if err != nil {
		return nil, err
	}

	for i := 0; i < nx; i++ {
		for j := 0; j < nu; j++ {
			v, _ := e.Get(i, nx+j)
			if err := g.Set(i, j, v); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

// Input returns G*u
func (c *ltiControl) Input(dt float64, u *matrix.Matrix, p gnc.ControlParams) (*matrix.Matrix, error) {
	g, err := c.InputMatrix(dt, p)
	if err != nil {
		return nil, err
	}

	return control.Apply(g, u)
}
