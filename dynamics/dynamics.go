// Package dynamics implements models of state evolution over time.
//
// Every model propagates a state vector over a time step dt which is passed
// in on every call; models do not store the time step and are safe to share
// between filters. Control input and state constraints are optional model
// capabilities configured through Option.
package dynamics

import (
	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
)

// Option configures dynamics model
type Option func(*base)

// WithControl configures dynamics control model
func WithControl(c gnc.ControlModel) Option {
	return func(b *base) {
		b.control = c
	}
}

// WithConstraint adds state constraints applied in the given order after every propagation
func WithConstraint(c ...Constraint) Option {
	return func(b *base) {
		b.constraints = append(b.constraints, c...)
	}
}

// base implements control and constraint capabilities shared by all models
type base struct {
	control     gnc.ControlModel
	constraints []Constraint
}

func newBase(opts ...Option) base {
	var b base
	for _, apply := range opts {
		apply(&b)
	}

	return b
}

// HasControl returns true if the model has control model
func (b *base) HasControl() bool {
	return b.control != nil
}

// InputMatrix returns control input matrix G for time step dt.
// It returns error if the model has no control model.
func (b *base) InputMatrix(dt float64, p gnc.ControlParams) (*matrix.Matrix, error) {
	if b.control == nil {
		return nil, errs.NoControlf("dynamics has no control model")
	}

	return b.control.InputMatrix(dt, p)
}

// HasConstraint returns true if the model has state constraints
func (b *base) HasConstraint() bool {
	return len(b.constraints) > 0
}

// ApplyConstraints returns a copy of x with all model constraints applied.
// It returns error if the model has no state constraint.
func (b *base) ApplyConstraints(x *matrix.Matrix, p gnc.ConstraintParams) (*matrix.Matrix, error) {
	if len(b.constraints) == 0 {
		return nil, errs.NoConstraintf("dynamics has no state constraint")
	}

	out := x.Clone()
	for _, c := range b.constraints {
		var err error
		if out, err = c.Apply(out, p); err != nil {
			return nil, errs.Wrapf(err, "failed to apply state constraint")
		}
	}

	return out, nil
}

// addControl adds control term G*u to x if control input u is supplied.
func (b *base) addControl(x *matrix.Matrix, dt float64, p *gnc.PropagateParams) (*matrix.Matrix, error) {
	if p == nil || p.Control == nil {
		return x, nil
	}

	if b.control == nil {
		return nil, errs.NoControlf("control input supplied to dynamics without control model")
	}

	gu, err := b.control.Input(dt, p.Control, p.ControlParams)
	if err != nil {
		return nil, err
	}

	out, err := x.Add(gu)
	if err != nil {
		return nil, errs.Wrapf(err, "failed to add control input")
	}

	return out, nil
}

// constrain applies model constraints to x if the model has any.
func (b *base) constrain(x *matrix.Matrix, p *gnc.PropagateParams) (*matrix.Matrix, error) {
	var cp gnc.ConstraintParams
	if p != nil {
		cp = p.Constraint
	}

	if !b.HasConstraint() {
		if cp != nil {
			return nil, errs.NoConstraintf("constraint parameters supplied to dynamics without constraint")
		}
		return x, nil
	}

	return b.ApplyConstraints(x, cp)
}

// propagateLinear returns F*x with control and constraints applied.
func (b *base) propagateLinear(f *matrix.Matrix, x *matrix.Matrix, dt float64, p *gnc.PropagateParams) (*matrix.Matrix, error) {
	out, err := f.Mul(x)
	if err != nil {
		return nil, errs.Wrapf(err, "failed to propagate state")
	}

	if out, err = b.addControl(out, dt, p); err != nil {
		return nil, err
	}

	return b.constrain(out, p)
}

func stateTrans(p *gnc.PropagateParams) gnc.StateTransParams {
	if p == nil {
		return nil
	}

	return p.StateTrans
}

// checkState returns error if x is not a vector of length n
func checkState(x *matrix.Matrix, n int) error {
	if !x.IsVector() || x.Len() != n {
		r, c := x.Dims()
		return errs.Dimensionf("invalid state: expected %d vector, got [%d x %d]", n, r, c)
	}

	return nil
}

// noStateTrans returns error if p is not nil
func noStateTrans(model string, p gnc.StateTransParams) error {
	if p != nil {
		return errs.Configf("%s accepts no state transition parameters, got: %T", model, p)
	}

	return nil
}
