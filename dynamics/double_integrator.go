package dynamics

import (
	"fmt"

	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
)

var axisNames = []string{"x", "y", "z"}

// DoubleIntegrator is constant velocity kinematics along independent axes.
// State vector contains all positions followed by all velocities:
//
//	[p1 ... pk v1 ... vk]
type DoubleIntegrator struct {
	base
	axes int
}

// NewDoubleIntegrator creates new double integrator with given number of axes and returns it.
// It returns error if axes is not positive.
func NewDoubleIntegrator(axes int, opts ...Option) (*DoubleIntegrator, error) {
	if axes <= 0 {
		return nil, errs.Configf("invalid number of axes: %d", axes)
	}

	return &DoubleIntegrator{
		base: newBase(opts...),
		axes: axes,
	}, nil
}

// Dim returns state dimension
func (d *DoubleIntegrator) Dim() int {
	return 2 * d.axes
}

// StateNames returns names of state elements
func (d *DoubleIntegrator) StateNames() []string {
	names := make([]string, 0, d.Dim())
	for _, prefix := range []string{"", "v"} {
		for i := 0; i < d.axes; i++ {
			name := fmt.Sprintf("p%d", i)
			if d.axes <= len(axisNames) {
				name = axisNames[i]
			}
			if prefix != "" {
				name = prefix + name
			}
			names = append(names, name)
		}
	}

	return names
}

// StateMatrix returns state transition matrix
//
//	F = [I dt*I]
//	    [0   I ]
//
// It returns error if any state transition parameters are supplied.
func (d *DoubleIntegrator) StateMatrix(dt float64, p gnc.StateTransParams) (*matrix.Matrix, error) {
	if err := noStateTrans("double integrator", p); err != nil {
		return nil, err
	}

	f, err := matrix.Identity(d.Dim())
	if err != nil {
		return nil, err
	}

	for i := 0; i < d.axes; i++ {
		if err := f.Set(i, d.axes+i, dt); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Propagate propagates state x over time step dt.
func (d *DoubleIntegrator) Propagate(x *matrix.Matrix, dt float64, p *gnc.PropagateParams) (*matrix.Matrix, error) {
	if err := checkState(x, d.Dim()); err != nil {
		return nil, err
	}

	f, err := d.StateMatrix(dt, stateTrans(p))
	if err != nil {
		return nil, err
	}

	return d.propagateLinear(f, x, dt, p)
}
