package dynamics

import (
	"math"

	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/control"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
)

const (
	// curvilinear state indices
	cX = iota
	cY
	cSpeed
	cHeading
)

// minTurnRate is turn rate below which the motion is treated as straight
const minTurnRate = 1e-9

// Curvilinear is planar motion with constant speed rate and turn rate.
// State vector is [x y speed heading] and control input is [speed rate, turn rate].
// Heading is always wrapped into [0, 2*Pi): the wrap is the first of the model constraints,
// so HasConstraint is always true and ApplyConstraints always wraps the heading.
type Curvilinear struct {
	base
	ctl *control.StateControl
}

// NewCurvilinear creates new curvilinear motion dynamics and returns it.
// Its control model is fixed: it returns error if a control model is configured through options.
func NewCurvilinear(opts ...Option) (*Curvilinear, error) {
	b := newBase(opts...)
	if b.control != nil {
		return nil, errs.Configf("curvilinear motion control model can not be replaced")
	}

	b.constraints = append([]Constraint{WrapAngles(cHeading)}, b.constraints...)

	ctl, err := control.NewStateControl(4)
	if err != nil {
		return nil, err
	}

	return &Curvilinear{
		base: b,
		ctl:  ctl,
	}, nil
}

// Dim returns state dimension
func (c *Curvilinear) Dim() int {
	return 4
}

// StateNames returns names of state elements
func (c *Curvilinear) StateNames() []string {
	return []string{"x", "y", "speed", "heading"}
}

// HasControl returns true: curvilinear motion always accepts control input
func (c *Curvilinear) HasControl() bool {
	return true
}

// InputMatrix returns the direct effect of control input on speed and heading over time step dt.
// It returns error if any control parameters are supplied.
func (c *Curvilinear) InputMatrix(dt float64, p gnc.ControlParams) (*matrix.Matrix, error) {
	if p != nil {
		return nil, errs.Configf("curvilinear motion accepts no control parameters, got: %T", p)
	}

	return c.ctl.InputMatrix(dt, &control.StateControlParams{
		Rows: []int{cSpeed, cHeading},
		Cols: []int{0, 1},
		Vals: []float64{dt, dt},
	})
}

func (c *Curvilinear) controlInput(p *gnc.PropagateParams) (float64, float64, error) {
	if p == nil || p.Control == nil {
		return 0, 0, nil
	}

	if p.ControlParams != nil {
		return 0, 0, errs.Configf("curvilinear motion accepts no control parameters, got: %T", p.ControlParams)
	}

	if !p.Control.IsVector() || p.Control.Len() != 2 {
		r, c := p.Control.Dims()
		return 0, 0, errs.Dimensionf("invalid curvilinear control: expected 2 vector, got [%d x %d]", r, c)
	}

	u := p.Control.RawData()

	return u[0], u[1], nil
}

// Propagate propagates state x over time step dt.
// Control input [speed rate, turn rate] is optional: nil control means zero rates.
func (c *Curvilinear) Propagate(x *matrix.Matrix, dt float64, p *gnc.PropagateParams) (*matrix.Matrix, error) {
	if err := checkState(x, c.Dim()); err != nil {
		return nil, err
	}

	if err := noStateTrans("curvilinear motion", stateTrans(p)); err != nil {
		return nil, err
	}

	a, w, err := c.controlInput(p)
	if err != nil {
		return nil, err
	}

	s := x.RawData()
	px, py, v, h := s[cX], s[cY], s[cSpeed], s[cHeading]
	v1, h1 := v+a*dt, h+w*dt

	if math.Abs(w) < minTurnRate {
		d := v*dt + a*dt*dt/2
		px += d * math.Cos(h)
		py += d * math.Sin(h)
	} else {
		px += (v1*math.Sin(h1)-v*math.Sin(h))/w + a*(math.Cos(h1)-math.Cos(h))/(w*w)
		py += (-v1*math.Cos(h1)+v*math.Cos(h))/w + a*(math.Sin(h1)-math.Sin(h))/(w*w)
	}

	out, err := matrix.NewVector([]float64{px, py, v1, h1})
	if err != nil {
		return nil, err
	}

	return c.constrain(out, p)
}

// Jacobian returns state transition Jacobian evaluated at x with zero control input.
func (c *Curvilinear) Jacobian(x *matrix.Matrix, dt float64, p gnc.StateTransParams) (*matrix.Matrix, error) {
	return c.PropagateJacobian(x, dt, &gnc.PropagateParams{StateTrans: p})
}

// PropagateJacobian returns Jacobian of Propagate with respect to state x
// evaluated with the control input supplied in p.
func (c *Curvilinear) PropagateJacobian(x *matrix.Matrix, dt float64, p *gnc.PropagateParams) (*matrix.Matrix, error) {
	if err := checkState(x, c.Dim()); err != nil {
		return nil, err
	}

	if err := noStateTrans("curvilinear motion", stateTrans(p)); err != nil {
		return nil, err
	}

	a, w, err := c.controlInput(p)
	if err != nil {
		return nil, err
	}

	s := x.RawData()
	v, h := s[cSpeed], s[cHeading]
	v1, h1 := v+a*dt, h+w*dt

	// partial derivatives of position with respect to speed and heading
	var xv, xh, yv, yh float64
	if math.Abs(w) < minTurnRate {
		d := v*dt + a*dt*dt/2
		xv, xh = dt*math.Cos(h), -d*math.Sin(h)
		yv, yh = dt*math.Sin(h), d*math.Cos(h)
	} else {
		xv = (math.Sin(h1) - math.Sin(h)) / w
		xh = (v1*math.Cos(h1)-v*math.Cos(h))/w - a*(math.Sin(h1)-math.Sin(h))/(w*w)
		yv = (math.Cos(h) - math.Cos(h1)) / w
		yh = (v1*math.Sin(h1)-v*math.Sin(h))/w + a*(math.Cos(h1)-math.Cos(h))/(w*w)
	}

	return matrix.New(4, 4, []float64{
		1, 0, xv, xh,
		0, 1, yv, yh,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}
