package dynamics

import (
	"math"
	"testing"

	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/control"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
	"github.com/stretchr/testify/assert"
)

func vec(vals ...float64) *matrix.Matrix {
	v, _ := matrix.NewVector(vals)
	return v
}

type badStateTrans struct{}

func (badStateTrans) StateTransKind() string { return "bad" }

func TestDoubleIntegrator(t *testing.T) {
	assert := assert.New(t)

	d, err := NewDoubleIntegrator(2)
	assert.NotNil(d)
	assert.NoError(err)
	assert.Equal(4, d.Dim())
	assert.Equal([]string{"x", "y", "vx", "vy"}, d.StateNames())

	f, err := d.StateMatrix(0.1, nil)
	assert.NoError(err)
	exp := []float64{
		1, 0, 0.1, 0,
		0, 1, 0, 0.1,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	assert.Equal(exp, f.RawData())

	x := vec(0, 0, 1, 0)
	for i := 0; i < 10; i++ {
		x, err = d.Propagate(x, 0.1, nil)
		assert.NoError(err)
	}
	assert.InDeltaSlice([]float64{1, 0, 1, 0}, x.RawData(), 1e-12)

	d, err = NewDoubleIntegrator(5)
	assert.NoError(err)
	assert.Equal([]string{"p0", "p1", "p2", "p3", "p4", "vp0", "vp1", "vp2", "vp3", "vp4"}, d.StateNames())

	d, err = NewDoubleIntegrator(0)
	assert.Nil(d)
	assert.Equal(errs.Config, errs.KindOf(err))
}

func TestDoubleIntegratorControl(t *testing.T) {
	assert := assert.New(t)

	ctl, err := control.NewStateControl(4)
	assert.NoError(err)

	d, err := NewDoubleIntegrator(2, WithControl(ctl))
	assert.NoError(err)
	assert.True(d.HasControl())

	params := &gnc.PropagateParams{
		Control:       vec(1, 1),
		ControlParams: &control.StateControlParams{Rows: []int{2, 3}, Cols: []int{0, 1}},
	}

	x := vec(0, 0, 1, 0)
	for i := 0; i < 10; i++ {
		x, err = d.Propagate(x, 0.1, params)
		assert.NoError(err)
	}
	assert.InDeltaSlice([]float64{5.5, 4.5, 11, 10}, x.RawData(), 1e-9)

	g, err := d.InputMatrix(0.1, params.ControlParams)
	assert.NoError(err)
	r, c := g.Dims()
	assert.Equal(4, r)
	assert.Equal(2, c)
}

func TestCapabilityErrors(t *testing.T) {
	assert := assert.New(t)

	d, err := NewDoubleIntegrator(1)
	assert.NoError(err)
	assert.False(d.HasControl())
	assert.False(d.HasConstraint())

	g, err := d.InputMatrix(0.1, nil)
	assert.Nil(g)
	assert.Equal(errs.NoControl, errs.KindOf(err))

	x := vec(1, 2)
	c, err := d.ApplyConstraints(x, nil)
	assert.Nil(c)
	assert.Equal(errs.NoConstraint, errs.KindOf(err))

	out, err := d.Propagate(x, 0.1, &gnc.PropagateParams{Control: vec(1)})
	assert.Nil(out)
	assert.Equal(errs.NoControl, errs.KindOf(err))

	out, err = d.Propagate(x, 0.1, &gnc.PropagateParams{Constraint: BoundsParams{}})
	assert.Nil(out)
	assert.Equal(errs.NoConstraint, errs.KindOf(err))

	out, err = d.Propagate(x, 0.1, &gnc.PropagateParams{StateTrans: badStateTrans{}})
	assert.Nil(out)
	assert.Equal(errs.Config, errs.KindOf(err))

	out, err = d.Propagate(vec(1, 2, 3), 0.1, nil)
	assert.Nil(out)
	assert.Equal(errs.Dimension, errs.KindOf(err))

	// input state is not mutated
	assert.Equal([]float64{1, 2}, x.RawData())
}

func TestConstraints(t *testing.T) {
	assert := assert.New(t)

	d, err := NewDoubleIntegrator(1, WithConstraint(Clamp()))
	assert.NoError(err)
	assert.True(d.HasConstraint())

	bounds := BoundsParams{
		Lower: []float64{-1, math.Inf(-1)},
		Upper: []float64{1, 0.5},
	}

	x, err := d.Propagate(vec(0.95, 1), 0.1, &gnc.PropagateParams{Constraint: bounds})
	assert.NoError(err)
	assert.InDeltaSlice([]float64{1, 0.5}, x.RawData(), 1e-12)

	x, err = d.ApplyConstraints(vec(-3, -3), &bounds)
	assert.NoError(err)
	assert.Equal([]float64{-1, -3}, x.RawData())

	// clamp requires bounds
	x, err = d.Propagate(vec(0, 1), 0.1, nil)
	assert.Nil(x)
	assert.Equal(errs.Config, errs.KindOf(err))

	x, err = d.ApplyConstraints(vec(0, 1), BoundsParams{Lower: []float64{0}, Upper: []float64{1}})
	assert.Nil(x)
	assert.Equal(errs.Dimension, errs.KindOf(err))

	x, err = d.ApplyConstraints(vec(0, 1), BoundsParams{Lower: []float64{1, 1}, Upper: []float64{0, 2}})
	assert.Nil(x)
	assert.Equal(errs.Config, errs.KindOf(err))

	wrap := WrapAngles(1)
	x, err = wrap.Apply(vec(1, 3*math.Pi), nil)
	assert.NoError(err)
	assert.InDeltaSlice([]float64{1, math.Pi}, x.RawData(), 1e-12)

	x, err = wrap.Apply(vec(1), nil)
	assert.Nil(x)
	assert.Equal(errs.Index, errs.KindOf(err))

	assert.InDelta(3*math.Pi/2, WrapAngle(-math.Pi/2), 1e-12)
	assert.InDelta(0, WrapAngle(2*math.Pi), 1e-12)
	assert.True(WrapAngle(-1e-18) < 2*math.Pi)
}

func TestClohessyWiltshire2D(t *testing.T) {
	assert := assert.New(t)

	dt := 0.1
	n := math.Pi / 2

	ctl, err := control.NewStateControl(4)
	assert.NoError(err)

	cw, err := NewClohessyWiltshire2D(n, WithControl(ctl))
	assert.NoError(err)
	assert.Equal(4, cw.Dim())
	assert.Equal(n, cw.MeanMotion())
	assert.Equal([]string{"x", "y", "vx", "vy"}, cw.StateNames())

	params := &gnc.PropagateParams{
		Control:       vec(1, 1),
		ControlParams: &control.StateControlParams{Rows: []int{2, 3}, Cols: []int{0, 1}},
	}

	x := vec(0, 0, 1, 0)
	for i := 0; i < 10; i++ {
		x, err = cw.Propagate(x, dt, params)
		assert.NoError(err)
	}

	exp := []float64{8.36957, -3.87519, 18.5593, -16.2938}
	assert.InDeltaSlice(exp, x.RawData(), 1e-4)

	// mean motion override
	other, err := NewClohessyWiltshire2D(1.0)
	assert.NoError(err)
	f1, err := cw.StateMatrix(dt, nil)
	assert.NoError(err)
	f2, err := other.StateMatrix(dt, OrbitParams{MeanMotion: n})
	assert.NoError(err)
	assert.True(f1.EqualApprox(f2, 1e-12))

	f, err := cw.StateMatrix(dt, &OrbitParams{MeanMotion: -1})
	assert.Nil(f)
	assert.Equal(errs.Config, errs.KindOf(err))

	f, err = cw.StateMatrix(dt, badStateTrans{})
	assert.Nil(f)
	assert.Equal(errs.Config, errs.KindOf(err))

	cw, err = NewClohessyWiltshire2D(0)
	assert.Nil(cw)
	assert.Equal(errs.Config, errs.KindOf(err))
}

func TestClohessyWiltshire(t *testing.T) {
	assert := assert.New(t)

	dt := 0.1
	n := math.Pi / 2

	ctl, err := control.NewStateControl(6)
	assert.NoError(err)

	cw, err := NewClohessyWiltshire(n, WithControl(ctl))
	assert.NoError(err)
	assert.Equal(6, cw.Dim())
	assert.Equal([]string{"x", "y", "z", "vx", "vy", "vz"}, cw.StateNames())

	params := &gnc.PropagateParams{
		Control:       vec(1, 1, 1),
		ControlParams: &control.StateControlParams{Rows: []int{3, 4, 5}, Cols: []int{0, 1, 2}},
	}

	x := vec(0, 0, 0, 1, 0, 1)
	for i := 0; i < 10; i++ {
		x, err = cw.Propagate(x, dt, params)
		assert.NoError(err)
	}

	exp := []float64{8.36957, -3.87519, 4.36282, 18.5593, -16.2938, 6.8531}
	assert.InDeltaSlice(exp, x.RawData(), 1e-4)

	// one full orbit without control returns cross-track motion to the start
	x = vec(0, 0, 0, 0, 0, 1)
	period := 2 * math.Pi / n
	x, err = cw.Propagate(x, period, nil)
	assert.NoError(err)
	assert.InDeltaSlice([]float64{0, 0, 0, 0, 0, 1}, x.RawData(), 1e-9)

	cw, err = NewClohessyWiltshire(math.NaN())
	assert.Nil(cw)
	assert.Equal(errs.Config, errs.KindOf(err))
}

func TestCurvilinear(t *testing.T) {
	assert := assert.New(t)

	c, err := NewCurvilinear()
	assert.NoError(err)
	assert.Equal(4, c.Dim())
	assert.True(c.HasControl())
	assert.Equal([]string{"x", "y", "speed", "heading"}, c.StateNames())

	x := vec(0, 0, 1, math.Pi/4)
	for i := 0; i < 10; i++ {
		x, err = c.Propagate(x, 0.1, nil)
		assert.NoError(err)
	}
	exp := []float64{math.Cos(math.Pi / 4), math.Sin(math.Pi / 4), 1, math.Pi / 4}
	assert.InDeltaSlice(exp, x.RawData(), 1e-9)

	// accelerating turn
	x, err = c.Propagate(vec(1, 2, 3, 0.5), 1.0, &gnc.PropagateParams{Control: vec(0.5, 0.3)})
	assert.NoError(err)
	assert.InDeltaSlice([]float64{3.570033160323472, 3.969417078160798, 3.5, 0.8}, x.RawData(), 1e-9)

	// heading is wrapped
	x, err = c.Propagate(vec(0, 0, 0, 6), 1.0, &gnc.PropagateParams{Control: vec(0, 1)})
	assert.NoError(err)
	h, err := x.AtVec(3)
	assert.NoError(err)
	assert.InDelta(7-2*math.Pi, h, 1e-12)

	g, err := c.InputMatrix(0.5, nil)
	assert.NoError(err)
	assert.Equal([]float64{0, 0, 0, 0, 0.5, 0, 0, 0.5}, g.RawData())

	_, err = c.Propagate(vec(0, 0, 0, 0), 1.0, &gnc.PropagateParams{Control: vec(1, 2, 3)})
	assert.Equal(errs.Dimension, errs.KindOf(err))

	_, err = c.Propagate(vec(0, 0, 0, 0), 1.0, &gnc.PropagateParams{
		Control:       vec(1, 2),
		ControlParams: &control.StateControlParams{},
	})
	assert.Equal(errs.Config, errs.KindOf(err))

	ctl, err := control.NewStateControl(4)
	assert.NoError(err)
	bad, err := NewCurvilinear(WithControl(ctl))
	assert.Nil(bad)
	assert.Equal(errs.Config, errs.KindOf(err))
}

func TestCurvilinearJacobian(t *testing.T) {
	assert := assert.New(t)

	c, err := NewCurvilinear()
	assert.NoError(err)

	x := vec(1, -1, 2, 1.2)
	dt := 0.2

	jac, err := c.Jacobian(x, dt, nil)
	assert.NoError(err)

	f := func(x *matrix.Matrix) (*matrix.Matrix, error) {
		return c.Propagate(x, dt, nil)
	}
	num, err := matrix.Jacobian(f, x, 4)
	assert.NoError(err)
	assert.True(jac.EqualApprox(num, 1e-6))

	_, err = c.Jacobian(vec(1, 2), dt, nil)
	assert.Equal(errs.Dimension, errs.KindOf(err))
}

func TestCurvilinearControlJacobian(t *testing.T) {
	assert := assert.New(t)

	c, err := NewCurvilinear()
	assert.NoError(err)

	var _ gnc.ControlledNonLinearDynamics = c

	x := vec(10, 5, 1, 0.3)
	dt := 1.0

	for _, u := range [][]float64{{0, 0.5}, {0.5, 0.3}, {-0.2, 0}, {0.4, -0.7}} {
		p := &gnc.PropagateParams{Control: vec(u...)}

		jac, err := c.PropagateJacobian(x, dt, p)
		assert.NoError(err)

		f := func(x *matrix.Matrix) (*matrix.Matrix, error) {
			return c.Propagate(x, dt, p)
		}
		num, err := matrix.Jacobian(f, x, 4)
		assert.NoError(err)
		assert.True(jac.EqualApprox(num, 1e-6), "%v", u)
	}

	jac, err := c.PropagateJacobian(x, dt, &gnc.PropagateParams{Control: vec(0, 0.5)})
	assert.NoError(err)
	assert.InDeltaSlice([]float64{1, 0, 0.8437, -0.5173}, jac.RawData()[:4], 1e-4)

	// zero control matches the plain Jacobian
	jac, err = c.PropagateJacobian(x, dt, nil)
	assert.NoError(err)
	plain, err := c.Jacobian(x, dt, nil)
	assert.NoError(err)
	assert.True(jac.EqualApprox(plain, 0))

	_, err = c.PropagateJacobian(x, dt, &gnc.PropagateParams{Control: vec(1, 2, 3)})
	assert.Equal(errs.Dimension, errs.KindOf(err))

	_, err = c.PropagateJacobian(vec(1, 2), dt, nil)
	assert.Equal(errs.Dimension, errs.KindOf(err))
}

func TestCurvilinearConstraints(t *testing.T) {
	assert := assert.New(t)

	c, err := NewCurvilinear()
	assert.NoError(err)
	assert.True(c.HasConstraint())

	x, err := c.ApplyConstraints(vec(0, 0, 1, 7), nil)
	assert.NoError(err)
	assert.InDeltaSlice([]float64{0, 0, 1, 7 - 2*math.Pi}, x.RawData(), 1e-12)

	x, err = c.ApplyConstraints(vec(0, 0, 1, -math.Pi/2), nil)
	assert.NoError(err)
	h, err := x.AtVec(3)
	assert.NoError(err)
	assert.InDelta(3*math.Pi/2, h, 1e-12)

	// heading wrap runs before configured constraints
	clamped, err := NewCurvilinear(WithConstraint(Clamp()))
	assert.NoError(err)
	assert.True(clamped.HasConstraint())

	bounds := BoundsParams{
		Lower: []float64{-1, -1, 0, 0},
		Upper: []float64{1, 1, 2, 1},
	}
	x, err = clamped.ApplyConstraints(vec(3, -3, 1, 7), bounds)
	assert.NoError(err)
	assert.InDeltaSlice([]float64{1, -1, 1, 7 - 2*math.Pi}, x.RawData(), 1e-12)

	x, err = clamped.Propagate(vec(0, 0, 5, 0), 1.0, &gnc.PropagateParams{Constraint: bounds})
	assert.NoError(err)
	assert.InDeltaSlice([]float64{1, 0, 2, 0}, x.RawData(), 1e-12)

	_, err = clamped.ApplyConstraints(vec(0, 0, 1, 0), nil)
	assert.Equal(errs.Config, errs.KindOf(err))
}

func TestLinear(t *testing.T) {
	assert := assert.New(t)

	f, err := matrix.New(2, 2, []float64{1, 0.5, 0, 1})
	assert.NoError(err)

	l, err := NewLinear(f)
	assert.NoError(err)
	assert.Equal(2, l.Dim())

	x, err := l.Propagate(vec(1, 2), 0.5, nil)
	assert.NoError(err)
	assert.Equal([]float64{2, 2}, x.RawData())

	// state matrix is a copy
	sm, err := l.StateMatrix(0.5, nil)
	assert.NoError(err)
	assert.NoError(sm.Set(0, 0, 100))
	sm, err = l.StateMatrix(0.5, nil)
	assert.NoError(err)
	assert.True(sm.EqualApprox(f, 0))

	nonSquare, err := matrix.New(2, 3, nil)
	assert.NoError(err)
	l, err = NewLinear(nonSquare)
	assert.Nil(l)
	assert.Equal(errs.Dimension, errs.KindOf(err))
}

func TestLTI(t *testing.T) {
	assert := assert.New(t)

	a, err := matrix.New(2, 2, []float64{0, 1, 0, 0})
	assert.NoError(err)
	b, err := matrix.New(2, 1, []float64{0, 1})
	assert.NoError(err)

	lti, err := NewLTI(a, b)
	assert.NoError(err)
	assert.Equal(2, lti.Dim())
	assert.True(lti.HasControl())

	dt := 0.5
	f, err := lti.StateMatrix(dt, nil)
	assert.NoError(err)
	assert.InDeltaSlice([]float64{1, dt, 0, 1}, f.RawData(), 1e-12)

	g, err := lti.InputMatrix(dt, nil)
	assert.NoError(err)
	assert.InDeltaSlice([]float64{dt * dt / 2, dt}, g.RawData(), 1e-12)

	x, err := lti.Propagate(vec(0, 1), dt, &gnc.PropagateParams{Control: vec(2)})
	assert.NoError(err)
	assert.InDeltaSlice([]float64{0.75, 2}, x.RawData(), 1e-12)

	// same kinematics as the double integrator
	d, err := NewDoubleIntegrator(1)
	assert.NoError(err)
	fd, err := d.StateMatrix(dt, nil)
	assert.NoError(err)
	assert.True(f.EqualApprox(fd, 1e-12))

	lti, err = NewLTI(a, nil)
	assert.NoError(err)
	assert.False(lti.HasControl())

	_, err = lti.InputMatrix(dt, nil)
	assert.Equal(errs.NoControl, errs.KindOf(err))

	lti, err = NewLTI(a, vec(1, 2, 3))
	assert.Nil(lti)
	assert.Equal(errs.Dimension, errs.KindOf(err))
}

func TestNonLinear(t *testing.T) {
	assert := assert.New(t)

	// continuous-time constant velocity
	cv := func(t float64, x *matrix.Matrix, p gnc.StateTransParams) (*matrix.Matrix, error) {
		v, err := x.AtVec(1)
		if err != nil {
			return nil, err
		}
		return matrix.NewVector([]float64{v, 0})
	}

	n, err := NewNonLinear(2, cv, WithConstraint(WrapAngles()))
	assert.NoError(err)
	assert.Equal(2, n.Dim())

	x, err := n.Propagate(vec(1, 2), 0.5, nil)
	assert.NoError(err)
	assert.InDeltaSlice([]float64{2, 2}, x.RawData(), 1e-12)

	jac, err := n.Jacobian(vec(1, 2), 0.5, nil)
	assert.NoError(err)
	assert.InDeltaSlice([]float64{1, 0.5, 0, 1}, jac.RawData(), 1e-6)

	// parameters are passed through
	scaled := func(t float64, x *matrix.Matrix, p gnc.StateTransParams) (*matrix.Matrix, error) {
		k := p.(FuncParams).Values[0]
		return x.Scale(k), nil
	}
	n, err = NewNonLinear(1, scaled)
	assert.NoError(err)
	x, err = n.Propagate(vec(1), 1.0, &gnc.PropagateParams{StateTrans: FuncParams{Values: []float64{1}}})
	assert.NoError(err)
	assert.InDelta(math.E, x.RawData()[0], 2e-2)

	bad := func(t float64, x *matrix.Matrix, p gnc.StateTransParams) (*matrix.Matrix, error) {
		return matrix.NewVector([]float64{1, 2, 3})
	}
	n, err = NewNonLinear(2, bad)
	assert.NoError(err)
	_, err = n.Propagate(vec(1, 2), 0.5, nil)
	assert.Equal(errs.Dimension, errs.KindOf(err))

	n, err = NewNonLinear(2, nil)
	assert.Nil(n)
	assert.Equal(errs.Config, errs.KindOf(err))
}
