package dynamics

import (
	"math"

	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
)

// OrbitParams override the mean motion of the reference orbit
type OrbitParams struct {
	// MeanMotion is mean motion of the reference orbit in rad/s
	MeanMotion float64
}

// StateTransKind implements gnc.StateTransParams
func (OrbitParams) StateTransKind() string { return "orbit" }

func meanMotion(n float64, p gnc.StateTransParams) (float64, error) {
	switch params := p.(type) {
	case nil:
	case OrbitParams:
		n = params.MeanMotion
	case *OrbitParams:
		if params == nil {
			return 0, errs.Configf("nil orbit parameters")
		}
		n = params.MeanMotion
	default:
		return 0, errs.Configf("relative orbit dynamics requires OrbitParams, got: %T", p)
	}

	if n <= 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, errs.Configf("invalid mean motion: %f", n)
	}

	return n, nil
}

// ClohessyWiltshire2D is in-plane relative orbital motion about a circular reference orbit.
// State vector is [x y vx vy] with x radial and y along-track.
type ClohessyWiltshire2D struct {
	base
	n float64
}

// NewClohessyWiltshire2D creates new planar relative motion dynamics for reference orbit
// with mean motion n and returns it.
// It returns error if n is not positive.
func NewClohessyWiltshire2D(n float64, opts ...Option) (*ClohessyWiltshire2D, error) {
	if _, err := meanMotion(n, nil); err != nil {
		return nil, err
	}

	return &ClohessyWiltshire2D{
		base: newBase(opts...),
		n:    n,
	}, nil
}

// Dim returns state dimension
func (cw *ClohessyWiltshire2D) Dim() int {
	return 4
}

// MeanMotion returns mean motion of the reference orbit
func (cw *ClohessyWiltshire2D) MeanMotion() float64 {
	return cw.n
}

// StateNames returns names of state elements
func (cw *ClohessyWiltshire2D) StateNames() []string {
	return []string{"x", "y", "vx", "vy"}
}

// StateMatrix returns closed form state transition matrix for time step dt.
// Mean motion can be overridden by OrbitParams.
func (cw *ClohessyWiltshire2D) StateMatrix(dt float64, p gnc.StateTransParams) (*matrix.Matrix, error) {
	n, err := meanMotion(cw.n, p)
	if err != nil {
		return nil, err
	}

	c, s := math.Cos(n*dt), math.Sin(n*dt)

	return matrix.New(4, 4, []float64{
		4 - 3*c, 0, s / n, 2 / n * (1 - c),
		6 * (s - n*dt), 1, -2 / n * (1 - c), (4*s - 3*n*dt) / n,
		3 * n * s, 0, c, 2 * s,
		-6 * n * (1 - c), 0, -2 * s, 4*c - 3,
	})
}

// Propagate propagates state x over time step dt.
func (cw *ClohessyWiltshire2D) Propagate(x *matrix.Matrix, dt float64, p *gnc.PropagateParams) (*matrix.Matrix, error) {
	if err := checkState(x, cw.Dim()); err != nil {
		return nil, err
	}

	f, err := cw.StateMatrix(dt, stateTrans(p))
	if err != nil {
		return nil, err
	}

	return cw.propagateLinear(f, x, dt, p)
}

// ClohessyWiltshire is relative orbital motion about a circular reference orbit.
// State vector is [x y z vx vy vz] with x radial, y along-track and z cross-track.
type ClohessyWiltshire struct {
	base
	n float64
}

// NewClohessyWiltshire creates new relative motion dynamics for reference orbit
// with mean motion n and returns it.
// It returns error if n is not positive.
func NewClohessyWiltshire(n float64, opts ...Option) (*ClohessyWiltshire, error) {
	if _, err := meanMotion(n, nil); err != nil {
		return nil, err
	}

	return &ClohessyWiltshire{
		base: newBase(opts...),
		n:    n,
	}, nil
}

// Dim returns state dimension
func (cw *ClohessyWiltshire) Dim() int {
	return 6
}

// MeanMotion returns mean motion of the reference orbit
func (cw *ClohessyWiltshire) MeanMotion() float64 {
	return cw.n
}

// StateNames returns names of state elements
func (cw *ClohessyWiltshire) StateNames() []string {
	return []string{"x", "y", "z", "vx", "vy", "vz"}
}

// StateMatrix returns closed form state transition matrix for time step dt.
// Mean motion can be overridden by OrbitParams.
func (cw *ClohessyWiltshire) StateMatrix(dt float64, p gnc.StateTransParams) (*matrix.Matrix, error) {
	n, err := meanMotion(cw.n, p)
	if err != nil {
		return nil, err
	}

	c, s := math.Cos(n*dt), math.Sin(n*dt)

	return matrix.New(6, 6, []float64{
		4 - 3*c, 0, 0, s / n, 2 / n * (1 - c), 0,
		6 * (s - n*dt), 1, 0, -2 / n * (1 - c), (4*s - 3*n*dt) / n, 0,
		0, 0, c, 0, 0, s / n,
		3 * n * s, 0, 0, c, 2 * s, 0,
		-6 * n * (1 - c), 0, 0, -2 * s, 4*c - 3, 0,
		0, 0, -n * s, 0, 0, c,
	})
}

// Propagate propagates state x over time step dt.
func (cw *ClohessyWiltshire) Propagate(x *matrix.Matrix, dt float64, p *gnc.PropagateParams) (*matrix.Matrix, error) {
	if err := checkState(x, cw.Dim()); err != nil {
		return nil, err
	}

	f, err := cw.StateMatrix(dt, stateTrans(p))
	if err != nil {
		return nil, err
	}

	return cw.propagateLinear(f, x, dt, p)
}
