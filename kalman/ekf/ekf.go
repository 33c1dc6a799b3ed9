// Package ekf implements the Extended Kalman filter.
package ekf

import (
	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/kalman"
	"github.com/milosgajdos/go-gnc/matrix"
)

// jacobian linearizes models around the current state estimate.
// Models which do not provide an analytic Jacobian are linearized by
// their linear matrices or, failing that, by numeric differentiation.
type jacobian struct {
	dyn  gnc.Dynamics
	meas gnc.MeasurementModel
}

// StateMatrix returns dynamics Jacobian evaluated at x.
// Nonlinear dynamics driven by control input which can not linearize about
// the control are differentiated numerically.
func (j *jacobian) StateMatrix(x *matrix.Matrix, dt float64, p *gnc.PropagateParams) (*matrix.Matrix, error) {
	switch d := j.dyn.(type) {
	case gnc.ControlledNonLinearDynamics:
		return d.PropagateJacobian(x, dt, p)
	case gnc.NonLinearDynamics:
		if p.Control == nil {
			return d.Jacobian(x, dt, p.StateTrans)
		}
	case gnc.LinearDynamics:
		return d.StateMatrix(dt, p.StateTrans)
	}

	f := func(x *matrix.Matrix) (*matrix.Matrix, error) {
		return j.dyn.Propagate(x, dt, p)
	}

	return matrix.Jacobian(f, x, j.dyn.Dim())
}

// MeasMatrix returns measurement Jacobian evaluated at x
func (j *jacobian) MeasMatrix(x *matrix.Matrix, p gnc.MeasParams) (*matrix.Matrix, error) {
	switch m := j.meas.(type) {
	case gnc.NonLinearMeasurement:
		return m.Jacobian(x, p)
	case gnc.LinearMeasurement:
		return m.MeasMatrix(x, p)
	}

	dim, err := j.meas.Dim(p)
	if err != nil {
		return nil, err
	}

	h := func(x *matrix.Matrix) (*matrix.Matrix, error) {
		return j.meas.Estimate(x, p)
	}

	return matrix.Jacobian(h, x, dim)
}

// EKF is Extended Kalman Filter
type EKF struct {
	*kalman.Filter
}

// New creates new EKF and returns it.
// The dynamics Jacobian is evaluated at the current state and
// the measurement Jacobian at the predicted state.
// It returns error if either model is nil or the filter can not be created.
func New(dyn gnc.Dynamics, meas gnc.MeasurementModel, c *kalman.Config) (*EKF, error) {
	if dyn == nil || meas == nil {
		return nil, errs.Configf("invalid filter models: dynamics %v, measurement %v", dyn, meas)
	}

	f, err := kalman.New(dyn, meas, &jacobian{dyn: dyn, meas: meas}, c)
	if err != nil {
		return nil, err
	}

	return &EKF{
		Filter: f,
	}, nil
}
