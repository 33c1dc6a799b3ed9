// Package kf implements the linear Kalman filter.
package kf

import (
	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/kalman"
	"github.com/milosgajdos/go-gnc/matrix"
)

// linear linearizes linear models: their matrices do not depend on the state
type linear struct {
	dyn  gnc.LinearDynamics
	meas gnc.LinearMeasurement
}

// StateMatrix returns dynamics state transition matrix
func (l *linear) StateMatrix(x *matrix.Matrix, dt float64, p *gnc.PropagateParams) (*matrix.Matrix, error) {
	return l.dyn.StateMatrix(dt, p.StateTrans)
}

// MeasMatrix returns measurement model matrix
func (l *linear) MeasMatrix(x *matrix.Matrix, p gnc.MeasParams) (*matrix.Matrix, error) {
	return l.meas.MeasMatrix(x, p)
}

// KF is Kalman Filter
type KF struct {
	*kalman.Filter
}

// New creates new KF and returns it.
// It returns error if either dyn or meas does not provide its linear matrix
// or if the filter can not be created.
func New(dyn gnc.Dynamics, meas gnc.MeasurementModel, c *kalman.Config) (*KF, error) {
	ld, ok := dyn.(gnc.LinearDynamics)
	if !ok {
		return nil, errs.Configf("kalman filter requires linear dynamics, got: %T", dyn)
	}

	lm, ok := meas.(gnc.LinearMeasurement)
	if !ok {
		return nil, errs.Configf("kalman filter requires linear measurement model, got: %T", meas)
	}

	f, err := kalman.New(dyn, meas, &linear{dyn: ld, meas: lm}, c)
	if err != nil {
		return nil, err
	}

	return &KF{
		Filter: f,
	}, nil
}
