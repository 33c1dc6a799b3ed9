// Package gnc defines the capability interfaces and parameter objects of the
// recursive Bayesian estimation engine.
package gnc

import "github.com/milosgajdos/go-gnc/matrix"

// StateTransParams are state transition parameters passed to dynamics models
type StateTransParams interface {
	// StateTransKind returns the kind of the parameters
	StateTransKind() string
}

// ControlParams are parameters passed to control models
type ControlParams interface {
	// ControlKind returns the kind of the parameters
	ControlKind() string
}

// ConstraintParams are parameters passed to state constraints
type ConstraintParams interface {
	// ConstraintKind returns the kind of the parameters
	ConstraintKind() string
}

// MeasParams are parameters passed to measurement models
type MeasParams interface {
	// MeasKind returns the kind of the parameters
	MeasKind() string
}

// PropagateParams are parameters of a single state propagation
type PropagateParams struct {
	// StateTrans are state transition parameters
	StateTrans StateTransParams
	// Control is control input vector
	Control *matrix.Matrix
	// ControlParams are control model parameters
	ControlParams ControlParams
	// Constraint are state constraint parameters
	Constraint ConstraintParams
}

// PredictParams are parameters of a single filter prediction
type PredictParams struct {
	PropagateParams
	// ProcNoise is process noise covariance Q
	ProcNoise *matrix.Matrix
}

// CorrectParams are parameters of a single filter correction
type CorrectParams struct {
	// Meas are measurement model parameters
	Meas MeasParams
	// MeasNoise is measurement noise covariance R
	MeasNoise *matrix.Matrix
}

// Dynamics models state evolution over time
type Dynamics interface {
	// Dim returns state dimension
	Dim() int
	// Propagate propagates state x over time step dt
	Propagate(x *matrix.Matrix, dt float64, p *PropagateParams) (*matrix.Matrix, error)
}

// LinearDynamics is dynamics with state transition matrix
type LinearDynamics interface {
	Dynamics
	// StateMatrix returns state transition matrix F for time step dt
	StateMatrix(dt float64, p StateTransParams) (*matrix.Matrix, error)
}

// NonLinearDynamics is dynamics linearized about a state
type NonLinearDynamics interface {
	Dynamics
	// Jacobian returns state transition Jacobian evaluated at x
	Jacobian(x *matrix.Matrix, dt float64, p StateTransParams) (*matrix.Matrix, error)
}

// ControlledNonLinearDynamics is nonlinear dynamics linearized about a state and control input
type ControlledNonLinearDynamics interface {
	NonLinearDynamics
	// PropagateJacobian returns Jacobian of Propagate with respect to the state evaluated at x
	PropagateJacobian(x *matrix.Matrix, dt float64, p *PropagateParams) (*matrix.Matrix, error)
}

// ControlledDynamics is dynamics which may accept control input
type ControlledDynamics interface {
	Dynamics
	// HasControl returns true if the dynamics has control model
	HasControl() bool
	// InputMatrix returns input matrix G for time step dt
	InputMatrix(dt float64, p ControlParams) (*matrix.Matrix, error)
}

// ConstrainedDynamics is dynamics which may constrain the state
type ConstrainedDynamics interface {
	Dynamics
	// HasConstraint returns true if the dynamics has state constraint
	HasConstraint() bool
	// ApplyConstraints returns constrained copy of x
	ApplyConstraints(x *matrix.Matrix, p ConstraintParams) (*matrix.Matrix, error)
}

// ControlModel maps control input into state space
type ControlModel interface {
	// InputMatrix returns input matrix G for time step dt
	InputMatrix(dt float64, p ControlParams) (*matrix.Matrix, error)
	// Input returns G*u
	Input(dt float64, u *matrix.Matrix, p ControlParams) (*matrix.Matrix, error)
}

// MeasurementModel maps state into measurement space
type MeasurementModel interface {
	// Dim returns measurement dimension
	Dim(p MeasParams) (int, error)
	// Estimate returns expected measurement of state x
	Estimate(x *matrix.Matrix, p MeasParams) (*matrix.Matrix, error)
}

// LinearMeasurement is measurement model with measurement matrix
type LinearMeasurement interface {
	MeasurementModel
	// MeasMatrix returns measurement matrix H
	MeasMatrix(x *matrix.Matrix, p MeasParams) (*matrix.Matrix, error)
}

// NonLinearMeasurement is measurement model linearized about a state
type NonLinearMeasurement interface {
	MeasurementModel
	// Jacobian returns measurement Jacobian evaluated at x
	Jacobian(x *matrix.Matrix, p MeasParams) (*matrix.Matrix, error)
}

// ResidualMeasurement is measurement model with its own measurement residual,
// e.g. one which wraps angular measurements
type ResidualMeasurement interface {
	MeasurementModel
	// Residual returns measurement residual z - zPred
	Residual(z, zPred *matrix.Matrix, p MeasParams) (*matrix.Matrix, error)
}

// Estimate is filter estimate
type Estimate interface {
	// Val returns estimate value
	Val() *matrix.Matrix
	// Cov returns estimate covariance
	Cov() *matrix.Matrix
}

// Correction is filter estimate after measurement correction
type Correction interface {
	Estimate
	// Innovation returns measurement residual
	Innovation() *matrix.Matrix
	// InnovationCov returns innovation covariance
	InnovationCov() *matrix.Matrix
	// Gain returns filter gain
	Gain() *matrix.Matrix
	// FitProb returns the probability density of the measurement given its prediction
	FitProb() float64
}

// Stage is filter stage
type Stage int

const (
	// Uninitialized filter has no state
	Uninitialized Stage = iota
	// Initialized filter has initial state
	Initialized
	// Predicted filter has predicted state
	Predicted
	// Corrected filter has corrected state
	Corrected
)

// String implements the Stringer interface.
func (s Stage) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Predicted:
		return "predicted"
	case Corrected:
		return "corrected"
	}

	return "unknown"
}

// Filter is recursive Bayesian filter
type Filter interface {
	// Initialize sets filter state and covariance
	Initialize(x0, p0 *matrix.Matrix) error
	// Predict propagates filter state over time step dt
	Predict(dt float64, p *PredictParams) (Estimate, error)
	// Correct corrects predicted state using measurement z
	Correct(z *matrix.Matrix, p *CorrectParams) (Correction, error)
	// State returns filter state
	State() *matrix.Matrix
	// Cov returns filter state covariance
	Cov() *matrix.Matrix
	// Stage returns filter stage
	Stage() Stage
}

// Noise is random noise source
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() *matrix.Matrix
	// Sample returns a sample of the noise
	Sample() (*matrix.Matrix, error)
	// Reset resets the noise
	Reset()
}
