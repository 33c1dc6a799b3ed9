// Package kalman implements the Bayes filter predict and correct cycle
// shared by the Kalman filter and the Extended Kalman filter.
package kalman

import (
	"math"

	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/estimate"
	"github.com/milosgajdos/go-gnc/matrix"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// symTol is tolerance of symmetry checks of covariance matrices
const symTol = 1e-9

// psdTol is tolerance of negative eigenvalues of covariance matrices
const psdTol = 1e-9

// Kalman is Kalman filter
type Kalman interface {
	// gnc.Filter is recursive Bayesian filter
	gnc.Filter
	// Gain returns Kalman filter gain
	Gain() *matrix.Matrix
}

// UpdateForm is covariance update form
type UpdateForm int

const (
	// Joseph is Joseph form update (I-KH)P(I-KH)' + KRK'
	Joseph UpdateForm = iota
	// Standard is symmetrized standard form update (I-KH)P
	Standard
)

// String implements the Stringer interface.
func (u UpdateForm) String() string {
	switch u {
	case Joseph:
		return "joseph"
	case Standard:
		return "standard"
	}

	return "unknown"
}

// Config is filter configuration
type Config struct {
	// Form is covariance update form
	Form UpdateForm
	// Logger logs filter stage transitions and failures at debug level
	Logger logrus.FieldLogger
}

// Linearizer returns the matrices used to propagate and correct the covariance
type Linearizer interface {
	// StateMatrix returns state transition matrix F for state x propagated with parameters p
	StateMatrix(x *matrix.Matrix, dt float64, p *gnc.PropagateParams) (*matrix.Matrix, error)
	// MeasMatrix returns measurement matrix H for state x
	MeasMatrix(x *matrix.Matrix, p gnc.MeasParams) (*matrix.Matrix, error)
}

// Filter is Bayes filter engine
type Filter struct {
	// dyn is dynamics model
	dyn gnc.Dynamics
	// meas is measurement model
	meas gnc.MeasurementModel
	// lin linearizes the models
	lin Linearizer
	// form is covariance update form
	form UpdateForm
	// log is filter logger
	log logrus.FieldLogger
	// stage is filter stage
	stage gnc.Stage
	// x is filter state
	x *matrix.Matrix
	// p is filter state covariance
	p *matrix.Matrix
	// k is the last Kalman gain
	k *matrix.Matrix
}

// New creates new filter engine for dynamics dyn and measurement model meas and returns it.
// If c is nil the filter uses Joseph form update and logrus standard logger.
// It returns error if any of the parameters is nil or the update form is unknown.
func New(dyn gnc.Dynamics, meas gnc.MeasurementModel, lin Linearizer, c *Config) (*Filter, error) {
	if dyn == nil || meas == nil || lin == nil {
		return nil, errs.Configf("invalid filter models: dynamics %v, measurement %v", dyn, meas)
	}

	if dyn.Dim() <= 0 {
		return nil, errs.Configf("invalid state dimension: %d", dyn.Dim())
	}

	form := Joseph
	var log logrus.FieldLogger = logrus.StandardLogger()
	if c != nil {
		form = c.Form
		if c.Logger != nil {
			log = c.Logger
		}
	}

	if form != Joseph && form != Standard {
		return nil, errs.Configf("invalid update form: %d", form)
	}

	return &Filter{
		dyn:   dyn,
		meas:  meas,
		lin:   lin,
		form:  form,
		log:   log,
		stage: gnc.Uninitialized,
	}, nil
}

// Initialize sets filter state to x0 and its covariance to p0.
// It can be called at any filter stage.
// It returns error if x0 is not a state vector or p0 is not a symmetric positive
// semi-definite matrix of matching size.
func (f *Filter) Initialize(x0, p0 *matrix.Matrix) error {
	n := f.dyn.Dim()

	if !x0.IsVector() || x0.Len() != n {
		r, c := x0.Dims()
		return errs.Dimensionf("invalid initial state: expected %d vector, got [%d x %d]", n, r, c)
	}

	if err := f.checkCov(p0); err != nil {
		return errs.Wrapf(err, "invalid initial covariance")
	}

	f.x = x0.Clone()
	f.p = p0.Clone()
	f.k = nil
	f.stage = gnc.Initialized

	f.log.WithFields(logrus.Fields{
		"stage": f.stage,
		"dim":   n,
	}).Debug("filter initialized")

	return nil
}

// Predict propagates filter state over time step dt and returns the predicted estimate.
// It returns error if the filter is neither initialized nor corrected or if the prediction fails.
// The filter is not modified on error.
func (f *Filter) Predict(dt float64, p *gnc.PredictParams) (gnc.Estimate, error) {
	if f.stage != gnc.Initialized && f.stage != gnc.Corrected {
		return nil, errs.Sequencef("predict called on %s filter", f.stage)
	}

	if p == nil {
		p = &gnc.PredictParams{}
	}

	log := f.log.WithFields(logrus.Fields{
		"stage": f.stage,
		"dt":    dt,
		"dim":   f.dyn.Dim(),
	})

	x, cov, err := f.predict(dt, p)
	if err != nil {
		log.WithError(err).Debug("predict failed")
		return nil, err
	}

	est, err := estimate.NewBaseWithCov(x, cov)
	if err != nil {
		return nil, err
	}

	f.x, f.p = x, cov
	f.stage = gnc.Predicted

	log.Debug("state predicted")

	return est, nil
}

func (f *Filter) predict(dt float64, p *gnc.PredictParams) (*matrix.Matrix, *matrix.Matrix, error) {
	n := f.dyn.Dim()

	F, err := f.lin.StateMatrix(f.x, dt, &p.PropagateParams)
	if err != nil {
		return nil, nil, errs.Wrapf(err, "failed to get state matrix")
	}

	if r, c := F.Dims(); r != n || c != n {
		return nil, nil, errs.Dimensionf("invalid state matrix: expected [%d x %d], got [%d x %d]", n, n, r, c)
	}

	x, err := f.dyn.Propagate(f.x, dt, &p.PropagateParams)
	if err != nil {
		return nil, nil, errs.Wrapf(err, "failed to propagate state")
	}

	// F*P*F'
	fp, err := F.Mul(f.p)
	if err != nil {
		return nil, nil, err
	}

	cov, err := fp.Mul(F.T())
	if err != nil {
		return nil, nil, err
	}

	if p.ProcNoise != nil {
		if cov, err = cov.Add(p.ProcNoise); err != nil {
			return nil, nil, errs.Wrapf(err, "invalid process noise")
		}
	}

	if cov, err = cov.Symmetrize(); err != nil {
		return nil, nil, err
	}

	return x, cov, nil
}

// Correct corrects predicted state using measurement z and returns the corrected estimate.
// It returns error if the filter state has not been predicted or if the correction fails.
// The filter is not modified on error.
func (f *Filter) Correct(z *matrix.Matrix, p *gnc.CorrectParams) (gnc.Correction, error) {
	if f.stage != gnc.Predicted {
		return nil, errs.Sequencef("correct called on %s filter", f.stage)
	}

	if p == nil {
		p = &gnc.CorrectParams{}
	}

	log := f.log.WithFields(logrus.Fields{
		"stage": f.stage,
		"dim":   f.dyn.Dim(),
	})

	corr, err := f.correct(z, p)
	if err != nil {
		log.WithError(err).Debug("correct failed")
		return nil, err
	}

	f.x, f.p, f.k = corr.Val(), corr.Cov(), corr.Gain()
	f.stage = gnc.Corrected

	log.WithField("fit", corr.FitProb()).Debug("state corrected")

	return corr, nil
}

func (f *Filter) correct(z *matrix.Matrix, p *gnc.CorrectParams) (*estimate.Correction, error) {
	n := f.dyn.Dim()

	m, err := f.meas.Dim(p.Meas)
	if err != nil {
		return nil, errs.Wrapf(err, "failed to get measurement dimension")
	}

	if !z.IsVector() || z.Len() != m {
		r, c := z.Dims()
		return nil, errs.Dimensionf("invalid measurement: expected %d vector, got [%d x %d]", m, r, c)
	}

	zPred, err := f.meas.Estimate(f.x, p.Meas)
	if err != nil {
		return nil, errs.Wrapf(err, "failed to estimate measurement")
	}

	H, err := f.lin.MeasMatrix(f.x, p.Meas)
	if err != nil {
		return nil, errs.Wrapf(err, "failed to get measurement matrix")
	}

	if r, c := H.Dims(); r != m || c != n {
		return nil, errs.Dimensionf("invalid measurement matrix: expected [%d x %d], got [%d x %d]", m, n, r, c)
	}

	y, err := f.residual(z, zPred, p.Meas)
	if err != nil {
		return nil, err
	}

	// P*H'
	pht, err := f.p.Mul(H.T())
	if err != nil {
		return nil, err
	}

	// S = H*P*H' + R
	S, err := H.Mul(pht)
	if err != nil {
		return nil, err
	}

	R := p.MeasNoise
	if R != nil {
		if S, err = S.Add(R); err != nil {
			return nil, errs.Wrapf(err, "invalid measurement noise")
		}
	}

	if S, err = S.Symmetrize(); err != nil {
		return nil, err
	}

	sInv, err := S.Inverse()
	if err != nil {
		return nil, errs.Wrapf(err, "failed to invert innovation covariance")
	}

	// K = P*H'*inv(S)
	K, err := pht.Mul(sInv)
	if err != nil {
		return nil, err
	}

	ky, err := K.Mul(y)
	if err != nil {
		return nil, err
	}

	x, err := f.x.Add(ky)
	if err != nil {
		return nil, err
	}

	cov, err := f.update(K, H, R)
	if err != nil {
		return nil, err
	}

	fit, err := fitProb(y, S)
	if err != nil {
		return nil, err
	}

	return estimate.NewCorrection(x, cov, y, S, K, fit)
}

// update returns corrected state covariance
func (f *Filter) update(K, H, R *matrix.Matrix) (*matrix.Matrix, error) {
	eye, err := matrix.Identity(f.dyn.Dim())
	if err != nil {
		return nil, err
	}

	kh, err := K.Mul(H)
	if err != nil {
		return nil, err
	}

	// I - K*H
	a, err := eye.Sub(kh)
	if err != nil {
		return nil, err
	}

	ap, err := a.Mul(f.p)
	if err != nil {
		return nil, err
	}

	if f.form == Standard {
		return ap.Symmetrize()
	}

	cov, err := ap.Mul(a.T())
	if err != nil {
		return nil, err
	}

	if R != nil {
		kr, err := K.Mul(R)
		if err != nil {
			return nil, err
		}

		krk, err := kr.Mul(K.T())
		if err != nil {
			return nil, err
		}

		if cov, err = cov.Add(krk); err != nil {
			return nil, err
		}
	}

	return cov.Symmetrize()
}

// residual returns innovation z - zPred using the measurement model residual if it has one
func (f *Filter) residual(z, zPred *matrix.Matrix, p gnc.MeasParams) (*matrix.Matrix, error) {
	rm, ok := f.meas.(gnc.ResidualMeasurement)
	if !ok {
		return z.Sub(zPred)
	}

	y, err := rm.Residual(z, zPred, p)
	if err != nil {
		return nil, errs.Wrapf(err, "failed to compute measurement residual")
	}

	if !y.IsVector() || y.Len() != z.Len() {
		r, c := y.Dims()
		return nil, errs.Dimensionf("invalid measurement residual: expected %d vector, got [%d x %d]", z.Len(), r, c)
	}

	return y, nil
}

// fitProb returns value of normal probability density N(0, S) at innovation y
func fitProb(y, S *matrix.Matrix) (float64, error) {
	sym, err := S.Sym()
	if err != nil {
		return 0, err
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return 0, errs.Numericf("innovation covariance is not positive definite")
	}

	return math.Exp(distmv.NormalLogProb(y.RawData(), make([]float64, y.Len()), &chol)), nil
}

// Run runs one full predict and correct cycle.
func (f *Filter) Run(dt float64, z *matrix.Matrix, pp *gnc.PredictParams, cp *gnc.CorrectParams) (gnc.Correction, error) {
	if _, err := f.Predict(dt, pp); err != nil {
		return nil, err
	}

	return f.Correct(z, cp)
}

// State returns filter state.
// It returns nil if the filter has not been initialized.
func (f *Filter) State() *matrix.Matrix {
	if f.x == nil {
		return nil
	}

	return f.x.Clone()
}

// Cov returns filter state covariance.
// It returns nil if the filter has not been initialized.
func (f *Filter) Cov() *matrix.Matrix {
	if f.p == nil {
		return nil
	}

	return f.p.Clone()
}

// SetCov sets filter state covariance to cov.
// It returns error if the filter has not been initialized or if cov is not
// a symmetric positive semi-definite matrix of the filter state size.
func (f *Filter) SetCov(cov *matrix.Matrix) error {
	if f.stage == gnc.Uninitialized {
		return errs.Sequencef("set covariance called on %s filter", f.stage)
	}

	if err := f.checkCov(cov); err != nil {
		return err
	}

	f.p = cov.Clone()

	return nil
}

// checkCov returns error if p is not a symmetric positive semi-definite matrix of the state size
func (f *Filter) checkCov(p *matrix.Matrix) error {
	n := f.dyn.Dim()
	if !p.IsSquare() || p.Rows() != n {
		r, c := p.Dims()
		return errs.Dimensionf("invalid covariance: expected [%d x %d], got [%d x %d]", n, n, r, c)
	}

	if !p.IsSymmetric(symTol) {
		return errs.Configf("covariance is not symmetric")
	}

	if !p.IsPSD(psdTol) {
		return errs.Configf("covariance is not positive semi-definite")
	}

	return nil
}

// Gain returns the last Kalman gain.
// It returns nil if the filter has not been corrected since initialization.
func (f *Filter) Gain() *matrix.Matrix {
	if f.k == nil {
		return nil
	}

	return f.k.Clone()
}

// Stage returns filter stage
func (f *Filter) Stage() gnc.Stage {
	return f.stage
}

// Dynamics returns filter dynamics model
func (f *Filter) Dynamics() gnc.Dynamics {
	return f.dyn
}

// Measurement returns filter measurement model
func (f *Filter) Measurement() gnc.MeasurementModel {
	return f.meas
}
