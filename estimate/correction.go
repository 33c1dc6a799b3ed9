package estimate

import (
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
)

// Correction is estimate corrected by a measurement
type Correction struct {
	*Base
	// inn is innovation vector
	inn *matrix.Matrix
	// innCov is innovation covariance
	innCov *matrix.Matrix
	// gain is filter gain
	gain *matrix.Matrix
	// fitProb is measurement fit probability
	fitProb float64
}

// NewCorrection returns corrected estimate given corrected value val, its covariance cov,
// innovation inn, innovation covariance innCov, filter gain and measurement fit probability.
// It returns error if the dimensions are inconsistent.
func NewCorrection(val, cov, inn, innCov, gain *matrix.Matrix, fitProb float64) (*Correction, error) {
	base, err := NewBaseWithCov(val, cov)
	if err != nil {
		return nil, err
	}

	if !inn.IsVector() {
		r, c := inn.Dims()
		return nil, errs.Dimensionf("invalid innovation: [%d x %d]", r, c)
	}

	m := inn.Len()
	if !innCov.IsSquare() || innCov.Rows() != m {
		r, c := innCov.Dims()
		return nil, errs.Dimensionf("invalid innovation covariance dimensions: [%d x %d]", r, c)
	}

	if r, c := gain.Dims(); r != val.Len() || c != m {
		return nil, errs.Dimensionf("invalid gain dimensions: [%d x %d]", r, c)
	}

	return &Correction{
		Base:    base,
		inn:     inn.Clone(),
		innCov:  innCov.Clone(),
		gain:    gain.Clone(),
		fitProb: fitProb,
	}, nil
}

// Innovation returns measurement residual
func (c *Correction) Innovation() *matrix.Matrix {
	return c.inn.Clone()
}

// InnovationCov returns innovation covariance
func (c *Correction) InnovationCov() *matrix.Matrix {
	return c.innCov.Clone()
}

// Gain returns filter gain
func (c *Correction) Gain() *matrix.Matrix {
	return c.gain.Clone()
}

// FitProb returns probability density of the measurement given its prediction
func (c *Correction) FitProb() float64 {
	return c.fitProb
}
