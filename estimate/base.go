package estimate

import (
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
)

// Base is base estimate
type Base struct {
	// val is estimated value
	val *matrix.Matrix
	// cov is estimated covariance
	cov *matrix.Matrix
}

// NewBase returns base estimate given val with zero covariance.
// It returns error if val is not a vector.
func NewBase(val *matrix.Matrix) (*Base, error) {
	if !val.IsVector() {
		r, c := val.Dims()
		return nil, errs.Dimensionf("invalid estimate value: [%d x %d]", r, c)
	}

	cov, err := matrix.Zeros(val.Len(), val.Len())
	if err != nil {
		return nil, err
	}

	return &Base{
		val: val.Clone(),
		cov: cov,
	}, nil
}

// NewBaseWithCov returns base estimate given val and covariance cov.
// It returns error if val is not a vector or if cov is not a square matrix matching val.
func NewBaseWithCov(val, cov *matrix.Matrix) (*Base, error) {
	if !val.IsVector() {
		r, c := val.Dims()
		return nil, errs.Dimensionf("invalid estimate value: [%d x %d]", r, c)
	}

	if !cov.IsSquare() || cov.Rows() != val.Len() {
		r, c := cov.Dims()
		return nil, errs.Dimensionf("invalid dimensions. Val: %d, Cov: %d x %d", val.Len(), r, c)
	}

	return &Base{
		val: val.Clone(),
		cov: cov.Clone(),
	}, nil
}

// Val returns estimated value
func (b *Base) Val() *matrix.Matrix {
	return b.val.Clone()
}

// Cov returns covariance estimate
func (b *Base) Cov() *matrix.Matrix {
	return b.cov.Clone()
}
