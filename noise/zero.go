package noise

import (
	"fmt"

	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
	"gonum.org/v1/gonum/mat"
)

// Zero is zero noise i.e. no noise
type Zero struct {
	// size is noise dimension
	size int
}

// NewZero creates new zero noise i.e. zero mean and zero covariance.
// It returns error if size is non-positive.
func NewZero(size int) (*Zero, error) {
	if size <= 0 {
		return nil, errs.Dimensionf("invalid noise dimension: %d", size)
	}

	return &Zero{
		size: size,
	}, nil
}

// Sample returns a vector with zero values.
func (e *Zero) Sample() (*matrix.Matrix, error) {
	return matrix.Zeros(e.size, 1)
}

// Cov returns covariance matrix with zero values.
func (e *Zero) Cov() *matrix.Matrix {
	cov, _ := matrix.Zeros(e.size, e.size)
	return cov
}

// Mean returns Zero mean.
func (e *Zero) Mean() []float64 {
	return make([]float64, e.size)
}

// Reset does nothing: zero noise has no state.
func (e *Zero) Reset() {}

// String implements the Stringer interface.
func (e *Zero) String() string {
	return fmt.Sprintf("Zero{\nMean=%v\nCov=%v\n}", e.Mean(), mat.Formatted(mat.NewSymDense(e.size, nil), mat.Prefix("    "), mat.Squeeze()))
}
