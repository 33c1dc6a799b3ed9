// Package measurement implements models mapping state into measurement space.
package measurement

import (
	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
)

// checkState returns error if x is not a vector
func checkState(x *matrix.Matrix) error {
	if !x.IsVector() {
		r, c := x.Dims()
		return errs.Dimensionf("invalid state: expected vector, got [%d x %d]", r, c)
	}

	return nil
}

// noMeasParams returns error if p is not nil
func noMeasParams(model string, p gnc.MeasParams) error {
	if p != nil {
		return errs.Configf("%s accepts no measurement parameters, got: %T", model, p)
	}

	return nil
}

// Linear is measurement model with constant measurement matrix H
type Linear struct {
	h *matrix.Matrix
}

// NewLinear creates new linear measurement model with measurement matrix h and returns it.
// It returns error if h is nil or empty.
func NewLinear(h *matrix.Matrix) (*Linear, error) {
	if h.Len() == 0 {
		return nil, errs.Dimensionf("invalid measurement matrix")
	}

	return &Linear{h: h.Clone()}, nil
}

// Dim returns measurement dimension
func (l *Linear) Dim(p gnc.MeasParams) (int, error) {
	if err := noMeasParams("linear measurement", p); err != nil {
		return 0, err
	}

	return l.h.Rows(), nil
}

// MeasMatrix returns measurement matrix.
// It returns error if x length does not match the number of H columns.
func (l *Linear) MeasMatrix(x *matrix.Matrix, p gnc.MeasParams) (*matrix.Matrix, error) {
	if err := noMeasParams("linear measurement", p); err != nil {
		return nil, err
	}

	if err := checkState(x); err != nil {
		return nil, err
	}

	if x.Len() != l.h.Cols() {
		return nil, errs.Dimensionf("invalid state length: %d, measurement matrix: [%d x %d]", x.Len(), l.h.Rows(), l.h.Cols())
	}

	return l.h.Clone(), nil
}

// Estimate returns H*x
func (l *Linear) Estimate(x *matrix.Matrix, p gnc.MeasParams) (*matrix.Matrix, error) {
	h, err := l.MeasMatrix(x, p)
	if err != nil {
		return nil, err
	}

	return h.Mul(x)
}
