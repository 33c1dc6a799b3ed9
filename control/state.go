// Package control implements linear control models.
package control

import (
	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
)

// StateControlParams selects the state elements driven by control input.
// Input u[Cols[k]] drives state element Rows[k] with gain Vals[k].
// If Vals is empty all the gains are 1.
type StateControlParams struct {
	// Rows are state indices
	Rows []int
	// Cols are control input indices
	Cols []int
	// Vals are gains
	Vals []float64
}

// ControlKind implements gnc.ControlParams
func (StateControlParams) ControlKind() string { return "state-control" }

// StateControl is control model which drives selected state elements directly
type StateControl struct {
	dim int
}

// NewStateControl creates new StateControl for state of dimension dim and returns it.
// It returns error if dim is not positive.
func NewStateControl(dim int) (*StateControl, error) {
	if dim <= 0 {
		return nil, errs.Configf("invalid state dimension: %d", dim)
	}

	return &StateControl{dim: dim}, nil
}

// Dim returns state dimension
func (s *StateControl) Dim() int {
	return s.dim
}

func stateControlParams(p gnc.ControlParams) (*StateControlParams, error) {
	switch params := p.(type) {
	case *StateControlParams:
		if params != nil {
			return params, nil
		}
	case StateControlParams:
		return &params, nil
	}

	return nil, errs.Configf("state control requires StateControlParams, got: %T", p)
}

// InputMatrix returns input matrix G built from StateControlParams.
// G has as many columns as the highest referenced control index plus one.
// It returns error if p is not StateControlParams, if its slices are empty or of
// different lengths or if any of the indices is out of bounds.
func (s *StateControl) InputMatrix(dt float64, p gnc.ControlParams) (*matrix.Matrix, error) {
	params, err := stateControlParams(p)
	if err != nil {
		return nil, err
	}

	if len(params.Rows) == 0 {
		return nil, errs.Configf("state control requires at least one row")
	}

	if len(params.Rows) != len(params.Cols) {
		return nil, errs.Configf("rows and cols length mismatch: %d != %d", len(params.Rows), len(params.Cols))
	}

	if len(params.Vals) != 0 && len(params.Vals) != len(params.Rows) {
		return nil, errs.Configf("rows and vals length mismatch: %d != %d", len(params.Rows), len(params.Vals))
	}

	cols := 0
	for k, c := range params.Cols {
		if c < 0 {
			return nil, errs.Indexf("invalid control index at %d: %d", k, c)
		}
		if c+1 > cols {
			cols = c + 1
		}
	}

	g, err := matrix.Zeros(s.dim, cols)
	if err != nil {
		return nil, err
	}

	for k := range params.Rows {
		val := 1.0
		if len(params.Vals) != 0 {
			val = params.Vals[k]
		}

		if err := g.Set(params.Rows[k], params.Cols[k], val); err != nil {
			return nil, errs.Wrapf(err, "invalid state index at %d", k)
		}
	}

	return g, nil
}

// Input returns state control term G*u.
func (s *StateControl) Input(dt float64, u *matrix.Matrix, p gnc.ControlParams) (*matrix.Matrix, error) {
	g, err := s.InputMatrix(dt, p)
	if err != nil {
		return nil, err
	}

	return Apply(g, u)
}

// Apply returns G*u.
// It returns error if u is not a vector whose length equals the number of columns of G.
func Apply(g, u *matrix.Matrix) (*matrix.Matrix, error) {
	if !u.IsVector() {
		r, c := u.Dims()
		return nil, errs.Dimensionf("control input is not a vector: [%d x %d]", r, c)
	}

	out, err := g.Mul(u)
	if err != nil {
		return nil, errs.Wrapf(err, "failed to apply control input")
	}

	return out, nil
}
