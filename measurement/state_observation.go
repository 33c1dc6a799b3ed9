package measurement

import (
	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
)

// StateObservationParams are indices of directly observed state elements
type StateObservationParams struct {
	// Indices are observed state indices
	Indices []int
}

// MeasKind implements gnc.MeasParams
func (StateObservationParams) MeasKind() string { return "state-observation" }

func stateObservationParams(p gnc.MeasParams) (*StateObservationParams, error) {
	var params *StateObservationParams
	switch sp := p.(type) {
	case *StateObservationParams:
		params = sp
	case StateObservationParams:
		params = &sp
	}

	if params == nil {
		return nil, errs.Configf("state observation requires StateObservationParams, got: %T", p)
	}

	if len(params.Indices) == 0 {
		return nil, errs.Configf("state observation requires at least one index")
	}

	return params, nil
}

// StateObservation directly observes selected state elements
type StateObservation struct{}

// NewStateObservation creates new StateObservation and returns it
func NewStateObservation() *StateObservation {
	return &StateObservation{}
}

// Dim returns measurement dimension
func (s *StateObservation) Dim(p gnc.MeasParams) (int, error) {
	params, err := stateObservationParams(p)
	if err != nil {
		return 0, err
	}

	return len(params.Indices), nil
}

// MeasMatrix returns measurement matrix H with H(i, j) = 1 if j is i-th observed index.
// It returns error if any index is outside of the state x.
func (s *StateObservation) MeasMatrix(x *matrix.Matrix, p gnc.MeasParams) (*matrix.Matrix, error) {
	params, err := stateObservationParams(p)
	if err != nil {
		return nil, err
	}

	if err := checkState(x); err != nil {
		return nil, err
	}

	h, err := matrix.Zeros(len(params.Indices), x.Len())
	if err != nil {
		return nil, err
	}

	for i, j := range params.Indices {
		if err := h.Set(i, j, 1.0); err != nil {
			return nil, errs.Wrapf(err, "invalid observed state index")
		}
	}

	return h, nil
}

// Estimate returns H*x
func (s *StateObservation) Estimate(x *matrix.Matrix, p gnc.MeasParams) (*matrix.Matrix, error) {
	h, err := s.MeasMatrix(x, p)
	if err != nil {
		return nil, err
	}

	return h.Mul(x)
}
