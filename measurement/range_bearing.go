package measurement

import (
	"math"

	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
)

// RangeAndBearingParams are indices of planar position in the state vector
type RangeAndBearingParams struct {
	// XIndex is x position index
	XIndex int
	// YIndex is y position index
	YIndex int
}

// MeasKind implements gnc.MeasParams
func (RangeAndBearingParams) MeasKind() string { return "range-bearing" }

func rangeBearingParams(p gnc.MeasParams) (*RangeAndBearingParams, error) {
	var params *RangeAndBearingParams
	switch rp := p.(type) {
	case *RangeAndBearingParams:
		params = rp
	case RangeAndBearingParams:
		params = &rp
	}

	if params == nil {
		return nil, errs.Configf("range and bearing requires RangeAndBearingParams, got: %T", p)
	}

	if params.XIndex == params.YIndex {
		return nil, errs.Configf("range and bearing position indices must differ: %d", params.XIndex)
	}

	return params, nil
}

// RangeAndBearing measures range and bearing of planar position from the origin:
//
//	range   = sqrt(x^2 + y^2)
//	bearing = atan2(y, x)
type RangeAndBearing struct{}

// NewRangeAndBearing creates new RangeAndBearing and returns it
func NewRangeAndBearing() *RangeAndBearing {
	return &RangeAndBearing{}
}

func (r *RangeAndBearing) position(x *matrix.Matrix, params *RangeAndBearingParams) (float64, float64, error) {
	if err := checkState(x); err != nil {
		return 0, 0, err
	}

	px, err := x.AtVec(params.XIndex)
	if err != nil {
		return 0, 0, errs.Wrapf(err, "invalid x position index")
	}

	py, err := x.AtVec(params.YIndex)
	if err != nil {
		return 0, 0, errs.Wrapf(err, "invalid y position index")
	}

	return px, py, nil
}

// Dim returns measurement dimension
func (r *RangeAndBearing) Dim(p gnc.MeasParams) (int, error) {
	if _, err := rangeBearingParams(p); err != nil {
		return 0, err
	}

	return 2, nil
}

// Estimate returns [range, bearing] of state x.
func (r *RangeAndBearing) Estimate(x *matrix.Matrix, p gnc.MeasParams) (*matrix.Matrix, error) {
	params, err := rangeBearingParams(p)
	if err != nil {
		return nil, err
	}

	px, py, err := r.position(x, params)
	if err != nil {
		return nil, err
	}

	return matrix.NewVector([]float64{math.Hypot(px, py), math.Atan2(py, px)})
}

// Jacobian returns measurement Jacobian evaluated at x.
// It returns error if the range of x is zero.
func (r *RangeAndBearing) Jacobian(x *matrix.Matrix, p gnc.MeasParams) (*matrix.Matrix, error) {
	params, err := rangeBearingParams(p)
	if err != nil {
		return nil, err
	}

	px, py, err := r.position(x, params)
	if err != nil {
		return nil, err
	}

	r2 := px*px + py*py
	if r2 == 0 {
		return nil, errs.Numericf("range and bearing jacobian undefined at zero range")
	}
	rng := math.Sqrt(r2)

	jac, err := matrix.Zeros(2, x.Len())
	if err != nil {
		return nil, err
	}

	xi, yi := params.XIndex, params.YIndex
	for _, e := range []struct {
		i, j int
		v    float64
	}{
		{0, xi, px / rng},
		{0, yi, py / rng},
		{1, xi, -py / r2},
		{1, yi, px / r2},
	} {
		if err := jac.Set(e.i, e.j, e.v); err != nil {
			return nil, err
		}
	}

	return jac, nil
}

// Residual returns z - zPred with the bearing difference wrapped to (-pi, pi].
func (r *RangeAndBearing) Residual(z, zPred *matrix.Matrix, p gnc.MeasParams) (*matrix.Matrix, error) {
	if _, err := rangeBearingParams(p); err != nil {
		return nil, err
	}

	if !z.IsVector() || z.Len() != 2 || !zPred.IsVector() || zPred.Len() != 2 {
		return nil, errs.Dimensionf("range and bearing residual requires 2-element vectors, got: %d, %d", z.Len(), zPred.Len())
	}

	y, err := z.Sub(zPred)
	if err != nil {
		return nil, err
	}

	b, err := y.AtVec(1)
	if err != nil {
		return nil, err
	}

	b = math.Remainder(b, 2*math.Pi)
	if b == -math.Pi {
		b = math.Pi
	}

	if err := y.SetVec(1, b); err != nil {
		return nil, err
	}

	return y, nil
}
