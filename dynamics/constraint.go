package dynamics

import (
	"math"

	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
)

// Constraint constrains state vector
type Constraint interface {
	// Apply returns constrained copy of x
	Apply(x *matrix.Matrix, p gnc.ConstraintParams) (*matrix.Matrix, error)
}

// ConstraintFunc is a function which implements Constraint
type ConstraintFunc func(x *matrix.Matrix, p gnc.ConstraintParams) (*matrix.Matrix, error)

// Apply implements Constraint
func (f ConstraintFunc) Apply(x *matrix.Matrix, p gnc.ConstraintParams) (*matrix.Matrix, error) {
	return f(x, p)
}

// BoundsParams are lower and upper bounds of state elements.
// Infinite bounds leave the elements unconstrained.
type BoundsParams struct {
	// Lower are lower bounds
	Lower []float64
	// Upper are upper bounds
	Upper []float64
}

// ConstraintKind implements gnc.ConstraintParams
func (BoundsParams) ConstraintKind() string { return "bounds" }

// WrapAngles returns constraint which wraps the state elements at given indices into [0, 2*Pi).
// It ignores constraint parameters.
func WrapAngles(indices ...int) Constraint {
	return ConstraintFunc(func(x *matrix.Matrix, _ gnc.ConstraintParams) (*matrix.Matrix, error) {
		out := x.Clone()
		for _, i := range indices {
			v, err := out.AtVec(i)
			if err != nil {
				return nil, err
			}

			if err := out.SetVec(i, WrapAngle(v)); err != nil {
				return nil, err
			}
		}

		return out, nil
	})
}

// WrapAngle wraps angle a into [0, 2*Pi)
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	// -tiny + 2Pi rounds to 2Pi
	if a >= 2*math.Pi {
		a = 0
	}

	return a
}

// Clamp returns constraint which clamps the state elements into bounds supplied in BoundsParams.
// It returns error if no BoundsParams are supplied or if their length does not match the state.
func Clamp() Constraint {
	return ConstraintFunc(func(x *matrix.Matrix, p gnc.ConstraintParams) (*matrix.Matrix, error) {
		var bounds *BoundsParams
		switch b := p.(type) {
		case *BoundsParams:
			bounds = b
		case BoundsParams:
			bounds = &b
		}

		if bounds == nil {
			return nil, errs.Configf("clamp requires BoundsParams, got: %T", p)
		}

		n := x.Len()
		if len(bounds.Lower) != n || len(bounds.Upper) != n {
			return nil, errs.Dimensionf("invalid bounds length: lower %d, upper %d, state %d", len(bounds.Lower), len(bounds.Upper), n)
		}

		out := x.Clone()
		for i := 0; i < n; i++ {
			if bounds.Lower[i] > bounds.Upper[i] {
				return nil, errs.Configf("invalid bounds at %d: %f > %f", i, bounds.Lower[i], bounds.Upper[i])
			}

			v, err := out.AtVec(i)
			if err != nil {
				return nil, err
			}

			if err := out.SetVec(i, math.Max(bounds.Lower[i], math.Min(bounds.Upper[i], v))); err != nil {
				return nil, err
			}
		}

		return out, nil
	})
}
