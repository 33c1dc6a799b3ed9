// Package errs defines the failure kinds returned by the estimation engine.
//
// Every error returned by the matrix engine, the models and the filters wraps
// exactly one of the sentinel errors below, so callers can branch on the kind
// with errors.Is or KindOf regardless of how much context has been attached.
package errs

import (
	"github.com/pkg/errors"
)

// Kind is a failure kind
type Kind int

const (
	// Unknown is returned by KindOf for errors which do not wrap any sentinel
	Unknown Kind = iota
	// Dimension is a matrix operation with incompatible shapes
	Dimension
	// Index is an out of bounds element access
	Index
	// Config is a parameter object of the wrong kind or with bad values
	Config
	// NoControl is a control capability requested from a model without one
	NoControl
	// NoConstraint is a constraint capability requested from a model without one
	NoConstraint
	// Numeric is a singular or ill-conditioned matrix where an inverse is required
	Numeric
	// Sequence is a filter operation invoked out of order
	Sequence
)

var (
	// ErrDimension is returned when matrix shapes are incompatible
	ErrDimension = errors.New("dimension mismatch")
	// ErrIndex is returned when an element index is out of bounds
	ErrIndex = errors.New("index out of range")
	// ErrConfig is returned when invalid parameters are supplied
	ErrConfig = errors.New("invalid configuration")
	// ErrNoControl is returned when a model has no control model
	ErrNoControl = errors.New("no control model")
	// ErrNoConstraint is returned when a model has no state constraint
	ErrNoConstraint = errors.New("no state constraint")
	// ErrNumeric is returned when a matrix can not be inverted
	ErrNumeric = errors.New("numerically singular matrix")
	// ErrSequence is returned when filter operations are called out of order
	ErrSequence = errors.New("invalid filter sequence")
)

var kinds = []struct {
	kind Kind
	err  error
}{
	{Dimension, ErrDimension},
	{Index, ErrIndex},
	{Config, ErrConfig},
	{NoControl, ErrNoControl},
	{NoConstraint, ErrNoConstraint},
	{Numeric, ErrNumeric},
	{Sequence, ErrSequence},
}

// String implements the Stringer interface.
func (k Kind) String() string {
	switch k {
	case Dimension:
		return "dimension"
	case Index:
		return "index"
	case Config:
		return "config"
	case NoControl:
		return "no-control"
	case NoConstraint:
		return "no-constraint"
	case Numeric:
		return "numeric"
	case Sequence:
		return "sequence"
	}

	return "unknown"
}

// Err returns the sentinel error of the kind k.
// It returns nil for Unknown kind.
func (k Kind) Err() error {
	for _, e := range kinds {
		if e.kind == k {
			return e.err
		}
	}

	return nil
}

// KindOf returns the failure kind wrapped by err.
// It returns Unknown if err is nil or does not wrap any known kind.
func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}

	for _, e := range kinds {
		if errors.Is(err, e.err) {
			return e.kind
		}
	}

	return Unknown
}

// Dimensionf returns dimension error annotated with formatted message.
func Dimensionf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrDimension, format, args...)
}

// Indexf returns index error annotated with formatted message.
func Indexf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrIndex, format, args...)
}

// Configf returns configuration error annotated with formatted message.
func Configf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConfig, format, args...)
}

// NoControlf returns no-control error annotated with formatted message.
func NoControlf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNoControl, format, args...)
}

// NoConstraintf returns no-constraint error annotated with formatted message.
func NoConstraintf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNoConstraint, format, args...)
}

// Numericf returns numeric error annotated with formatted message.
func Numericf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNumeric, format, args...)
}

// Sequencef returns sequencing error annotated with formatted message.
func Sequencef(format string, args ...interface{}) error {
	return errors.Wrapf(ErrSequence, format, args...)
}

// Wrapf annotates err with formatted message preserving its kind.
// It returns nil if err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}
