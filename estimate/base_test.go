package estimate

import (
	"testing"

	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
	"github.com/stretchr/testify/assert"
)

func TestNewBase(t *testing.T) {
	assert := assert.New(t)

	state, _ := matrix.NewVector([]float64{1.0, 1.0})
	cov, _ := matrix.New(2, 2, []float64{1.0, 0.0, 0.0, 1.0})

	b, err := NewBase(state)
	assert.NotNil(b)
	assert.NoError(err)
	assert.Equal([]float64{0, 0, 0, 0}, b.Cov().RawData())

	b, err = NewBaseWithCov(state, cov)
	assert.NotNil(b)
	assert.NoError(err)

	small, _ := matrix.New(1, 1, []float64{1.0})
	b, err = NewBaseWithCov(state, small)
	assert.Nil(b)
	assert.Error(err)
	assert.Equal(errs.Dimension, errs.KindOf(err))

	b, err = NewBase(cov)
	assert.Nil(b)
	assert.Error(err)
}

func TestValCov(t *testing.T) {
	assert := assert.New(t)

	state, _ := matrix.NewVector([]float64{1.0, 2.0})
	cov, _ := matrix.New(2, 2, []float64{1.0, 2.0, 2.0, 4.0})

	b, err := NewBaseWithCov(state, cov)
	assert.NotNil(b)
	assert.NoError(err)

	assert.Equal(state.RawData(), b.Val().RawData())
	assert.Equal(cov.RawData(), b.Cov().RawData())

	// accessors return copies
	v := b.Val()
	assert.NoError(v.SetVec(0, 100))
	assert.Equal(1.0, b.val.RawData()[0])

	// constructor copies its arguments
	assert.NoError(cov.Set(0, 0, 100))
	assert.Equal(1.0, b.cov.RawData()[0])
}

func TestCorrection(t *testing.T) {
	assert := assert.New(t)

	state, _ := matrix.NewVector([]float64{1.0, 2.0})
	cov, _ := matrix.New(2, 2, []float64{1.0, 0.0, 0.0, 1.0})
	inn, _ := matrix.NewVector([]float64{0.5})
	innCov, _ := matrix.New(1, 1, []float64{2.0})
	gain, _ := matrix.New(2, 1, []float64{0.5, 0.0})

	c, err := NewCorrection(state, cov, inn, innCov, gain, 0.25)
	assert.NotNil(c)
	assert.NoError(err)

	assert.Equal(state.RawData(), c.Val().RawData())
	assert.Equal([]float64{0.5}, c.Innovation().RawData())
	assert.Equal([]float64{2.0}, c.InnovationCov().RawData())
	assert.Equal([]float64{0.5, 0.0}, c.Gain().RawData())
	assert.Equal(0.25, c.FitProb())

	c, err = NewCorrection(state, cov, inn, cov, gain, 0.25)
	assert.Nil(c)
	assert.Equal(errs.Dimension, errs.KindOf(err))

	c, err = NewCorrection(state, cov, inn, innCov, cov, 0.25)
	assert.Nil(c)
	assert.Equal(errs.Dimension, errs.KindOf(err))

	c, err = NewCorrection(state, cov, cov, innCov, gain, 0.25)
	assert.Nil(c)
	assert.Equal(errs.Dimension, errs.KindOf(err))
}
