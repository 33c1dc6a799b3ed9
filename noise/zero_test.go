package noise

import (
	"testing"

	gnc "github.com/milosgajdos/go-gnc"
	"github.com/stretchr/testify/assert"
)

var _ gnc.Noise = (*Zero)(nil)

func TestNewZero(t *testing.T) {
	assert := assert.New(t)

	e, err := NewZero(2)
	assert.NotNil(e)
	assert.NoError(err)

	e, err = NewZero(-10)
	assert.Nil(e)
	assert.Error(err)
}

func TestZeroMeanCov(t *testing.T) {
	assert := assert.New(t)

	e, err := NewZero(2)
	assert.NotNil(e)
	assert.NoError(err)

	assert.Equal([]float64{0, 0, 0, 0}, e.Cov().RawData())
	assert.EqualValues([]float64{0, 0}, e.Mean())
}

func TestZeroSample(t *testing.T) {
	assert := assert.New(t)

	e, err := NewZero(2)
	assert.NoError(err)

	sample1, err := e.Sample()
	assert.NoError(err)
	assert.Equal([]float64{0, 0}, sample1.RawData())

	e.Reset()

	sample2, err := e.Sample()
	assert.NoError(err)
	assert.Equal(sample1.RawData(), sample2.RawData())
}

func TestZeroString(t *testing.T) {
	assert := assert.New(t)

	str := `Zero{
Mean=[0 0]
Cov=⎡0  0⎤
    ⎣0  0⎦
}`

	e, err := NewZero(2)
	assert.NotNil(e)
	assert.NoError(err)
	assert.Equal(str, e.String())
}
