package control

import (
	"testing"

	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
	"github.com/stretchr/testify/assert"
)

type badParams struct{}

func (badParams) ControlKind() string { return "bad" }

func TestNewStateControl(t *testing.T) {
	assert := assert.New(t)

	s, err := NewStateControl(6)
	assert.NotNil(s)
	assert.NoError(err)
	assert.Equal(6, s.Dim())

	s, err = NewStateControl(0)
	assert.Nil(s)
	assert.Equal(errs.Config, errs.KindOf(err))
}

func TestInputMatrix(t *testing.T) {
	assert := assert.New(t)

	s, err := NewStateControl(6)
	assert.NoError(err)

	params := &StateControlParams{
		Rows: []int{3, 3, 4, 5},
		Cols: []int{0, 1, 1, 2},
		Vals: []float64{2, 4, 6, 7},
	}

	g, err := s.InputMatrix(0.1, params)
	assert.NoError(err)
	r, c := g.Dims()
	assert.Equal(6, r)
	assert.Equal(3, c)

	exp := []float64{
		0, 0, 0,
		0, 0, 0,
		0, 0, 0,
		2, 4, 0,
		0, 6, 0,
		0, 0, 7,
	}
	assert.Equal(exp, g.RawData())

	// default gains
	g, err = s.InputMatrix(0.1, StateControlParams{Rows: []int{4, 5}, Cols: []int{0, 1}})
	assert.NoError(err)
	v, err := g.Get(4, 0)
	assert.NoError(err)
	assert.Equal(1.0, v)
	v, err = g.Get(5, 1)
	assert.NoError(err)
	assert.Equal(1.0, v)

	u, err := matrix.NewVector([]float64{2, 3})
	assert.NoError(err)
	gu, err := s.Input(0.1, u, StateControlParams{Rows: []int{4, 5}, Cols: []int{0, 1}})
	assert.NoError(err)
	assert.Equal([]float64{0, 0, 0, 0, 2, 3}, gu.RawData())
}

func TestInputMatrixErrors(t *testing.T) {
	assert := assert.New(t)

	s, err := NewStateControl(4)
	assert.NoError(err)

	testCases := []struct {
		params gnc.ControlParams
		kind   errs.Kind
	}{
		{nil, errs.Config},
		{badParams{}, errs.Config},
		{(*StateControlParams)(nil), errs.Config},
		{&StateControlParams{}, errs.Config},
		{&StateControlParams{Rows: []int{0, 1}, Cols: []int{0}}, errs.Config},
		{&StateControlParams{Rows: []int{0}, Cols: []int{0}, Vals: []float64{1, 2}}, errs.Config},
		{&StateControlParams{Rows: []int{4}, Cols: []int{0}}, errs.Index},
		{&StateControlParams{Rows: []int{0}, Cols: []int{-1}}, errs.Index},
	}

	for _, tc := range testCases {
		g, err := s.InputMatrix(0.1, tc.params)
		assert.Nil(g)
		assert.Error(err)
		assert.Equal(tc.kind, errs.KindOf(err))
	}

	u, err := matrix.NewVector([]float64{1, 2, 3})
	assert.NoError(err)
	gu, err := s.Input(0.1, u, &StateControlParams{Rows: []int{2, 3}, Cols: []int{0, 1}})
	assert.Nil(gu)
	assert.Equal(errs.Dimension, errs.KindOf(err))
}
