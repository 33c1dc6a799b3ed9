// Package noise implements random noise sources used to simulate
// process and measurement noise.
package noise

import (
	"fmt"
	"time"

	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Option configures Gaussian noise
type Option func(*Gaussian)

// WithSeed seeds Gaussian noise with seed.
// Seeded noise generates the same sequence of samples after every Reset.
func WithSeed(seed uint64) Option {
	return func(g *Gaussian) {
		g.seed = seed
		g.seeded = true
	}
}

// Gaussian is gaussian noise
type Gaussian struct {
	// dist is a multivariate normal distribution
	dist *distmv.Normal
	// mean is Gaussian mean
	mean []float64
	// cov is Gaussian covariance
	cov *mat.SymDense
	// seed is random source seed
	seed   uint64
	seeded bool
}

// NewGaussian creates new Gaussian noise with given mean and covariance.
// It returns error if cov is not a square matrix matching the size of mean
// or if cov is not positive definite.
func NewGaussian(mean []float64, cov *matrix.Matrix, opts ...Option) (*Gaussian, error) {
	if len(mean) == 0 || !cov.IsSquare() || cov.Rows() != len(mean) {
		r, c := cov.Dims()
		return nil, errs.Dimensionf("invalid gaussian noise: mean %d, covariance [%d x %d]", len(mean), r, c)
	}

	if !cov.IsSymmetric(1e-12) {
		return nil, errs.Configf("gaussian noise covariance is not symmetric")
	}

	sym, err := cov.Sym()
	if err != nil {
		return nil, err
	}

	g := &Gaussian{
		mean: append([]float64(nil), mean...),
		cov:  sym,
	}

	for _, opt := range opts {
		opt(g)
	}

	dist, ok := g.newDist()
	if !ok {
		return nil, errs.Numericf("gaussian noise covariance is not positive definite")
	}
	g.dist = dist

	return g, nil
}

func (g *Gaussian) newDist() (*distmv.Normal, bool) {
	seed := g.seed
	if !g.seeded {
		seed = uint64(time.Now().UnixNano())
	}

	return distmv.NewNormal(g.mean, g.cov, rand.NewSource(seed))
}

// Sample generates a sample from Gaussian noise and returns it.
func (g *Gaussian) Sample() (*matrix.Matrix, error) {
	return matrix.NewVector(g.dist.Rand(nil))
}

// Cov returns covariance matrix of Gaussian noise.
func (g *Gaussian) Cov() *matrix.Matrix {
	cov, _ := matrix.FromDense(g.cov)
	return cov
}

// Mean returns Gaussian mean.
func (g *Gaussian) Mean() []float64 {
	mean := make([]float64, len(g.mean))
	copy(mean, g.mean)

	return mean
}

// Reset resets Gaussian noise random source.
func (g *Gaussian) Reset() {
	// covariance has been validated on creation
	if dist, ok := g.newDist(); ok {
		g.dist = dist
	}
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{\nMean=%v\nCov=%v\n}", g.mean, mat.Formatted(g.cov, mat.Prefix("    "), mat.Squeeze()))
}
