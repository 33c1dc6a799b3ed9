// Package sim simulates a dynamical system and its measurements.
// It generates ground truth and noisy measurements used to exercise filters.
package sim

import (
	"math"

	gnc "github.com/milosgajdos/go-gnc"
	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
)

// InitCond is initial condition of a filter
type InitCond struct {
	state *matrix.Matrix
	cov   *matrix.Matrix
}

// NewInitCond creates new InitCond and returns it.
// It returns error if state is not a vector or cov is not a square matrix of the state size.
func NewInitCond(state, cov *matrix.Matrix) (*InitCond, error) {
	if !state.IsVector() {
		r, c := state.Dims()
		return nil, errs.Dimensionf("invalid initial state: [%d x %d]", r, c)
	}

	if !cov.IsSquare() || cov.Rows() != state.Len() {
		r, c := cov.Dims()
		return nil, errs.Dimensionf("invalid initial covariance: [%d x %d]", r, c)
	}

	return &InitCond{
		state: state.Clone(),
		cov:   cov.Clone(),
	}, nil
}

// State returns initial state
func (c *InitCond) State() *matrix.Matrix {
	return c.state.Clone()
}

// Cov returns initial covariance
func (c *InitCond) Cov() *matrix.Matrix {
	return c.cov.Clone()
}

// Config configures simulation
type Config struct {
	// Dt is simulation time step
	Dt float64
	// Steps is number of simulation steps
	Steps int
	// Propagate are parameters passed to dynamics propagation
	Propagate *gnc.PropagateParams
	// Meas are measurement model parameters
	Meas gnc.MeasParams
	// ProcNoise is added to the true state after every step; nil means no noise
	ProcNoise gnc.Noise
	// MeasNoise is added to every measurement; nil means no noise
	MeasNoise gnc.Noise
}

// Trajectory is a simulated system trajectory
type Trajectory struct {
	// Times are simulation times
	Times []float64
	// Truth are true system states
	Truth []*matrix.Matrix
	// Meas are noisy measurements of true states
	Meas []*matrix.Matrix
}

// Run simulates dynamics dyn observed by measurement model meas from initial state x0.
// It returns error if the configuration is invalid or if any simulation step fails.
func Run(dyn gnc.Dynamics, meas gnc.MeasurementModel, x0 *matrix.Matrix, c *Config) (*Trajectory, error) {
	if dyn == nil || meas == nil || c == nil {
		return nil, errs.Configf("invalid simulation: dynamics %v, measurement %v, config %v", dyn, meas, c)
	}

	if c.Steps <= 0 || c.Dt <= 0 {
		return nil, errs.Configf("invalid simulation steps: %d, time step: %f", c.Steps, c.Dt)
	}

	if !x0.IsVector() || x0.Len() != dyn.Dim() {
		r, c := x0.Dims()
		return nil, errs.Dimensionf("invalid initial state: expected %d vector, got [%d x %d]", dyn.Dim(), r, c)
	}

	traj := &Trajectory{
		Times: make([]float64, 0, c.Steps),
		Truth: make([]*matrix.Matrix, 0, c.Steps),
		Meas:  make([]*matrix.Matrix, 0, c.Steps),
	}

	x := x0.Clone()
	for i := 1; i <= c.Steps; i++ {
		var err error
		x, err = dyn.Propagate(x, c.Dt, c.Propagate)
		if err != nil {
			return nil, errs.Wrapf(err, "failed to propagate state at step %d", i)
		}

		if x, err = addNoise(x, c.ProcNoise); err != nil {
			return nil, errs.Wrapf(err, "failed to add process noise at step %d", i)
		}

		z, err := meas.Estimate(x, c.Meas)
		if err != nil {
			return nil, errs.Wrapf(err, "failed to measure state at step %d", i)
		}

		if z, err = addNoise(z, c.MeasNoise); err != nil {
			return nil, errs.Wrapf(err, "failed to add measurement noise at step %d", i)
		}

		traj.Times = append(traj.Times, float64(i)*c.Dt)
		traj.Truth = append(traj.Truth, x)
		traj.Meas = append(traj.Meas, z)
	}

	return traj, nil
}

func addNoise(x *matrix.Matrix, n gnc.Noise) (*matrix.Matrix, error) {
	if n == nil {
		return x, nil
	}

	s, err := n.Sample()
	if err != nil {
		return nil, err
	}

	return x.Add(s)
}

// Stack stacks vectors vs as rows of a matrix and returns it.
// It returns error if vs is empty or if the vectors differ in length.
func Stack(vs []*matrix.Matrix) (*matrix.Matrix, error) {
	if len(vs) == 0 {
		return nil, errs.Dimensionf("no vectors to stack")
	}

	cols := vs[0].Len()
	data := make([]float64, 0, len(vs)*cols)
	for i, v := range vs {
		if !v.IsVector() || v.Len() != cols {
			r, c := v.Dims()
			return nil, errs.Dimensionf("invalid vector %d: expected %d vector, got [%d x %d]", i, cols, r, c)
		}
		data = append(data, v.RawData()...)
	}

	return matrix.New(len(vs), cols, data)
}

// RMSE returns root mean square error between est and truth over state elements indices.
// All state elements are used if no indices are given.
// It returns error if est and truth differ in size or any index is out of range.
func RMSE(est, truth []*matrix.Matrix, indices ...int) (float64, error) {
	if len(est) == 0 || len(est) != len(truth) {
		return 0, errs.Dimensionf("invalid trajectory lengths: %d, %d", len(est), len(truth))
	}

	sum, count := 0.0, 0
	for i := range est {
		diff, err := est[i].Sub(truth[i])
		if err != nil {
			return 0, err
		}

		if len(indices) == 0 {
			n := diff.Norm()
			sum += n * n
			count += diff.Len()
			continue
		}

		d := diff.RawData()

		for _, j := range indices {
			if j < 0 || j >= len(d) {
				return 0, errs.Indexf("state index out of range: %d", j)
			}
			sum += d[j] * d[j]
			count++
		}
	}

	return math.Sqrt(sum / float64(count)), nil
}
