package lasso

import (
	"context"
	"math"

	"github.com/optbench/optbench/pkg/bench"
	"github.com/optbench/optbench/pkg/solver"
)

// PGD solves the lasso by proximal gradient descent with a 1/L step, the
// accelerated (FISTA) variant behind the use_acceleration parameter. Each
// Run restarts from zero and iterates its full budget, so successive Run
// calls with growing budgets sample the convergence curve.
type PGD struct {
	solver.Base

	useAcceleration bool

	X    [][]float64
	y    []float64
	lmbd float64
	step float64

	beta []float64
}

// NewPGD builds a PGD solver configuration. Recognized parameter:
// use_acceleration.
func NewPGD(params ...bench.Param) (bench.Solver, error) {
	s := &PGD{Base: solver.NewBase("pgd", params...)}
	for _, p := range bench.Params(params) {
		switch p.Key {
		case "use_acceleration":
			v, ok := p.Value.(bool)
			if !ok {
				return nil, bench.NewConfigError("use_acceleration must be a boolean", nil)
			}
			s.useAcceleration = v
		default:
			return nil, bench.NewConfigError("unknown solver parameter "+p.Key, nil)
		}
	}
	return s, nil
}

// Strategy declares the iteration sampling axis.
func (s *PGD) Strategy() bench.SamplingStrategy { return bench.StrategyIteration }

// SetObjective binds the solver to one lasso instantiation.
func (s *PGD) SetObjective(params map[string]interface{}) error {
	X, okX := params["X"].([][]float64)
	y, okY := params["y"].([]float64)
	lmbd, okL := toFloat(params["lmbd"])
	if !okX || !okY || !okL {
		return bench.NewConfigError("pgd requires objective parameters X, y and lmbd", nil)
	}

	s.BindObjective(params)
	s.X, s.y, s.lmbd = X, y, lmbd
	s.step = 1 / lipschitz(X, 20)
	return nil
}

// Run iterates nIter proximal gradient steps. The result is retrieved with
// GetResult, never returned here.
func (s *PGD) Run(ctx context.Context, nIter int) error {
	if !s.Bound() {
		return bench.NewCapabilityError("run called before set_objective", s.DisplayName())
	}

	p := len(s.X[0])
	beta := make([]float64, p)
	z := make([]float64, p)
	tk := 1.0

	for k := 0; k < nIter; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		r := matVec(s.X, z)
		for i := range r {
			r[i] -= s.y[i]
		}
		grad := matTVec(s.X, r)

		next := make([]float64, p)
		for j := range next {
			next[j] = z[j] - s.step*grad[j]
		}
		next = softThreshold(next, s.lmbd*s.step)

		if s.useAcceleration {
			tNext := (1 + math.Sqrt(1+4*tk*tk)) / 2
			for j := range z {
				z[j] = next[j] + (tk-1)/tNext*(next[j]-beta[j])
			}
			tk = tNext
		} else {
			copy(z, next)
		}
		beta = next
	}

	s.beta = beta
	return nil
}

// GetResult returns the coefficients computed by the previous Run.
func (s *PGD) GetResult() ([]float64, error) {
	if s.beta == nil {
		return nil, bench.NewCapabilityError("get_result called before any run", s.DisplayName())
	}
	return s.beta, nil
}

// TimeRun wall-clocks a single Run call.
func (s *PGD) TimeRun(ctx context.Context, nIter int) (float64, error) {
	return solver.Time(ctx, nIter, s.Run)
}
