package lasso

import (
	"context"
	"math"

	"github.com/optbench/optbench/pkg/bench"
	"github.com/optbench/optbench/pkg/solver"
)

// maxGDIterations caps a single tolerance-driven run.
const maxGDIterations = 100000

// GD solves the lasso by subgradient descent. It samples along the
// tolerance axis: Run(n) iterates until the subgradient norm drops below
// 10^-n relative to its starting value, so growing budgets tighten the
// target instead of lengthening a fixed schedule.
type GD struct {
	solver.Base

	X    [][]float64
	y    []float64
	lmbd float64
	step float64

	beta []float64
}

// NewGD builds a subgradient descent solver configuration. GD takes no
// parameters.
func NewGD(params ...bench.Param) (bench.Solver, error) {
	if len(params) > 0 {
		return nil, bench.NewConfigError("gd takes no parameters", nil)
	}
	return &GD{Base: solver.NewBase("gd")}, nil
}

// Strategy declares the tolerance sampling axis.
func (s *GD) Strategy() bench.SamplingStrategy { return bench.StrategyTolerance }

// SetObjective binds the solver to one lasso instantiation.
func (s *GD) SetObjective(params map[string]interface{}) error {
	X, okX := params["X"].([][]float64)
	y, okY := params["y"].([]float64)
	lmbd, okL := toFloat(params["lmbd"])
	if !okX || !okY || !okL {
		return bench.NewConfigError("gd requires objective parameters X, y and lmbd", nil)
	}

	s.BindObjective(params)
	s.X, s.y, s.lmbd = X, y, lmbd
	s.step = 1 / lipschitz(X, 20)
	return nil
}

// Run iterates until the relative subgradient norm reaches 10^-nIter.
func (s *GD) Run(ctx context.Context, nIter int) error {
	if !s.Bound() {
		return bench.NewCapabilityError("run called before set_objective", s.DisplayName())
	}

	tol := math.Pow(10, -float64(nIter))
	p := len(s.X[0])
	beta := make([]float64, p)

	g0 := 0.0
	for k := 0; k < maxGDIterations; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		r := matVec(s.X, beta)
		for i := range r {
			r[i] -= s.y[i]
		}
		grad := matTVec(s.X, r)
		for j := range grad {
			if beta[j] > 0 {
				grad[j] += s.lmbd
			} else if beta[j] < 0 {
				grad[j] -= s.lmbd
			}
		}

		g := norm2(grad)
		if k == 0 {
			g0 = g
		}
		if g0 == 0 || g <= tol*g0 {
			break
		}

		for j := range beta {
			beta[j] -= s.step * grad[j]
		}
	}

	s.beta = beta
	return nil
}

// GetResult returns the coefficients computed by the previous Run.
func (s *GD) GetResult() ([]float64, error) {
	if s.beta == nil {
		return nil, bench.NewCapabilityError("get_result called before any run", s.DisplayName())
	}
	return s.beta, nil
}

// TimeRun wall-clocks a single Run call.
func (s *GD) TimeRun(ctx context.Context, nIter int) (float64, error) {
	return solver.Time(ctx, nIter, s.Run)
}
