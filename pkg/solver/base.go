package solver

import (
	"context"
	"time"

	"github.com/optbench/optbench/pkg/bench"
)

// Base carries the state every in-process solver shares: its identity and
// the objective parameters it was bound with. Parameters are stored verbatim
// so a solver configuration stays reconstructable from its identity plus its
// objective binding.
type Base struct {
	bench.Identity

	objectiveParams map[string]interface{}
}

// NewBase creates the shared state for one solver configuration.
func NewBase(name string, params ...bench.Param) Base {
	return Base{Identity: bench.NewIdentity(name, params...)}
}

// BindObjective stores the objective parameters. Concrete solvers call this
// from SetObjective before deriving their working state.
func (b *Base) BindObjective(params map[string]interface{}) {
	b.objectiveParams = params
}

// ObjectiveParams returns the stored objective parameters, nil before any
// binding.
func (b *Base) ObjectiveParams() map[string]interface{} { return b.objectiveParams }

// Bound reports whether an objective has been bound.
func (b *Base) Bound() bool { return b.objectiveParams != nil }

// Time wall-clocks a single run call and returns elapsed seconds. It has no
// side effect beyond what the run itself causes; concrete solvers implement
// TimeRun with it.
func Time(ctx context.Context, nIter int, run func(context.Context, int) error) (float64, error) {
	start := time.Now()
	if err := run(ctx, nIter); err != nil {
		return 0, err
	}
	return time.Since(start).Seconds(), nil
}
