package bench

import "context"

// Entity is the identity contract shared by every pluggable type.
type Entity interface {
	// Name returns the family name of the entity.
	Name() string

	// Params returns the construction parameters in declaration order.
	Params() Params

	// DisplayName returns the parameter-qualified human-readable name.
	DisplayName() string
}

// Dataset produces the problem scale and the raw objective-construction data
// for one benchmark problem.
type Dataset interface {
	Entity

	// GetData returns the problem scale (the dimensionality solvers must
	// produce results for) and the named objective-construction parameters.
	// Repeated calls on the same instance return semantically identical
	// data; implementations may cache internally.
	GetData() (scale int, data map[string]interface{}, err error)
}

// Objective consumes a dataset's data plus its own parameters and exposes an
// evaluable cost function.
type Objective interface {
	Entity

	// SetData binds the objective to one dataset's output. Must be called
	// before Evaluate.
	SetData(data map[string]interface{}) error

	// Evaluate computes the objective value at a candidate solution beta,
	// a flat vector matching the dataset's declared scale. Pure.
	Evaluate(beta []float64) (float64, error)

	// ToDict returns the parameters needed to reconstruct an equivalent
	// solver-facing objective configuration, consumed by Solver.SetObjective.
	ToDict() map[string]interface{}
}

// Solver runs a bounded amount of work against one objective configuration
// and yields an intermediate result. State advances monotonically across Run
// calls with growing budgets; a solver never returns to its pre-objective
// state. All operations block the calling goroutine; instances are not safe
// for concurrent use.
type Solver interface {
	Entity

	// Strategy returns the unit axis Run's budget is parametrized by.
	Strategy() SamplingStrategy

	// SetObjective binds the solver to one objective instantiation. The
	// parameters are stored verbatim so the configuration stays
	// reconstructable.
	SetObjective(params map[string]interface{}) error

	// Run executes up to nIter units of work. The result is not returned
	// here; it is retrieved by a subsequent GetResult call.
	Run(ctx context.Context, nIter int) error

	// GetResult returns the current solution as a flat vector. Defined only
	// after at least one Run call.
	GetResult() ([]float64, error)

	// TimeRun times a single Run(nIter) call and returns elapsed seconds.
	// It has no side effect beyond what Run itself causes. This is the
	// measurement primitive used for one sample point.
	TimeRun(ctx context.Context, nIter int) (float64, error)
}
