package lasso

import (
	"fmt"

	"github.com/optbench/optbench/pkg/bench"
)

// Objective is the lasso cost 0.5‖y − Xβ‖² + λ‖β‖₁.
type Objective struct {
	bench.Identity

	lmbd float64

	X [][]float64
	y []float64
}

// NewObjective builds a lasso objective configuration. Recognized parameter:
// lmbd (the l1 penalty weight).
func NewObjective(params ...bench.Param) (bench.Objective, error) {
	o := &Objective{
		Identity: bench.NewIdentity("lasso", params...),
		lmbd:     1.0,
	}
	for _, p := range bench.Params(params) {
		switch p.Key {
		case "lmbd":
			v, ok := toFloat(p.Value)
			if !ok || v < 0 {
				return nil, bench.NewConfigError("lmbd must be a non-negative number", nil)
			}
			o.lmbd = v
		default:
			return nil, bench.NewConfigError("unknown objective parameter "+p.Key, nil)
		}
	}
	return o, nil
}

// SetData binds the objective to one dataset's output.
func (o *Objective) SetData(data map[string]interface{}) error {
	X, okX := data["X"].([][]float64)
	y, okY := data["y"].([]float64)
	if !okX || !okY {
		return bench.NewConfigError("lasso objective requires X and y", nil)
	}
	if len(X) != len(y) {
		return bench.NewConfigError(
			fmt.Sprintf("X has %d rows but y has %d entries", len(X), len(y)), nil)
	}
	o.X, o.y = X, y
	return nil
}

// Evaluate computes the lasso cost at beta. Pure.
func (o *Objective) Evaluate(beta []float64) (float64, error) {
	if o.X == nil {
		return 0, bench.NewCapabilityError("evaluate called before set_data", o.DisplayName())
	}
	if len(beta) != len(o.X[0]) {
		return 0, bench.NewConfigError(
			fmt.Sprintf("beta has %d entries, problem scale is %d", len(beta), len(o.X[0])), nil)
	}

	r := matVec(o.X, beta)
	for i := range r {
		r[i] -= o.y[i]
	}
	n := norm2(r)
	return 0.5*n*n + o.lmbd*norm1(beta), nil
}

// ToDict returns the solver-facing objective configuration, consumed by
// Solver.SetObjective.
func (o *Objective) ToDict() map[string]interface{} {
	return map[string]interface{}{"X": o.X, "y": o.y, "lmbd": o.lmbd}
}
