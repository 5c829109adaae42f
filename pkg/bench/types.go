package bench

import (
	"fmt"
	"strconv"
)

// SamplingStrategy declares what unit a solver's Run budget is parametrized
// by. It is fixed per solver family and read-only.
type SamplingStrategy string

const (
	// StrategyIteration samples along an iteration-count axis.
	StrategyIteration SamplingStrategy = "iteration"

	// StrategyTolerance samples along a tolerance-threshold axis.
	StrategyTolerance SamplingStrategy = "tolerance"
)

// Valid reports whether s is a known sampling strategy.
func (s SamplingStrategy) Valid() bool {
	return s == StrategyIteration || s == StrategyTolerance
}

// Cost is the immutable result of one timed sample. Field order and presence
// are fixed; the external runner consumes records exactly as produced.
type Cost struct {
	// Data is the dataset display name.
	Data string

	// Scale is the problem dimensionality the solver produced a result for.
	Scale int

	// Objective is the objective display name.
	Objective string

	// Solver is the solver display name.
	Solver string

	// Sample is the sampling-axis value used for this run.
	Sample float64

	// Time is the measured (possibly I/O-corrected) elapsed time in seconds.
	Time float64

	// Obj is the objective value evaluated at the solver's result.
	Obj float64

	// IdxRep is the repetition index of this sample.
	IdxRep int
}

// CostHeader returns the record field names in their fixed order.
func CostHeader() []string {
	return []string{"data", "scale", "objective", "solver", "sample", "time", "obj", "idx_rep"}
}

// Row renders the record as strings in header order, for CSV emission.
func (c Cost) Row() []string {
	return []string{
		c.Data,
		strconv.Itoa(c.Scale),
		c.Objective,
		c.Solver,
		formatFloat(c.Sample),
		formatFloat(c.Time),
		formatFloat(c.Obj),
		strconv.Itoa(c.IdxRep),
	}
}

// String renders the record for logs.
func (c Cost) String() string {
	return fmt.Sprintf("Cost(data=%s, scale=%d, objective=%s, solver=%s, sample=%g, time=%g, obj=%g, idx_rep=%d)",
		c.Data, c.Scale, c.Objective, c.Solver, c.Sample, c.Time, c.Obj, c.IdxRep)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
