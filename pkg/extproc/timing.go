package extproc

import (
	"regexp"
	"strconv"

	"github.com/optbench/optbench/pkg/bench"
)

// DefaultTimerPrefix is the process-level timer the solver invocation is
// wrapped with. It must print total, system and user time in seconds as
// three tab-separated fixed-point fields.
const DefaultTimerPrefix = "/usr/bin/time --format=%e\t%S\t%U"

// timerTripleRE matches one total\tsystem\tuser triple, tolerating leading
// and trailing whitespace around the numeric fields.
var timerTripleRE = regexp.MustCompile(`\s*([0-9]+\.?[0-9]*)\t\s*([0-9]+\.?[0-9]*)\t\s*([0-9]+\.?[0-9]*)\s*`)

// ParseTimerOutput extracts the timer triple from the wrapper's combined
// output. Absence of the pattern is a hard error carrying the raw output;
// falling back to an uncorrected time would corrupt comparisons.
func ParseTimerOutput(out, solver string) (total, system, user float64, err error) {
	m := timerTripleRE.FindStringSubmatch(out)
	if m == nil {
		return 0, 0, 0, bench.NewTimingError(
			"timer output does not match the total/system/user pattern", solver, out, nil)
	}

	total, err = strconv.ParseFloat(m[1], 64)
	if err == nil {
		system, err = strconv.ParseFloat(m[2], 64)
	}
	if err == nil {
		user, err = strconv.ParseFloat(m[3], 64)
	}
	if err != nil {
		return 0, 0, 0, bench.NewTimingError("timer field is not a number", solver, out, err)
	}
	return total, system, user, nil
}

// CorrectedTime subtracts the I/O share of the timed invocation from the
// caller-measured wall time. I/O time is the portion of the timer's total
// not accounted for by CPU time: total - (system + user).
//
// When system+user exceeds total (multi-threaded external solvers), the
// result can exceed wall or even go negative; the value is returned as
// computed so the caller can treat it as a measurement anomaly.
func CorrectedTime(wall, total, system, user float64) float64 {
	ioTime := total - (system + user)
	return wall - ioTime
}
