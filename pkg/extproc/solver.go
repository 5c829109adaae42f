package extproc

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/optbench/optbench/pkg/bench"
	"github.com/optbench/optbench/pkg/install"
)

// Program is implemented by concrete external solvers. It describes how to
// serialize objective inputs, build the invocation and read back results;
// the file formats are solver-specific and opaque to this package.
type Program interface {
	// Name is the solver family name.
	Name() string

	// Params are the solver construction parameters.
	Params() bench.Params

	// Strategy is the unit axis the work budget is parametrized by.
	Strategy() bench.SamplingStrategy

	// CommandLine returns the full invocation running the program for
	// nIter units against dataFile, writing the result to modelFile.
	CommandLine(nIter int, dataFile, modelFile string) string

	// DumpObjective serializes the objective inputs to dataFile.
	DumpObjective(dataFile string, params map[string]interface{}) error

	// LoadResult deserializes the solution vector from modelFile.
	LoadResult(modelFile string) ([]float64, error)
}

// Option configures a Solver.
type Option func(*Solver)

// WithTimerPrefix overrides the process timer wrapping timed invocations.
func WithTimerPrefix(prefix string) Option {
	return func(s *Solver) { s.timerPrefix = prefix }
}

// WithLogger sets the solver's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Solver) { s.log = log }
}

// Solver adapts a Program to the bench.Solver contract. It exclusively owns
// its two exchange files from construction until Close; no other component
// may touch them.
type Solver struct {
	bench.Identity

	program     Program
	timerPrefix string
	log         zerolog.Logger

	dataFile  string
	modelFile string

	objectiveParams map[string]interface{}
	ran             bool
	closed          bool
	lastIO          float64
}

// New creates a Solver for program and its two exchange files. Callers must
// Close the solver to release them; cleanup is guaranteed regardless of how
// runs ended.
func New(program Program, opts ...Option) (*Solver, error) {
	s := &Solver{
		Identity:    bench.NewIdentity(program.Name(), program.Params()...),
		program:     program,
		timerPrefix: DefaultTimerPrefix,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := os.CreateTemp("", "optbench-data-*")
	if err != nil {
		return nil, bench.NewExecutionError("cannot create data exchange file", s.DisplayName(), "", err)
	}
	model, err := os.CreateTemp("", "optbench-model-*")
	if err != nil {
		_ = data.Close()
		_ = os.Remove(data.Name())
		return nil, bench.NewExecutionError("cannot create model exchange file", s.DisplayName(), "", err)
	}
	_ = data.Close()
	_ = model.Close()

	s.dataFile = data.Name()
	s.modelFile = model.Name()
	return s, nil
}

// Close removes both exchange files. Idempotent and defer-safe.
func (s *Solver) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err1 := os.Remove(s.dataFile)
	err2 := os.Remove(s.modelFile)
	if err1 != nil {
		return err1
	}
	return err2
}

// DataFile returns the path of the objective-inputs exchange file.
func (s *Solver) DataFile() string { return s.dataFile }

// ModelFile returns the path of the result exchange file.
func (s *Solver) ModelFile() string { return s.modelFile }

// Strategy returns the program's sampling strategy.
func (s *Solver) Strategy() bench.SamplingStrategy { return s.program.Strategy() }

// SetObjective binds the solver to one objective instantiation by dumping
// its inputs to the data file. There is no other binding step.
func (s *Solver) SetObjective(params map[string]interface{}) error {
	if err := s.program.DumpObjective(s.dataFile, params); err != nil {
		return bench.NewConfigError("cannot dump objective to data file", err)
	}
	s.objectiveParams = params
	return nil
}

// ObjectiveParams returns the parameters the solver was bound with, verbatim.
func (s *Solver) ObjectiveParams() map[string]interface{} { return s.objectiveParams }

// GetCommandLine returns the invocation for nIter units. Pure.
func (s *Solver) GetCommandLine(nIter int) string {
	return s.program.CommandLine(nIter, s.dataFile, s.modelFile)
}

// Run synchronously executes the external invocation to completion. A
// non-zero exit propagates as an execution error carrying the captured
// output.
func (s *Solver) Run(ctx context.Context, nIter int) error {
	if s.objectiveParams == nil {
		return bench.NewCapabilityError("run called before set_objective", s.DisplayName())
	}

	parts := strings.Split(s.GetCommandLine(nIter), " ")
	out, err := runCommand(ctx, parts)
	if err != nil {
		return bench.NewExecutionError("external solver exited non-zero", s.DisplayName(), out, err)
	}
	s.ran = true
	return nil
}

// GetResult deserializes the model file produced by the most recent Run.
func (s *Solver) GetResult() ([]float64, error) {
	if !s.ran {
		return nil, bench.NewCapabilityError("get_result called before any run", s.DisplayName())
	}
	result, err := s.program.LoadResult(s.modelFile)
	if err != nil {
		return nil, bench.NewExecutionError("cannot load result from model file", s.DisplayName(), "", err)
	}
	return result, nil
}

// InstallSpec forwards the program's dependency declaration when it has
// one; programs without a declared dependency report mechanism "none".
func (s *Solver) InstallSpec() install.Spec {
	if ins, ok := s.program.(install.Installable); ok {
		return ins.InstallSpec()
	}
	return install.Spec{
		Solver:     s.DisplayName(),
		Descriptor: install.Descriptor{Mechanism: install.MechanismNone},
	}
}

// TimeRun times one run of nIter units with the I/O-corrected protocol: the
// invocation is wrapped with the process timer, the wall clock is measured
// around the whole wrapped invocation (timer startup, solver, timer
// teardown), and the timer's I/O share is subtracted from it.
func (s *Solver) TimeRun(ctx context.Context, nIter int) (float64, error) {
	if s.objectiveParams == nil {
		return 0, bench.NewCapabilityError("run called before set_objective", s.DisplayName())
	}

	parts := strings.Split(s.timerPrefix+" "+s.GetCommandLine(nIter), " ")

	start := time.Now()
	out, err := runCommand(ctx, parts)
	wall := time.Since(start).Seconds()
	if err != nil {
		return 0, bench.NewExecutionError("timed external invocation failed", s.DisplayName(), out, err)
	}
	s.ran = true

	total, system, user, err := ParseTimerOutput(out, s.DisplayName())
	if err != nil {
		return 0, err
	}

	corrected := CorrectedTime(wall, total, system, user)
	s.lastIO = wall - corrected
	if corrected < 0 {
		s.log.Warn().
			Str("solver", s.DisplayName()).
			Float64("wall", wall).
			Float64("total", total).
			Float64("system", system).
			Float64("user", user).
			Msg("negative corrected time, measurement anomaly")
	}
	return corrected, nil
}

// LastIOSeconds returns the I/O share subtracted from the most recent
// TimeRun, zero before the first timed run.
func (s *Solver) LastIOSeconds() float64 { return s.lastIO }
