package commands

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/optbench/optbench/pkg/bench"
	"github.com/optbench/optbench/pkg/config"
	"github.com/optbench/optbench/pkg/install"
	"github.com/optbench/optbench/pkg/telemetry"
)

func newRunCommand(version string) *cobra.Command {
	var (
		outputPath  string
		skipInstall bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark and emit cost records as CSV",
		Long: `Run every solver against every dataset and objective combination from
the benchmark definition, strictly sequentially, and emit one cost record
per (repetition, sample point) pair.

Solvers with a declared dependency are installed into their environment
first unless --skip-install is given. A solver that fails is skipped; the
remaining combinations still run.`,
		Example: `  # Run with CSV on stdout
  optbench run -c bench.yaml

  # Write records to a file
  optbench run -c bench.yaml -o results.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tel, err := setupTelemetry(version)
			if err != nil {
				return err
			}
			defer tel.Shutdown(context.Background())

			ctx := tel.WithContext(cmd.Context())

			benchDef, err := config.Load(configPath)
			if err != nil {
				return err
			}

			reg, err := buildRegistry()
			if err != nil {
				return err
			}

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.Close()

			var out io.Writer = os.Stdout
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			r := &runner{
				def:         benchDef,
				reg:         reg,
				mgr:         install.NewManager(nil, ledger, tel.Logger.Zerolog()),
				tel:         tel,
				runID:       uuid.New().String(),
				skipInstall: skipInstall,
			}
			return r.run(ctx, out)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write CSV records to this file instead of stdout")
	cmd.Flags().BoolVar(&skipInstall, "skip-install", false, "assume all solvers are installed")

	return cmd
}

// ioCorrected is satisfied by external-process solvers that report the I/O
// share subtracted from their timings.
type ioCorrected interface {
	LastIOSeconds() float64
}

// runner drives one benchmark session over the full cross product.
type runner struct {
	def         *config.Benchmark
	reg         *bench.Registry
	mgr         *install.Manager
	tel         *telemetry.Telemetry
	runID       string
	skipInstall bool
}

func (r *runner) run(ctx context.Context, out io.Writer) error {
	log := r.tel.Logger.WithRunID(r.runID)
	log.Infof("running benchmark %s", r.def.Name)

	w := csv.NewWriter(out)
	if err := w.Write(bench.CostHeader()); err != nil {
		return err
	}
	defer w.Flush()

	for _, dc := range r.def.Datasets {
		dataset, err := r.reg.NewDataset(dc.Name, dc.Params.BenchParams()...)
		if err != nil {
			return err
		}

		scale, data, err := dataset.GetData()
		if err != nil {
			return err
		}

		for _, oc := range r.def.Objectives {
			objective, err := r.reg.NewObjective(oc.Name, oc.Params.BenchParams()...)
			if err != nil {
				return err
			}
			if err := objective.SetData(data); err != nil {
				return err
			}

			for _, sc := range r.def.Solvers {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := r.runSolver(ctx, w, sc, dataset, objective, scale); err != nil {
					return err
				}
			}
		}
	}

	w.Flush()
	return w.Error()
}

// runSolver executes one solver against one bound objective. Solver-level
// failures are logged and skipped so the rest of the cross product still
// runs; only infrastructure errors propagate.
func (r *runner) runSolver(ctx context.Context, w *csv.Writer, sc config.SolverConfig, dataset bench.Dataset, objective bench.Objective, scale int) error {
	log := r.tel.Logger.WithRunID(r.runID).WithDataset(dataset.DisplayName()).WithObjective(objective.DisplayName())

	solver, err := r.reg.NewSolver(sc.Name, sc.Params.BenchParams()...)
	if err != nil {
		return err
	}
	if closer, ok := solver.(io.Closer); ok {
		defer closer.Close()
	}

	log = log.WithSolver(solver.DisplayName())

	if !r.skipInstall {
		if err := r.ensureInstalled(ctx, sc, solver); err != nil {
			log.WithError(err).Warn("solver unavailable, skipping")
			r.tel.Metrics.RecordSolverRun(solver.DisplayName(), "skipped")
			return nil
		}
	}

	spanCtx, span := r.tel.Tracer.StartRunSpan(ctx, r.runID, solver.DisplayName(), dataset.DisplayName())
	defer span.End()

	_ = r.tel.Events.PublishRunStarted(r.runID, solver.DisplayName(), dataset.DisplayName())

	if err := solver.SetObjective(objective.ToDict()); err != nil {
		telemetry.RecordError(span, err)
		log.WithError(err).Warn("objective binding failed, skipping solver")
		r.tel.Metrics.RecordSolverRun(solver.DisplayName(), "failed")
		_ = r.tel.Events.PublishRunFailed(r.runID, solver.DisplayName(), err.Error())
		return nil
	}

	strategy := string(solver.Strategy())
	r.tel.Metrics.IncActiveRuns()
	defer r.tel.Metrics.DecActiveRuns()

	timer := telemetry.NewTimer()
	for rep := 0; rep < r.def.Repetitions; rep++ {
		for _, sample := range r.def.SamplePoints {
			if err := ctx.Err(); err != nil {
				return err
			}

			elapsed, err := solver.TimeRun(spanCtx, sample)
			if err != nil {
				telemetry.RecordError(span, err)
				log.WithError(err).Warnf("run failed at sample %d (class %s), skipping solver", sample, bench.ClassOf(err))
				r.tel.Metrics.RecordSolverRun(solver.DisplayName(), "failed")
				_ = r.tel.Events.PublishRunFailed(r.runID, solver.DisplayName(), err.Error())
				return nil
			}

			result, err := solver.GetResult()
			if err != nil {
				telemetry.RecordError(span, err)
				log.WithError(err).Warn("result retrieval failed, skipping solver")
				r.tel.Metrics.RecordSolverRun(solver.DisplayName(), "failed")
				_ = r.tel.Events.PublishRunFailed(r.runID, solver.DisplayName(), err.Error())
				return nil
			}

			obj, err := objective.Evaluate(result)
			if err != nil {
				telemetry.RecordError(span, err)
				log.WithError(err).Warn("objective evaluation failed, skipping solver")
				r.tel.Metrics.RecordSolverRun(solver.DisplayName(), "failed")
				_ = r.tel.Events.PublishRunFailed(r.runID, solver.DisplayName(), err.Error())
				return nil
			}

			cost := bench.Cost{
				Data:      dataset.DisplayName(),
				Scale:     scale,
				Objective: objective.DisplayName(),
				Solver:    solver.DisplayName(),
				Sample:    float64(sample),
				Time:      elapsed,
				Obj:       obj,
				IdxRep:    rep,
			}
			if err := w.Write(cost.Row()); err != nil {
				return err
			}

			r.tel.Metrics.RecordRunDuration(solver.DisplayName(), strategy, elapsed)
			if ext, ok := solver.(ioCorrected); ok {
				r.tel.Metrics.RecordIOCorrection(solver.DisplayName(), ext.LastIOSeconds())
			}
			_ = r.tel.Events.PublishSampleRecorded(r.runID, solver.DisplayName(), sample, obj)
			log.Debugf("%s", cost)
		}
	}

	telemetry.RecordSuccess(span)
	r.tel.Metrics.RecordSolverRun(solver.DisplayName(), "success")
	_ = r.tel.Events.PublishRunCompleted(r.runID, solver.DisplayName(), timer.Duration())
	return nil
}

// ensureInstalled installs the solver's dependency when one is declared.
func (r *runner) ensureInstalled(ctx context.Context, sc config.SolverConfig, solver bench.Solver) error {
	spec, ok := installSpec(sc, solver)
	if !ok {
		return nil
	}

	env, err := r.def.Environment(sc.Environment)
	if err != nil {
		return err
	}

	installed, err := r.mgr.Install(ctx, env, spec, false)
	if err != nil {
		r.tel.Metrics.RecordInstallAttempt(string(spec.Descriptor.Mechanism), "failed")
		r.tel.Metrics.RecordInstallFailure(spec.Solver, env.String())
		return err
	}
	if !installed {
		r.tel.Metrics.RecordInstallAttempt(string(spec.Descriptor.Mechanism), "failed")
		r.tel.Metrics.RecordInstallFailure(spec.Solver, env.String())
		return bench.NewInstallError("solver did not become installed", spec.Solver, env.String(), nil)
	}
	r.tel.Metrics.RecordInstallAttempt(string(spec.Descriptor.Mechanism), "success")
	return nil
}

// installSpec resolves the install declaration for a configured solver. A
// descriptor in the benchmark definition overrides the solver's own.
func installSpec(sc config.SolverConfig, solver bench.Solver) (install.Spec, bool) {
	if sc.Install != nil {
		return install.Spec{Solver: solver.DisplayName(), Descriptor: *sc.Install}, true
	}
	if ins, ok := solver.(install.Installable); ok {
		return ins.InstallSpec(), true
	}
	return install.Spec{}, false
}
