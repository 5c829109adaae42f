package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/optbench/optbench/pkg/config"
	"github.com/optbench/optbench/pkg/install"
)

func newInstallCommand(version string) *cobra.Command {
	var (
		envName string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install solver dependencies into their environments",
		Long: `Install the dependency of every solver in the benchmark definition that
declares one. Solvers already installed are left alone unless --force is
given, which reinstalls from scratch.

With --env only solvers targeting that environment are processed.`,
		Example: `  # Install everything the benchmark needs
  optbench install -c bench.yaml

  # Reinstall one environment from scratch
  optbench install -c bench.yaml --env bench-env --force`,
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

			mgr := install.NewManager(nil, ledger, tel.Logger.Zerolog())

			var failures int
			for _, sc := range benchDef.Solvers {
				if envName != "" && sc.Environment != envName {
					continue
				}

				solver, err := reg.NewSolver(sc.Name, sc.Params.BenchParams()...)
				if err != nil {
					return err
				}

				spec, ok := installSpec(sc, solver)
				if closer, isCloser := solver.(io.Closer); isCloser {
					closer.Close()
				}
				if !ok {
					tel.Logger.WithSolver(solver.DisplayName()).Debug("no dependency declared, skipping")
					continue
				}

				env, err := benchDef.Environment(sc.Environment)
				if err != nil {
					return err
				}

				log := tel.Logger.WithSolver(spec.Solver).WithEnvironment(env.String())
				_ = tel.Events.PublishInstallStarted(spec.Solver, env.String())

				spanCtx, span := tel.Tracer.StartInstallSpan(ctx, spec.Solver, env.String(), string(spec.Descriptor.Mechanism))
				installed, err := mgr.Install(spanCtx, env, spec, force)
				span.End()

				switch {
				case err != nil:
					failures++
					tel.Metrics.RecordInstallAttempt(string(spec.Descriptor.Mechanism), "failed")
					tel.Metrics.RecordInstallFailure(spec.Solver, env.String())
					_ = tel.Events.PublishInstallFailed(spec.Solver, env.String(), err.Error())
					log.WithError(err).Error("install failed")
				case !installed:
					failures++
					tel.Metrics.RecordInstallAttempt(string(spec.Descriptor.Mechanism), "failed")
					_ = tel.Events.PublishInstallFailed(spec.Solver, env.String(), "post-install check negative")
					log.Error("install ran but the dependency is still missing")
				default:
					tel.Metrics.RecordInstallAttempt(string(spec.Descriptor.Mechanism), "success")
					_ = tel.Events.PublishInstallCompleted(spec.Solver, env.String())
					log.Info("installed")
				}
			}

			if failures > 0 {
				return fmt.Errorf("%d solver install(s) failed", failures)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "only process solvers targeting this environment")
	cmd.Flags().BoolVar(&force, "force", false, "uninstall first and reinstall")

	return cmd
}
