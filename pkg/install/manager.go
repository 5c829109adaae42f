package install

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/optbench/optbench/pkg/bench"
)

// Ledger records install checks and attempts. Implemented by stores; a nil
// ledger disables recording.
type Ledger interface {
	RecordCheck(ctx context.Context, solver, environment string, mechanism string, installed bool) error
	RecordInstall(ctx context.Context, solver, environment string, mechanism string, installed bool) error
}

// Manager is the per-solver installation state machine. It dispatches on the
// solver's descriptor and runs the mechanism-specific actions through its
// Runner.
type Manager struct {
	runner Runner
	ledger Ledger
	log    zerolog.Logger
}

// NewManager creates a manager. runner defaults to ExecRunner when nil;
// ledger may be nil.
func NewManager(runner Runner, ledger Ledger, log zerolog.Logger) *Manager {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Manager{
		runner: runner,
		ledger: ledger,
		log:    log.With().Str("component", "install").Logger(),
	}
}

// IsInstalled reports whether the solver's dependency is present in env. The
// check never mutates the environment.
func (m *Manager) IsInstalled(ctx context.Context, env Environment, sp Spec) (bool, error) {
	if err := sp.Descriptor.Validate(); err != nil {
		return false, err
	}

	installed, err := m.check(ctx, env, sp.Descriptor)
	if err != nil {
		return false, err
	}

	if m.ledger != nil {
		if lerr := m.ledger.RecordCheck(ctx, sp.Solver, env.String(), string(sp.Descriptor.Mechanism), installed); lerr != nil {
			m.log.Warn().Err(lerr).Str("solver", sp.Solver).Msg("failed to record install check")
		}
	}
	return installed, nil
}

// Install ensures the solver's dependency is present in env and returns the
// post-action installed status.
//
// The call is idempotent: when the dependency is already installed and force
// is false, no install action runs. With force, the dependency is
// uninstalled first regardless of its current status. Mechanism failures
// propagate as install errors; "already installed" never does.
func (m *Manager) Install(ctx context.Context, env Environment, sp Spec, force bool) (bool, error) {
	if err := sp.Descriptor.Validate(); err != nil {
		return false, err
	}

	if force {
		if err := m.Uninstall(ctx, env, sp); err != nil {
			return false, err
		}
	}

	installed := false
	if !force {
		var err error
		installed, err = m.check(ctx, env, sp.Descriptor)
		if err != nil {
			return false, err
		}
	}

	if !installed {
		m.log.Info().
			Str("solver", sp.Solver).
			Str("environment", env.String()).
			Str("mechanism", string(sp.Descriptor.Mechanism)).
			Msg("installing solver dependency")

		if err := m.doInstall(ctx, env, sp); err != nil {
			return false, err
		}
	}

	installed, err := m.check(ctx, env, sp.Descriptor)
	if err != nil {
		return false, err
	}

	if m.ledger != nil {
		if lerr := m.ledger.RecordInstall(ctx, sp.Solver, env.String(), string(sp.Descriptor.Mechanism), installed); lerr != nil {
			m.log.Warn().Err(lerr).Str("solver", sp.Solver).Msg("failed to record install attempt")
		}
	}
	return installed, nil
}

// Uninstall removes the solver's dependency from env. Mechanisms that do not
// support removal are a no-op, never an error.
func (m *Manager) Uninstall(ctx context.Context, env Environment, sp Spec) error {
	if err := sp.Descriptor.Validate(); err != nil {
		return err
	}
	d := sp.Descriptor

	switch d.Mechanism {
	case MechanismPackage:
		out, err := m.runner.Run(ctx, env.Pip(), "uninstall", "-y", d.PackageName)
		if err != nil {
			return bench.NewInstallError(
				fmt.Sprintf("package uninstall of %q failed", d.PackageName),
				sp.Solver, env.String(), fmt.Errorf("%w: %s", err, strings.TrimSpace(out)))
		}
	case MechanismConda:
		args := append([]string{"remove", "-y", "-n", env.Name}, d.Requirements...)
		out, err := m.runner.Run(ctx, "conda", args...)
		if err != nil {
			return bench.NewInstallError(
				"conda removal failed",
				sp.Solver, env.String(), fmt.Errorf("%w: %s", err, strings.TrimSpace(out)))
		}
	case MechanismScript, MechanismNone:
		// Removal unsupported for these mechanisms.
	}
	return nil
}

func (m *Manager) check(ctx context.Context, env Environment, d Descriptor) (bool, error) {
	switch d.Mechanism {
	case MechanismNone:
		return true, nil

	case MechanismPackage:
		name, err := d.ImportName()
		if err != nil {
			return false, err
		}
		// Non-zero exit means the import failed, i.e. not installed.
		if _, err := m.runner.Run(ctx, env.Python(), "-c", "import "+name); err != nil {
			return false, nil
		}
		return true, nil

	case MechanismScript:
		if _, err := m.runner.LookPath(d.CmdName, env.BinDir()); err != nil {
			return false, nil
		}
		return true, nil

	case MechanismConda:
		for _, req := range d.Requirements {
			out, err := m.runner.Run(ctx, "conda", "list", "-n", env.Name, req)
			if err != nil || !strings.Contains(out, req) {
				return false, nil
			}
		}
		return true, nil
	}
	return false, bench.NewConfigError(fmt.Sprintf("unsupported installation mechanism %q", d.Mechanism), nil)
}

func (m *Manager) doInstall(ctx context.Context, env Environment, sp Spec) error {
	d := sp.Descriptor

	switch d.Mechanism {
	case MechanismNone:
		return nil

	case MechanismPackage:
		name, err := d.InstallName()
		if err != nil {
			return err
		}
		out, err := m.runner.Run(ctx, env.Pip(), "install", name)
		if err != nil {
			return bench.NewInstallError(
				fmt.Sprintf("package install of %q failed", name),
				sp.Solver, env.String(), fmt.Errorf("%w: %s", err, strings.TrimSpace(out)))
		}
		return nil

	case MechanismScript:
		out, err := m.runner.Run(ctx, "bash", d.ScriptPath, env.Prefix)
		if err != nil {
			return bench.NewInstallError(
				fmt.Sprintf("install script %q failed", d.ScriptPath),
				sp.Solver, env.String(), fmt.Errorf("%w: %s", err, strings.TrimSpace(out)))
		}
		return nil

	case MechanismConda:
		args := []string{"install", "-y", "-n", env.Name}
		if d.Channel != "" {
			args = append(args, "-c", d.Channel)
		}
		args = append(args, d.Requirements...)
		out, err := m.runner.Run(ctx, "conda", args...)
		if err != nil {
			return bench.NewInstallError(
				"conda install failed",
				sp.Solver, env.String(), fmt.Errorf("%w: %s", err, strings.TrimSpace(out)))
		}
		return nil
	}
	return bench.NewConfigError(fmt.Sprintf("unsupported installation mechanism %q", d.Mechanism), nil)
}
