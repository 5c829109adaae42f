package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/optbench/optbench/pkg/bench"
	"github.com/optbench/optbench/pkg/lasso"
	"github.com/optbench/optbench/pkg/stores"
	"github.com/optbench/optbench/pkg/telemetry"
)

var (
	// Global flags
	configPath string
	ledgerPath string
	verbose    bool
)

// Execute runs the root command.
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "optbench",
		Short: "optbench - benchmark harness for optimization solvers",
		Long: `optbench runs optimization solvers against datasets and objectives and
reports objective value against corrected runtime.

Solvers run in-process or as external processes through a timed command-line
protocol that subtracts exchange-file I/O from the measured wall time.
Solver dependencies are installed into named environments and tracked in a
local ledger.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "bench.yaml", "benchmark definition file")
	rootCmd.PersistentFlags().StringVar(&ledgerPath, "ledger", "optbench.db", "install ledger database path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newRunCommand(version))
	rootCmd.AddCommand(newInstallCommand(version))
	rootCmd.AddCommand(newCheckCommand(version))

	return rootCmd
}

// setupTelemetry builds the telemetry aggregate for one command invocation.
func setupTelemetry(version string) (*telemetry.Telemetry, error) {
	cfg := telemetry.DefaultConfig()
	cfg.ServiceVersion = version
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return telemetry.New(cfg)
}

// buildRegistry returns the entity registry with the built-in benchmark
// families registered.
func buildRegistry() (*bench.Registry, error) {
	reg := bench.NewRegistry()
	if err := lasso.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// openLedger opens and migrates the install ledger database.
func openLedger(ctx context.Context) (*stores.SQLiteStore, error) {
	store, err := stores.NewSQLiteStore(stores.Config{Path: ledgerPath})
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
