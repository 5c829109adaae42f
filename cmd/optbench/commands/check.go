package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/optbench/optbench/pkg/config"
)

func newCheckCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Print the install status of every recorded solver",
		Long: `Print the install ledger rows for the environments named in the benchmark
definition, plus the ambient environment. The table reflects the last
recorded check, it does not probe the environments.`,
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

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.Close()

			envs := []string{"current"}
			for _, e := range benchDef.Environments {
				envs = append(envs, e.Name)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SOLVER\tENVIRONMENT\tMECHANISM\tINSTALLED\tCHECKED\tINSTALLED AT")

			var rows int
			for _, env := range envs {
				statuses, err := ledger.List(ctx, env)
				if err != nil {
					return err
				}
				for _, st := range statuses {
					rows++
					fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\t%s\n",
						st.Solver, st.Environment, st.Mechanism, st.Installed,
						formatTime(st.CheckedAt), formatTime(st.InstalledAt))
				}
			}

			if err := w.Flush(); err != nil {
				return err
			}
			if rows == 0 {
				fmt.Println("no install records; run 'optbench install' first")
			}
			return nil
		},
	}

	return cmd
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}
