package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cuemby/vgctl/pkg/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the host can run vgctl",
	Long: `Doctor runs every configured LVM binary with --version and checks
that the directory of the metrics file exists.
It exits non-zero when any check fails.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringP("output", "o", "table", "Output format (table, json, yaml)")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")

	r := newRunner(appConfig)
	checkers := health.ToolCheckers(r, appConfig.Tools)
	if appConfig.MetricsFile != "" {
		checkers = append(checkers, health.NewDirChecker("metricsFile", filepath.Dir(appConfig.MetricsFile)))
	}

	report := health.Run(cmd.Context(), checkers...)
	if err := printValue(cmd.OutOrStdout(), format, report, func(w io.Writer) error {
		return printReport(w, report)
	}); err != nil {
		return err
	}

	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d checks failed", len(failed), len(report.Results))
	}
	return nil
}

func printReport(w io.Writer, report health.Report) error {
	for _, res := range report.Results {
		if res.Healthy {
			_, _ = successColor.Fprintf(w, "✓ %-10s", res.Name)
		} else {
			_, _ = errorColor.Fprintf(w, "✗ %-10s", res.Name)
		}
		fmt.Fprintf(w, " %s\n", res.Message)
	}
	return nil
}
