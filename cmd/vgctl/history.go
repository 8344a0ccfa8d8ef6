package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/vgctl/pkg/storage"
	"github.com/cuemby/vgctl/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Long: `History lists past apply and plan runs, newest first. Runs are only
recorded when historyPath is set in the config file.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Show one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.GetRun(args[0])
		if err != nil {
			return err
		}
		return printValue(cmd.OutOrStdout(), format, run, func(w io.Writer) error {
			return printRunDetail(w, run)
		})
	},
}

func init() {
	historyCmd.Flags().String("group", "", "Only list runs for this volume group")
	historyCmd.Flags().Int("limit", 20, "Maximum number of runs to list, 0 for all")
	historyCmd.Flags().StringP("output", "o", "table", "Output format (table, json, yaml)")
	historyShowCmd.Flags().StringP("output", "o", "table", "Output format (table, json, yaml)")

	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*storage.BoltStore, error) {
	if appConfig.HistoryPath == "" {
		return nil, fmt.Errorf("run history is disabled: set historyPath in the config file")
	}
	return storage.NewBoltStore(appConfig.HistoryPath)
}

func runHistory(cmd *cobra.Command, args []string) error {
	group, _ := cmd.Flags().GetString("group")
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("output")
	if limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(group, limit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []*types.RunRecord{}
	}

	return printValue(cmd.OutOrStdout(), format, runs, func(w io.Writer) error {
		return printRunTable(w, runs)
	})
}

func printRunTable(w io.Writer, runs []*types.RunRecord) error {
	if len(runs) == 0 {
		printEmpty(w, "No recorded runs")
		return nil
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			r.Group,
			r.StartedAt.Format(time.RFC3339),
			runMode(r),
			strconv.FormatBool(r.Changed),
			strconv.Itoa(len(r.Planned)),
			runResult(r),
		})
	}
	printTable(w, []string{"RUN ID", "GROUP", "STARTED", "MODE", "CHANGED", "ACTIONS", "RESULT"}, rows)
	return nil
}

func printRunDetail(w io.Writer, r *types.RunRecord) error {
	fmt.Fprintf(w, "Run:      %s\n", r.ID)
	fmt.Fprintf(w, "Group:    %s\n", r.Group)
	fmt.Fprintf(w, "Mode:     %s\n", runMode(r))
	fmt.Fprintf(w, "Started:  %s\n", r.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(w, "Changed:  %t\n", r.Changed)
	fmt.Fprintf(w, "Result:   %s\n", runResult(r))
	if r.Error != "" {
		fmt.Fprintf(w, "Error:    %s\n", r.Error)
	}
	fmt.Fprintln(w, "Planned:")
	for _, a := range r.Planned {
		fmt.Fprintf(w, "  %s\n", a)
	}
	if !r.CheckOnly {
		fmt.Fprintln(w, "Applied:")
		for _, a := range r.Applied {
			fmt.Fprintf(w, "  %s\n", a)
		}
	}
	return nil
}

func runMode(r *types.RunRecord) string {
	if r.CheckOnly {
		return "check"
	}
	return "apply"
}

func runResult(r *types.RunRecord) string {
	if r.ErrorKind != "" {
		return "failed (" + string(r.ErrorKind) + ")"
	}
	return "ok"
}
