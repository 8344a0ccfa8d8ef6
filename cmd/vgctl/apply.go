package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/vgctl/pkg/config"
	"github.com/cuemby/vgctl/pkg/events"
	"github.com/cuemby/vgctl/pkg/log"
	"github.com/cuemby/vgctl/pkg/metrics"
	"github.com/cuemby/vgctl/pkg/reconciler"
	"github.com/cuemby/vgctl/pkg/storage"
	"github.com/cuemby/vgctl/pkg/types"
)

// exitChangesPending is returned with --detailed-exitcode when the run
// changed, or in check mode would change, the system
const exitChangesPending = 2

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Converge a volume group to its declared state",
	Long: `Apply reads the current LVM inventory, plans the actions that bring
the volume group to its declared state and runs them in order.

The group is declared either in a manifest file or with flags.

Examples:
  # Apply a manifest
  vgctl apply -f vg-data.yaml

  # Create or grow a group from flags
  vgctl apply --group vg_data --device /dev/sdb1 --device /dev/sdc1 --extent-size 32

  # Remove a group that still holds logical volumes
  vgctl apply --group vg_old --state absent --force

  # Report what would change without touching anything
  vgctl apply -f vg-data.yaml --check`,
	RunE: func(cmd *cobra.Command, args []string) error {
		checkOnly, _ := cmd.Flags().GetBool("check")
		return runReconcile(cmd, checkOnly)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the actions apply would run",
	Long: `Plan is apply in check mode: it reads the inventory, validates the
declared devices and prints the planned actions. No LVM command that
modifies the system is run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile(cmd, true)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{applyCmd, planCmd} {
		addDesiredStateFlags(cmd)
		cmd.Flags().Bool("detailed-exitcode", false, "Exit with status 2 when changes were made or are pending")
		cmd.Flags().StringP("output", "o", "text", "Output format (text, json)")
		rootCmd.AddCommand(cmd)
	}
	applyCmd.Flags().Bool("check", false, "Only report what would change")
}

func addDesiredStateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Manifest file (YAML or TOML)")
	cmd.Flags().String("group", "", "Volume group name")
	cmd.Flags().StringArray("device", nil, "Device path, repeatable")
	cmd.Flags().Int("extent-size", types.DefaultExtentSizeMB, "Physical extent size in megabytes")
	cmd.Flags().String("state", config.StatePresent, "Desired state (present, absent)")
	cmd.Flags().Bool("force", false, "Allow removing a group that still holds logical volumes")
	cmd.Flags().StringArray("group-option", nil, "Extra vgcreate argument, repeatable")
	cmd.Flags().StringArray("device-option", nil, "Extra pvcreate argument, repeatable")
}

// desiredFromFlags builds the desired state from a manifest or from the
// individual flags. The two sources are exclusive except for --force.
func desiredFromFlags(cmd *cobra.Command) (types.DesiredState, error) {
	file, _ := cmd.Flags().GetString("file")
	force, _ := cmd.Flags().GetBool("force")

	if file != "" {
		for _, name := range []string{"group", "device", "extent-size", "state", "group-option", "device-option"} {
			if cmd.Flags().Changed(name) {
				return types.DesiredState{}, fmt.Errorf("--%s cannot be combined with --file", name)
			}
		}
		m, err := config.LoadManifest(file)
		if err != nil {
			return types.DesiredState{}, err
		}
		desired := m.DesiredState()
		desired.Force = desired.Force || force
		return desired, nil
	}

	group, _ := cmd.Flags().GetString("group")
	devices, _ := cmd.Flags().GetStringArray("device")
	extent, _ := cmd.Flags().GetInt("extent-size")
	state, _ := cmd.Flags().GetString("state")
	groupOpts, _ := cmd.Flags().GetStringArray("group-option")
	deviceOpts, _ := cmd.Flags().GetStringArray("device-option")

	if group == "" {
		return types.DesiredState{}, fmt.Errorf("either --file or --group is required")
	}
	if state != config.StatePresent && state != config.StateAbsent {
		return types.DesiredState{}, fmt.Errorf("--state must be %q or %q, got %q", config.StatePresent, config.StateAbsent, state)
	}

	return types.DesiredState{
		Group:         group,
		Devices:       devices,
		ExtentSizeMB:  extent,
		Present:       state == config.StatePresent,
		Force:         force,
		GroupOptions:  groupOpts,
		DeviceOptions: deviceOpts,
	}, nil
}

// runOutput is the machine readable report of one run
type runOutput struct {
	RunID     string          `json:"runId,omitempty"`
	Group     string          `json:"group"`
	CheckOnly bool            `json:"checkOnly"`
	Changed   bool            `json:"changed"`
	Actions   []types.Action  `json:"actions"`
	Applied   []types.Action  `json:"applied"`
	Failed    bool            `json:"failed"`
	Msg       string          `json:"msg,omitempty"`
	Kind      types.ErrorKind `json:"kind,omitempty"`
	Reason    types.Reason    `json:"reason,omitempty"`
}

func runReconcile(cmd *cobra.Command, checkOnly bool) error {
	format, _ := cmd.Flags().GetString("output")
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown output format %q", format)
	}
	detailed, _ := cmd.Flags().GetBool("detailed-exitcode")

	desired, err := desiredFromFlags(cmd)
	if err != nil {
		return err
	}

	broker := events.NewBroker()
	broker.Start()
	sub := broker.Subscribe()
	logged := make(chan struct{})
	go func() {
		defer close(logged)
		logEvents(sub)
	}()

	rec := reconciler.NewReconciler(reconciler.Config{
		Runner: newRunner(appConfig),
		Prober: newProber(),
		Tools:  appConfig.Tools,
		Broker: broker,
	})

	started := time.Now()
	result, runErr := rec.Reconcile(cmd.Context(), desired, checkOnly)
	finished := time.Now()

	broker.Stop()
	<-logged

	if appConfig.HistoryPath != "" {
		recordRun(appConfig, &types.RunRecord{
			ID:         result.RunID,
			Group:      desired.Group,
			StartedAt:  started,
			FinishedAt: finished,
			CheckOnly:  checkOnly,
			Changed:    result.Changed,
			Planned:    result.Actions,
			Applied:    result.Applied,
			ErrorKind:  kindOf(runErr),
			Error:      errString(runErr),
		})
	}
	if appConfig.MetricsFile != "" {
		if err := metrics.WriteTextfile(appConfig.MetricsFile); err != nil {
			logger := log.WithComponent("metrics")
			logger.Warn().Err(err).Str("path", appConfig.MetricsFile).Msg("Failed to write metrics")
		}
	}

	out := runOutput{
		RunID:     result.RunID,
		Group:     desired.Group,
		CheckOnly: checkOnly,
		Changed:   result.Changed,
		Actions:   result.Actions,
		Applied:   result.Applied,
	}
	if runErr != nil {
		out.Failed = true
		out.Msg = runErr.Error()
		var e *types.Error
		if errors.As(runErr, &e) {
			out.Kind = e.Kind
			out.Reason = e.Reason
		}
	}
	if out.Actions == nil {
		out.Actions = []types.Action{}
	}
	if out.Applied == nil {
		out.Applied = []types.Action{}
	}

	if err := printRun(cmd.OutOrStdout(), format, out); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if detailed && result.Changed {
		return &exitError{code: exitChangesPending}
	}
	return nil
}

// logEvents logs every event of a run until the broker stops. Events are
// best effort and may be dropped; the run record is built from the result.
func logEvents(sub events.Subscriber) {
	logger := log.WithComponent("events")
	for ev := range sub {
		entry := logger.Debug()
		if ev.Type == events.EventActionFailed || ev.Type == events.EventRunFailed {
			entry = logger.Warn()
		}
		entry = entry.Str("run_id", ev.RunID).Str("event", string(ev.Type))
		for k, v := range ev.Metadata {
			entry = entry.Str(k, v)
		}
		entry.Msg(ev.Message)
	}
}

// recordRun stores a run in the history database. Failures are logged and
// never change the outcome of the run itself.
func recordRun(cfg *config.Config, run *types.RunRecord) {
	logger := log.WithComponent("history")

	store, err := storage.NewBoltStore(cfg.HistoryPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.HistoryPath).Msg("Failed to open history")
		return
	}
	defer store.Close()

	if err := store.CreateRun(run); err != nil {
		logger.Warn().Err(err).Str("run_id", run.ID).Msg("Failed to record run")
		return
	}
	if cfg.HistoryKeep > 0 {
		if n, err := store.PruneRuns(cfg.HistoryKeep); err != nil {
			logger.Warn().Err(err).Msg("Failed to prune history")
		} else if n > 0 {
			logger.Debug().Int("pruned", n).Msg("Pruned old runs")
		}
	}
}

func printRun(w io.Writer, format string, out runOutput) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(out.Actions) == 0 && !out.Failed {
		_, _ = successColor.Fprintf(w, "✓ Volume group %s is up to date\n", out.Group)
		return nil
	}

	verb := "Applied"
	if out.CheckOnly {
		verb = "Planned"
	}
	fmt.Fprintf(w, "%s actions for volume group %s:\n", verb, out.Group)
	for _, a := range out.Actions {
		fmt.Fprintf(w, "  %s\n", a)
	}
	switch {
	case out.Failed:
		_, _ = errorColor.Fprintf(w, "✗ failed (changed: %t)\n", out.Changed)
	case out.CheckOnly:
		_, _ = warningColor.Fprintf(w, "⚠ changes pending\n")
	default:
		_, _ = successColor.Fprintf(w, "✓ changed\n")
	}
	return nil
}

func kindOf(err error) types.ErrorKind {
	if err == nil {
		return ""
	}
	var e *types.Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return "internal"
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
