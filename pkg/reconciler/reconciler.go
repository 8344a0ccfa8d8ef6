package reconciler

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cuemby/vgctl/pkg/events"
	"github.com/cuemby/vgctl/pkg/executor"
	"github.com/cuemby/vgctl/pkg/inventory"
	"github.com/cuemby/vgctl/pkg/log"
	"github.com/cuemby/vgctl/pkg/metrics"
	"github.com/cuemby/vgctl/pkg/planner"
	"github.com/cuemby/vgctl/pkg/runner"
	"github.com/cuemby/vgctl/pkg/types"
	"github.com/cuemby/vgctl/pkg/validate"
)

// Config holds the collaborators a reconciler works through
type Config struct {
	Runner runner.Runner
	Prober validate.Prober
	Tools  types.Tools

	// Broker receives run events; nil disables them
	Broker *events.Broker
}

// Reconciler converges one volume group to its desired state
type Reconciler struct {
	runner runner.Runner
	prober validate.Prober
	tools  types.Tools
	broker *events.Broker
}

// NewReconciler creates a reconciler. Missing collaborators default to the
// host's: os/exec for commands and filepath.EvalSymlinks for device probes.
func NewReconciler(cfg Config) *Reconciler {
	r := &Reconciler{
		runner: cfg.Runner,
		prober: cfg.Prober,
		tools:  cfg.Tools.Merge(types.DefaultTools()),
		broker: cfg.Broker,
	}
	if r.runner == nil {
		r.runner = runner.NewExecRunner()
	}
	if r.prober == nil {
		r.prober = validate.OSProber{}
	}
	return r
}

// Reconcile runs one pass: check input, read the inventory, validate,
// plan and then apply (or, with checkOnly, only report) the plan. The
// result lists the planned actions; on an action failure it is returned
// together with the error and Changed tells whether anything was applied
// before the failure.
func (r *Reconciler) Reconcile(ctx context.Context, desired types.DesiredState, checkOnly bool) (types.Result, error) {
	result := types.Result{RunID: uuid.New().String()}
	mode := "apply"
	if checkOnly {
		mode = "check"
	}

	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.RunDuration, mode)

	logger := log.WithGroup(desired.Group).With().
		Str("run_id", result.RunID).
		Str("component", "reconciler").
		Bool("check_mode", checkOnly).
		Logger()

	err := r.reconcile(ctx, desired, checkOnly, &result)

	metrics.LastRunTimestamp.Set(float64(time.Now().Unix()))
	metrics.LastRunChanged.Set(boolGauge(result.Changed))
	metrics.RunsTotal.WithLabelValues(mode, outcome(result, err)).Inc()

	if err != nil {
		logger.Error().Err(err).Bool("changed", result.Changed).Msg("reconciliation failed")
		r.publish(result.RunID, events.EventRunFailed, err.Error(), map[string]string{
			"kind":    string(errorKind(err)),
			"changed": strconv.FormatBool(result.Changed),
		})
		return result, err
	}

	logger.Info().Bool("changed", result.Changed).Int("actions", len(result.Actions)).Msg("reconciliation complete")
	r.publish(result.RunID, events.EventRunCompleted, "reconciliation complete", map[string]string{
		"changed": strconv.FormatBool(result.Changed),
	})
	return result, nil
}

func (r *Reconciler) reconcile(ctx context.Context, desired types.DesiredState, checkOnly bool, result *types.Result) error {
	desired = desired.WithDefaults()
	if err := desired.Check(); err != nil {
		return err
	}

	querier := inventory.NewQuerier(r.runner, r.tools)

	devices, err := querier.Devices(ctx)
	if err != nil {
		metrics.QueryFailuresTotal.Inc()
		return err
	}

	// Devices are compared, planned and acted on by canonical path
	devices = validate.Canonicalize(devices, r.prober)
	desired, err = validate.Validate(desired, devices, r.prober)
	if err != nil {
		return err
	}

	groups, err := querier.Groups(ctx)
	if err != nil {
		metrics.QueryFailuresTotal.Inc()
		return err
	}
	inv := types.Inventory{Groups: groups, Devices: devices}
	group := inv.FindGroup(desired.Group)
	metrics.GroupDevices.Set(float64(len(planner.Members(desired.Group, devices))))

	// The removal policy is checked here in both modes
	actions, err := planner.Plan(desired, group, devices)
	if err != nil {
		return err
	}
	result.Actions = actions
	recordPlan(actions)

	r.publish(result.RunID, events.EventPlanComputed, describe(actions), map[string]string{
		"actions": strconv.Itoa(len(actions)),
	})

	exec := executor.NewExecutor(r.runner, r.tools, executor.Options{
		Group:         desired.Group,
		GroupOptions:  desired.GroupOptions,
		DeviceOptions: desired.DeviceOptions,
	})
	applied, err := exec.Execute(ctx, actions, checkOnly)
	result.Changed = applied.Changed
	result.Applied = applied.Actions

	for _, a := range applied.Actions {
		r.publish(result.RunID, events.EventActionApplied, a.String(), map[string]string{
			"type": string(a.Type),
		})
	}
	if err != nil {
		var aerr *types.Error
		if errors.As(err, &aerr) && aerr.Action != nil {
			r.publish(result.RunID, events.EventActionFailed, aerr.Action.String(), map[string]string{
				"type":      string(aerr.Action.Type),
				"exit_code": strconv.Itoa(aerr.ExitCode),
			})
		}
		return err
	}
	return nil
}

func (r *Reconciler) publish(runID string, t events.EventType, msg string, md map[string]string) {
	r.broker.Publish(&events.Event{RunID: runID, Type: t, Message: msg, Metadata: md})
}

func recordPlan(actions []types.Action) {
	metrics.PlannedActions.Reset()
	for _, a := range actions {
		metrics.PlannedActions.WithLabelValues(string(a.Type)).Inc()
	}
}

func describe(actions []types.Action) string {
	if len(actions) == 0 {
		return "no changes"
	}
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}

func outcome(result types.Result, err error) string {
	switch {
	case err != nil:
		return "failed"
	case result.Changed:
		return "changed"
	default:
		return "unchanged"
	}
}

func errorKind(err error) types.ErrorKind {
	var e *types.Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return "internal"
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
