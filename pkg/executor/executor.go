package executor

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cuemby/vgctl/pkg/log"
	"github.com/cuemby/vgctl/pkg/metrics"
	"github.com/cuemby/vgctl/pkg/runner"
	"github.com/cuemby/vgctl/pkg/types"
)

// Options carries the extra tool arguments of the desired state
type Options struct {
	// Group tags the executor's log lines
	Group         string
	GroupOptions  []string
	DeviceOptions []string
}

// Applied reports what an execution did
type Applied struct {
	// Changed is true when at least one action succeeded, or, in
	// simulation, when there was at least one action to run
	Changed   bool
	Simulated bool
	// Actions lists the actions that completed, in order
	Actions []types.Action
}

// Executor runs planned actions one at a time through a command runner
type Executor struct {
	runner  runner.Runner
	tools   types.Tools
	options Options
}

// NewExecutor creates an executor
func NewExecutor(r runner.Runner, tools types.Tools, opts Options) *Executor {
	return &Executor{
		runner:  r,
		tools:   tools.Merge(types.DefaultTools()),
		options: opts,
	}
}

// Command builds the argv for an action. Arguments are never joined into
// a shell string.
func (e *Executor) Command(a types.Action) (string, []string, error) {
	switch a.Type {
	case types.ActionCreateDevice:
		if len(a.Devices) != 1 {
			return "", nil, fmt.Errorf("create-device needs exactly one device, got %d", len(a.Devices))
		}
		args := []string{"-f"}
		args = append(args, e.options.DeviceOptions...)
		return e.tools.Pvcreate, append(args, a.Devices[0]), nil

	case types.ActionCreateGroup:
		args := append([]string{}, e.options.GroupOptions...)
		args = append(args, "-s", strconv.Itoa(a.ExtentSizeMB)+"m", a.Group)
		return e.tools.Vgcreate, append(args, a.Devices...), nil

	case types.ActionExtendGroup:
		return e.tools.Vgextend, append([]string{a.Group}, a.Devices...), nil

	case types.ActionReduceGroup:
		return e.tools.Vgreduce, append([]string{"--force", a.Group}, a.Devices...), nil

	case types.ActionRemoveGroup:
		return e.tools.Vgremove, []string{"--force", a.Group}, nil
	}
	return "", nil, fmt.Errorf("unknown action type %q", a.Type)
}

// Execute runs actions in order. In simulation no command is run. The
// first failing action stops the run; actions already applied are left
// in place and reported in Applied alongside the error.
func (e *Executor) Execute(ctx context.Context, actions []types.Action, simulate bool) (Applied, error) {
	logger := log.WithGroup(e.options.Group).With().Str("component", "executor").Logger()

	if simulate {
		for _, a := range actions {
			logger.Info().Str("action", a.String()).Msg("would apply action")
		}
		return Applied{Changed: len(actions) > 0, Simulated: true}, nil
	}

	var applied Applied
	for _, a := range actions {
		name, args, err := e.Command(a)
		if err != nil {
			return applied, types.NewActionFailed(a, -1, "", err)
		}

		logger.Debug().Str("action", a.String()).Str("cmd", name).Strs("args", args).Msg("running action")

		timer := metrics.NewTimer()
		res, err := e.runner.Run(ctx, name, args...)
		timer.ObserveDurationVec(metrics.ActionDuration, string(a.Type))

		if err != nil || res.ExitCode != 0 {
			metrics.ActionsTotal.WithLabelValues(string(a.Type), "failure").Inc()
			logger.Error().
				Err(err).
				Str("action", a.String()).
				Int("exit_code", res.ExitCode).
				Str("stderr", res.Stderr).
				Int("applied", len(applied.Actions)).
				Msg("action failed, halting")
			return applied, types.NewActionFailed(a, res.ExitCode, res.Stderr, err)
		}

		metrics.ActionsTotal.WithLabelValues(string(a.Type), "success").Inc()
		logger.Info().Str("action", a.String()).Msg("action applied")

		applied.Actions = append(applied.Actions, a)
		applied.Changed = true
	}

	return applied, nil
}
