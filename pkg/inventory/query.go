package inventory

import (
	"context"

	"github.com/cuemby/vgctl/pkg/log"
	"github.com/cuemby/vgctl/pkg/runner"
	"github.com/cuemby/vgctl/pkg/types"
)

// Querier reads the current groups and devices through the LVM report tools
type Querier struct {
	runner runner.Runner
	tools  types.Tools
}

// NewQuerier creates a querier that runs the given tools through r
func NewQuerier(r runner.Runner, tools types.Tools) *Querier {
	return &Querier{
		runner: r,
		tools:  tools.Merge(types.DefaultTools()),
	}
}

// GroupsArgs are the arguments for the group report
func GroupsArgs() []string {
	return []string{"--noheadings", "--separator", Separator, "-o", "vg_name,pv_count,lv_count"}
}

// DevicesArgs are the arguments for the device report
func DevicesArgs() []string {
	return []string{"--noheadings", "--separator", Separator, "-o", "pv_name,vg_name"}
}

// Groups lists all volume groups
func (q *Querier) Groups(ctx context.Context) ([]types.GroupRecord, error) {
	out, err := q.query(ctx, q.tools.Vgs, GroupsArgs())
	if err != nil {
		return nil, err
	}
	groups, err := ParseGroups(out)
	if err != nil {
		return nil, types.NewQueryParseError(q.tools.Vgs, err)
	}
	return groups, nil
}

// Devices lists all physical volumes
func (q *Querier) Devices(ctx context.Context) ([]types.DeviceRecord, error) {
	out, err := q.query(ctx, q.tools.Pvs, DevicesArgs())
	if err != nil {
		return nil, err
	}
	devices, err := ParseDevices(out)
	if err != nil {
		return nil, types.NewQueryParseError(q.tools.Pvs, err)
	}
	return devices, nil
}

// Snapshot reads devices then groups
func (q *Querier) Snapshot(ctx context.Context) (*types.Inventory, error) {
	devices, err := q.Devices(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := q.Groups(ctx)
	if err != nil {
		return nil, err
	}
	return &types.Inventory{Groups: groups, Devices: devices}, nil
}

func (q *Querier) query(ctx context.Context, name string, args []string) (string, error) {
	logger := log.WithComponent("inventory")

	res, err := q.runner.Run(ctx, name, args...)
	if err != nil {
		logger.Error().Err(err).Str("cmd", name).Msg("inventory query could not run")
		return "", types.NewQueryError(name, res.ExitCode, res.Stderr, err)
	}
	if res.ExitCode != 0 {
		logger.Error().Str("cmd", name).Int("exit_code", res.ExitCode).Str("stderr", res.Stderr).Msg("inventory query failed")
		return "", types.NewQueryError(name, res.ExitCode, res.Stderr, nil)
	}
	return res.Stdout, nil
}
