package inventory

import (
	"context"
	"testing"

	"github.com/cuemby/vgctl/pkg/lvmtest"
	"github.com/cuemby/vgctl/pkg/runner"
	"github.com/cuemby/vgctl/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedRunner struct {
	results map[string]runner.Result
	calls   [][]string
}

func (s *scriptedRunner) Run(ctx context.Context, name string, args ...string) (runner.Result, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	return s.results[name], nil
}

func TestQuerier_Snapshot(t *testing.T) {
	lvm := lvmtest.New().
		AddGroup("vg_data", 4, 2, "/dev/sda1", "/dev/sdb1").
		AddPV("/dev/sdc1")

	q := NewQuerier(lvm, types.DefaultTools())
	inv, err := q.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []types.GroupRecord{{Name: "vg_data", DeviceCount: 2, VolumeCount: 2}}, inv.Groups)
	assert.Equal(t, []types.DeviceRecord{
		{Name: "/dev/sda1", Group: "vg_data"},
		{Name: "/dev/sdb1", Group: "vg_data"},
		{Name: "/dev/sdc1", Group: ""},
	}, inv.Devices)
}

func TestQuerier_UsesConfiguredTools(t *testing.T) {
	r := &scriptedRunner{results: map[string]runner.Result{
		"/sbin/vgs": {Stdout: "vg1;1;0\n"},
	}}

	q := NewQuerier(r, types.Tools{Vgs: "/sbin/vgs"})
	groups, err := q.Groups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)

	require.Len(t, r.calls, 1)
	assert.Equal(t, append([]string{"/sbin/vgs"}, GroupsArgs()...), r.calls[0])
}

func TestQuerier_NonZeroExit(t *testing.T) {
	lvm := lvmtest.New().Fail("pvs", 5, "  WARNING: locking failed\n")

	q := NewQuerier(lvm, types.DefaultTools())
	_, err := q.Devices(context.Background())
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindQuery))

	var qerr *types.Error
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, 5, qerr.ExitCode)
	assert.Contains(t, qerr.Error(), "locking failed")
}

func TestQuerier_MalformedOutputIsQueryError(t *testing.T) {
	r := &scriptedRunner{results: map[string]runner.Result{
		"vgs": {Stdout: "vg1;1;many\n"},
	}}

	q := NewQuerier(r, types.DefaultTools())
	_, err := q.Groups(context.Background())
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindQuery))

	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}
