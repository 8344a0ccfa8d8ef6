package inventory

import (
	"errors"
	"testing"

	"github.com/cuemby/vgctl/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGroups(t *testing.T) {
	out := "  vg_data;2;3\n  vg_root;1;0\n\n"

	groups, err := ParseGroups(out)
	require.NoError(t, err)
	assert.Equal(t, []types.GroupRecord{
		{Name: "vg_data", DeviceCount: 2, VolumeCount: 3},
		{Name: "vg_root", DeviceCount: 1, VolumeCount: 0},
	}, groups)
}

func TestParseGroups_Empty(t *testing.T) {
	groups, err := ParseGroups("")
	require.NoError(t, err)
	assert.Empty(t, groups)

	groups, err = ParseGroups("  \n\n")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestParseGroups_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{name: "too few fields", input: "vg1;2", reason: "expected 3 fields, got 2"},
		{name: "too many fields", input: "vg1;2;0;x", reason: "expected 3 fields, got 4"},
		{name: "non-numeric device count", input: "vg1;two;0", reason: "device count"},
		{name: "non-numeric volume count", input: "vg1;2;", reason: "volume count"},
		{name: "negative volume count", input: "vg1;2;-1", reason: "negative"},
		{name: "empty name", input: " ;1;0", reason: "empty group name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, err := ParseGroups("  vg0;1;0\n" + tt.input + "\n")
			require.Error(t, err)
			assert.Nil(t, groups, "a malformed line must not yield a partial result")

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, 2, perr.Line)
			assert.Contains(t, perr.Reason, tt.reason)
		})
	}
}

func TestParseDevices(t *testing.T) {
	out := "  /dev/sda1;vg_data\n  /dev/sdb1;\n  /dev/sdc1;vg_root\n"

	devices, err := ParseDevices(out)
	require.NoError(t, err)
	require.Len(t, devices, 3)

	assert.Equal(t, types.DeviceRecord{Name: "/dev/sda1", Group: "vg_data"}, devices[0])
	assert.Equal(t, "", devices[1].Group)
	assert.True(t, devices[1].Unowned())
	assert.Equal(t, "vg_root", devices[2].Group)
}

func TestParseDevices_Malformed(t *testing.T) {
	_, err := ParseDevices("/dev/sda1\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 fields, got 1")

	_, err = ParseDevices("/dev/sda1;vg1;extra\n")
	require.Error(t, err)

	_, err = ParseDevices(";vg1\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty device name")
}
