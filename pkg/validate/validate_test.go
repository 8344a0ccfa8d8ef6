package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cuemby/vgctl/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProber maps each existing path to its canonical path
type fakeProber map[string]string

func (f fakeProber) Resolve(path string) (string, bool) {
	resolved, ok := f[path]
	return resolved, ok
}

func TestValidate(t *testing.T) {
	prober := fakeProber{"/dev/sda1": "/dev/sda1", "/dev/sdb1": "/dev/sdb1", "/dev/sdc1": "/dev/sdc1"}
	inventory := []types.DeviceRecord{
		{Name: "/dev/sda1", Group: "vg1"},
		{Name: "/dev/sdb1", Group: "vg2"},
		{Name: "/dev/sdc1", Group: ""},
	}

	tests := []struct {
		name       string
		desired    types.DesiredState
		wantReason types.Reason
		wantDevice string
	}{
		{
			name:    "own and unowned devices pass",
			desired: types.DesiredState{Group: "vg1", Devices: []string{"/dev/sda1", "/dev/sdc1"}, Present: true},
		},
		{
			name:    "device unknown to inventory passes",
			desired: types.DesiredState{Group: "vg1", Devices: []string{"/dev/sdc1"}, Present: true},
		},
		{
			name:       "missing device",
			desired:    types.DesiredState{Group: "vg1", Devices: []string{"/dev/sda1", "/dev/sdz9"}, Present: true},
			wantReason: types.ReasonDeviceNotFound,
			wantDevice: "/dev/sdz9",
		},
		{
			name:       "device owned by another group",
			desired:    types.DesiredState{Group: "vg1", Devices: []string{"/dev/sdb1"}, Present: true},
			wantReason: types.ReasonDeviceAlreadyInUse,
			wantDevice: "/dev/sdb1",
		},
		{
			name:       "existence checked before ownership",
			desired:    types.DesiredState{Group: "vg1", Devices: []string{"/dev/sdb1", "/dev/sdz9"}, Present: true},
			wantReason: types.ReasonDeviceNotFound,
			wantDevice: "/dev/sdz9",
		},
		{
			name:    "absent group skips checks",
			desired: types.DesiredState{Group: "vg1", Devices: []string{"/dev/sdz9"}, Present: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.desired, inventory, prober)
			if tt.wantReason == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, types.IsKind(err, types.KindValidation))

			var verr *types.Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantReason, verr.Reason)
			assert.Equal(t, tt.wantDevice, verr.Device)
		})
	}
}

func TestValidate_ReportsFirstConflictInDesiredOrder(t *testing.T) {
	prober := fakeProber{"/dev/sdb1": "/dev/sdb1", "/dev/sdc1": "/dev/sdc1"}
	inventory := []types.DeviceRecord{
		{Name: "/dev/sdb1", Group: "vg2"},
		{Name: "/dev/sdc1", Group: "vg3"},
	}

	desired := types.DesiredState{Group: "vg1", Devices: []string{"/dev/sdc1", "/dev/sdb1"}, Present: true}
	_, err := Validate(desired, inventory, prober)

	var verr *types.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "/dev/sdc1", verr.Device)
	assert.Equal(t, "vg3", verr.OtherGroup)
}

func TestValidate_ResolvesLinks(t *testing.T) {
	prober := fakeProber{
		"/dev/sdb1":                    "/dev/sdb1",
		"/dev/sdc1":                    "/dev/sdc1",
		"/dev/disk/by-id/ata-DISK-B":   "/dev/sdb1",
		"/dev/disk/by-id/ata-DISK-C":   "/dev/sdc1",
		"/dev/disk/by-path/pci-0-sdc1": "/dev/sdc1",
	}

	t.Run("conflict found through a link", func(t *testing.T) {
		inventory := []types.DeviceRecord{{Name: "/dev/sdb1", Group: "vg2"}}
		desired := types.DesiredState{Group: "vg1", Devices: []string{"/dev/disk/by-id/ata-DISK-B"}, Present: true}

		_, err := Validate(desired, inventory, prober)

		var verr *types.Error
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, types.ReasonDeviceAlreadyInUse, verr.Reason)
		assert.Equal(t, "/dev/disk/by-id/ata-DISK-B", verr.Device, "the error names the path the user gave")
		assert.Equal(t, "vg2", verr.OtherGroup)
	})

	t.Run("devices replaced by canonical paths", func(t *testing.T) {
		inventory := []types.DeviceRecord{{Name: "/dev/sdb1", Group: "vg1"}}
		desired := types.DesiredState{
			Group:   "vg1",
			Devices: []string{"/dev/disk/by-id/ata-DISK-C", "/dev/disk/by-id/ata-DISK-B", "/dev/disk/by-path/pci-0-sdc1"},
			Present: true,
		}

		got, err := Validate(desired, inventory, prober)
		require.NoError(t, err)
		assert.Equal(t, []string{"/dev/sdc1", "/dev/sdb1"}, got.Devices)
	})
}

func TestCanonicalize(t *testing.T) {
	prober := fakeProber{"/dev/mapper/crypt0": "/dev/dm-0", "/dev/sda1": "/dev/sda1"}
	devices := []types.DeviceRecord{
		{Name: "/dev/mapper/crypt0", Group: "vg1"},
		{Name: "/dev/sda1"},
		{Name: "/dev/gone", Group: "vg2"},
	}

	assert.Equal(t, []types.DeviceRecord{
		{Name: "/dev/dm-0", Group: "vg1"},
		{Name: "/dev/sda1"},
		{Name: "/dev/gone", Group: "vg2"},
	}, Canonicalize(devices, prober))
	assert.Equal(t, "/dev/mapper/crypt0", devices[0].Name, "input is not modified")
}

func TestOSProber(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	dev := filepath.Join(dir, "loop0")
	require.NoError(t, os.WriteFile(dev, nil, 0600))

	link := filepath.Join(dir, "by-id")
	require.NoError(t, os.Symlink(dev, link))

	p := OSProber{}
	got, ok := p.Resolve(dev)
	assert.True(t, ok)
	assert.Equal(t, dev, got)

	got, ok = p.Resolve(link)
	assert.True(t, ok)
	assert.Equal(t, dev, got)

	_, ok = p.Resolve(filepath.Join(dir, "missing"))
	assert.False(t, ok)
}
