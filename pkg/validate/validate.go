package validate

import (
	"path/filepath"

	"github.com/cuemby/vgctl/pkg/types"
)

// Prober looks up device paths on the host
type Prober interface {
	// Resolve returns the canonical path of a device with every symlink
	// followed. ok is false when the device does not exist.
	Resolve(path string) (resolved string, ok bool)
}

// OSProber resolves paths on the local filesystem
type OSProber struct{}

// Resolve follows /dev/disk/by-id style links to the device node
func (OSProber) Resolve(path string) (string, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false
	}
	return resolved, true
}

// Canonicalize rewrites inventory device names to their canonical paths so
// they compare equal to resolved desired devices. A name the prober cannot
// resolve is kept as reported.
func Canonicalize(devices []types.DeviceRecord, prober Prober) []types.DeviceRecord {
	out := make([]types.DeviceRecord, len(devices))
	for i, d := range devices {
		out[i] = d
		if resolved, ok := prober.Resolve(d.Name); ok {
			out[i].Name = resolved
		}
	}
	return out
}

// Validate runs the pre-flight checks for a group that should be present
// and returns the desired state with its devices replaced by their
// canonical paths, duplicates removed. Every device is checked for
// existence before any is checked for ownership, both in desired order,
// and the first failure is returned. devices must already be
// canonicalized.
func Validate(desired types.DesiredState, devices []types.DeviceRecord, prober Prober) (types.DesiredState, error) {
	if !desired.Present {
		return desired, nil
	}

	wanted := desired.UniqueDevices()
	resolved := make([]string, len(wanted))
	for i, dev := range wanted {
		path, ok := prober.Resolve(dev)
		if !ok {
			return desired, types.NewDeviceNotFound(dev)
		}
		resolved[i] = path
	}

	owners := make(map[string]string, len(devices))
	for _, d := range devices {
		owners[d.Name] = d.Group
	}
	for i, path := range resolved {
		if owner := owners[path]; owner != "" && owner != desired.Group {
			return desired, types.NewDeviceAlreadyInUse(wanted[i], owner)
		}
	}

	desired.Devices = resolved
	desired.Devices = desired.UniqueDevices()
	return desired, nil
}
