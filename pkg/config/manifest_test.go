package config

import (
	"testing"

	"github.com/cuemby/vgctl/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest_YAML(t *testing.T) {
	path := writeFile(t, "vg.yaml", `
apiVersion: vgctl/v1
kind: VolumeGroup
metadata:
  name: vg_data
spec:
  devices:
    - /dev/sdb1
    - /dev/sdc1
  extentSizeMB: 32
  groupOptions: ["--addtag", "backup"]
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)

	desired := m.DesiredState()
	assert.Equal(t, types.DesiredState{
		Group:        "vg_data",
		Devices:      []string{"/dev/sdb1", "/dev/sdc1"},
		ExtentSizeMB: 32,
		Present:      true,
		GroupOptions: []string{"--addtag", "backup"},
	}, desired)
}

func TestLoadManifest_TOML(t *testing.T) {
	path := writeFile(t, "vg.toml", `
apiVersion = "vgctl/v1"
kind = "VolumeGroup"

[metadata]
name = "vg_old"

[spec]
state = "absent"
force = true
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)

	desired := m.DesiredState()
	assert.Equal(t, "vg_old", desired.Group)
	assert.False(t, desired.Present)
	assert.True(t, desired.Force)
	assert.Equal(t, types.DefaultExtentSizeMB, desired.ExtentSizeMB)
}

func TestLoadManifest_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "wrong kind", content: "kind: Service\nmetadata:\n  name: web\n"},
		{name: "missing kind", content: "metadata:\n  name: vg1\n"},
		{name: "wrong api version", content: "apiVersion: v2\nkind: VolumeGroup\n"},
		{name: "bad state", content: "kind: VolumeGroup\nspec:\n  state: gone\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadManifest(writeFile(t, "vg.yaml", tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadManifest_TOMLRejectsUnknownMetadata(t *testing.T) {
	path := writeFile(t, "vg.toml", `
kind = "VolumeGroup"

[metadata]
name = "vg_data"

[metadata.labels]
tier = "backup"
`)

	_, err := LoadManifest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys")
	assert.Contains(t, err.Error(), "metadata.labels")
}
