package config

import (
	"fmt"

	"github.com/cuemby/vgctl/pkg/types"
)

const (
	APIVersion      = "vgctl/v1"
	KindVolumeGroup = "VolumeGroup"

	StatePresent = "present"
	StateAbsent  = "absent"
)

// Manifest is the on-disk declaration of one volume group
type Manifest struct {
	APIVersion string           `yaml:"apiVersion" toml:"apiVersion"`
	Kind       string           `yaml:"kind" toml:"kind"`
	Metadata   ManifestMetadata `yaml:"metadata" toml:"metadata"`
	Spec       VolumeGroupSpec  `yaml:"spec" toml:"spec"`
}

type ManifestMetadata struct {
	Name string `yaml:"name" toml:"name"`
}

type VolumeGroupSpec struct {
	Devices       []string `yaml:"devices" toml:"devices"`
	ExtentSizeMB  int      `yaml:"extentSizeMB" toml:"extentSizeMB"`
	State         string   `yaml:"state" toml:"state"`
	Force         bool     `yaml:"force" toml:"force"`
	GroupOptions  []string `yaml:"groupOptions" toml:"groupOptions"`
	DeviceOptions []string `yaml:"deviceOptions" toml:"deviceOptions"`
}

// LoadManifest reads a YAML or TOML manifest
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	if err := decodeFile(path, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks the envelope and the state value. Field completeness
// is left to DesiredState.Check so both entry points report the same way.
func (m *Manifest) Validate() error {
	if m.APIVersion != "" && m.APIVersion != APIVersion {
		return fmt.Errorf("unsupported apiVersion %q", m.APIVersion)
	}
	if m.Kind != KindVolumeGroup {
		return fmt.Errorf("unsupported resource kind: %q", m.Kind)
	}
	switch m.Spec.State {
	case "", StatePresent, StateAbsent:
	default:
		return fmt.Errorf("state must be %q or %q, got %q", StatePresent, StateAbsent, m.Spec.State)
	}
	return nil
}

// DesiredState converts the manifest; state defaults to present
func (m *Manifest) DesiredState() types.DesiredState {
	return types.DesiredState{
		Group:         m.Metadata.Name,
		Devices:       m.Spec.Devices,
		ExtentSizeMB:  m.Spec.ExtentSizeMB,
		Present:       m.Spec.State != StateAbsent,
		Force:         m.Spec.Force,
		GroupOptions:  m.Spec.GroupOptions,
		DeviceOptions: m.Spec.DeviceOptions,
	}.WithDefaults()
}
