package types

import (
	"fmt"
	"strings"
	"time"
)

// DefaultExtentSizeMB is the physical extent size used when a group is
// created without an explicit size
const DefaultExtentSizeMB = 4

// DeviceRecord represents one physical device as reported by the inventory
type DeviceRecord struct {
	Name  string `json:"name" yaml:"name"`
	Group string `json:"group" yaml:"group"` // Empty when the device is not in any group
}

// Unowned reports whether the device belongs to no group
func (d DeviceRecord) Unowned() bool {
	return d.Group == ""
}

// GroupRecord is the summary of one volume group
type GroupRecord struct {
	Name        string `json:"name" yaml:"name"`
	DeviceCount int    `json:"deviceCount" yaml:"deviceCount"`
	VolumeCount int    `json:"volumeCount" yaml:"volumeCount"`
}

// Inventory is one snapshot of the system's groups and devices
type Inventory struct {
	Groups  []GroupRecord  `json:"groups" yaml:"groups"`
	Devices []DeviceRecord `json:"devices" yaml:"devices"`
}

// FindGroup returns the group with the given name, or nil
func (i *Inventory) FindGroup(name string) *GroupRecord {
	for idx := range i.Groups {
		if i.Groups[idx].Name == name {
			g := i.Groups[idx]
			return &g
		}
	}
	return nil
}

// DesiredState is the user's declaration for a single volume group
type DesiredState struct {
	Group        string
	Devices      []string
	ExtentSizeMB int
	Present      bool
	Force        bool

	// GroupOptions are extra arguments passed when creating the group
	GroupOptions []string
	// DeviceOptions are extra arguments passed when initializing a device
	DeviceOptions []string
}

// UniqueDevices returns the desired devices with surrounding whitespace
// trimmed and blanks and duplicates removed, keeping the first occurrence
// order
func (d DesiredState) UniqueDevices() []string {
	seen := make(map[string]struct{}, len(d.Devices))
	out := make([]string, 0, len(d.Devices))
	for _, dev := range d.Devices {
		dev = strings.TrimSpace(dev)
		if dev == "" {
			continue
		}
		if _, ok := seen[dev]; ok {
			continue
		}
		seen[dev] = struct{}{}
		out = append(out, dev)
	}
	return out
}

// WithDefaults fills in the extent size when it was left unset
func (d DesiredState) WithDefaults() DesiredState {
	if d.ExtentSizeMB == 0 {
		d.ExtentSizeMB = DefaultExtentSizeMB
	}
	return d
}

// Check verifies the desired state is complete enough to act on. It makes
// no external calls.
func (d DesiredState) Check() error {
	if strings.TrimSpace(d.Group) == "" {
		return NewInputError("group name is required")
	}
	if !d.Present {
		return nil
	}
	if len(d.UniqueDevices()) == 0 {
		return NewInputError(fmt.Sprintf("devices are required when group %q should be present", d.Group))
	}
	for _, dev := range d.Devices {
		if strings.TrimSpace(dev) == "" {
			return NewInputError("device names must not be empty")
		}
	}
	if d.ExtentSizeMB <= 0 || d.ExtentSizeMB&(d.ExtentSizeMB-1) != 0 {
		return NewInputError(fmt.Sprintf("extent size %dMB is not a positive power of two", d.ExtentSizeMB))
	}
	return nil
}

// ActionType identifies the kind of corrective action
type ActionType string

const (
	ActionCreateDevice ActionType = "create-device"
	ActionCreateGroup  ActionType = "create-group"
	ActionExtendGroup  ActionType = "extend-group"
	ActionReduceGroup  ActionType = "reduce-group"
	ActionRemoveGroup  ActionType = "remove-group"
)

// Action is one corrective step. Only the fields relevant to Type are set.
type Action struct {
	Type         ActionType `json:"type" yaml:"type"`
	Group        string     `json:"group,omitempty" yaml:"group,omitempty"`
	Devices      []string   `json:"devices,omitempty" yaml:"devices,omitempty"`
	ExtentSizeMB int        `json:"extentSizeMB,omitempty" yaml:"extentSizeMB,omitempty"`
}

func CreateDevice(device string) Action {
	return Action{Type: ActionCreateDevice, Devices: []string{device}}
}

func CreateGroup(name string, extentSizeMB int, devices []string) Action {
	return Action{Type: ActionCreateGroup, Group: name, ExtentSizeMB: extentSizeMB, Devices: devices}
}

func ExtendGroup(name string, devices []string) Action {
	return Action{Type: ActionExtendGroup, Group: name, Devices: devices}
}

func ReduceGroup(name string, devices []string) Action {
	return Action{Type: ActionReduceGroup, Group: name, Devices: devices}
}

func RemoveGroup(name string) Action {
	return Action{Type: ActionRemoveGroup, Group: name}
}

// String renders the action in a compact human readable form
func (a Action) String() string {
	devs := strings.Join(a.Devices, ",")
	switch a.Type {
	case ActionCreateDevice:
		return fmt.Sprintf("CreateDevice(%s)", devs)
	case ActionCreateGroup:
		return fmt.Sprintf("CreateGroup(%s,%d,[%s])", a.Group, a.ExtentSizeMB, devs)
	case ActionExtendGroup:
		return fmt.Sprintf("ExtendGroup(%s,[%s])", a.Group, devs)
	case ActionReduceGroup:
		return fmt.Sprintf("ReduceGroup(%s,[%s])", a.Group, devs)
	case ActionRemoveGroup:
		return fmt.Sprintf("RemoveGroup(%s)", a.Group)
	default:
		return fmt.Sprintf("Unknown(%s)", a.Type)
	}
}

// Result is what one reconciliation reports to its caller
type Result struct {
	RunID   string   `json:"runId"`
	Changed bool     `json:"changed"`
	Actions []Action `json:"actions,omitempty"`
	// Applied is the prefix of Actions that ran successfully; always empty
	// in check mode
	Applied []Action `json:"applied,omitempty"`
}

// Tools names the LVM binaries used for queries and actions
type Tools struct {
	Vgs      string `yaml:"vgs" toml:"vgs"`
	Pvs      string `yaml:"pvs" toml:"pvs"`
	Pvcreate string `yaml:"pvcreate" toml:"pvcreate"`
	Vgcreate string `yaml:"vgcreate" toml:"vgcreate"`
	Vgextend string `yaml:"vgextend" toml:"vgextend"`
	Vgreduce string `yaml:"vgreduce" toml:"vgreduce"`
	Vgremove string `yaml:"vgremove" toml:"vgremove"`
}

// DefaultTools resolves every binary through PATH
func DefaultTools() Tools {
	return Tools{
		Vgs:      "vgs",
		Pvs:      "pvs",
		Pvcreate: "pvcreate",
		Vgcreate: "vgcreate",
		Vgextend: "vgextend",
		Vgreduce: "vgreduce",
		Vgremove: "vgremove",
	}
}

// Merge returns t with empty fields taken from defaults
func (t Tools) Merge(defaults Tools) Tools {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Tools{
		Vgs:      pick(t.Vgs, defaults.Vgs),
		Pvs:      pick(t.Pvs, defaults.Pvs),
		Pvcreate: pick(t.Pvcreate, defaults.Pvcreate),
		Vgcreate: pick(t.Vgcreate, defaults.Vgcreate),
		Vgextend: pick(t.Vgextend, defaults.Vgextend),
		Vgreduce: pick(t.Vgreduce, defaults.Vgreduce),
		Vgremove: pick(t.Vgremove, defaults.Vgremove),
	}
}

// RunRecord is the history entry kept for one apply or plan run
type RunRecord struct {
	ID         string    `json:"id" yaml:"id"`
	Group      string    `json:"group" yaml:"group"`
	StartedAt  time.Time `json:"startedAt" yaml:"startedAt"`
	FinishedAt time.Time `json:"finishedAt" yaml:"finishedAt"`
	CheckOnly  bool      `json:"checkOnly" yaml:"checkOnly"`
	Changed    bool      `json:"changed" yaml:"changed"`
	Planned    []Action  `json:"planned,omitempty" yaml:"planned,omitempty"`
	Applied    []Action  `json:"applied,omitempty" yaml:"applied,omitempty"`
	ErrorKind  ErrorKind `json:"errorKind,omitempty" yaml:"errorKind,omitempty"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
}
