package planner

import (
	"sort"

	"github.com/cuemby/vgctl/pkg/types"
)

// Plan computes the ordered actions that move the actual state to the
// desired one. group is nil when the desired group does not exist. Plan
// has no side effects and returns an empty plan for a converged system.
//
// The extent size is only used when creating a group; it is never
// compared against an existing group.
func Plan(desired types.DesiredState, group *types.GroupRecord, devices []types.DeviceRecord) ([]types.Action, error) {
	switch {
	case group == nil && desired.Present:
		return planCreate(desired), nil
	case group != nil && !desired.Present:
		return planRemove(desired, group)
	case group != nil && desired.Present:
		return planMembership(desired, devices), nil
	default:
		return nil, nil
	}
}

func planCreate(desired types.DesiredState) []types.Action {
	devs := desired.UniqueDevices()
	actions := make([]types.Action, 0, len(devs)+1)
	for _, dev := range devs {
		actions = append(actions, types.CreateDevice(dev))
	}
	return append(actions, types.CreateGroup(desired.Group, desired.ExtentSizeMB, devs))
}

func planRemove(desired types.DesiredState, group *types.GroupRecord) ([]types.Action, error) {
	if group.VolumeCount > 0 && !desired.Force {
		return nil, types.NewRefuseNonEmptyRemoval(group.Name, group.VolumeCount)
	}
	return []types.Action{types.RemoveGroup(desired.Group)}, nil
}

// planMembership extends before it reduces so the group never drops
// capacity or its last device while replacements are pending.
func planMembership(desired types.DesiredState, devices []types.DeviceRecord) []types.Action {
	toAdd, toRemove := Diff(desired.UniqueDevices(), Members(desired.Group, devices))

	var actions []types.Action
	if len(toAdd) > 0 {
		for _, dev := range toAdd {
			actions = append(actions, types.CreateDevice(dev))
		}
		actions = append(actions, types.ExtendGroup(desired.Group, toAdd))
	}
	if len(toRemove) > 0 {
		actions = append(actions, types.ReduceGroup(desired.Group, toRemove))
	}
	return actions
}

// Members returns the devices owned by group, sorted
func Members(group string, devices []types.DeviceRecord) []string {
	var members []string
	for _, d := range devices {
		if d.Group == group {
			members = append(members, d.Name)
		}
	}
	sort.Strings(members)
	return members
}

// Diff returns desired − current in desired order and current − desired
// sorted
func Diff(desired, current []string) (toAdd, toRemove []string) {
	want := toSet(desired)
	have := toSet(current)

	for _, d := range desired {
		if _, ok := have[d]; !ok {
			toAdd = append(toAdd, d)
		}
	}
	for _, d := range current {
		if _, ok := want[d]; !ok {
			toRemove = append(toRemove, d)
		}
	}
	sort.Strings(toRemove)
	return toAdd, toRemove
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, i := range items {
		set[i] = struct{}{}
	}
	return set
}
