/*
Package planner computes the actions that take a volume group from its
current state to its desired state.

Plan is a pure function of the desired state, the group's summary record
(nil when the group does not exist) and the device report. It never runs
commands.

# Cases

Absent group, desired present:

	CreateDevice(d) for every desired device
	CreateGroup(g, extent, devices)

Existing group, desired present:

	CreateDevice(d) for every device to add
	ExtendGroup(g, toAdd)    when devices must be added
	ReduceGroup(g, toRemove) when devices must be removed

Existing group, desired absent:

	RemoveGroup(g), refused with RefuseNonEmptyRemoval when the group still
	holds logical volumes and force is not set

Absent group, desired absent: no actions.

# Ordering

Devices to add keep the order they were declared in; devices to remove
are sorted. An extend is always planned before a reduce so the group is
never left without members in between. The extent size of an existing
group is never compared or changed.
*/
package planner
