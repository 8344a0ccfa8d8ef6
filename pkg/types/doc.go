/*
Package types defines the data model shared by every vgctl component.

The model is small and deliberately flat. Inventory records are rebuilt from
the LVM query tools on every run and are never mutated after parsing. The
desired state is supplied once per run. Actions are plain data that the
executor interprets; nothing in this package runs commands.

# Core Types

Inventory:
  - DeviceRecord: one physical volume and its owning group ("" if unowned)
  - GroupRecord: one volume group with its device and logical volume counts
  - Inventory: a snapshot of both lists

Desired state:
  - DesiredState: group name, device set, extent size, presence and force

Planning:
  - Action: CreateDevice, CreateGroup, ExtendGroup, ReduceGroup, RemoveGroup
  - Result: the changed flag and the actions a run planned

# Errors

Every failure a run can produce is an *Error with a Kind:

	input       desired state is incomplete, no commands were run
	validation  DeviceNotFound or DeviceAlreadyInUse, nothing was mutated
	query       vgs or pvs exited non-zero, nothing was mutated
	policy      RefuseNonEmptyRemoval, nothing was mutated
	action      a mutating command failed, earlier actions stay applied

Callers branch on kinds with IsKind and HasReason, which see through
fmt.Errorf wrapping:

	if types.HasReason(err, types.ReasonRefuseNonEmptyRemoval) {
		// ask the user to set force
	}

# Device Sets

DesiredState.Devices is treated as a set. UniqueDevices trims each name
and collapses duplicates while keeping first-seen order so generated
command lines are reproducible between runs. The reconciler additionally
resolves every name to its canonical device path, so /dev/disk/by-id links
and the node they point at count as one device.
*/
package types
