/*
Package reconciler converges a single LVM volume group to its desired state.

A reconciliation run is one sequential pass with no feedback loop. Each run
reads the inventory fresh, decides, and either applies or reports:

	┌──────────────────────────────────────────────────────────┐
	│                   Reconcile(desired)                     │
	└──────┬───────────────────────────────────────────────────┘
	       ▼
	  Check input ─────────────► InputError (no commands run)
	       ▼
	  pvs (devices) ───────────► QueryError
	       ▼
	  Validate ────────────────► DeviceNotFound / DeviceAlreadyInUse
	       ▼
	  vgs (groups) ────────────► QueryError
	       ▼
	  Plan ────────────────────► RefuseNonEmptyRemoval
	       ▼
	  Execute (or simulate) ───► ActionFailed (earlier actions stay)
	       ▼
	  Result{Changed, Actions}

# Planning

The planner is a pure function of the desired state and the two inventory
snapshots:

	group absent,  want present   pvcreate each device, vgcreate
	group present, want absent    vgremove (only if empty, or force)
	group present, want present   pvcreate + vgextend new devices,
	                              then vgreduce departed devices
	group absent,  want absent    nothing

Extending always precedes reducing so a group is never left without the
capacity its replacement devices provide. The extent size only matters
when the group is created.

# Check Mode

With checkOnly the plan is computed exactly as in a real run, including
the non-empty removal policy, and reported with Changed set when the plan
is non-empty. No mutating command is run. A check run and a successful
real run against the same state report the same Changed value.

# Failure Model

The first failed command stops the run. Nothing is rolled back: the
returned Result still lists the whole plan, Changed tells whether anything
was applied before the failure, and the *types.Error names the failed
action with its exit code and stderr. Nothing is retried.

# Collaborators

	r := reconciler.NewReconciler(reconciler.Config{
		Runner: runner.NewExecRunner(),   // os/exec
		Prober: validate.OSProber{},      // filepath.EvalSymlinks
		Tools:  types.DefaultTools(),     // vgs, pvs, pvcreate, ...
		Broker: broker,                   // optional run events
	})
	result, err := r.Reconcile(ctx, desired, checkOnly)

Tests substitute lvmtest.FakeLVM for both the runner and the prober.

The inventory is not locked. A run assumes nothing else changes the
volume groups while it executes.
*/
package reconciler
