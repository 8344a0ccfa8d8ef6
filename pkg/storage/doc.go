/*
Package storage keeps the local history of vgctl runs in BoltDB.

History is opt-in: the CLI records a run only when a history path is
configured. The reconciliation engine never touches this package; the
command layer writes one RunRecord after each apply or plan.

# Layout

	runs     8-byte big-endian sequence -> JSON RunRecord
	run_ids  run ID -> sequence key

The sequence comes from the bucket's NextSequence, so a cursor walk from
Last to First yields runs newest first without a secondary time index.

# Usage

	store, err := storage.NewBoltStore("/var/lib/vgctl/history.db")
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns("vg_data", 20)

The database is opened with a five second lock timeout so two concurrent
vgctl invocations fail fast on the file lock instead of hanging.
*/
package storage
