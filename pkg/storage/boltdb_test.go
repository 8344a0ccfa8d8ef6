package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/cuemby/vgctl/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "history", "vgctl.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func run(id, group string) *types.RunRecord {
	return &types.RunRecord{
		ID:         id,
		Group:      group,
		StartedAt:  time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 10, 16, 9, 0, 2, 0, time.UTC),
		Changed:    true,
		Planned:    []types.Action{types.RemoveGroup(group)},
		Applied:    []types.Action{types.RemoveGroup(group)},
	}
}

func TestBoltStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateRun(run("r1", "vg1")))

	got, err := store.GetRun("r1")
	require.NoError(t, err)
	assert.Equal(t, "vg1", got.Group)
	assert.True(t, got.Changed)
	assert.Equal(t, []types.Action{types.RemoveGroup("vg1")}, got.Applied)
	assert.True(t, got.StartedAt.Equal(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)))
}

func TestBoltStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun("nope")
	assert.Error(t, err)
}

func TestBoltStore_CreateRejectsDuplicatesAndEmptyID(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateRun(run("r1", "vg1")))
	assert.Error(t, store.CreateRun(run("r1", "vg1")))
	assert.Error(t, store.CreateRun(run("", "vg1")))
}

func TestBoltStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)

	for i := 1; i <= 5; i++ {
		group := "vg1"
		if i%2 == 0 {
			group = "vg2"
		}
		require.NoError(t, store.CreateRun(run(fmt.Sprintf("r%d", i), group)))
	}

	all, err := store.ListRuns("", 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "r5", all[0].ID)
	assert.Equal(t, "r1", all[4].ID)

	vg1, err := store.ListRuns("vg1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r5", "r3", "r1"}, ids(vg1))

	limited, err := store.ListRuns("", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"r5", "r4"}, ids(limited))
}

func TestBoltStore_Prune(t *testing.T) {
	store := newTestStore(t)
	for i := 1; i <= 4; i++ {
		require.NoError(t, store.CreateRun(run(fmt.Sprintf("r%d", i), "vg1")))
	}

	deleted, err := store.PruneRuns(1)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	remaining, err := store.ListRuns("", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r4"}, ids(remaining))

	_, err = store.GetRun("r1")
	assert.Error(t, err)

	// The ID is free again once pruned
	assert.NoError(t, store.CreateRun(run("r1", "vg1")))
}

func TestBoltStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vgctl.db")

	store, err := NewBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, store.CreateRun(run("r1", "vg1")))
	require.NoError(t, store.Close())

	store, err = NewBoltStore(path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.GetRun("r1")
	require.NoError(t, err)
	assert.Equal(t, "vg1", got.Group)
}

func ids(runs []*types.RunRecord) []string {
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.ID
	}
	return out
}
