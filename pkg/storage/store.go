package storage

import (
	"github.com/cuemby/vgctl/pkg/types"
)

// Store keeps the history of reconciliation runs
type Store interface {
	CreateRun(run *types.RunRecord) error
	GetRun(id string) (*types.RunRecord, error)
	// ListRuns returns runs newest first. An empty group matches every
	// group; limit <= 0 returns all runs.
	ListRuns(group string, limit int) ([]*types.RunRecord, error)
	// PruneRuns keeps the newest keep runs and deletes the rest
	PruneRuns(keep int) (int, error)

	Close() error
}
