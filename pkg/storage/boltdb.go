package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cuemby/vgctl/pkg/types"
	bolt "go.etcd.io/bbolt"
)

var (
	// Bucket names
	bucketRuns   = []byte("runs")
	bucketRunIDs = []byte("run_ids")
)

var _ Store = (*BoltStore)(nil)

// BoltStore implements Store interface using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the history database at path
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketRuns, bucketRunIDs} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// CreateRun appends a run. Runs are keyed by an increasing sequence so
// iteration order is insertion order.
func (s *BoltStore) CreateRun(run *types.RunRecord) error {
	if run.ID == "" {
		return fmt.Errorf("run ID is required")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		ids := tx.Bucket(bucketRunIDs)
		if ids.Get([]byte(run.ID)) != nil {
			return fmt.Errorf("run already exists: %s", run.ID)
		}

		b := tx.Bucket(bucketRuns)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		key := seqKey(seq)
		if err := b.Put(key, data); err != nil {
			return err
		}
		return ids.Put([]byte(run.ID), key)
	})
}

func (s *BoltStore) GetRun(id string) (*types.RunRecord, error) {
	var run types.RunRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(bucketRunIDs).Get([]byte(id))
		if key == nil {
			return fmt.Errorf("run not found: %s", id)
		}
		data := tx.Bucket(bucketRuns).Get(key)
		if data == nil {
			return fmt.Errorf("run not found: %s", id)
		}
		return json.Unmarshal(data, &run)
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *BoltStore) ListRuns(group string, limit int) ([]*types.RunRecord, error) {
	var runs []*types.RunRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var run types.RunRecord
			if err := json.Unmarshal(v, &run); err != nil {
				return err
			}
			if group != "" && run.Group != group {
				continue
			}
			runs = append(runs, &run)
			if limit > 0 && len(runs) >= limit {
				return nil
			}
		}
		return nil
	})
	return runs, err
}

func (s *BoltStore) PruneRuns(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	deleted := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		ids := tx.Bucket(bucketRunIDs)

		var stale [][]byte
		seen := 0
		c := b.Cursor()
		for k, _ := c.Last(); k != nil; k, _ = c.Prev() {
			seen++
			if seen > keep {
				stale = append(stale, append([]byte(nil), k...))
			}
		}

		for _, k := range stale {
			var run types.RunRecord
			if err := json.Unmarshal(b.Get(k), &run); err == nil {
				if err := ids.Delete([]byte(run.ID)); err != nil {
					return err
				}
			}
			if err := b.Delete(k); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	return deleted, err
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
