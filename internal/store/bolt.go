package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inovacc/boardsync/internal/model"
	"go.etcd.io/bbolt"
)

const (
	boltBucketBoard  = "board"  // key: "board" -> Board JSON
	boltBucketConfig = "config" // key: "sync" -> SyncConfig JSON
	boltBucketStatus = "status" // key: "run" -> SyncRunStatus JSON
)

const (
	keyBoard      = "board"
	keySyncConfig = "sync"
	keyRunStatus  = "run"
)

// Bolt is the BoltDB-backed store.
type Bolt struct {
	storage *bbolt.DB
}

// NewBolt opens (creating if needed) a Bolt database at the given path.
func NewBolt(path string) (*Bolt, error) {
	instance, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range []string{boltBucketBoard, boltBucketConfig, boltBucketStatus} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		_ = instance.Close()

		return nil, err
	}

	return &Bolt{storage: instance}, nil
}

// Close closes the database.
func (b *Bolt) Close() error {
	return b.storage.Close()
}

// Ping verifies the database is reachable.
func (b *Bolt) Ping() error {
	return b.storage.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(boltBucketBoard)) == nil {
			return fmt.Errorf("board bucket missing")
		}

		return nil
	})
}

// GetBoard returns the stored board, or an empty default board when
// none has been saved yet.
func (b *Bolt) GetBoard() (*model.Board, error) {
	board := &model.Board{}

	found, err := b.getJSON(boltBucketBoard, keyBoard, board)
	if err != nil {
		return nil, err
	}

	if !found {
		now := time.Now()
		board = &model.Board{
			ID:        uuid.NewString(),
			Title:     "Board",
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	return board, nil
}

// SaveBoard persists the board, stamping UpdatedAt.
func (b *Bolt) SaveBoard(board *model.Board) error {
	board.UpdatedAt = time.Now()

	return b.putJSON(boltBucketBoard, keyBoard, board)
}

// GetSyncConfig returns the stored sync configuration, or a disabled
// default when none has been saved yet.
func (b *Bolt) GetSyncConfig() (*model.SyncConfig, error) {
	cfg := &model.SyncConfig{}

	found, err := b.getJSON(boltBucketConfig, keySyncConfig, cfg)
	if err != nil {
		return nil, err
	}

	if !found {
		cfg = &model.SyncConfig{ConflictStrategy: model.ResolutionManual}
	}

	return cfg, nil
}

// SaveSyncConfig persists the sync configuration.
func (b *Bolt) SaveSyncConfig(cfg *model.SyncConfig) error {
	return b.putJSON(boltBucketConfig, keySyncConfig, cfg)
}

// GetRunStatus returns the last persisted run-status snapshot, or an
// empty one.
func (b *Bolt) GetRunStatus() (*model.SyncRunStatus, error) {
	status := &model.SyncRunStatus{}

	if _, err := b.getJSON(boltBucketStatus, keyRunStatus, status); err != nil {
		return nil, err
	}

	return status, nil
}

// SaveRunStatus persists a run-status snapshot.
func (b *Bolt) SaveRunStatus(status *model.SyncRunStatus) error {
	return b.putJSON(boltBucketStatus, keyRunStatus, status)
}

func (b *Bolt) getJSON(bucket, key string, out any) (bool, error) {
	var data []byte

	if err := b.storage.View(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket([]byte(bucket))
		if bkt == nil {
			return fmt.Errorf("bucket %s missing", bucket)
		}

		if v := bkt.Get([]byte(key)); v != nil {
			data = append([]byte(nil), v...)
		}

		return nil
	}); err != nil {
		return false, err
	}

	if data == nil {
		return false, nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode %s/%s: %w", bucket, key, err)
	}

	return true, nil
}

func (b *Bolt) putJSON(bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", bucket, key, err)
	}

	return b.storage.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket([]byte(bucket))
		if bkt == nil {
			return fmt.Errorf("bucket %s missing", bucket)
		}

		return bkt.Put([]byte(key), data)
	})
}
