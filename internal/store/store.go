package store

import "github.com/inovacc/boardsync/internal/model"

// Store defines the persistence operations used by the CLI. The sync
// engine itself never reads or writes the store; boards, configuration,
// and status snapshots are loaded before a run and saved after it.
type Store interface {
	Ping() error
	Close() error

	GetBoard() (*model.Board, error)
	SaveBoard(board *model.Board) error

	GetSyncConfig() (*model.SyncConfig, error)
	SaveSyncConfig(cfg *model.SyncConfig) error

	GetRunStatus() (*model.SyncRunStatus, error)
	SaveRunStatus(status *model.SyncRunStatus) error
}
