package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/inovacc/boardsync/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Bolt {
	t.Helper()

	db, err := NewBolt(filepath.Join(t.TempDir(), "boardsync.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestPing(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Ping())
}

func TestGetBoardDefault(t *testing.T) {
	db := setupTestDB(t)

	board, err := db.GetBoard()
	require.NoError(t, err)
	assert.NotEmpty(t, board.ID)
	assert.Equal(t, "Board", board.Title)
	assert.Empty(t, board.Columns)
	assert.False(t, board.CreatedAt.IsZero())
}

func TestSaveAndGetBoard(t *testing.T) {
	db := setupTestDB(t)

	board := &model.Board{
		ID:    "board-1",
		Title: "Sprint Board",
		Columns: []model.Column{
			{
				ID:    "col-todo",
				Title: "To Do",
				Cards: []model.Card{
					{
						ID:     "card-1",
						Title:  "Linked card",
						Remote: &model.RemoteRef{Owner: "octocat", Repo: "hello-world", IssueNumber: 3},
					},
				},
			},
		},
	}

	require.NoError(t, db.SaveBoard(board))
	assert.False(t, board.UpdatedAt.IsZero())

	loaded, err := db.GetBoard()
	require.NoError(t, err)
	assert.Equal(t, "board-1", loaded.ID)
	require.Len(t, loaded.Columns, 1)
	require.Len(t, loaded.Columns[0].Cards, 1)

	card := loaded.Columns[0].Cards[0]
	require.NotNil(t, card.Remote)
	assert.Equal(t, "octocat/hello-world#3", card.Remote.Key())
}

func TestGetSyncConfigDefault(t *testing.T) {
	db := setupTestDB(t)

	cfg, err := db.GetSyncConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, model.ResolutionManual, cfg.ConflictStrategy)
}

func TestSaveAndGetSyncConfig(t *testing.T) {
	db := setupTestDB(t)

	cfg := &model.SyncConfig{
		Enabled:          true,
		Owner:            "octocat",
		Repo:             "hello-world",
		ConflictStrategy: model.ResolutionRemoteWins,
		AutoSync:         true,
		SyncInterval:     5 * time.Minute,
		ColumnMappings: []model.ColumnMapping{
			{ColumnID: "col-todo", ColumnTitle: "To Do", IssueState: "open"},
		},
	}

	require.NoError(t, db.SaveSyncConfig(cfg))

	loaded, err := db.GetSyncConfig()
	require.NoError(t, err)
	assert.True(t, loaded.Enabled)
	assert.Equal(t, model.ResolutionRemoteWins, loaded.ConflictStrategy)
	assert.Equal(t, 5*time.Minute, loaded.SyncInterval)
	require.Len(t, loaded.ColumnMappings, 1)
	assert.Equal(t, "col-todo", loaded.ColumnMappings[0].ColumnID)
}

func TestSaveAndGetRunStatus(t *testing.T) {
	db := setupTestDB(t)

	empty, err := db.GetRunStatus()
	require.NoError(t, err)
	assert.False(t, empty.IsActive)
	assert.Nil(t, empty.LastSync)

	now := time.Now()
	status := &model.SyncRunStatus{
		LastSync: &now,
		Errors: []model.SyncError{
			{ID: "err-1", Kind: model.SyncErrRateLimit, Message: "rate limit exceeded", Timestamp: now},
		},
		LastStats: &model.SyncStats{CardsUpdated: 4, ConflictsResolved: 1},
	}

	require.NoError(t, db.SaveRunStatus(status))

	loaded, err := db.GetRunStatus()
	require.NoError(t, err)
	require.NotNil(t, loaded.LastSync)
	require.Len(t, loaded.Errors, 1)
	assert.Equal(t, model.SyncErrRateLimit, loaded.Errors[0].Kind)
	require.NotNil(t, loaded.LastStats)
	assert.Equal(t, 4, loaded.LastStats.CardsUpdated)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boardsync.db")

	db, err := NewBolt(path)
	require.NoError(t, err)

	board := &model.Board{ID: "board-1", Title: "Keep me"}
	require.NoError(t, db.SaveBoard(board))
	require.NoError(t, db.Close())

	reopened, err := NewBolt(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	loaded, err := reopened.GetBoard()
	require.NoError(t, err)
	assert.Equal(t, "Keep me", loaded.Title)
}
