package sync

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/inovacc/boardsync/internal/model"
	"github.com/inovacc/boardsync/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient is an in-memory tracker.Client for engine and executor
// tests.
type fakeClient struct {
	repos  []tracker.Repository
	issues map[string][]tracker.Issue // keyed by "owner/repo"

	listReposErr error
	listErr      error
	createErr    error
	updateErr    error
	getRepoErr   error

	createCalls []tracker.CreateIssueRequest
	updateCalls []int
	nextNumber  int
}

func (f *fakeClient) ListRepositories(ctx context.Context) ([]tracker.Repository, error) {
	if f.listReposErr != nil {
		return nil, f.listReposErr
	}

	return f.repos, nil
}

func (f *fakeClient) ListIssues(ctx context.Context, owner, repo string, opts tracker.ListIssuesOptions) ([]tracker.Issue, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	return f.issues[owner+"/"+repo], nil
}

func (f *fakeClient) CreateIssue(ctx context.Context, owner, repo string, req tracker.CreateIssueRequest) (*tracker.Issue, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}

	f.createCalls = append(f.createCalls, req)
	f.nextNumber++

	return &tracker.Issue{
		Number: f.nextNumber,
		Title:  req.Title,
		Body:   req.Body,
		State:  "open",
		Owner:  owner,
		Repo:   repo,
	}, nil
}

func (f *fakeClient) UpdateIssue(ctx context.Context, owner, repo string, number int, req tracker.UpdateIssueRequest) (*tracker.Issue, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}

	f.updateCalls = append(f.updateCalls, number)

	return &tracker.Issue{
		Number: number,
		Title:  req.Title,
		Body:   req.Body,
		State:  req.State,
		Owner:  owner,
		Repo:   repo,
	}, nil
}

func (f *fakeClient) GetRepository(ctx context.Context, owner, repo string) (*tracker.Repository, error) {
	if f.getRepoErr != nil {
		return nil, f.getRepoErr
	}

	return &tracker.Repository{Owner: owner, Name: repo, FullName: owner + "/" + repo}, nil
}

func singleRepoConfig() model.SyncConfig {
	return model.SyncConfig{
		Enabled:          true,
		Owner:            "octocat",
		Repo:             "hello-world",
		ColumnMappings:   testMappings(),
		ConflictStrategy: model.ResolutionManual,
	}
}

func boardWithCard(card model.Card) *model.Board {
	return &model.Board{
		ID: "board-1",
		Columns: []model.Column{
			{ID: "col-todo", Title: "To Do", Cards: []model.Card{card}},
			{ID: "col-done", Title: "Done"},
		},
	}
}

func newTestEngine(client tracker.Client) *Engine {
	retry := NoRetry()

	return NewEngine(client, EngineOptions{Retry: &retry})
}

func TestRunDisabled(t *testing.T) {
	engine := newTestEngine(&fakeClient{})

	result, err := engine.Run(context.Background(), &model.Board{}, model.SyncConfig{})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Sync is disabled", result.Error)
	assert.Empty(t, result.Operations)
}

func TestRunRejectsOverlap(t *testing.T) {
	engine := newTestEngine(&fakeClient{})

	engine.runMu.Lock()
	defer engine.runMu.Unlock()

	result, err := engine.Run(context.Background(), &model.Board{}, singleRepoConfig())
	require.ErrorIs(t, err, ErrSyncInProgress)
	assert.False(t, result.Success)
}

func TestRunCleanPairUpdatesCard(t *testing.T) {
	client := &fakeClient{
		issues: map[string][]tracker.Issue{
			"octocat/hello-world": {
				{Number: 3, Title: "Same", Body: "same body", State: "open", Owner: "octocat", Repo: "hello-world"},
			},
		},
	}

	card := model.Card{
		ID:          "card-1",
		Title:       "Same",
		Description: "same body",
		Remote:      &model.RemoteRef{IssueNumber: 3},
	}

	engine := newTestEngine(client)

	result, err := engine.Run(context.Background(), boardWithCard(card), singleRepoConfig())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Conflicts)

	require.Len(t, result.Operations, 1)
	assert.Equal(t, model.OpUpdateCard, result.Operations[0].Kind)
	assert.Equal(t, 1, result.Stats.CardsUpdated)
}

func TestRunDivergedPairYieldsConflict(t *testing.T) {
	client := &fakeClient{
		issues: map[string][]tracker.Issue{
			"octocat/hello-world": {
				{Number: 3, Title: "Different Title", State: "open", Owner: "octocat", Repo: "hello-world"},
			},
		},
	}

	card := model.Card{
		ID:     "card-1",
		Title:  "Test Card",
		Remote: &model.RemoteRef{IssueNumber: 3},
	}

	engine := newTestEngine(client)

	result, err := engine.Run(context.Background(), boardWithCard(card), singleRepoConfig())
	require.NoError(t, err)
	assert.True(t, result.Success)

	// Divergence yields conflicts instead of an update operation.
	assert.Empty(t, result.Operations)
	require.Len(t, result.Conflicts, 1)

	c := result.Conflicts[0]
	assert.Equal(t, model.ConflictTitle, c.Type)
	assert.Equal(t, "Test Card", c.LocalValue)
	assert.Equal(t, "Different Title", c.RemoteValue)
	assert.Nil(t, c.Resolution)
	assert.Equal(t, 0, result.Stats.CardsUpdated)
}

func TestRunRemoteWinsAutoResolves(t *testing.T) {
	client := &fakeClient{
		issues: map[string][]tracker.Issue{
			"octocat/hello-world": {
				{Number: 3, Title: "Different Title", State: "open", Owner: "octocat", Repo: "hello-world"},
			},
		},
	}

	card := model.Card{
		ID:     "card-1",
		Title:  "Test Card",
		Remote: &model.RemoteRef{IssueNumber: 3},
	}

	cfg := singleRepoConfig()
	cfg.ConflictStrategy = model.ResolutionRemoteWins

	engine := newTestEngine(client)

	result, err := engine.Run(context.Background(), boardWithCard(card), cfg)
	require.NoError(t, err)

	require.Len(t, result.Conflicts, 1)
	require.NotNil(t, result.Conflicts[0].Resolution)
	assert.Equal(t, "use_remote", result.Conflicts[0].Resolution.Strategy)
	assert.Equal(t, "Different Title", result.Conflicts[0].Resolution.ResolvedValue)
	assert.Equal(t, "auto", result.Conflicts[0].Resolution.ResolvedBy)
	assert.Equal(t, 1, result.Stats.ConflictsResolved)
}

func TestRunAdoptsUnpairedIssues(t *testing.T) {
	client := &fakeClient{
		issues: map[string][]tracker.Issue{
			"octocat/hello-world": {
				{Number: 10, Title: "First orphan", State: "open", Owner: "octocat", Repo: "hello-world"},
				{Number: 11, Title: "Second orphan", State: "open", Owner: "octocat", Repo: "hello-world"},
			},
		},
	}

	board := &model.Board{
		ID:      "board-1",
		Columns: []model.Column{{ID: "col-todo", Title: "To Do"}},
	}

	engine := newTestEngine(client)

	result, err := engine.Run(context.Background(), board, singleRepoConfig())
	require.NoError(t, err)

	require.Len(t, result.Operations, 2)
	for _, op := range result.Operations {
		assert.Equal(t, model.OpCreateCard, op.Kind)
		require.NotNil(t, op.CreateCard)
		assert.Equal(t, "col-todo", op.CreateCard.ColumnID)
	}

	assert.Equal(t, 2, result.Stats.CardsCreated)
}

func TestRunSkipsIssueWithoutMappings(t *testing.T) {
	client := &fakeClient{
		issues: map[string][]tracker.Issue{
			"octocat/hello-world": {
				{Number: 10, Title: "Orphan", State: "open", Owner: "octocat", Repo: "hello-world"},
			},
		},
	}

	cfg := singleRepoConfig()
	cfg.ColumnMappings = nil

	engine := newTestEngine(client)

	result, err := engine.Run(context.Background(), &model.Board{}, cfg)
	require.NoError(t, err)
	assert.Empty(t, result.Operations)
	assert.Equal(t, 1, result.Stats.SkippedIssues)
	assert.Equal(t, 0, result.Stats.CardsCreated)
}

func TestRunDanglingReferencePushesUpdate(t *testing.T) {
	client := &fakeClient{issues: map[string][]tracker.Issue{}}

	card := model.Card{
		ID:     "card-1",
		Title:  "Edited offline",
		Remote: &model.RemoteRef{IssueNumber: 99},
	}

	engine := newTestEngine(client)

	result, err := engine.Run(context.Background(), boardWithCard(card), singleRepoConfig())
	require.NoError(t, err)

	require.Len(t, result.Operations, 1)
	assert.Equal(t, model.OpUpdateIssue, result.Operations[0].Kind)
	assert.Equal(t, 1, result.Stats.IssuesUpdated)
}

func TestRunAutoSyncCreatesIssueForUnreferencedCard(t *testing.T) {
	client := &fakeClient{issues: map[string][]tracker.Issue{}}

	card := model.Card{ID: "card-1", Title: "No issue yet"}

	cfg := singleRepoConfig()
	cfg.AutoSync = true

	engine := newTestEngine(client)

	result, err := engine.Run(context.Background(), boardWithCard(card), cfg)
	require.NoError(t, err)

	require.Len(t, result.Operations, 1)
	assert.Equal(t, model.OpCreateIssue, result.Operations[0].Kind)
	assert.Equal(t, 1, result.Stats.IssuesCreated)
}

func TestRunWithoutAutoSyncLeavesUnreferencedCard(t *testing.T) {
	client := &fakeClient{issues: map[string][]tracker.Issue{}}

	card := model.Card{ID: "card-1", Title: "No issue yet"}

	engine := newTestEngine(client)

	result, err := engine.Run(context.Background(), boardWithCard(card), singleRepoConfig())
	require.NoError(t, err)
	assert.Empty(t, result.Operations)
	assert.Equal(t, 0, result.Stats.IssuesCreated)
}

func TestRunFetchFailureReportedNotReturned(t *testing.T) {
	client := &fakeClient{
		listErr: &tracker.APIError{StatusCode: 500, Message: "server error", Retryable: true},
	}

	engine := newTestEngine(client)

	result, err := engine.Run(context.Background(), &model.Board{}, singleRepoConfig())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)

	status := engine.Status()
	require.Len(t, status.Errors, 1)
	assert.Equal(t, model.SyncErrAPI, status.Errors[0].Kind)
}

func TestRunAllReposPairsByCompositeKey(t *testing.T) {
	client := &fakeClient{
		repos: []tracker.Repository{
			{Owner: "octocat", Name: "alpha", FullName: "octocat/alpha"},
			{Owner: "octocat", Name: "beta", FullName: "octocat/beta"},
			{Owner: "octocat", Name: "old", FullName: "octocat/old", Archived: true},
		},
		issues: map[string][]tracker.Issue{
			"octocat/alpha": {
				{Number: 1, Title: "Paired", State: "open", Owner: "octocat", Repo: "alpha"},
			},
			"octocat/beta": {
				{Number: 1, Title: "Orphan one", State: "open", Owner: "octocat", Repo: "beta"},
				{Number: 2, Title: "Orphan two", State: "open", Owner: "octocat", Repo: "beta"},
			},
			"octocat/old": {
				{Number: 1, Title: "Should not be fetched", State: "open", Owner: "octocat", Repo: "old"},
			},
		},
	}

	card := model.Card{
		ID:     "card-1",
		Title:  "Paired",
		Remote: &model.RemoteRef{Owner: "octocat", Repo: "alpha", IssueNumber: 1},
	}

	cfg := model.SyncConfig{
		Enabled:          true,
		AllRepositories:  true,
		ColumnMappings:   testMappings(),
		ConflictStrategy: model.ResolutionManual,
	}

	engine := newTestEngine(client)

	result, err := engine.Run(context.Background(), boardWithCard(card), cfg)
	require.NoError(t, err)
	assert.True(t, result.Success)

	// One update for the paired card, one create per orphan in beta.
	// The same issue number in a different repository does not pair.
	assert.Equal(t, 1, result.Stats.CardsUpdated)
	assert.Equal(t, 2, result.Stats.CardsCreated)
	assert.Len(t, result.Operations, 3)
}

func TestRunAllReposIgnoresBareReference(t *testing.T) {
	client := &fakeClient{
		repos: []tracker.Repository{{Owner: "octocat", Name: "alpha", FullName: "octocat/alpha"}},
		issues: map[string][]tracker.Issue{
			"octocat/alpha": {
				{Number: 5, Title: "Remote", State: "open", Owner: "octocat", Repo: "alpha"},
			},
		},
	}

	// Bare issue number, no owner/repo half: cannot pair in
	// all-repositories mode, so the issue is adopted as a new card.
	card := model.Card{
		ID:     "card-1",
		Title:  "Remote",
		Remote: &model.RemoteRef{IssueNumber: 5},
	}

	cfg := model.SyncConfig{
		Enabled:          true,
		AllRepositories:  true,
		ColumnMappings:   testMappings(),
		ConflictStrategy: model.ResolutionManual,
	}

	engine := newTestEngine(client)

	result, err := engine.Run(context.Background(), boardWithCard(card), cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Stats.CardsUpdated)
	assert.Equal(t, 1, result.Stats.CardsCreated)
}

func TestStatusLifecycle(t *testing.T) {
	client := &fakeClient{issues: map[string][]tracker.Issue{}}
	engine := newTestEngine(client)

	status := engine.Status()
	assert.False(t, status.IsActive)
	assert.Nil(t, status.LastSync)

	_, err := engine.Run(context.Background(), &model.Board{}, singleRepoConfig())
	require.NoError(t, err)

	status = engine.Status()
	assert.False(t, status.IsActive)
	require.NotNil(t, status.LastSync)
	require.NotNil(t, status.LastStats)
	assert.Nil(t, status.NextSync)
}

func TestStatusNextSyncUnderAutoSync(t *testing.T) {
	client := &fakeClient{issues: map[string][]tracker.Issue{}}
	engine := newTestEngine(client)

	cfg := singleRepoConfig()
	cfg.AutoSync = true
	cfg.SyncInterval = 5 * time.Minute

	_, err := engine.Run(context.Background(), &model.Board{}, cfg)
	require.NoError(t, err)

	status := engine.Status()
	require.NotNil(t, status.NextSync)
	require.NotNil(t, status.LastSync)
	assert.True(t, status.NextSync.After(*status.LastSync))
}

func TestClearErrors(t *testing.T) {
	client := &fakeClient{listErr: fmt.Errorf("boom")}
	engine := newTestEngine(client)

	_, err := engine.Run(context.Background(), &model.Board{}, singleRepoConfig())
	require.NoError(t, err)
	require.NotEmpty(t, engine.Status().Errors)

	engine.ClearErrors()
	assert.Empty(t, engine.Status().Errors)
}
