package sync

import (
	"context"
	"errors"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"github.com/inovacc/boardsync/internal/model"
	"github.com/inovacc/boardsync/internal/tracker"
)

// ErrSyncInProgress is returned when a run is requested while another
// run holds the engine.
var ErrSyncInProgress = errors.New("sync already in progress")

// Engine drives synchronization passes between a board and the remote
// tracker. Runs are serialized by an internal mutex; an overlapping
// request is rejected with ErrSyncInProgress rather than queued.
type Engine struct {
	client tracker.Client
	logger *slog.Logger
	retry  RetryPolicy

	runMu gosync.Mutex // held for the duration of a run

	mu     gosync.Mutex // guards status
	status model.SyncRunStatus
}

// EngineOptions configures the engine.
type EngineOptions struct {
	Logger *slog.Logger
	Retry  *RetryPolicy
}

// NewEngine creates a sync engine over the given tracker client.
func NewEngine(client tracker.Client, opts EngineOptions) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	retry := DefaultRetryPolicy()
	if opts.Retry != nil {
		retry = *opts.Retry
	}

	return &Engine{client: client, logger: logger, retry: retry}
}

// Run performs one synchronization pass: fetch, pair, detect, build,
// resolve, aggregate. The board and config are treated as immutable
// inputs for the duration of the run; the returned operations are for
// the caller to apply via Execute.
//
// The only non-nil error Run returns is ErrSyncInProgress. Every other
// failure is caught at this boundary, recorded on the run status, and
// reported through the result's Error field.
func (e *Engine) Run(ctx context.Context, board *model.Board, cfg model.SyncConfig) (model.SyncResult, error) {
	if !cfg.Enabled {
		return model.SyncResult{Success: false, Error: "Sync is disabled"}, nil
	}

	if !e.runMu.TryLock() {
		return model.SyncResult{Success: false, Error: ErrSyncInProgress.Error()}, ErrSyncInProgress
	}
	defer e.runMu.Unlock()

	e.setActive(true)
	defer e.setActive(false)

	e.logger.Info("starting sync pass",
		slog.Bool("all_repositories", cfg.AllRepositories),
		slog.String("strategy", string(cfg.ConflictStrategy)),
	)

	var result model.SyncResult

	var err error
	if cfg.AllRepositories {
		result, err = e.runAllRepos(ctx, board, cfg)
	} else {
		result, err = e.runSingleRepo(ctx, board, cfg)
	}

	if err != nil {
		e.recordError(err)
		result.Success = false
		result.Error = err.Error()
	} else {
		result.Success = true
	}

	resolved := ResolveConflicts(result.Conflicts, cfg.ConflictStrategy)
	result.Stats.ConflictsResolved += len(resolved)

	e.finishRun(cfg, result.Stats)

	e.logger.Info("sync pass finished",
		slog.Bool("success", result.Success),
		slog.Int("operations", len(result.Operations)),
		slog.Int("conflicts", len(result.Conflicts)),
	)

	return result, nil
}

// runSingleRepo synchronizes against the one configured repository.
// Cards pair to issues by bare issue number.
func (e *Engine) runSingleRepo(ctx context.Context, board *model.Board, cfg model.SyncConfig) (model.SyncResult, error) {
	var result model.SyncResult

	var issues []tracker.Issue

	err := e.retry.Do(ctx, e.logger, func() error {
		var fetchErr error

		issues, fetchErr = e.client.ListIssues(ctx, cfg.Owner, cfg.Repo, tracker.ListIssuesOptions{State: "all"})

		return fetchErr
	})
	if err != nil {
		return result, err
	}

	issuesByNumber := make(map[int]tracker.Issue, len(issues))
	for _, issue := range issues {
		issuesByNumber[issue.Number] = issue
	}

	pairedIssues := make(map[int]bool)

	for ci := range board.Columns {
		column := &board.Columns[ci]
		mappedState := mappedStateFor(cfg.ColumnMappings, column.ID)

		for _, card := range column.Cards {
			if card.Remote != nil && card.Remote.IssueNumber > 0 {
				issue, ok := issuesByNumber[card.Remote.IssueNumber]
				if ok {
					pairedIssues[issue.Number] = true
					e.syncPair(&result, card, mappedState, issue)
				} else {
					// Reference points at an issue the fetch did not
					// return; push the card's state to it anyway.
					result.Operations = append(result.Operations, BuildUpdateIssue(card, column.ID, "", cfg))
					result.Stats.IssuesUpdated++
				}

				continue
			}

			// Unreferenced card: issue creation is automatic only under
			// auto-sync; manual creation stays with the UI.
			if cfg.AutoSync {
				result.Operations = append(result.Operations, BuildCreateIssue(card, column.ID, cfg))
				result.Stats.IssuesCreated++
			}
		}
	}

	for _, issue := range issues {
		if pairedIssues[issue.Number] {
			continue
		}

		e.adoptIssue(&result, issue, cfg)
	}

	return result, nil
}

// runAllRepos synchronizes across every accessible repository. Cards
// pair to issues by the composite (owner, repo, number) key; cards
// without a complete reference never pair and never create issues,
// since no default target repository exists in this mode.
func (e *Engine) runAllRepos(ctx context.Context, board *model.Board, cfg model.SyncConfig) (model.SyncResult, error) {
	var result model.SyncResult

	var repos []tracker.Repository

	err := e.retry.Do(ctx, e.logger, func() error {
		var listErr error

		repos, listErr = e.client.ListRepositories(ctx)

		return listErr
	})
	if err != nil {
		return result, err
	}

	var issues []tracker.Issue

	for _, repo := range repos {
		if repo.Archived {
			continue
		}

		var repoIssues []tracker.Issue

		err := e.retry.Do(ctx, e.logger, func() error {
			var fetchErr error

			repoIssues, fetchErr = e.client.ListIssues(ctx, repo.Owner, repo.Name, tracker.ListIssuesOptions{State: "open"})

			return fetchErr
		})
		if err != nil {
			return result, err
		}

		issues = append(issues, repoIssues...)
	}

	issuesByKey := make(map[string]tracker.Issue, len(issues))
	for _, issue := range issues {
		ref := model.RemoteRef{Owner: issue.Owner, Repo: issue.Repo, IssueNumber: issue.Number}
		issuesByKey[ref.Key()] = issue
	}

	pairedIssues := make(map[string]bool)

	for ci := range board.Columns {
		column := &board.Columns[ci]
		mappedState := mappedStateFor(cfg.ColumnMappings, column.ID)

		for _, card := range column.Cards {
			if card.Remote == nil || !card.Remote.Complete() {
				continue
			}

			key := card.Remote.Key()

			issue, ok := issuesByKey[key]
			if ok {
				pairedIssues[key] = true
				e.syncPair(&result, card, mappedState, issue)
			} else {
				result.Operations = append(result.Operations, BuildUpdateIssue(card, column.ID, "", cfg))
				result.Stats.IssuesUpdated++
			}
		}
	}

	for _, issue := range issues {
		ref := model.RemoteRef{Owner: issue.Owner, Repo: issue.Repo, IssueNumber: issue.Number}
		if pairedIssues[ref.Key()] {
			continue
		}

		e.adoptIssue(&result, issue, cfg)
	}

	return result, nil
}

// syncPair handles one paired (card, issue). A clean pair yields an
// update operation treating the remote issue as the source of truth for
// card metadata; any divergence yields conflicts instead.
func (e *Engine) syncPair(result *model.SyncResult, card model.Card, mappedState string, issue tracker.Issue) {
	conflicts := DetectConflicts(card, mappedState, issue)
	if len(conflicts) == 0 {
		result.Operations = append(result.Operations, BuildUpdateCard(card, issue))
		result.Stats.CardsUpdated++

		return
	}

	result.Conflicts = append(result.Conflicts, conflicts...)
}

// adoptIssue emits a create-card operation for an issue with no paired
// card, when a target column can be resolved. An issue no mapping can
// place is counted as skipped so the gap is observable.
func (e *Engine) adoptIssue(result *model.SyncResult, issue tracker.Issue, cfg model.SyncConfig) {
	target := ResolveTargetColumn(cfg.ColumnMappings, issue)
	if target == nil {
		result.Stats.SkippedIssues++

		e.logger.Debug("no target column for issue, skipping",
			slog.String("owner", issue.Owner),
			slog.String("repo", issue.Repo),
			slog.Int("issue", issue.Number),
		)

		return
	}

	result.Operations = append(result.Operations, BuildCreateCard(issue, *target))
	result.Stats.CardsCreated++
}

// mappedStateFor returns the issue state mapped to a column, or empty.
func mappedStateFor(mappings []model.ColumnMapping, columnID string) string {
	if m := mappingFor(mappings, columnID); m != nil {
		return m.IssueState
	}

	return ""
}

// Status returns a copy of the current run-status snapshot.
func (e *Engine) Status() model.SyncRunStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	status := e.status
	status.Errors = append([]model.SyncError(nil), e.status.Errors...)

	if e.status.LastStats != nil {
		stats := *e.status.LastStats
		status.LastStats = &stats
	}

	return status
}

// ClearErrors drops accumulated run errors. Unresolved conflicts and
// configuration are untouched.
func (e *Engine) ClearErrors() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.status.Errors = nil
}

func (e *Engine) setActive(active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.status.IsActive = active
}

// recordError classifies and appends a run-level error to the status.
func (e *Engine) recordError(err error) {
	kind := model.SyncErrAPI
	if _, ok := tracker.ResetTime(err); ok {
		kind = model.SyncErrRateLimit
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.status.Errors = append(e.status.Errors, model.SyncError{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   err.Error(),
		Timestamp: time.Now(),
	})
}

// finishRun stamps the status with the pass outcome.
func (e *Engine) finishRun(cfg model.SyncConfig, stats model.SyncStats) {
	now := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.status.LastSync = &now
	e.status.LastStats = &stats
	e.status.NextSync = nil

	if cfg.AutoSync && cfg.SyncInterval > 0 {
		next := now.Add(cfg.SyncInterval)
		e.status.NextSync = &next
	}
}
