package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inovacc/boardsync/internal/model"
	"github.com/inovacc/boardsync/internal/tracker"
)

// Callbacks are the caller-supplied board mutation hooks. The engine
// never touches the board directly; card operations are applied through
// these.
type Callbacks struct {
	// OnCardCreate creates a card in the given column and returns it.
	OnCardCreate func(columnID string, fields model.CardFields) (*model.Card, error)

	// OnCardUpdate applies partial fields to an existing card.
	OnCardUpdate func(cardID string, fields model.CardFields) error
}

// ExecuteOptions configures a batch execution.
type ExecuteOptions struct {
	// DryRun marks every operation completed without side effects.
	DryRun bool

	// Retry is applied to remote calls only; board callbacks are local
	// and never retried.
	Retry RetryPolicy

	Logger *slog.Logger
}

// Execute applies operations strictly in slice order, no reordering and
// no parallel dispatch. Each operation moves pending -> in_progress ->
// completed or failed; a failure is recorded on the operation and the
// loop continues, so one bad operation never aborts the batch. Success
// or failure is read back from each operation's terminal status.
//
// On successful issue creation the operation's IssueNumber is
// back-filled from the response so callers can reference the new
// remote id.
func Execute(ctx context.Context, client tracker.Client, ops []model.SyncOperation, cb Callbacks, opts ExecuteOptions) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for i := range ops {
		op := &ops[i]
		op.Status = model.OpInProgress

		if opts.DryRun {
			logger.Info("dry run, skipping operation",
				slog.String("id", op.ID),
				slog.String("kind", string(op.Kind)),
			)

			op.Status = model.OpCompleted

			continue
		}

		if err := executeOne(ctx, client, op, cb, opts.Retry, logger); err != nil {
			op.Status = model.OpFailed
			op.Error = err.Error()

			logger.Warn("operation failed",
				slog.String("id", op.ID),
				slog.String("kind", string(op.Kind)),
				slog.String("error", err.Error()),
			)

			continue
		}

		op.Status = model.OpCompleted
	}
}

// executeOne dispatches a single operation by kind.
func executeOne(ctx context.Context, client tracker.Client, op *model.SyncOperation, cb Callbacks, retry RetryPolicy, logger *slog.Logger) error {
	switch op.Kind {
	case model.OpCreateCard:
		if op.CreateCard == nil {
			return fmt.Errorf("create_card operation %s has no payload", op.ID)
		}

		if cb.OnCardCreate == nil {
			return fmt.Errorf("no card-create callback supplied")
		}

		card, err := cb.OnCardCreate(op.CreateCard.ColumnID, op.CreateCard.Fields)
		if err != nil {
			return err
		}

		op.CardID = card.ID

		return nil

	case model.OpUpdateCard:
		if op.UpdateCard == nil {
			return fmt.Errorf("update_card operation %s has no payload", op.ID)
		}

		if cb.OnCardUpdate == nil {
			return fmt.Errorf("no card-update callback supplied")
		}

		return cb.OnCardUpdate(op.UpdateCard.CardID, op.UpdateCard.Fields)

	case model.OpCreateIssue:
		p := op.CreateIssue
		if p == nil {
			return fmt.Errorf("create_issue operation %s has no payload", op.ID)
		}

		var created *tracker.Issue

		err := retry.Do(ctx, logger, func() error {
			var callErr error

			created, callErr = client.CreateIssue(ctx, p.Owner, p.Repo, tracker.CreateIssueRequest{
				Title:    p.Title,
				Body:     p.Body,
				Labels:   p.Labels,
				Assignee: p.Assignee,
			})

			return callErr
		})
		if err != nil {
			return err
		}

		op.IssueNumber = created.Number

		return nil

	case model.OpUpdateIssue:
		p := op.UpdateIssue
		if p == nil {
			return fmt.Errorf("update_issue operation %s has no payload", op.ID)
		}

		return retry.Do(ctx, logger, func() error {
			_, callErr := client.UpdateIssue(ctx, p.Owner, p.Repo, p.IssueNumber, tracker.UpdateIssueRequest{
				Title:  p.Title,
				Body:   p.Body,
				State:  p.State,
				Labels: p.Labels,
			})

			return callErr
		})

	default:
		return fmt.Errorf("unknown operation kind: %s", op.Kind)
	}
}
