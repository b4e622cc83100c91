package sync

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inovacc/boardsync/internal/model"
	"github.com/inovacc/boardsync/internal/tracker"
)

// DetectConflicts compares a paired card and issue field by field and
// returns one conflict per divergence. Pure and deterministic: no I/O,
// an empty slice when every compared field matches.
//
// mappedState is the issue state the card's current column maps to, or
// empty when the column carries no mapping; state comparison is skipped
// in that case.
func DetectConflicts(card model.Card, mappedState string, issue tracker.Issue) []model.SyncConflict {
	var conflicts []model.SyncConflict

	add := func(typ model.ConflictType, local, remote string) {
		conflicts = append(conflicts, model.SyncConflict{
			ID:          uuid.NewString(),
			CardID:      card.ID,
			Owner:       issue.Owner,
			Repo:        issue.Repo,
			IssueNumber: issue.Number,
			Type:        typ,
			LocalValue:  local,
			RemoteValue: remote,
			DetectedAt:  time.Now(),
		})
	}

	if card.Title != issue.Title {
		add(model.ConflictTitle, card.Title, issue.Title)
	}

	// An absent issue body normalizes to an empty description.
	if card.Description != issue.Body {
		add(model.ConflictDescription, card.Description, issue.Body)
	}

	if mappedState != "" && mappedState != issue.State {
		add(model.ConflictState, mappedState, issue.State)
	}

	localLabels := canonicalLabels(model.LabelNames(card.Labels))
	remoteLabels := canonicalLabels(tracker.LabelNames(issue.Labels))

	if localLabels != remoteLabels {
		add(model.ConflictLabels, localLabels, remoteLabels)
	}

	return conflicts
}

// canonicalLabels renders a label name set order-insensitively so two
// sets compare equal regardless of declaration order.
func canonicalLabels(names []string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	return strings.Join(sorted, ",")
}
