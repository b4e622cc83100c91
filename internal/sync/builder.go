package sync

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/inovacc/boardsync/internal/model"
	"github.com/inovacc/boardsync/internal/tracker"
)

// ResolveTargetColumn picks the column an unmatched issue should land
// in. Mappings are scanned in declaration order; the first whose issue
// state equals the issue's state and whose label set is empty or
// intersects the issue's labels wins. With no rule match the first
// declared mapping is the fallback. Returns nil when no mappings exist,
// in which case no card is created for the issue.
func ResolveTargetColumn(mappings []model.ColumnMapping, issue tracker.Issue) *model.ColumnRef {
	if len(mappings) == 0 {
		return nil
	}

	issueLabels := make(map[string]bool, len(issue.Labels))
	for _, l := range issue.Labels {
		issueLabels[l.Name] = true
	}

	for _, m := range mappings {
		if m.IssueState != issue.State {
			continue
		}

		if len(m.Labels) == 0 {
			return &model.ColumnRef{ID: m.ColumnID, Title: m.ColumnTitle}
		}

		for _, name := range m.Labels {
			if issueLabels[name] {
				return &model.ColumnRef{ID: m.ColumnID, Title: m.ColumnTitle}
			}
		}
	}

	first := mappings[0]

	return &model.ColumnRef{ID: first.ColumnID, Title: first.ColumnTitle}
}

// mappingFor returns the column mapping for a column id, or nil.
func mappingFor(mappings []model.ColumnMapping, columnID string) *model.ColumnMapping {
	for i := range mappings {
		if mappings[i].ColumnID == columnID {
			return &mappings[i]
		}
	}

	return nil
}

// cardFieldsFromIssue translates authoritative remote metadata into the
// partial card shape applied by card operations. Remote labels become
// local labels with the remote id and a "#"-prefixed color.
func cardFieldsFromIssue(issue tracker.Issue) model.CardFields {
	fields := model.CardFields{
		Title:       issue.Title,
		Description: issue.Body,
		Assignee:    issue.Assignee,
		Remote: &model.RemoteRef{
			Owner:       issue.Owner,
			Repo:        issue.Repo,
			IssueNumber: issue.Number,
		},
	}

	for _, l := range issue.Labels {
		label := model.CardLabel{
			ID:   strconv.FormatInt(l.ID, 10),
			Name: l.Name,
		}

		if l.Color != "" {
			label.Color = "#" + l.Color
		}

		fields.Labels = append(fields.Labels, label)
	}

	return fields
}

// BuildCreateCard emits the operation creating a local card for an
// unmatched remote issue in the given target column.
func BuildCreateCard(issue tracker.Issue, target model.ColumnRef) model.SyncOperation {
	return model.SyncOperation{
		ID:          uuid.NewString(),
		Kind:        model.OpCreateCard,
		IssueNumber: issue.Number,
		Status:      model.OpPending,
		CreatedAt:   time.Now(),
		CreateCard: &model.CreateCardPayload{
			ColumnID: target.ID,
			Fields:   cardFieldsFromIssue(issue),
		},
	}
}

// BuildUpdateCard emits the operation copying remote metadata onto an
// existing card. Column membership is not changed by a metadata sync.
func BuildUpdateCard(card model.Card, issue tracker.Issue) model.SyncOperation {
	return model.SyncOperation{
		ID:          uuid.NewString(),
		Kind:        model.OpUpdateCard,
		CardID:      card.ID,
		IssueNumber: issue.Number,
		Status:      model.OpPending,
		CreatedAt:   time.Now(),
		UpdateCard: &model.UpdateCardPayload{
			CardID: card.ID,
			Fields: cardFieldsFromIssue(issue),
		},
	}
}

// BuildCreateIssue emits the operation creating a remote issue for a
// card with no remote counterpart. The label set is the union of the
// card's local labels and the labels its column's mapping configures;
// the target repository comes from the card's own reference when
// present, else the config's single repository.
func BuildCreateIssue(card model.Card, columnID string, cfg model.SyncConfig) model.SyncOperation {
	owner, repo := cfg.Owner, cfg.Repo
	if card.Remote != nil && card.Remote.Owner != "" {
		owner, repo = card.Remote.Owner, card.Remote.Repo
	}

	labels := model.LabelNames(card.Labels)

	if m := mappingFor(cfg.ColumnMappings, columnID); m != nil {
		seen := make(map[string]bool, len(labels))
		for _, name := range labels {
			seen[name] = true
		}

		for _, name := range m.Labels {
			if !seen[name] {
				labels = append(labels, name)
			}
		}
	}

	return model.SyncOperation{
		ID:        uuid.NewString(),
		Kind:      model.OpCreateIssue,
		CardID:    card.ID,
		Status:    model.OpPending,
		CreatedAt: time.Now(),
		CreateIssue: &model.CreateIssuePayload{
			Owner:    owner,
			Repo:     repo,
			Title:    card.Title,
			Body:     card.Description,
			Labels:   labels,
			Assignee: card.Assignee,
		},
	}
}

// BuildUpdateIssue emits the operation pushing card state to its remote
// issue. The issue state comes from the card's column mapping, falling
// back to the issue's current state when the column has no mapping.
func BuildUpdateIssue(card model.Card, columnID, currentState string, cfg model.SyncConfig) model.SyncOperation {
	owner, repo := cfg.Owner, cfg.Repo
	if card.Remote != nil && card.Remote.Owner != "" {
		owner, repo = card.Remote.Owner, card.Remote.Repo
	}

	state := currentState
	if m := mappingFor(cfg.ColumnMappings, columnID); m != nil {
		state = m.IssueState
	}

	var number int
	if card.Remote != nil {
		number = card.Remote.IssueNumber
	}

	return model.SyncOperation{
		ID:          uuid.NewString(),
		Kind:        model.OpUpdateIssue,
		CardID:      card.ID,
		IssueNumber: number,
		Status:      model.OpPending,
		CreatedAt:   time.Now(),
		UpdateIssue: &model.UpdateIssuePayload{
			Owner:       owner,
			Repo:        repo,
			IssueNumber: number,
			Title:       card.Title,
			Body:        card.Description,
			State:       state,
			Labels:      model.LabelNames(card.Labels),
		},
	}
}
