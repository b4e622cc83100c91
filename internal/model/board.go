package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Board is the local task-tracking hierarchy being synchronized.
// The sync engine reads it but never owns or mutates it; all board
// mutations go through caller-supplied callbacks.
type Board struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Columns   []Column  `json:"columns"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Column is an ordered list of cards with a display color. A column may
// be mapped to a remote issue state and label set via ColumnMapping in
// the sync configuration.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Color string `json:"color,omitempty"`
	Cards []Card `json:"cards"`
}

// ColumnRef is a minimal column handle returned by target-column
// resolution in all-repositories mode, where the full column list is
// not threaded through the lookup. It deliberately carries only what
// that path can know.
type ColumnRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Ref returns the minimal handle for a full column.
func (c *Column) Ref() ColumnRef {
	return ColumnRef{ID: c.ID, Title: c.Title}
}

// Card is a single board item. If Remote is set, the card is paired to
// a remote issue; in multi-repository mode the full (owner, repo,
// number) triple is the sole pairing key.
type Card struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Labels      []CardLabel `json:"labels,omitempty"`
	Assignee    string      `json:"assignee,omitempty"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	Remote      *RemoteRef  `json:"remote,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CardLabel is the local label shape. Color carries a leading "#";
// labels translated from remote labels get the prefix added.
type CardLabel struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// RemoteRef links a card to a remote issue. Owner and Repo may be empty
// for cards created under single-repository mode; IssueNumber is only
// meaningful within one repository.
type RemoteRef struct {
	Owner       string `json:"owner,omitempty"`
	Repo        string `json:"repo,omitempty"`
	IssueNumber int    `json:"issue_number"`
}

// Key returns the composite pairing key used in all-repositories mode.
func (r RemoteRef) Key() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.IssueNumber)
}

// Complete reports whether the reference carries the full triple
// required for multi-repository pairing.
func (r RemoteRef) Complete() bool {
	return r.Owner != "" && r.Repo != "" && r.IssueNumber > 0
}

// FindColumn returns the column with the given id, or nil.
func (b *Board) FindColumn(id string) *Column {
	for i := range b.Columns {
		if b.Columns[i].ID == id {
			return &b.Columns[i]
		}
	}

	return nil
}

// ColumnOf returns the column containing the card with the given id,
// or nil if the card is not on the board.
func (b *Board) ColumnOf(cardID string) *Column {
	for i := range b.Columns {
		for j := range b.Columns[i].Cards {
			if b.Columns[i].Cards[j].ID == cardID {
				return &b.Columns[i]
			}
		}
	}

	return nil
}

// Cards returns every card on the board in column order.
func (b *Board) Cards() []Card {
	var cards []Card
	for i := range b.Columns {
		cards = append(cards, b.Columns[i].Cards...)
	}

	return cards
}

// LabelNames extracts label name strings from a slice of card labels.
func LabelNames(labels []CardLabel) []string {
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.Name
	}

	return names
}

// AddColumn appends a new empty column and returns it.
func (b *Board) AddColumn(title string) *Column {
	b.Columns = append(b.Columns, Column{
		ID:    uuid.NewString(),
		Title: title,
	})

	return &b.Columns[len(b.Columns)-1]
}

// AddCard creates a card from partial fields in the given column and
// returns it. The standard card-create callback for callers that keep
// their board in memory.
func (b *Board) AddCard(columnID string, fields CardFields) (*Card, error) {
	column := b.FindColumn(columnID)
	if column == nil {
		return nil, fmt.Errorf("column not found: %s", columnID)
	}

	now := time.Now()
	card := Card{
		ID:          uuid.NewString(),
		Title:       fields.Title,
		Description: fields.Description,
		Labels:      fields.Labels,
		Assignee:    fields.Assignee,
		Remote:      fields.Remote,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	column.Cards = append(column.Cards, card)

	return &column.Cards[len(column.Cards)-1], nil
}

// UpdateCard applies partial fields to an existing card in place. The
// card's column membership is unchanged.
func (b *Board) UpdateCard(cardID string, fields CardFields) error {
	for ci := range b.Columns {
		cards := b.Columns[ci].Cards
		for i := range cards {
			if cards[i].ID != cardID {
				continue
			}

			cards[i].Title = fields.Title
			cards[i].Description = fields.Description
			cards[i].Labels = fields.Labels
			cards[i].Assignee = fields.Assignee

			if fields.Remote != nil {
				cards[i].Remote = fields.Remote
			}

			cards[i].UpdatedAt = time.Now()

			return nil
		}
	}

	return fmt.Errorf("card not found: %s", cardID)
}
