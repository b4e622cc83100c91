package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBoard() *Board {
	return &Board{
		ID:    "board-1",
		Title: "Test Board",
		Columns: []Column{
			{
				ID:    "col-todo",
				Title: "To Do",
				Cards: []Card{
					{ID: "card-1", Title: "First"},
					{ID: "card-2", Title: "Second"},
				},
			},
			{
				ID:    "col-done",
				Title: "Done",
				Cards: []Card{
					{ID: "card-3", Title: "Third"},
				},
			},
		},
	}
}

func TestRemoteRefKey(t *testing.T) {
	ref := RemoteRef{Owner: "octocat", Repo: "hello-world", IssueNumber: 42}
	assert.Equal(t, "octocat/hello-world#42", ref.Key())
}

func TestRemoteRefComplete(t *testing.T) {
	tests := []struct {
		name     string
		ref      RemoteRef
		complete bool
	}{
		{
			name:     "full reference",
			ref:      RemoteRef{Owner: "octocat", Repo: "hello-world", IssueNumber: 42},
			complete: true,
		},
		{
			name:     "bare issue number",
			ref:      RemoteRef{IssueNumber: 42},
			complete: false,
		},
		{
			name:     "missing repo",
			ref:      RemoteRef{Owner: "octocat", IssueNumber: 42},
			complete: false,
		},
		{
			name:     "zero number",
			ref:      RemoteRef{Owner: "octocat", Repo: "hello-world"},
			complete: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.complete, tt.ref.Complete())
		})
	}
}

func TestFindColumn(t *testing.T) {
	board := testBoard()

	column := board.FindColumn("col-done")
	require.NotNil(t, column)
	assert.Equal(t, "Done", column.Title)

	assert.Nil(t, board.FindColumn("missing"))
}

func TestColumnOf(t *testing.T) {
	board := testBoard()

	column := board.ColumnOf("card-3")
	require.NotNil(t, column)
	assert.Equal(t, "col-done", column.ID)

	assert.Nil(t, board.ColumnOf("missing"))
}

func TestCards(t *testing.T) {
	board := testBoard()

	cards := board.Cards()
	require.Len(t, cards, 3)
	assert.Equal(t, "card-1", cards[0].ID)
	assert.Equal(t, "card-3", cards[2].ID)
}

func TestAddColumn(t *testing.T) {
	board := testBoard()

	column := board.AddColumn("In Progress")
	require.NotNil(t, column)
	assert.NotEmpty(t, column.ID)
	assert.Equal(t, "In Progress", column.Title)
	assert.Len(t, board.Columns, 3)
}

func TestAddCard(t *testing.T) {
	board := testBoard()

	card, err := board.AddCard("col-todo", CardFields{
		Title:       "New Card",
		Description: "details",
		Labels:      []CardLabel{{Name: "bug"}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, card.ID)
	assert.Equal(t, "New Card", card.Title)
	assert.False(t, card.CreatedAt.IsZero())
	assert.Len(t, board.FindColumn("col-todo").Cards, 3)
}

func TestAddCardUnknownColumn(t *testing.T) {
	board := testBoard()

	_, err := board.AddCard("missing", CardFields{Title: "X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column not found")
}

func TestUpdateCard(t *testing.T) {
	board := testBoard()

	err := board.UpdateCard("card-2", CardFields{
		Title:       "Renamed",
		Description: "updated body",
	})
	require.NoError(t, err)

	card := board.FindColumn("col-todo").Cards[1]
	assert.Equal(t, "Renamed", card.Title)
	assert.Equal(t, "updated body", card.Description)
	assert.False(t, card.UpdatedAt.IsZero())
}

func TestUpdateCardKeepsRemoteRef(t *testing.T) {
	board := testBoard()
	board.Columns[0].Cards[0].Remote = &RemoteRef{Owner: "octocat", Repo: "hello-world", IssueNumber: 7}

	err := board.UpdateCard("card-1", CardFields{Title: "Still Linked"})
	require.NoError(t, err)

	card := board.FindColumn("col-todo").Cards[0]
	require.NotNil(t, card.Remote)
	assert.Equal(t, 7, card.Remote.IssueNumber)
}

func TestUpdateCardNotFound(t *testing.T) {
	board := testBoard()

	err := board.UpdateCard("missing", CardFields{Title: "X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card not found")
}

func TestLabelNames(t *testing.T) {
	labels := []CardLabel{{Name: "bug"}, {Name: "urgent"}}
	assert.Equal(t, []string{"bug", "urgent"}, LabelNames(labels))
	assert.Empty(t, LabelNames(nil))
}
