package sync

import (
	"fmt"

	"github.com/inovacc/boardsync/internal/model"
)

// RekeyCards populates the (owner, repo) half of every card reference
// that carries only an issue number, using the single repository the
// cards were created under. Run this when a configuration transitions
// from single-repository to all-repositories mode: multi-repo pairing
// keys on the full triple, and a card missing its repository half would
// silently fail to pair.
//
// Returns the number of cards re-keyed. Cards with a complete reference
// or no reference at all are untouched.
func RekeyCards(board *model.Board, owner, repo string) (int, error) {
	if owner == "" || repo == "" {
		return 0, fmt.Errorf("owner and repo are required to re-key cards")
	}

	rekeyed := 0

	for ci := range board.Columns {
		cards := board.Columns[ci].Cards
		for i := range cards {
			ref := cards[i].Remote
			if ref == nil || ref.IssueNumber <= 0 || ref.Complete() {
				continue
			}

			ref.Owner = owner
			ref.Repo = repo
			rekeyed++
		}
	}

	return rekeyed, nil
}
