package cmd

import (
	"fmt"

	"github.com/inovacc/boardsync/internal/model"
	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Inspect and edit the local board",
	Long: `Inspect and edit the local Kanban board.

The board lives in the local database and is the local side of the
synchronization. Cards gain issue references as sync runs pair them
with remote issues.

Available subcommands:
  show        Print the board
  add-column  Add a column
  add-card    Add a card to a column`,
}

var boardShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the board",
	RunE:  runBoardShow,
}

var boardAddColumnCmd = &cobra.Command{
	Use:   "add-column <title>",
	Short: "Add a column to the board",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoardAddColumn,
}

var boardAddCardCmd = &cobra.Command{
	Use:   "add-card <column-id> <title>",
	Short: "Add a card to a column",
	Args:  cobra.ExactArgs(2),
	RunE:  runBoardAddCard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.AddCommand(boardShowCmd)
	boardCmd.AddCommand(boardAddColumnCmd)
	boardCmd.AddCommand(boardAddCardCmd)

	boardShowCmd.Flags().Bool("json", false, "Output as JSON")

	boardAddCardCmd.Flags().String("description", "", "Card description")
	boardAddCardCmd.Flags().StringSlice("labels", nil, "Card labels (comma-separated)")
}

func runBoardShow(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	board, err := db.GetBoard()
	if err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	if jsonOutput {
		return printJSON(board)
	}

	if board.Title != "" {
		fmt.Println(board.Title)
	}

	if len(board.Columns) == 0 {
		fmt.Println("No columns")

		return nil
	}

	for _, column := range board.Columns {
		fmt.Printf("%s (%s)\n", column.Title, column.ID)

		for _, card := range column.Cards {
			line := fmt.Sprintf("  - %s (%s)", card.Title, card.ID)
			if card.Remote != nil {
				if card.Remote.Complete() {
					line += fmt.Sprintf(" [%s]", card.Remote.Key())
				} else {
					line += fmt.Sprintf(" [#%d]", card.Remote.IssueNumber)
				}
			}

			fmt.Println(line)
		}
	}

	return nil
}

func runBoardAddColumn(cmd *cobra.Command, args []string) error {
	title := args[0]

	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	board, err := db.GetBoard()
	if err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	column := board.AddColumn(title)

	if err := db.SaveBoard(board); err != nil {
		return fmt.Errorf("failed to save board: %w", err)
	}

	fmt.Printf("Added column %q (%s)\n", column.Title, column.ID)

	return nil
}

func runBoardAddCard(cmd *cobra.Command, args []string) error {
	columnID, title := args[0], args[1]

	description, _ := cmd.Flags().GetString("description")
	labelNames, _ := cmd.Flags().GetStringSlice("labels")

	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	board, err := db.GetBoard()
	if err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	labels := make([]model.CardLabel, 0, len(labelNames))
	for _, name := range labelNames {
		labels = append(labels, model.CardLabel{Name: name})
	}

	card, err := board.AddCard(columnID, model.CardFields{
		Title:       title,
		Description: description,
		Labels:      labels,
	})
	if err != nil {
		return err
	}

	if err := db.SaveBoard(board); err != nil {
		return fmt.Errorf("failed to save board: %w", err)
	}

	fmt.Printf("Added card %q (%s)\n", card.Title, card.ID)

	return nil
}
