package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last run status and accumulated errors",
	RunE:  runSyncStatus,
}

var syncClearErrorsCmd = &cobra.Command{
	Use:   "clear-errors",
	Short: "Clear accumulated run errors",
	Long: `Clear accumulated run errors from the status snapshot.

Unresolved conflicts and the sync configuration are untouched.`,
	RunE: runSyncClearErrors,
}

func init() {
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncClearErrorsCmd)

	syncStatusCmd.Flags().Bool("json", false, "Output as JSON")
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	status, err := db.GetRunStatus()
	if err != nil {
		return fmt.Errorf("failed to load run status: %w", err)
	}

	if jsonOutput {
		return printJSON(status)
	}

	if status.LastSync == nil {
		fmt.Println("No sync has run yet")

		return nil
	}

	fmt.Printf("Last sync: %s\n", status.LastSync.Format(time.RFC3339))

	if status.NextSync != nil {
		fmt.Printf("Next sync: %s\n", status.NextSync.Format(time.RFC3339))
	}

	if stats := status.LastStats; stats != nil {
		fmt.Printf("Cards: %d created, %d updated | Issues: %d created, %d updated | Conflicts resolved: %d\n",
			stats.CardsCreated, stats.CardsUpdated, stats.IssuesCreated, stats.IssuesUpdated, stats.ConflictsResolved)
	}

	if len(status.Errors) > 0 {
		fmt.Printf("Errors (%d):\n", len(status.Errors))

		for _, e := range status.Errors {
			fmt.Printf("  [%s] %s: %s\n", e.Timestamp.Format(time.RFC3339), e.Kind, e.Message)
		}
	}

	return nil
}

func runSyncClearErrors(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	status, err := db.GetRunStatus()
	if err != nil {
		return fmt.Errorf("failed to load run status: %w", err)
	}

	status.Errors = nil

	if err := db.SaveRunStatus(status); err != nil {
		return fmt.Errorf("failed to save run status: %w", err)
	}

	fmt.Println("Errors cleared")

	return nil
}
