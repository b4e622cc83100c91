package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/inovacc/boardsync/internal/model"
	"github.com/inovacc/boardsync/internal/sync"
	"github.com/spf13/cobra"
)

var syncRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one synchronization pass",
	Long: `Run one synchronization pass against the configured repository
or repositories, then execute the resulting operations.

The pass fetches remote issues, pairs them against local cards, detects
conflicts, and builds typed operations. Operations are executed in
order; a failed operation is recorded and the batch continues. Detected
conflicts that the configured strategy does not resolve are written to
the conflicts file for manual resolution.

Examples:
  boardsync sync run                       # Sync and execute
  boardsync sync run --dry-run             # Build operations, touch nothing
  boardsync sync run --no-execute          # Build operations, skip execution
  boardsync sync run --json                # Machine-readable result`,
	RunE: runSyncRun,
}

func init() {
	syncCmd.AddCommand(syncRunCmd)

	addSyncCommonFlags(syncRunCmd)
	syncRunCmd.Flags().Bool("dry-run", false, "Execute nothing; mark operations completed without side effects")
	syncRunCmd.Flags().Bool("no-execute", false, "Build operations but do not execute them")
	syncRunCmd.Flags().String("conflicts-file", "conflicts.json", "Where unresolved conflicts are written")
}

func runSyncRun(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noExecute, _ := cmd.Flags().GetBool("no-execute")
	conflictsFile, _ := cmd.Flags().GetString("conflicts-file")

	logger := setupLogger(cmd, jsonOutput)

	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	board, err := db.GetBoard()
	if err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	cfg, err := db.GetSyncConfig()
	if err != nil {
		return fmt.Errorf("failed to load sync config: %w", err)
	}

	client, err := newTrackerClient(cmd, logger)
	if err != nil {
		return err
	}

	engine := sync.NewEngine(client, sync.EngineOptions{Logger: logger})

	result, err := engine.Run(cmd.Context(), board, *cfg)
	if err != nil {
		return err
	}

	if result.Success && !noExecute {
		callbacks := sync.Callbacks{
			OnCardCreate: board.AddCard,
			OnCardUpdate: board.UpdateCard,
		}

		sync.Execute(cmd.Context(), client, result.Operations, callbacks, sync.ExecuteOptions{
			DryRun: dryRun,
			Logger: logger,
		})

		if !dryRun {
			if err := db.SaveBoard(board); err != nil {
				return fmt.Errorf("failed to save board: %w", err)
			}
		}
	}

	status := engine.Status()
	if err := db.SaveRunStatus(&status); err != nil {
		return fmt.Errorf("failed to save run status: %w", err)
	}

	if unresolved := openConflicts(result.Conflicts); len(unresolved) > 0 && !dryRun {
		if err := writeConflictsFile(conflictsFile, unresolved); err != nil {
			return err
		}
	}

	if jsonOutput {
		return printJSON(result)
	}

	printResult(result)

	return nil
}

func openConflicts(conflicts []model.SyncConflict) []model.SyncConflict {
	var open []model.SyncConflict

	for _, c := range conflicts {
		if !c.Resolved() {
			open = append(open, c)
		}
	}

	return open
}

func writeConflictsFile(path string, conflicts []model.SyncConflict) error {
	data, err := json.MarshalIndent(conflicts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conflicts: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write conflicts file: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stderr, "%d unresolved conflicts written to %s\n", len(conflicts), path)

	return nil
}

func printResult(result model.SyncResult) {
	if !result.Success {
		fmt.Printf("Sync failed: %s\n", result.Error)
	} else {
		fmt.Println("Sync completed")
	}

	completed, failed := 0, 0

	for _, op := range result.Operations {
		switch op.Status {
		case model.OpCompleted:
			completed++
		case model.OpFailed:
			failed++

			fmt.Printf("  failed %s: %s\n", op.Kind, op.Error)
		}
	}

	stats := result.Stats
	fmt.Printf("Operations: %d (%d completed, %d failed)\n", len(result.Operations), completed, failed)
	fmt.Printf("Cards: %d created, %d updated | Issues: %d created, %d updated\n",
		stats.CardsCreated, stats.CardsUpdated, stats.IssuesCreated, stats.IssuesUpdated)

	if stats.SkippedIssues > 0 {
		fmt.Printf("Skipped issues (no target column): %d\n", stats.SkippedIssues)
	}

	if len(result.Conflicts) > 0 {
		fmt.Printf("Conflicts: %d detected, %d resolved\n", len(result.Conflicts), stats.ConflictsResolved)
	}
}
