package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/inovacc/boardsync/internal/model"
	"github.com/inovacc/boardsync/internal/sync"
	"github.com/spf13/cobra"
)

var syncResolveCmd = &cobra.Command{
	Use:   "resolve <conflict-id>",
	Short: "Manually resolve a conflict from a saved conflicts file",
	Long: `Attach a manual resolution to a conflict written by "sync run".

The conflict keeps the chosen side's value; a resolution, once
attached, is immutable.

Examples:
  boardsync sync resolve 4f7c... --use remote
  boardsync sync resolve 4f7c... --use local --file conflicts.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSyncResolve,
}

func init() {
	syncCmd.AddCommand(syncResolveCmd)

	syncResolveCmd.Flags().String("use", "", "Which side wins: local or remote (required)")
	syncResolveCmd.Flags().String("file", "conflicts.json", "Conflicts file written by sync run")
	syncResolveCmd.Flags().String("by", "", "Resolver identity recorded on the resolution (default: $USER)")
	_ = syncResolveCmd.MarkFlagRequired("use")
}

func runSyncResolve(cmd *cobra.Command, args []string) error {
	conflictID := args[0]
	use, _ := cmd.Flags().GetString("use")
	file, _ := cmd.Flags().GetString("file")
	by, _ := cmd.Flags().GetString("by")

	var strategy string

	switch use {
	case "local":
		strategy = model.UseLocal
	case "remote":
		strategy = model.UseRemote
	default:
		return fmt.Errorf("invalid --use value %q: must be local or remote", use)
	}

	if by == "" {
		by = os.Getenv("USER")
		if by == "" {
			by = "manual"
		}
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read conflicts file: %w", err)
	}

	var conflicts []model.SyncConflict
	if err := json.Unmarshal(data, &conflicts); err != nil {
		return fmt.Errorf("failed to parse conflicts file: %w", err)
	}

	if err := sync.ResolveConflict(conflicts, conflictID, model.Resolution{
		Strategy:   strategy,
		ResolvedBy: by,
	}); err != nil {
		return err
	}

	out, err := json.MarshalIndent(conflicts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conflicts: %w", err)
	}

	if err := os.WriteFile(file, out, 0644); err != nil {
		return fmt.Errorf("failed to write conflicts file: %w", err)
	}

	fmt.Printf("Conflict %s resolved using %s value\n", conflictID, use)

	return nil
}
