package cmd

import (
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the board with GitHub Issues",
	Long: `Run and inspect synchronization passes.

Available Commands:
  run       Run one synchronization pass
  status    Show the last run status and accumulated errors
  validate  Validate the sync configuration
  resolve   Manually resolve a conflict from a saved conflicts file
  config    Show or change the sync configuration`,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

// addSyncCommonFlags adds flags common to sync subcommands that reach
// the remote tracker.
func addSyncCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("token", "", "GitHub token (default: auto-detect)")
	cmd.Flags().Bool("json", false, "Output as JSON")
}
