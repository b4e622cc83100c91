package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "boardsync",
	Short: "Synchronize a Kanban board with GitHub Issues",
	Long: `Boardsync keeps a local Kanban board and GitHub Issues in step.

It detects divergence between the two sides, classifies it into typed
conflicts, builds a queue of typed mutation operations, applies the
configured resolution policy, and executes operations with per-operation
failure isolation.

Authentication:
  Uses a GitHub token from (in priority order):
  1. --token flag
  2. GITHUB_TOKEN environment variable
  3. GH_TOKEN environment variable
  4. gh CLI authentication`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("db", defaultDBPath(), "Path to the boardsync database")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}

// defaultDBPath places the database under the user config directory,
// falling back to the working directory when none is available.
func defaultDBPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "boardsync.db"
	}

	return filepath.Join(configDir, "boardsync", "boardsync.db")
}
