package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/inovacc/boardsync/internal/store"
	"github.com/inovacc/boardsync/internal/tracker"
	"github.com/spf13/cobra"
)

// setupLogger builds the command logger the way every subcommand
// expects it: structured output to stderr, debug level under --verbose.
func setupLogger(cmd *cobra.Command, jsonOutput bool) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	if jsonOutput {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore opens the Bolt store at the --db path, creating parent
// directories as needed.
func openStore(cmd *cobra.Command) (store.Store, error) {
	path, _ := cmd.Flags().GetString("db")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := store.NewBolt(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}

// newTrackerClient resolves a token and builds the GitHub client.
func newTrackerClient(cmd *cobra.Command, logger *slog.Logger) (tracker.Client, error) {
	tokenFlag, _ := cmd.Flags().GetString("token")

	token := tracker.ResolveToken(tokenFlag)
	if token == "" {
		return nil, fmt.Errorf("no GitHub token found; set GITHUB_TOKEN or pass --token")
	}

	return tracker.NewGitHubClient(token, tracker.GitHubClientOptions{Logger: logger})
}

// parseOwnerRepo splits "owner/repo" into its halves.
func parseOwnerRepo(s string) (string, string, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: must be owner/repo", s)
	}

	return parts[0], parts[1], nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	fmt.Println(string(data))

	return nil
}
