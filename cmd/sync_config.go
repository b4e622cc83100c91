package cmd

import (
	"fmt"

	"github.com/inovacc/boardsync/internal/model"
	"github.com/inovacc/boardsync/internal/sync"
	"github.com/spf13/cobra"
)

var syncConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the sync configuration",
}

var syncConfigShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the sync configuration",
	RunE:  runSyncConfigShow,
}

var syncConfigSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change sync configuration fields",
	Long: `Change sync configuration fields. Only flags that are set are applied.

Switching to --all-repos re-keys existing card references with the
previously configured repository, so cards keep pairing under the
composite (owner, repo, number) key.

Examples:
  boardsync sync config set --repo octocat/hello --enabled
  boardsync sync config set --strategy remote_wins
  boardsync sync config set --all-repos
  boardsync sync config set --auto-sync --interval 15m`,
	RunE: runSyncConfigSet,
}

var syncConfigMapCmd = &cobra.Command{
	Use:   "map <column-id> <issue-state>",
	Short: "Map a board column to a remote issue state and label set",
	Long: `Map a board column to a remote issue state and optional labels.

The mapping classifies incoming issues into columns and decides the
outgoing state of issues whose cards sit in the column. Mapping an
already-mapped column replaces its mapping.

Examples:
  boardsync sync config map col-todo open
  boardsync sync config map col-doing open --labels in-progress
  boardsync sync config map col-done closed`,
	Args: cobra.ExactArgs(2),
	RunE: runSyncConfigMap,
}

func init() {
	syncCmd.AddCommand(syncConfigCmd)
	syncConfigCmd.AddCommand(syncConfigShowCmd)
	syncConfigCmd.AddCommand(syncConfigSetCmd)
	syncConfigCmd.AddCommand(syncConfigMapCmd)

	syncConfigShowCmd.Flags().Bool("json", false, "Output as JSON")

	syncConfigSetCmd.Flags().String("repo", "", "Single repository to sync (owner/repo)")
	syncConfigSetCmd.Flags().Bool("all-repos", false, "Sync all accessible repositories")
	syncConfigSetCmd.Flags().Bool("enabled", false, "Enable sync")
	syncConfigSetCmd.Flags().Bool("disabled", false, "Disable sync")
	syncConfigSetCmd.Flags().Bool("auto-sync", false, "Create issues for unreferenced cards automatically")
	syncConfigSetCmd.Flags().Duration("interval", 0, "Auto-sync interval")
	syncConfigSetCmd.Flags().String("strategy", "", "Conflict strategy: manual, remote_wins, local_wins")

	syncConfigMapCmd.Flags().StringSlice("labels", nil, "Labels for the mapping (comma-separated)")
}

func runSyncConfigShow(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	cfg, err := db.GetSyncConfig()
	if err != nil {
		return fmt.Errorf("failed to load sync config: %w", err)
	}

	if jsonOutput {
		return printJSON(cfg)
	}

	fmt.Printf("Enabled: %v\n", cfg.Enabled)

	if cfg.AllRepositories {
		fmt.Println("Mode: all repositories")
	} else {
		fmt.Printf("Repository: %s/%s\n", cfg.Owner, cfg.Repo)
	}

	fmt.Printf("Strategy: %s\n", cfg.ConflictStrategy)
	fmt.Printf("Auto-sync: %v", cfg.AutoSync)

	if cfg.SyncInterval > 0 {
		fmt.Printf(" (every %s)", cfg.SyncInterval)
	}

	fmt.Println()

	if len(cfg.ColumnMappings) == 0 {
		fmt.Println("No column mappings")

		return nil
	}

	fmt.Println("Column mappings:")

	for _, m := range cfg.ColumnMappings {
		line := fmt.Sprintf("  %s (%s) -> %s", m.ColumnTitle, m.ColumnID, m.IssueState)
		if len(m.Labels) > 0 {
			line += fmt.Sprintf(" %v", m.Labels)
		}

		fmt.Println(line)
	}

	return nil
}

func runSyncConfigSet(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	cfg, err := db.GetSyncConfig()
	if err != nil {
		return fmt.Errorf("failed to load sync config: %w", err)
	}

	prevOwner, prevRepo := cfg.Owner, cfg.Repo
	wasSingleRepo := !cfg.AllRepositories

	if repoFlag, _ := cmd.Flags().GetString("repo"); repoFlag != "" {
		owner, repo, err := parseOwnerRepo(repoFlag)
		if err != nil {
			return err
		}

		cfg.Owner, cfg.Repo = owner, repo
		cfg.AllRepositories = false
	}

	if allRepos, _ := cmd.Flags().GetBool("all-repos"); allRepos {
		cfg.AllRepositories = true
	}

	if enabled, _ := cmd.Flags().GetBool("enabled"); enabled {
		cfg.Enabled = true
	}

	if disabled, _ := cmd.Flags().GetBool("disabled"); disabled {
		cfg.Enabled = false
	}

	if autoSync, _ := cmd.Flags().GetBool("auto-sync"); autoSync {
		cfg.AutoSync = true
	}

	if interval, _ := cmd.Flags().GetDuration("interval"); interval > 0 {
		cfg.SyncInterval = interval
	}

	if strategy, _ := cmd.Flags().GetString("strategy"); strategy != "" {
		switch model.ResolutionStrategy(strategy) {
		case model.ResolutionManual, model.ResolutionRemoteWins, model.ResolutionLocalWins:
			cfg.ConflictStrategy = model.ResolutionStrategy(strategy)
		default:
			return fmt.Errorf("invalid strategy %q: must be manual, remote_wins, or local_wins", strategy)
		}
	}

	// Transitioning to all-repositories mode re-keys cards created
	// under the single repository, so they keep pairing by the
	// composite key.
	if wasSingleRepo && cfg.AllRepositories && prevOwner != "" && prevRepo != "" {
		board, err := db.GetBoard()
		if err != nil {
			return fmt.Errorf("failed to load board: %w", err)
		}

		rekeyed, err := sync.RekeyCards(board, prevOwner, prevRepo)
		if err != nil {
			return err
		}

		if rekeyed > 0 {
			if err := db.SaveBoard(board); err != nil {
				return fmt.Errorf("failed to save board: %w", err)
			}

			fmt.Printf("Re-keyed %d card references to %s/%s\n", rekeyed, prevOwner, prevRepo)
		}
	}

	if err := db.SaveSyncConfig(cfg); err != nil {
		return fmt.Errorf("failed to save sync config: %w", err)
	}

	fmt.Println("Configuration saved")

	return nil
}

func runSyncConfigMap(cmd *cobra.Command, args []string) error {
	columnID, issueState := args[0], args[1]

	if issueState != "open" && issueState != "closed" {
		return fmt.Errorf("invalid issue state %q: must be open or closed", issueState)
	}

	labels, _ := cmd.Flags().GetStringSlice("labels")

	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	board, err := db.GetBoard()
	if err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	column := board.FindColumn(columnID)
	if column == nil {
		return fmt.Errorf("column not found: %s", columnID)
	}

	cfg, err := db.GetSyncConfig()
	if err != nil {
		return fmt.Errorf("failed to load sync config: %w", err)
	}

	mapping := model.ColumnMapping{
		ColumnID:    column.ID,
		ColumnTitle: column.Title,
		IssueState:  issueState,
		Labels:      labels,
	}

	replaced := false

	for i := range cfg.ColumnMappings {
		if cfg.ColumnMappings[i].ColumnID == column.ID {
			cfg.ColumnMappings[i] = mapping
			replaced = true

			break
		}
	}

	if !replaced {
		cfg.ColumnMappings = append(cfg.ColumnMappings, mapping)
	}

	if err := db.SaveSyncConfig(cfg); err != nil {
		return fmt.Errorf("failed to save sync config: %w", err)
	}

	fmt.Printf("Mapped column %q to state %s\n", column.Title, issueState)

	return nil
}
