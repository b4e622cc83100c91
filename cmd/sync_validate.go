package cmd

import (
	"fmt"

	"github.com/inovacc/boardsync/internal/sync"
	"github.com/spf13/cobra"
)

var syncValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the sync configuration",
	Long: `Validate the stored sync configuration.

Structural checks run locally; when they pass in single-repository mode
one live repository read confirms the configured repository is
accessible with the current token. Use --offline to skip the live
check.`,
	RunE: runSyncValidate,
}

func init() {
	syncCmd.AddCommand(syncValidateCmd)

	addSyncCommonFlags(syncValidateCmd)
	syncValidateCmd.Flags().Bool("offline", false, "Skip the live repository access check")
}

func runSyncValidate(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	offline, _ := cmd.Flags().GetBool("offline")

	logger := setupLogger(cmd, jsonOutput)

	db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	cfg, err := db.GetSyncConfig()
	if err != nil {
		return fmt.Errorf("failed to load sync config: %w", err)
	}

	var result sync.ValidationResult

	if offline {
		result = sync.ValidateConfig(cmd.Context(), nil, *cfg)
	} else {
		client, err := newTrackerClient(cmd, logger)
		if err != nil {
			return err
		}

		result = sync.ValidateConfig(cmd.Context(), client, *cfg)
	}

	if jsonOutput {
		return printJSON(result)
	}

	if result.Valid {
		fmt.Println("Configuration is valid")

		return nil
	}

	fmt.Println("Configuration is invalid:")

	for _, e := range result.Errors {
		fmt.Printf("  - %s\n", e)
	}

	return nil
}
