package sync

import (
	"context"
	"fmt"

	"github.com/inovacc/boardsync/internal/model"
	"github.com/inovacc/boardsync/internal/tracker"
)

// ValidationResult reports configuration validity. Valid is true iff
// Errors is empty. Validation errors are always returned, never
// surfaced as Go errors.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateConfig checks a sync configuration. The structural checks are
// local; when they pass in single-repository mode, one live repository
// read through the client confirms the configured repository is
// accessible. Pass a nil client to skip the live check.
func ValidateConfig(ctx context.Context, client tracker.Client, cfg model.SyncConfig) ValidationResult {
	var errs []string

	if !cfg.AllRepositories {
		if cfg.Owner == "" {
			errs = append(errs, "Repository owner is required")
		}

		if cfg.Repo == "" {
			errs = append(errs, "Repository name is required")
		}
	}

	if len(cfg.ColumnMappings) == 0 {
		errs = append(errs, "At least one column mapping is required")
	}

	for i, m := range cfg.ColumnMappings {
		if m.ColumnID == "" {
			errs = append(errs, fmt.Sprintf("Column mapping %d is missing a column id", i+1))
		}

		if m.ColumnTitle == "" {
			errs = append(errs, fmt.Sprintf("Column mapping %d is missing a column title", i+1))
		}
	}

	if len(errs) == 0 && !cfg.AllRepositories && client != nil {
		if _, err := client.GetRepository(ctx, cfg.Owner, cfg.Repo); err != nil {
			errs = append(errs, fmt.Sprintf("Cannot access repository: %v", err))
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
