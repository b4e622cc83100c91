package sync

import (
	"fmt"
	"time"

	"github.com/inovacc/boardsync/internal/model"
)

// ResolveConflicts applies the configured strategy to every still-open
// conflict in place and returns only the ones it resolved. The manual
// strategy resolves nothing; every conflict stays open for
// caller-driven resolution. Already-resolved conflicts are never
// touched, so re-running resolution is a no-op.
func ResolveConflicts(conflicts []model.SyncConflict, strategy model.ResolutionStrategy) []model.SyncConflict {
	if strategy == model.ResolutionManual {
		return nil
	}

	var resolved []model.SyncConflict

	for i := range conflicts {
		c := &conflicts[i]
		if c.Resolved() {
			continue
		}

		resolution := model.Resolution{
			ResolvedBy: model.ResolverAuto,
			ResolvedAt: time.Now(),
		}

		switch strategy {
		case model.ResolutionRemoteWins:
			resolution.Strategy = model.UseRemote
			resolution.ResolvedValue = c.RemoteValue
		case model.ResolutionLocalWins:
			resolution.Strategy = model.UseLocal
			resolution.ResolvedValue = c.LocalValue
		default:
			continue
		}

		c.Resolution = &resolution
		resolved = append(resolved, *c)
	}

	return resolved
}

// ResolveConflict attaches a manual resolution to the open conflict
// with the given id. A resolution, once attached, is immutable;
// resolving an already-resolved conflict is an error.
func ResolveConflict(conflicts []model.SyncConflict, conflictID string, resolution model.Resolution) error {
	for i := range conflicts {
		c := &conflicts[i]
		if c.ID != conflictID {
			continue
		}

		if c.Resolved() {
			return fmt.Errorf("conflict %s is already resolved", conflictID)
		}

		if resolution.ResolvedAt.IsZero() {
			resolution.ResolvedAt = time.Now()
		}

		switch resolution.Strategy {
		case model.UseLocal:
			resolution.ResolvedValue = c.LocalValue
		case model.UseRemote:
			resolution.ResolvedValue = c.RemoteValue
		default:
			return fmt.Errorf("unknown resolution strategy: %q", resolution.Strategy)
		}

		c.Resolution = &resolution

		return nil
	}

	return fmt.Errorf("conflict not found: %s", conflictID)
}
