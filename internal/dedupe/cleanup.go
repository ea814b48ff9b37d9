package dedupe

import (
	"context"

	"jmoreau/txintel/internal/logging"
	"jmoreau/txintel/internal/models"
	"jmoreau/txintel/internal/store"

	"github.com/google/uuid"
)

// Engine deletes all but the canonical record of every duplicate group. It is
// the only destructive operation in this core.
//
// Safety model: deletion is an idempotent delete-by-id, so an interrupted or
// overlapping run never errors on rows another run already removed, and any
// group left partially cleaned is simply re-detected on the next run. Running
// the engine twice in succession deletes nothing the second time.
type Engine struct {
	analyzer *Analyzer
	store    store.DuplicateStore
	log      logging.Logger
}

// NewEngine creates a cleanup Engine.
func NewEngine(st store.DuplicateStore, logger logging.Logger) *Engine {
	return &Engine{
		analyzer: NewAnalyzer(st, logger),
		store:    st,
		log:      logger,
	}
}

// Run detects the user's duplicate groups and deletes every member except the
// oldest of each group (ties broken by smallest id). One group's failure does
// not stop the others; partial success is reported through FailedGroups.
func (e *Engine) Run(ctx context.Context, userID string) (models.CleanupResult, error) {
	result := models.CleanupResult{RunID: uuid.NewString()}

	groups, err := e.analyzer.FindDuplicateGroups(ctx, userID)
	if err != nil {
		return result, err
	}

	log := e.log.WithField("run_id", result.RunID)
	log.WithField("groups", len(groups)).Info("Starting duplicate cleanup")

	for _, group := range groups {
		retained, deleted, err := e.cleanGroup(ctx, group)
		result.RetainedIDs = append(result.RetainedIDs, retained)
		result.Deleted += deleted
		if err != nil {
			result.FailedGroups++
			log.WithError(err).WithFields(
				logging.Field{Key: "fingerprint", Value: group.Key},
				logging.Field{Key: "deleted", Value: deleted},
			).Warn("Cleanup failed for group, members will be re-detected")
		}
	}

	log.WithFields(
		logging.Field{Key: "deleted", Value: result.Deleted},
		logging.Field{Key: "retained", Value: len(result.RetainedIDs)},
		logging.Field{Key: "failed_groups", Value: result.FailedGroups},
	).Info("Duplicate cleanup complete")

	return result, nil
}

// cleanGroup retains the group's first member (oldest, by the analyzer's
// ordering) and deletes the rest. It stops at the first failed deletion; the
// group stays partially cleaned and is picked up again on the next run.
func (e *Engine) cleanGroup(ctx context.Context, group models.DuplicateGroup) (retained string, deleted int, err error) {
	retained = group.MemberIDs[0]

	for _, id := range group.MemberIDs[1:] {
		if err := e.store.DeleteTransaction(ctx, id); err != nil {
			return retained, deleted, err
		}
		deleted++
	}

	e.log.WithFields(
		logging.Field{Key: "fingerprint", Value: group.Key},
		logging.Field{Key: "retained", Value: retained},
		logging.Field{Key: "deleted", Value: deleted},
	).Debug("Group cleaned")

	return retained, deleted, nil
}
