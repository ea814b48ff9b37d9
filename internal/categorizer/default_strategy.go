package categorizer

import (
	"context"

	"jmoreau/txintel/internal/logging"
	"jmoreau/txintel/internal/models"
	"jmoreau/txintel/internal/store"
)

// DefaultStrategy is the terminal stage: it assigns the configured default
// category by exact name. When the category does not exist the decision is
// still produced, with no category id.
type DefaultStrategy struct {
	store        store.TransactionStore
	log          logging.Logger
	categoryName string
	confidence   float64
}

// NewDefaultStrategy creates a DefaultStrategy.
func NewDefaultStrategy(st store.TransactionStore, logger logging.Logger, categoryName string, confidence float64) *DefaultStrategy {
	return &DefaultStrategy{
		store:        st,
		log:          logger,
		categoryName: categoryName,
		confidence:   confidence,
	}
}

// Name returns the name of this strategy for logging.
func (s *DefaultStrategy) Name() string {
	return "Default"
}

// Categorize always produces a decision; only a store failure is an error.
func (s *DefaultStrategy) Categorize(ctx context.Context, req Request) (models.CategoryDecision, bool, error) {
	decision := models.CategoryDecision{
		Confidence: s.confidence,
		Method:     models.MethodDefault,
	}

	if s.store == nil {
		return decision, true, nil
	}

	category, err := s.store.CategoryByName(ctx, req.UserID, s.categoryName)
	if err != nil {
		return models.CategoryDecision{}, false, err
	}
	if category == nil {
		s.log.WithFields(
			logging.Field{Key: "transaction_id", Value: req.TransactionID},
			logging.Field{Key: "category_name", Value: s.categoryName},
		).Warn("Default category not found, returning uncategorized decision")
		return decision, true, nil
	}

	decision.CategoryID = category.ID
	return decision, true, nil
}
