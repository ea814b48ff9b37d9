package categorizer

import (
	"context"

	"jmoreau/txintel/internal/logging"
	"jmoreau/txintel/internal/models"
)

// RuleStrategy categorizes a transaction with the user's deterministic rules.
// Rules arrive ordered by descending priority; the first match wins.
type RuleStrategy struct {
	rules      RuleSource
	log        logging.Logger
	confidence float64
}

// NewRuleStrategy creates a RuleStrategy.
func NewRuleStrategy(rules RuleSource, logger logging.Logger, confidence float64) *RuleStrategy {
	return &RuleStrategy{
		rules:      rules,
		log:        logger,
		confidence: confidence,
	}
}

// Name returns the name of this strategy for logging.
func (s *RuleStrategy) Name() string {
	return "Rules"
}

// Categorize evaluates the active rules top-down with early exit.
func (s *RuleStrategy) Categorize(ctx context.Context, req Request) (models.CategoryDecision, bool, error) {
	if s.rules == nil {
		return models.CategoryDecision{}, false, nil
	}

	rules, err := s.rules.ActiveRules(ctx, req.UserID)
	if err != nil {
		return models.CategoryDecision{}, false, err
	}

	queryText := req.QueryText()
	for _, rule := range rules {
		if !RuleMatches(queryText, req.Amount, rule) {
			continue
		}

		s.log.WithFields(
			logging.Field{Key: "transaction_id", Value: req.TransactionID},
			logging.Field{Key: "rule_id", Value: rule.ID},
			logging.Field{Key: "rule_type", Value: rule.Type},
			logging.Field{Key: "category_id", Value: rule.CategoryID},
		).Debug("Transaction categorized by rule")

		return models.CategoryDecision{
			CategoryID: rule.CategoryID,
			Confidence: s.confidence,
			Method:     models.MethodRules,
		}, true, nil
	}

	return models.CategoryDecision{}, false, nil
}
