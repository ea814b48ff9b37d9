package categorizer

import (
	"context"

	"jmoreau/txintel/internal/models"

	"github.com/shopspring/decimal"
)

// Request is one categorization request for a single transaction.
type Request struct {
	TransactionID string
	UserID        string
	Merchant      string
	Description   string
	Amount        decimal.Decimal
}

// QueryText builds the text the strategies match against: trimmed merchant
// name followed by the description.
func (r Request) QueryText() string {
	return models.BuildQueryText(r.Merchant, r.Description)
}

// Strategy is one stage of the categorization pipeline. Stages are tried in
// order; the first one that produces a decision wins.
type Strategy interface {
	// Categorize attempts to produce a decision for the request. The boolean
	// reports whether this stage produced one; a false return with a nil
	// error means the pipeline should fall through to the next stage.
	Categorize(ctx context.Context, req Request) (models.CategoryDecision, bool, error)

	// Name returns the name of this strategy for logging.
	Name() string
}

// RuleSource returns a user's active categorization rules ordered by
// descending priority. Implemented by the hosted store and by the YAML rule
// store.
type RuleSource interface {
	ActiveRules(ctx context.Context, userID string) ([]models.Rule, error)
}
