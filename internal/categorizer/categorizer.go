// Package categorizer implements the transaction categorization pipeline as
// a tiered sequence of strategies:
// 1. Vector search over previously-categorized transactions, aggregated by a
//    weighted majority vote
// 2. Deterministic user-defined rules (keyword, merchant, amount range)
// 3. The configured default category
//
// The pipeline is stateless per call and safe to invoke concurrently for
// different transactions. Two concurrent calls on the same transaction id are
// not serialized here; the last write wins.
package categorizer

import (
	"context"
	"fmt"
	"strings"

	"jmoreau/txintel/internal/embedding"
	"jmoreau/txintel/internal/logging"
	"jmoreau/txintel/internal/models"
	"jmoreau/txintel/internal/store"
	"jmoreau/txintel/internal/txerror"
)

// Options carries the pipeline's tunables. The zero value is not usable; use
// DefaultOptions as a base.
type Options struct {
	SearchLimit       int
	MinSimilarity     float64
	VoteThreshold     float64
	RuleConfidence    float64
	DefaultConfidence float64
	DefaultCategory   string
}

// DefaultOptions returns the reference pipeline tuning.
func DefaultOptions() Options {
	return Options{
		SearchLimit:       10,
		MinSimilarity:     0.70,
		VoteThreshold:     0.5,
		RuleConfidence:    0.7,
		DefaultConfidence: 0.1,
		DefaultCategory:   models.DefaultCategoryName,
	}
}

// Categorizer orchestrates the tiered categorization strategies and persists
// the outcome onto the transaction.
type Categorizer struct {
	strategies []Strategy
	store      store.TransactionStore
	log        logging.Logger
}

// NewCategorizer wires the standard three-stage pipeline. embedder may be nil
// to run rule-only categorization.
func NewCategorizer(embedder embedding.Client, st store.TransactionStore, rules RuleSource, opts Options, logger logging.Logger) *Categorizer {
	return &Categorizer{
		strategies: []Strategy{
			NewVectorStrategy(embedder, st, logger, opts.SearchLimit, opts.MinSimilarity, opts.VoteThreshold),
			NewRuleStrategy(rules, logger, opts.RuleConfidence),
			NewDefaultStrategy(st, logger, opts.DefaultCategory, opts.DefaultConfidence),
		},
		store: st,
		log:   logger,
	}
}

// NewCategorizerWithStrategies wires an explicit strategy chain. Used by
// tests and by callers that need a non-standard pipeline.
func NewCategorizerWithStrategies(st store.TransactionStore, logger logging.Logger, strategies ...Strategy) *Categorizer {
	return &Categorizer{
		strategies: strategies,
		store:      st,
		log:        logger,
	}
}

// Categorize runs the pipeline for one transaction and persists the resulting
// category. Apart from invalid input and store failures, it always returns a
// decision: embedding failures degrade to rules, rule misses degrade to the
// default category.
func (c *Categorizer) Categorize(ctx context.Context, req Request) (models.CategoryDecision, error) {
	if err := validateRequest(req); err != nil {
		return models.CategoryDecision{}, err
	}

	for _, strategy := range c.strategies {
		decision, found, err := strategy.Categorize(ctx, req)
		if err != nil {
			return models.CategoryDecision{}, fmt.Errorf("%s strategy: %w", strategy.Name(), err)
		}
		if !found {
			continue
		}

		if err := c.persistCategory(ctx, req.TransactionID, decision); err != nil {
			return models.CategoryDecision{}, err
		}
		return decision, nil
	}

	// The default strategy always produces a decision, so this is only
	// reachable with a custom strategy chain.
	return models.CategoryDecision{
		Confidence: 0,
		Method:     models.MethodDefault,
	}, nil
}

// CategorizeTransaction is a convenience wrapper building the request from a
// stored transaction record.
func (c *Categorizer) CategorizeTransaction(ctx context.Context, t models.Transaction) (models.CategoryDecision, error) {
	return c.Categorize(ctx, Request{
		TransactionID: t.ID,
		UserID:        t.UserID,
		Merchant:      t.Merchant,
		Description:   t.Description,
		Amount:        t.Amount,
	})
}

func (c *Categorizer) persistCategory(ctx context.Context, transactionID string, decision models.CategoryDecision) error {
	if decision.CategoryID == "" || c.store == nil {
		return nil
	}
	if err := c.store.AssignCategory(ctx, transactionID, decision.CategoryID); err != nil {
		return err
	}
	return nil
}

func validateRequest(req Request) error {
	if strings.TrimSpace(req.TransactionID) == "" {
		return &txerror.InvalidInputError{Field: "transaction_id", Reason: "is required"}
	}
	if strings.TrimSpace(req.Description) == "" {
		return &txerror.InvalidInputError{Field: "description", Reason: "must not be empty"}
	}
	return nil
}
