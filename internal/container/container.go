// Package container provides dependency injection for the txintel
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"time"

	"jmoreau/txintel/internal/categorizer"
	"jmoreau/txintel/internal/config"
	"jmoreau/txintel/internal/dedupe"
	"jmoreau/txintel/internal/embedding"
	"jmoreau/txintel/internal/logging"
	"jmoreau/txintel/internal/rulestore"
	"jmoreau/txintel/internal/store"
)

// Container holds all application dependencies. It is immutable after
// creation; dependencies are reached through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	supabase    *store.SupabaseStore
	embedder    embedding.Client
	categorizer *categorizer.Categorizer
	analyzer    *dedupe.Analyzer
	cleanup     *dedupe.Engine
}

// NewContainer creates and wires all application dependencies.
//
// The hosted store and the embedding provider are both optional: without
// Supabase credentials the categorizer runs rule-only against the YAML rule
// file, and without a Gemini key the vector stage is skipped entirely.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	c := &Container{
		logger: logger,
		config: cfg,
	}

	var txStore store.TransactionStore
	if cfg.Supabase.URL != "" && cfg.Supabase.Key != "" {
		supabase, err := store.NewSupabaseStore(cfg.Supabase.URL, cfg.Supabase.Key, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create supabase store: %w", err)
		}
		c.supabase = supabase
		txStore = supabase
		c.analyzer = dedupe.NewAnalyzer(supabase, logger)
		c.cleanup = dedupe.NewEngine(supabase, logger)
		logger.Info("Supabase store configured")
	} else {
		logger.Info("Supabase store not configured, running store-less")
	}

	if cfg.Embedding.APIKey != "" {
		embedder, err := embedding.NewGeminiClient(
			ctx,
			cfg.Embedding.APIKey,
			cfg.Embedding.Model,
			time.Duration(cfg.Embedding.TimeoutSeconds)*time.Second,
			logger,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedding client: %w", err)
		}
		c.embedder = embedder
		logger.Info("Embedding provider configured")
	} else {
		logger.Info("Embedding provider not configured, vector search disabled")
	}

	// Rules come from the hosted store when it is configured, from the YAML
	// file otherwise.
	var rules categorizer.RuleSource
	if c.supabase != nil {
		rules = c.supabase
	} else {
		rules = rulestore.NewRuleStore(cfg.Rules.File, logger)
	}

	opts := categorizer.Options{
		SearchLimit:       cfg.Search.Limit,
		MinSimilarity:     cfg.Search.MinSimilarity,
		VoteThreshold:     cfg.Categorization.VoteThreshold,
		RuleConfidence:    cfg.Categorization.RuleConfidence,
		DefaultConfidence: cfg.Categorization.DefaultConfidence,
		DefaultCategory:   cfg.Categorization.DefaultCategory,
	}
	c.categorizer = categorizer.NewCategorizer(c.embedder, txStore, rules, opts, logger)

	return c, nil
}

// Logger returns the application logger.
func (c *Container) Logger() logging.Logger {
	return c.logger
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Categorizer returns the categorization pipeline.
func (c *Container) Categorizer() *categorizer.Categorizer {
	return c.categorizer
}

// Analyzer returns the duplicate analyzer, or an error when no hosted store
// is configured.
func (c *Container) Analyzer() (*dedupe.Analyzer, error) {
	if c.analyzer == nil {
		return nil, fmt.Errorf("duplicate analysis requires a configured supabase store")
	}
	return c.analyzer, nil
}

// Cleanup returns the cleanup engine, or an error when no hosted store is
// configured.
func (c *Container) Cleanup() (*dedupe.Engine, error) {
	if c.cleanup == nil {
		return nil, fmt.Errorf("duplicate cleanup requires a configured supabase store")
	}
	return c.cleanup, nil
}
