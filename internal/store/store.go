// Package store defines the persistence surface this core consumes and its
// Supabase implementation. The schema itself is owned by the hosted platform;
// only the query surface (filtered scans, point updates, idempotent deletes
// and the vector-search RPC) is modeled here.
package store

import (
	"context"

	"jmoreau/txintel/internal/models"
)

// TransactionStore is the store surface consumed by the categorization
// pipeline.
type TransactionStore interface {
	// SearchSimilar returns up to limit previously-categorized transactions
	// whose embedding similarity to the query vector is at least
	// minSimilarity, most similar first.
	SearchSimilar(ctx context.Context, userID string, embedding []float32, limit int, minSimilarity float64) ([]models.SimilarTransaction, error)

	// SaveEmbedding persists the embedding vector onto a transaction row.
	SaveEmbedding(ctx context.Context, transactionID string, embedding []float32) error

	// AssignCategory sets the category of a transaction.
	AssignCategory(ctx context.Context, transactionID, categoryID string) error

	// CategoryByName looks a category up by exact, case-sensitive name.
	// Returns (nil, nil) when no such category exists.
	CategoryByName(ctx context.Context, userID, name string) (*models.Category, error)

	// ActiveRules returns the user's active categorization rules ordered by
	// descending priority.
	ActiveRules(ctx context.Context, userID string) ([]models.Rule, error)
}

// DuplicateStore is the store surface consumed by the duplicate analyzer and
// the cleanup engine.
type DuplicateStore interface {
	// ScanTransactions returns all of a user's transactions ordered by
	// account, date and creation time. The ordering makes grouping
	// deterministic; it is not semantically required.
	ScanTransactions(ctx context.Context, userID string) ([]models.Transaction, error)

	// TransactionsByFingerprint returns the full records of one duplicate
	// group, ordered by creation time ascending. This ordering determines
	// which record cleanup treats as canonical.
	TransactionsByFingerprint(ctx context.Context, fp models.Fingerprint) ([]models.Transaction, error)

	// DeleteTransaction removes a transaction by id. Deleting an id that no
	// longer exists is a no-op, so overlapping cleanup runs cannot fail on
	// each other's deletions.
	DeleteTransaction(ctx context.Context, transactionID string) error
}
