package store

import (
	"context"
	"encoding/json"
	"fmt"

	"jmoreau/txintel/internal/logging"
	"jmoreau/txintel/internal/models"
	"jmoreau/txintel/internal/txerror"

	"github.com/shopspring/decimal"
	"github.com/supabase-community/supabase-go"
)

const (
	transactionsTable = "transactions"
	categoriesTable   = "categories"
	rulesTable        = "categorization_rules"

	matchTransactionsRPC = "match_transactions"
)

// SupabaseStore implements TransactionStore and DuplicateStore against the
// hosted Supabase platform via its PostgREST query surface. Vector search
// goes through the match_transactions RPC (pgvector on the platform side).
type SupabaseStore struct {
	client *supabase.Client
	log    logging.Logger
}

// NewSupabaseStore creates a store bound to the given project URL and key.
func NewSupabaseStore(url, key string, logger logging.Logger) (*SupabaseStore, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &SupabaseStore{
		client: client,
		log:    logger,
	}, nil
}

// matchRow is the row shape returned by the match_transactions RPC.
type matchRow struct {
	ID           string  `json:"id"`
	Description  string  `json:"description"`
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Similarity   float64 `json:"similarity"`
}

// SearchSimilar asks the store for the nearest categorized transactions above
// the similarity floor.
func (s *SupabaseStore) SearchSimilar(ctx context.Context, userID string, embedding []float32, limit int, minSimilarity float64) ([]models.SimilarTransaction, error) {
	params := map[string]interface{}{
		"p_user_id":       userID,
		"query_embedding": embedding,
		"match_count":     limit,
		"min_similarity":  minSimilarity,
	}

	raw := s.client.Rpc(matchTransactionsRPC, "", params)
	if raw == "" {
		return nil, &txerror.StoreUnavailableError{
			Op:  "vector search",
			Err: fmt.Errorf("rpc %s returned no data", matchTransactionsRPC),
		}
	}

	var rows []matchRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, &txerror.StoreUnavailableError{Op: "vector search", Err: err}
	}

	similar := make([]models.SimilarTransaction, 0, len(rows))
	for _, row := range rows {
		similar = append(similar, models.SimilarTransaction{
			ID:           row.ID,
			Description:  row.Description,
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			Similarity:   row.Similarity,
		})
	}
	return similar, nil
}

// SaveEmbedding persists the embedding vector onto a transaction row.
func (s *SupabaseStore) SaveEmbedding(ctx context.Context, transactionID string, embedding []float32) error {
	_, _, err := s.client.From(transactionsTable).
		Update(map[string]interface{}{"embedding": embedding}, "", "").
		Eq("id", transactionID).
		Execute()
	if err != nil {
		return &txerror.StoreUnavailableError{Op: "save embedding", Err: err}
	}
	return nil
}

// AssignCategory sets the category of a transaction.
func (s *SupabaseStore) AssignCategory(ctx context.Context, transactionID, categoryID string) error {
	_, _, err := s.client.From(transactionsTable).
		Update(map[string]interface{}{"category_id": categoryID}, "", "").
		Eq("id", transactionID).
		Execute()
	if err != nil {
		return &txerror.StoreUnavailableError{Op: "assign category", Err: err}
	}
	return nil
}

// CategoryByName looks a category up by exact, case-sensitive name.
func (s *SupabaseStore) CategoryByName(ctx context.Context, userID, name string) (*models.Category, error) {
	data, _, err := s.client.From(categoriesTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("name", name).
		Eq("is_active", "true").
		Execute()
	if err != nil {
		return nil, &txerror.StoreUnavailableError{Op: "category lookup", Err: err}
	}

	var categories []models.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, &txerror.StoreUnavailableError{Op: "category lookup", Err: err}
	}
	if len(categories) == 0 {
		return nil, nil
	}
	return &categories[0], nil
}

// ruleRow is the wire shape of a categorization rule; the type-specific
// condition payload lives in a JSONB column.
type ruleRow struct {
	ID         string          `json:"id"`
	Active     bool            `json:"is_active"`
	Priority   int             `json:"priority"`
	Type       models.RuleType `json:"rule_type"`
	CategoryID string          `json:"category_id"`
	Conditions json.RawMessage `json:"conditions"`
}

type ruleConditions struct {
	Keywords  []string         `json:"keywords,omitempty"`
	Merchants []string         `json:"merchants,omitempty"`
	MinAmount *decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount *decimal.Decimal `json:"max_amount,omitempty"`
}

// ActiveRules returns the user's active rules ordered by descending priority.
func (s *SupabaseStore) ActiveRules(ctx context.Context, userID string) ([]models.Rule, error) {
	data, _, err := s.client.From(rulesTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("is_active", "true").
		Order("priority.desc", nil).
		Execute()
	if err != nil {
		return nil, &txerror.StoreUnavailableError{Op: "rule fetch", Err: err}
	}

	var rows []ruleRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &txerror.StoreUnavailableError{Op: "rule fetch", Err: err}
	}

	rules := make([]models.Rule, 0, len(rows))
	for _, row := range rows {
		rule := models.Rule{
			ID:         row.ID,
			Active:     row.Active,
			Priority:   row.Priority,
			Type:       row.Type,
			CategoryID: row.CategoryID,
		}
		if len(row.Conditions) > 0 {
			var cond ruleConditions
			if err := json.Unmarshal(row.Conditions, &cond); err != nil {
				s.log.WithError(err).WithField("rule_id", row.ID).Warn("Skipping rule with malformed conditions")
				continue
			}
			rule.Keywords = cond.Keywords
			rule.Merchants = cond.Merchants
			rule.MinAmount = cond.MinAmount
			rule.MaxAmount = cond.MaxAmount
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// ScanTransactions returns all of a user's transactions ordered by account,
// date and creation time.
func (s *SupabaseStore) ScanTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	data, _, err := s.client.From(transactionsTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("account_id.asc", nil).
		Order("date.asc", nil).
		Order("created_at.asc", nil).
		Execute()
	if err != nil {
		return nil, &txerror.StoreUnavailableError{Op: "transaction scan", Err: err}
	}

	var transactions []models.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, &txerror.StoreUnavailableError{Op: "transaction scan", Err: err}
	}
	return transactions, nil
}

// TransactionsByFingerprint returns one duplicate group's full records,
// oldest first. SourceFileID is filtered client-side so an empty value means
// "no file" rather than a null-comparison on the wire.
func (s *SupabaseStore) TransactionsByFingerprint(ctx context.Context, fp models.Fingerprint) ([]models.Transaction, error) {
	data, _, err := s.client.From(transactionsTable).
		Select("*", "", false).
		Eq("user_id", fp.UserID).
		Eq("account_id", fp.AccountID).
		Eq("date", fp.Date).
		Eq("amount", fp.Amount).
		Eq("description", fp.Description).
		Eq("import_method", string(fp.ImportMethod)).
		Order("created_at.asc", nil).
		Execute()
	if err != nil {
		return nil, &txerror.StoreUnavailableError{Op: "group lookup", Err: err}
	}

	var transactions []models.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, &txerror.StoreUnavailableError{Op: "group lookup", Err: err}
	}

	members := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.SourceFileID == fp.SourceFileID {
			members = append(members, t)
		}
	}
	return members, nil
}

// DeleteTransaction removes a transaction by id. PostgREST treats a delete
// with no matching row as an empty result, so the operation is idempotent.
func (s *SupabaseStore) DeleteTransaction(ctx context.Context, transactionID string) error {
	_, _, err := s.client.From(transactionsTable).
		Delete("", "").
		Eq("id", transactionID).
		Execute()
	if err != nil {
		return &txerror.StoreUnavailableError{Op: "delete", Err: err}
	}
	return nil
}
