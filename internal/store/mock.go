package store

import (
	"context"
	"sort"
	"sync"

	"jmoreau/txintel/internal/models"
)

// MemoryStore is an in-memory implementation of TransactionStore and
// DuplicateStore for tests. Canned neighbor results and per-operation errors
// can be injected through the public fields.
type MemoryStore struct {
	mu sync.RWMutex

	Transactions map[string]models.Transaction
	Categories   []models.Category
	Rules        []models.Rule

	// Similar is returned verbatim by SearchSimilar.
	Similar []models.SimilarTransaction

	SearchErr    error
	EmbeddingErr error
	AssignErr    error
	CategoryErr  error
	RulesErr     error
	ScanErr      error
	DeleteErr    error

	// DeleteCalls records every id passed to DeleteTransaction, including
	// ids that no longer existed.
	DeleteCalls []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Transactions: make(map[string]models.Transaction),
	}
}

// Add inserts transactions into the store.
func (m *MemoryStore) Add(transactions ...models.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range transactions {
		m.Transactions[t.ID] = t
	}
}

// SearchSimilar returns the canned neighbor set.
func (m *MemoryStore) SearchSimilar(ctx context.Context, userID string, embedding []float32, limit int, minSimilarity float64) ([]models.SimilarTransaction, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.Similar) > limit {
		return m.Similar[:limit], nil
	}
	return m.Similar, nil
}

// SaveEmbedding persists the embedding onto the stored transaction.
func (m *MemoryStore) SaveEmbedding(ctx context.Context, transactionID string, embedding []float32) error {
	if m.EmbeddingErr != nil {
		return m.EmbeddingErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.Transactions[transactionID]; ok {
		t.Embedding = embedding
		m.Transactions[transactionID] = t
	}
	return nil
}

// AssignCategory sets the category of the stored transaction.
func (m *MemoryStore) AssignCategory(ctx context.Context, transactionID, categoryID string) error {
	if m.AssignErr != nil {
		return m.AssignErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.Transactions[transactionID]; ok {
		t.CategoryID = categoryID
		m.Transactions[transactionID] = t
	}
	return nil
}

// CategoryByName looks a category up by exact name.
func (m *MemoryStore) CategoryByName(ctx context.Context, userID, name string) (*models.Category, error) {
	if m.CategoryErr != nil {
		return nil, m.CategoryErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.Categories {
		if c.Name == name && c.Active {
			category := c
			return &category, nil
		}
	}
	return nil, nil
}

// ActiveRules returns the active rules ordered by descending priority.
func (m *MemoryStore) ActiveRules(ctx context.Context, userID string) ([]models.Rule, error) {
	if m.RulesErr != nil {
		return nil, m.RulesErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rules := make([]models.Rule, 0, len(m.Rules))
	for _, r := range m.Rules {
		if r.Active {
			rules = append(rules, r)
		}
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}

// ScanTransactions returns the user's transactions ordered by account, date
// and creation time.
func (m *MemoryStore) ScanTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	if m.ScanErr != nil {
		return nil, m.ScanErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	transactions := make([]models.Transaction, 0, len(m.Transactions))
	for _, t := range m.Transactions {
		if t.UserID == userID {
			transactions = append(transactions, t)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		a, b := transactions[i], transactions[j]
		if a.AccountID != b.AccountID {
			return a.AccountID < b.AccountID
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return transactions, nil
}

// TransactionsByFingerprint returns one group's records, oldest first.
func (m *MemoryStore) TransactionsByFingerprint(ctx context.Context, fp models.Fingerprint) ([]models.Transaction, error) {
	if m.ScanErr != nil {
		return nil, m.ScanErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var members []models.Transaction
	for _, t := range m.Transactions {
		if models.FingerprintOf(t).Key() == fp.Key() {
			members = append(members, t)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		if !members[i].CreatedAt.Equal(members[j].CreatedAt) {
			return members[i].CreatedAt.Before(members[j].CreatedAt)
		}
		return members[i].ID < members[j].ID
	})
	return members, nil
}

// DeleteTransaction removes a transaction; missing ids are a no-op.
func (m *MemoryStore) DeleteTransaction(ctx context.Context, transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, transactionID)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Transactions, transactionID)
	return nil
}
