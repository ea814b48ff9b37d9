package dedupe

import (
	"context"
	"testing"
	"time"

	"jmoreau/txintel/internal/logging"
	"jmoreau/txintel/internal/models"
	"jmoreau/txintel/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func makeTransaction(id string, createdOffset time.Duration) models.Transaction {
	return models.Transaction{
		ID:           id,
		UserID:       "user-1",
		AccountID:    "acct-1",
		Date:         "2026-01-15",
		Amount:       decimal.RequireFromString("-5.75"),
		Description:  "coffee purchase",
		ImportMethod: models.ImportMethodAggregator,
		CreatedAt:    baseTime.Add(createdOffset),
	}
}

func TestAnalyzer_FindDuplicateGroups(t *testing.T) {
	st := store.NewMemoryStore()
	st.Add(
		makeTransaction("tx-1", 0),
		makeTransaction("tx-2", time.Minute), // duplicate of tx-1
		models.Transaction{
			ID: "tx-3", UserID: "user-1", AccountID: "acct-1",
			Date: "2026-01-16", Amount: decimal.RequireFromString("-12.00"),
			Description: "lunch", ImportMethod: models.ImportMethodFileImport,
			CreatedAt: baseTime,
		},
	)
	analyzer := NewAnalyzer(st, &logging.MockLogger{})

	groups, err := analyzer.FindDuplicateGroups(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, []string{"tx-1", "tx-2"}, groups[0].MemberIDs)
	assert.Equal(t, models.ImportMethodAggregator, groups[0].ImportMethod)
}

func TestAnalyzer_NoDuplicates(t *testing.T) {
	st := store.NewMemoryStore()
	st.Add(makeTransaction("tx-1", 0))
	analyzer := NewAnalyzer(st, &logging.MockLogger{})

	groups, err := analyzer.FindDuplicateGroups(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestAnalyzer_ScanOrderIndependence(t *testing.T) {
	// The same transactions inserted in permuted orders yield the same
	// groups in the same order.
	transactions := []models.Transaction{
		makeTransaction("tx-1", 0),
		makeTransaction("tx-2", time.Minute),
		makeTransaction("tx-3", 2*time.Minute),
	}
	other := models.Transaction{
		ID: "tx-4", UserID: "user-1", AccountID: "acct-2",
		Date: "2026-01-15", Amount: decimal.RequireFromString("-5.75"),
		Description: "coffee purchase", ImportMethod: models.ImportMethodAggregator,
		CreatedAt: baseTime,
	}
	dup := other
	dup.ID = "tx-5"
	dup.CreatedAt = baseTime.Add(time.Hour)

	forward := store.NewMemoryStore()
	forward.Add(transactions...)
	forward.Add(other, dup)

	reversed := store.NewMemoryStore()
	reversed.Add(dup, other)
	reversed.Add(transactions[2], transactions[1], transactions[0])

	a := NewAnalyzer(forward, &logging.MockLogger{})
	b := NewAnalyzer(reversed, &logging.MockLogger{})

	groupsA, err := a.FindDuplicateGroups(context.Background(), "user-1")
	require.NoError(t, err)
	groupsB, err := b.FindDuplicateGroups(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, groupsA, groupsB)
	require.Len(t, groupsA, 2)
	// Larger group first, ties by fingerprint key.
	assert.Equal(t, 3, groupsA[0].Count)
	assert.Equal(t, 2, groupsA[1].Count)
}

func TestAnalyzer_Summarize(t *testing.T) {
	analyzer := NewAnalyzer(store.NewMemoryStore(), &logging.MockLogger{})
	groups := []models.DuplicateGroup{
		{ImportMethod: models.ImportMethodAggregator, Count: 3},
		{ImportMethod: models.ImportMethodAggregator, Count: 2},
		{ImportMethod: models.ImportMethodFileImport, Count: 2},
	}

	summaries := analyzer.Summarize(groups)

	require.Len(t, summaries, 2)
	assert.Equal(t, models.ImportMethodAggregator, summaries[0].ImportMethod)
	assert.Equal(t, 2, summaries[0].Groups)
	assert.Equal(t, 5, summaries[0].Duplicates)
	assert.Equal(t, models.ImportMethodFileImport, summaries[1].ImportMethod)
	assert.Equal(t, 1, summaries[1].Groups)
	assert.Equal(t, 2, summaries[1].Duplicates)
}

func TestAnalyzer_GroupDetail(t *testing.T) {
	st := store.NewMemoryStore()
	newest := makeTransaction("tx-1", time.Hour)
	oldest := makeTransaction("tx-2", 0)
	st.Add(newest, oldest)
	analyzer := NewAnalyzer(st, &logging.MockLogger{})

	members, err := analyzer.GroupDetail(context.Background(), models.FingerprintOf(oldest))

	require.NoError(t, err)
	require.Len(t, members, 2)
	// Oldest first: this ordering decides the canonical record.
	assert.Equal(t, "tx-2", members[0].ID)
	assert.Equal(t, "tx-1", members[1].ID)
}

func TestAnalyzer_ScanFailurePropagates(t *testing.T) {
	st := store.NewMemoryStore()
	st.ScanErr = assert.AnError
	analyzer := NewAnalyzer(st, &logging.MockLogger{})

	_, err := analyzer.FindDuplicateGroups(context.Background(), "user-1")

	assert.Error(t, err)
}
