package dedupe

import (
	"context"
	"testing"
	"time"

	"jmoreau/txintel/internal/logging"
	"jmoreau/txintel/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_RetainsOldestRecord(t *testing.T) {
	st := store.NewMemoryStore()
	st.Add(
		makeTransaction("tx-b", 2*time.Hour), // T3
		makeTransaction("tx-a", time.Hour),   // T2
		makeTransaction("tx-c", 0),           // T1, canonical
	)
	engine := NewEngine(st, &logging.MockLogger{})

	result, err := engine.Run(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 2, result.Deleted)
	assert.Equal(t, []string{"tx-c"}, result.RetainedIDs)
	assert.Zero(t, result.FailedGroups)
	assert.NotEmpty(t, result.RunID)

	_, survives := st.Transactions["tx-c"]
	assert.True(t, survives)
	assert.Len(t, st.Transactions, 1)
}

func TestEngine_TieBreaksBySmallestID(t *testing.T) {
	st := store.NewMemoryStore()
	st.Add(
		makeTransaction("tx-z", 0),
		makeTransaction("tx-a", 0), // same creation time, smaller id wins
	)
	engine := NewEngine(st, &logging.MockLogger{})

	result, err := engine.Run(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"tx-a"}, result.RetainedIDs)
	_, survives := st.Transactions["tx-a"]
	assert.True(t, survives)
}

func TestEngine_Idempotence(t *testing.T) {
	st := store.NewMemoryStore()
	st.Add(
		makeTransaction("tx-1", 0),
		makeTransaction("tx-2", time.Minute),
		makeTransaction("tx-3", 2*time.Minute),
	)
	engine := NewEngine(st, &logging.MockLogger{})

	first, err := engine.Run(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Deleted)

	// No duplicate group remains after a cleanup run.
	groups, err := NewAnalyzer(st, &logging.MockLogger{}).FindDuplicateGroups(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, groups)

	// A second run deletes nothing.
	second, err := engine.Run(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Zero(t, second.Deleted)
	assert.Empty(t, second.RetainedIDs)
}

func TestEngine_NoDuplicates(t *testing.T) {
	st := store.NewMemoryStore()
	st.Add(makeTransaction("tx-1", 0))
	engine := NewEngine(st, &logging.MockLogger{})

	result, err := engine.Run(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Zero(t, result.Deleted)
	assert.Empty(t, result.RetainedIDs)
}

func TestEngine_GroupFailureDoesNotStopOthers(t *testing.T) {
	st := store.NewMemoryStore()
	st.Add(
		makeTransaction("tx-1", 0),
		makeTransaction("tx-2", time.Minute),
	)
	st.DeleteErr = assert.AnError
	engine := NewEngine(st, &logging.MockLogger{})

	result, err := engine.Run(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Zero(t, result.Deleted)
	assert.Equal(t, 1, result.FailedGroups)
	// The canonical record is still reported for audit.
	assert.Equal(t, []string{"tx-1"}, result.RetainedIDs)
	// The failed group's members survive and will be re-detected.
	assert.Len(t, st.Transactions, 2)
}

func TestEngine_DeleteByIDIsIdempotent(t *testing.T) {
	st := store.NewMemoryStore()

	// Deleting an id that no longer exists is a no-op, not an error.
	err := st.DeleteTransaction(context.Background(), "gone")
	assert.NoError(t, err)
}
