package categorizer

import (
	"context"
	"fmt"
	"testing"

	"jmoreau/txintel/internal/embedding"
	"jmoreau/txintel/internal/logging"
	"jmoreau/txintel/internal/models"
	"jmoreau/txintel/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorStrategy_Name(t *testing.T) {
	strategy := &VectorStrategy{}
	assert.Equal(t, "VectorSearch", strategy.Name())
}

func TestVectorStrategy_WeightedScore(t *testing.T) {
	tests := []struct {
		name     string
		vote     categoryVote
		expected float64
	}{
		{"single neighbor", categoryVote{count: 1, totalSimilarity: 0.9}, 0.9},
		{"frequency amplifies", categoryVote{count: 3, totalSimilarity: 2.4}, 7.2},
		{"zero", categoryVote{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.vote.weightedScore(), 0.0001)
		})
	}
}

func TestVectorStrategy_NoNeighbors(t *testing.T) {
	st := store.NewMemoryStore()
	strategy := NewVectorStrategy(&embedding.MockClient{}, st, &logging.MockLogger{}, 10, 0.70, 0.5)

	_, found, err := strategy.Categorize(context.Background(), testRequest())

	require.NoError(t, err)
	assert.False(t, found)
}

func TestVectorStrategy_ThresholdGate(t *testing.T) {
	// One neighbor at exactly 0.5 weighted score must not win: the gate is
	// strictly greater-than.
	st := store.NewMemoryStore()
	st.Similar = []models.SimilarTransaction{
		{ID: "n1", CategoryID: "cat-a", Similarity: 0.5},
	}
	strategy := NewVectorStrategy(&embedding.MockClient{}, st, &logging.MockLogger{}, 10, 0.0, 0.5)

	_, found, err := strategy.Categorize(context.Background(), testRequest())

	require.NoError(t, err)
	assert.False(t, found)
}

func TestVectorStrategy_TieBreaksBySmallerCategoryID(t *testing.T) {
	st := store.NewMemoryStore()
	st.Similar = []models.SimilarTransaction{
		{ID: "n1", CategoryID: "cat-b", Similarity: 0.8},
		{ID: "n2", CategoryID: "cat-a", Similarity: 0.8},
	}
	strategy := NewVectorStrategy(&embedding.MockClient{}, st, &logging.MockLogger{}, 10, 0.70, 0.5)

	// Repeated runs must not flip the winner with map iteration order.
	for i := 0; i < 20; i++ {
		decision, found, err := strategy.Categorize(context.Background(), testRequest())
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "cat-a", decision.CategoryID)
	}
}

func TestTopMatches(t *testing.T) {
	neighbors := make([]models.SimilarTransaction, 8)
	for i := range neighbors {
		neighbors[i] = models.SimilarTransaction{
			ID:         fmt.Sprintf("n%d", i),
			Similarity: 0.70 + float64(i)*0.01,
		}
	}

	top := topMatches(neighbors, models.MaxSupportingMatches)

	require.Len(t, top, 5)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Similarity, top[i].Similarity)
	}
	// The input slice is left untouched.
	assert.Equal(t, "n0", neighbors[0].ID)
}
