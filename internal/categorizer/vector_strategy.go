package categorizer

import (
	"context"
	"sort"

	"jmoreau/txintel/internal/embedding"
	"jmoreau/txintel/internal/logging"
	"jmoreau/txintel/internal/models"
	"jmoreau/txintel/internal/store"
)

// VectorStrategy categorizes a transaction from the categories of its nearest
// neighbors in embedding space. Provider and search failures degrade to the
// next stage instead of aborting the call; the embedding persist step is
// best-effort.
type VectorStrategy struct {
	embedder      embedding.Client
	store         store.TransactionStore
	log           logging.Logger
	limit         int
	minSimilarity float64
	voteThreshold float64
}

// NewVectorStrategy creates a VectorStrategy.
func NewVectorStrategy(embedder embedding.Client, st store.TransactionStore, logger logging.Logger, limit int, minSimilarity, voteThreshold float64) *VectorStrategy {
	return &VectorStrategy{
		embedder:      embedder,
		store:         st,
		log:           logger,
		limit:         limit,
		minSimilarity: minSimilarity,
		voteThreshold: voteThreshold,
	}
}

// Name returns the name of this strategy for logging.
func (s *VectorStrategy) Name() string {
	return "VectorSearch"
}

// categoryVote accumulates per-category evidence from the neighbor set.
type categoryVote struct {
	count           int
	totalSimilarity float64
}

// weightedScore double-rewards both frequency and strength of match: a
// category that is common among neighbors and strongly similar outscores one
// extremely close but isolated match.
func (v categoryVote) weightedScore() float64 {
	return float64(v.count) * v.totalSimilarity
}

// Categorize embeds the query text, searches for neighbors and runs the
// weighted majority vote.
func (s *VectorStrategy) Categorize(ctx context.Context, req Request) (models.CategoryDecision, bool, error) {
	if s.embedder == nil || s.store == nil {
		return models.CategoryDecision{}, false, nil
	}

	queryText := req.QueryText()

	vector, err := s.embedder.Embed(ctx, queryText)
	if err != nil {
		s.log.WithError(err).WithField("transaction_id", req.TransactionID).
			Warn("Embedding unavailable, degrading to rule matching")
		return models.CategoryDecision{}, false, nil
	}

	// Persist the embedding onto the transaction row. Best-effort: a failure
	// here must not cost us the decision.
	if err := s.store.SaveEmbedding(ctx, req.TransactionID, vector); err != nil {
		s.log.WithError(err).WithField("transaction_id", req.TransactionID).
			Warn("Failed to persist embedding")
	}

	neighbors, err := s.store.SearchSimilar(ctx, req.UserID, vector, s.limit, s.minSimilarity)
	if err != nil {
		s.log.WithError(err).WithField("transaction_id", req.TransactionID).
			Warn("Vector search unavailable, degrading to rule matching")
		return models.CategoryDecision{}, false, nil
	}
	if len(neighbors) == 0 {
		return models.CategoryDecision{}, false, nil
	}

	votes := make(map[string]categoryVote)
	for _, n := range neighbors {
		if n.CategoryID == "" {
			continue
		}
		v := votes[n.CategoryID]
		v.count++
		v.totalSimilarity += n.Similarity
		votes[n.CategoryID] = v
	}

	var bestCategory string
	var bestScore float64
	for categoryID, vote := range votes {
		score := vote.weightedScore()
		// Ties break toward the smaller id so the winner never depends on
		// map iteration order.
		if score > bestScore || (score == bestScore && bestCategory != "" && categoryID < bestCategory) {
			bestScore = score
			bestCategory = categoryID
		}
	}

	if bestCategory == "" || bestScore <= s.voteThreshold {
		s.log.WithFields(
			logging.Field{Key: "transaction_id", Value: req.TransactionID},
			logging.Field{Key: "score", Value: bestScore},
			logging.Field{Key: "neighbors", Value: len(neighbors)},
		).Debug("Weighted vote below threshold, degrading to rule matching")
		return models.CategoryDecision{}, false, nil
	}

	confidence := bestScore / float64(len(neighbors))
	if confidence > 1.0 {
		confidence = 1.0
	}

	decision := models.CategoryDecision{
		CategoryID: bestCategory,
		Confidence: confidence,
		Method:     models.MethodVectorSearch,
		Similar:    topMatches(neighbors, models.MaxSupportingMatches),
	}

	s.log.WithFields(
		logging.Field{Key: "transaction_id", Value: req.TransactionID},
		logging.Field{Key: "category_id", Value: bestCategory},
		logging.Field{Key: "confidence", Value: confidence},
	).Debug("Transaction categorized by vector search")

	return decision, true, nil
}

// topMatches returns up to n neighbors sorted by similarity descending.
func topMatches(neighbors []models.SimilarTransaction, n int) []models.SimilarTransaction {
	sorted := make([]models.SimilarTransaction, len(neighbors))
	copy(sorted, neighbors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Similarity > sorted[j].Similarity
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
