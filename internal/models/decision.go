package models

import "strings"

// CategorizationMethod identifies which pipeline stage produced a decision.
type CategorizationMethod string

const (
	MethodVectorSearch CategorizationMethod = "vector_search"
	MethodRules        CategorizationMethod = "rules"
	MethodDefault      CategorizationMethod = "default"
)

// SimilarTransaction is one nearest-neighbor match supporting a vector-search
// decision.
type SimilarTransaction struct {
	ID           string  `json:"id"`
	Description  string  `json:"description"`
	CategoryID   string  `json:"category_id,omitempty"`
	CategoryName string  `json:"category_name,omitempty"`
	Similarity   float64 `json:"similarity"`
}

// CategoryDecision is the outcome of one categorization call. CategoryID is
// empty when not even the default category could be resolved. The decision is
// returned to the caller, not persisted by this core.
type CategoryDecision struct {
	CategoryID string               `json:"category_id,omitempty"`
	Confidence float64              `json:"confidence"`
	Method     CategorizationMethod `json:"method"`

	// Similar holds up to MaxSupportingMatches neighbors, sorted by
	// similarity descending. Only populated for vector_search decisions.
	Similar []SimilarTransaction `json:"similar_transactions,omitempty"`
}

// MaxSupportingMatches caps the number of neighbors attached to a decision.
const MaxSupportingMatches = 5

// BuildQueryText joins a merchant name and a description into the text fed to
// the embedding provider and the rule matcher.
func BuildQueryText(merchant, description string) string {
	return strings.TrimSpace(strings.TrimSpace(merchant) + " " + description)
}
