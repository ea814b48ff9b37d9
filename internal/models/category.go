package models

// Category is a user-visible transaction category. Categories form a tree via
// ParentID; this core looks categories up but never traverses the tree.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
	Active   bool   `json:"is_active"`
}

// DefaultCategoryName is the name of the catch-all category assigned when
// neither vector search nor rules produce a match. Lookup is exact and
// case-sensitive; the name is overridable through configuration.
const DefaultCategoryName = "Other"
