package models

// DuplicateGroup is a set of transactions sharing one fingerprint. Derived,
// never persisted. MemberIDs are ordered oldest first so the first element is
// the canonical record cleanup retains.
type DuplicateGroup struct {
	Key          string       `json:"key" csv:"fingerprint"`
	UserID       string       `json:"user_id" csv:"user_id"`
	AccountID    string       `json:"account_id" csv:"account_id"`
	Date         string       `json:"date" csv:"date"`
	Amount       string       `json:"amount" csv:"amount"`
	Description  string       `json:"description" csv:"description"`
	ImportMethod ImportMethod `json:"import_method" csv:"import_method"`
	SourceFileID string       `json:"source_file_id,omitempty" csv:"source_file_id"`
	MemberIDs    []string     `json:"member_ids" csv:"-"`
	Count        int          `json:"count" csv:"count"`
}

// DuplicateSummary aggregates duplicate groups per import method.
type DuplicateSummary struct {
	ImportMethod ImportMethod `json:"import_method" csv:"import_method"`
	Groups       int          `json:"groups" csv:"groups"`
	Duplicates   int          `json:"duplicates" csv:"duplicates"`
}

// CleanupResult reports what one cleanup run deleted and kept. FailedGroups
// counts groups whose deletions failed; their members are re-detected on the
// next run.
type CleanupResult struct {
	RunID        string   `json:"run_id"`
	Deleted      int      `json:"deleted"`
	RetainedIDs  []string `json:"retained_ids"`
	FailedGroups int      `json:"failed_groups"`
}
