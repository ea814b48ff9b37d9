// Package models defines the domain types shared by the categorization
// pipeline and the duplicate detection engine.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportMethod identifies the path a transaction entered the system through.
// Transactions imported twice by different paths are the main source of
// duplicates.
type ImportMethod string

const (
	ImportMethodAggregator ImportMethod = "aggregator"
	ImportMethodFileImport ImportMethod = "file-import"
	ImportMethodManual     ImportMethod = "manual"
)

// Transaction represents a financial transaction as stored in the hosted
// store. The identity fields (UserID, AccountID, Date, Amount, Description,
// ImportMethod, SourceFileID) define its duplicate fingerprint; CategoryID
// and Embedding are the only fields this core mutates.
type Transaction struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	AccountID    string          `json:"account_id"`
	Date         string          `json:"date"` // YYYY-MM-DD
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Merchant     string          `json:"merchant,omitempty"`
	ImportMethod ImportMethod    `json:"import_method"`
	SourceFileID string          `json:"source_file_id,omitempty"`
	CategoryID   string          `json:"category_id,omitempty"`
	Embedding    []float32       `json:"embedding,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// QueryText builds the text used for embedding and rule matching:
// trimmed merchant name followed by the description.
func (t Transaction) QueryText() string {
	return BuildQueryText(t.Merchant, t.Description)
}
