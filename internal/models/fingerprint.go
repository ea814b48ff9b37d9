package models

import "strings"

// fingerprint field separator and the sentinel used when a transaction has no
// source file. The sentinel keeps "no file" distinct from any real file id.
const (
	fingerprintSep = "|"
	noSourceFile   = "-"
)

// Fingerprint is the grouping key derived from a transaction's immutable
// identity fields. Two transactions with equal fingerprints represent the
// same real-world event regardless of category, embedding or creation time.
type Fingerprint struct {
	UserID       string
	AccountID    string
	Date         string
	Amount       string
	Description  string
	ImportMethod ImportMethod
	SourceFileID string
}

// FingerprintOf derives the duplicate fingerprint of a transaction. The
// amount is canonicalized through decimal so "5.75" and "5.750" collide.
func FingerprintOf(t Transaction) Fingerprint {
	return Fingerprint{
		UserID:       t.UserID,
		AccountID:    t.AccountID,
		Date:         t.Date,
		Amount:       t.Amount.String(),
		Description:  t.Description,
		ImportMethod: t.ImportMethod,
		SourceFileID: t.SourceFileID,
	}
}

// Key returns the canonical string form of the fingerprint, used as map key
// and as the deterministic tie-break when sorting duplicate groups.
func (f Fingerprint) Key() string {
	sourceFile := f.SourceFileID
	if sourceFile == "" {
		sourceFile = noSourceFile
	}
	return strings.Join([]string{
		f.UserID,
		f.AccountID,
		f.Date,
		f.Amount,
		f.Description,
		string(f.ImportMethod),
		sourceFile,
	}, fingerprintSep)
}
