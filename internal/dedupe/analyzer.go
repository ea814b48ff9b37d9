// Package dedupe implements duplicate-transaction detection and cleanup.
// Transactions inserted twice by different import paths are structurally
// distinct rows describing the same real-world event; they are grouped by a
// fingerprint over their immutable identity fields and reduced to a single
// canonical record.
package dedupe

import (
	"context"
	"sort"

	"jmoreau/txintel/internal/logging"
	"jmoreau/txintel/internal/models"
	"jmoreau/txintel/internal/store"
)

// Analyzer groups a user's transactions by fingerprint and reports the groups
// with more than one member.
type Analyzer struct {
	store store.DuplicateStore
	log   logging.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(st store.DuplicateStore, logger logging.Logger) *Analyzer {
	return &Analyzer{
		store: st,
		log:   logger,
	}
}

type groupAccumulator struct {
	fingerprint models.Fingerprint
	members     []models.Transaction
}

// FindDuplicateGroups scans all of the user's transactions once and returns
// every fingerprint shared by more than one record. Groups are sorted by
// descending member count, ties broken by fingerprint key, and member ids are
// ordered oldest first. The result does not depend on scan order.
func (a *Analyzer) FindDuplicateGroups(ctx context.Context, userID string) ([]models.DuplicateGroup, error) {
	transactions, err := a.store.ScanTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	accumulators := make(map[string]*groupAccumulator)
	for _, t := range transactions {
		fp := models.FingerprintOf(t)
		key := fp.Key()
		acc, ok := accumulators[key]
		if !ok {
			acc = &groupAccumulator{fingerprint: fp}
			accumulators[key] = acc
		}
		acc.members = append(acc.members, t)
	}

	var groups []models.DuplicateGroup
	for key, acc := range accumulators {
		if len(acc.members) < 2 {
			continue
		}

		sortByAge(acc.members)
		memberIDs := make([]string, len(acc.members))
		for i, member := range acc.members {
			memberIDs[i] = member.ID
		}

		fp := acc.fingerprint
		groups = append(groups, models.DuplicateGroup{
			Key:          key,
			UserID:       fp.UserID,
			AccountID:    fp.AccountID,
			Date:         fp.Date,
			Amount:       fp.Amount,
			Description:  fp.Description,
			ImportMethod: fp.ImportMethod,
			SourceFileID: fp.SourceFileID,
			MemberIDs:    memberIDs,
			Count:        len(memberIDs),
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})

	a.log.WithFields(
		logging.Field{Key: "scanned", Value: len(transactions)},
		logging.Field{Key: "groups", Value: len(groups)},
	).Debug("Duplicate scan complete")

	return groups, nil
}

// Summarize aggregates duplicate groups per import method. This is an
// aggregate over the primary grouping, not a second scan.
func (a *Analyzer) Summarize(groups []models.DuplicateGroup) []models.DuplicateSummary {
	byMethod := make(map[models.ImportMethod]*models.DuplicateSummary)
	for _, group := range groups {
		summary, ok := byMethod[group.ImportMethod]
		if !ok {
			summary = &models.DuplicateSummary{ImportMethod: group.ImportMethod}
			byMethod[group.ImportMethod] = summary
		}
		summary.Groups++
		summary.Duplicates += group.Count
	}

	summaries := make([]models.DuplicateSummary, 0, len(byMethod))
	for _, summary := range byMethod {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ImportMethod < summaries[j].ImportMethod
	})
	return summaries
}

// GroupDetail fetches the full records of one fingerprint's group, oldest
// first. The ordering is load-bearing: the first record is the one cleanup
// retains.
func (a *Analyzer) GroupDetail(ctx context.Context, fp models.Fingerprint) ([]models.Transaction, error) {
	members, err := a.store.TransactionsByFingerprint(ctx, fp)
	if err != nil {
		return nil, err
	}
	sortByAge(members)
	return members, nil
}

// sortByAge orders transactions by creation time ascending, ties broken by
// the lexicographically smallest id. Cleanup retention depends on this order
// being deterministic.
func sortByAge(transactions []models.Transaction) {
	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].CreatedAt.Equal(transactions[j].CreatedAt) {
			return transactions[i].CreatedAt.Before(transactions[j].CreatedAt)
		}
		return transactions[i].ID < transactions[j].ID
	})
}
