package categorizer

import (
	"strings"

	"jmoreau/txintel/internal/models"

	"github.com/shopspring/decimal"
)

// RuleMatches reports whether a rule's predicate matches the given query text
// and amount. It is a pure function with no side effects or I/O.
//
// Keyword and merchant rules match case-insensitively on substrings of the
// query text. Amount-range rules match when min <= |amount| <= max, where min
// defaults to zero and max to unbounded. An unknown rule type never matches.
func RuleMatches(queryText string, amount decimal.Decimal, rule models.Rule) bool {
	text := strings.ToLower(queryText)

	switch rule.Type {
	case models.RuleTypeKeyword:
		return containsAny(text, rule.Keywords)

	case models.RuleTypeMerchant:
		return containsAny(text, rule.Merchants)

	case models.RuleTypeAmountRange:
		abs := amount.Abs()
		min := decimal.Zero
		if rule.MinAmount != nil {
			min = *rule.MinAmount
		}
		if abs.LessThan(min) {
			return false
		}
		if rule.MaxAmount != nil && abs.GreaterThan(*rule.MaxAmount) {
			return false
		}
		return true

	default:
		return false
	}
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		needle = strings.ToLower(strings.TrimSpace(needle))
		if needle != "" && strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
