package models

import (
	"github.com/shopspring/decimal"
)

// RuleType discriminates the condition payload of a categorization rule.
type RuleType string

const (
	RuleTypeKeyword     RuleType = "keyword"
	RuleTypeMerchant    RuleType = "merchant"
	RuleTypeAmountRange RuleType = "amount_range"
)

// Rule is a user-defined categorization rule. Rules are evaluated strictly by
// descending priority; the first match wins.
type Rule struct {
	ID         string   `json:"id"`
	Active     bool     `json:"is_active"`
	Priority   int      `json:"priority"`
	Type       RuleType `json:"rule_type"`
	CategoryID string   `json:"category_id"`

	// Condition payload. Keywords applies to keyword rules, Merchants to
	// merchant rules, MinAmount/MaxAmount to amount_range rules. A nil
	// MinAmount means 0, a nil MaxAmount means unbounded.
	Keywords  []string         `json:"keywords,omitempty"`
	Merchants []string         `json:"merchants,omitempty"`
	MinAmount *decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount *decimal.Decimal `json:"max_amount,omitempty"`
}
