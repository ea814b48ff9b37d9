package rulestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"jmoreau/txintel/internal/logging"
	"jmoreau/txintel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rulesYAML = `rules:
  - id: rule-misc
    active: true
    priority: 1
    type: amount_range
    min_amount: "0"
    max_amount: "100"
    category_id: cat-misc
  - id: rule-transport
    active: true
    priority: 10
    type: keyword
    keywords: [uber, lyft]
    category_id: cat-transport
  - id: rule-disabled
    active: false
    priority: 99
    type: keyword
    keywords: [netflix]
    category_id: cat-subscriptions
`

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRuleStore_ActiveRules(t *testing.T) {
	path := writeRulesFile(t, rulesYAML)
	rs := NewRuleStore(path, &logging.MockLogger{})

	rules, err := rs.ActiveRules(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, rules, 2)
	// Ordered by descending priority, inactive rules filtered out.
	assert.Equal(t, "rule-transport", rules[0].ID)
	assert.Equal(t, "rule-misc", rules[1].ID)
	assert.Equal(t, models.RuleTypeKeyword, rules[0].Type)
	assert.Equal(t, []string{"uber", "lyft"}, rules[0].Keywords)
	require.NotNil(t, rules[1].MaxAmount)
	assert.Equal(t, "100", rules[1].MaxAmount.String())
}

func TestRuleStore_MissingFile(t *testing.T) {
	rs := NewRuleStore(filepath.Join(t.TempDir(), "absent.yaml"), &logging.MockLogger{})

	rules, err := rs.ActiveRules(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestRuleStore_MalformedFile(t *testing.T) {
	path := writeRulesFile(t, "rules: [not, a, rule")
	rs := NewRuleStore(path, &logging.MockLogger{})

	_, err := rs.ActiveRules(context.Background(), "user-1")

	assert.Error(t, err)
}
