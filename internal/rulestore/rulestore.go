// Package rulestore loads user-defined categorization rules from a YAML
// file. It serves as the rule source when no hosted store is configured, and
// as fixture loading in tests.
package rulestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"jmoreau/txintel/internal/logging"
	"jmoreau/txintel/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RuleStore manages loading of rule definitions from a YAML file.
type RuleStore struct {
	RulesFile string
	log       logging.Logger
}

// NewRuleStore creates a store for the given rules file.
func NewRuleStore(rulesFile string, logger logging.Logger) *RuleStore {
	return &RuleStore{
		RulesFile: rulesFile,
		log:       logger,
	}
}

// ruleFile is the on-disk document shape. Amounts are kept as strings so the
// YAML layer stays decoupled from the decimal representation.
type ruleFile struct {
	Rules []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	ID         string   `yaml:"id"`
	Active     bool     `yaml:"active"`
	Priority   int      `yaml:"priority"`
	Type       string   `yaml:"type"`
	Keywords   []string `yaml:"keywords,omitempty"`
	Merchants  []string `yaml:"merchants,omitempty"`
	MinAmount  string   `yaml:"min_amount,omitempty"`
	MaxAmount  string   `yaml:"max_amount,omitempty"`
	CategoryID string   `yaml:"category_id"`
}

// toRule converts an on-disk entry to the domain type. Unparseable amounts
// invalidate the rule.
func (e ruleEntry) toRule() (models.Rule, error) {
	rule := models.Rule{
		ID:         e.ID,
		Active:     e.Active,
		Priority:   e.Priority,
		Type:       models.RuleType(e.Type),
		Keywords:   e.Keywords,
		Merchants:  e.Merchants,
		CategoryID: e.CategoryID,
	}
	if e.MinAmount != "" {
		min, err := decimal.NewFromString(e.MinAmount)
		if err != nil {
			return models.Rule{}, fmt.Errorf("rule %s: invalid min_amount %q: %w", e.ID, e.MinAmount, err)
		}
		rule.MinAmount = &min
	}
	if e.MaxAmount != "" {
		max, err := decimal.NewFromString(e.MaxAmount)
		if err != nil {
			return models.Rule{}, fmt.Errorf("rule %s: invalid max_amount %q: %w", e.ID, e.MaxAmount, err)
		}
		rule.MaxAmount = &max
	}
	return rule, nil
}

// findRulesFile looks for the rules file in standard locations.
func (s *RuleStore) findRulesFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "txintel", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// ActiveRules returns the file's active rules ordered by descending priority.
// The context is accepted for interface symmetry with the hosted store.
func (s *RuleStore) ActiveRules(ctx context.Context, userID string) ([]models.Rule, error) {
	filename := s.RulesFile
	if filename == "" {
		filename = "rules.yaml"
	}

	path, err := s.findRulesFile(filename)
	if err != nil {
		s.log.WithField("file", filename).Warn("Rules file not found, no rules loaded")
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	var doc ruleFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	rules := make([]models.Rule, 0, len(doc.Rules))
	for _, entry := range doc.Rules {
		if !entry.Active {
			continue
		}
		rule, err := entry.toRule()
		if err != nil {
			s.log.WithError(err).Warn("Skipping invalid rule")
			continue
		}
		rules = append(rules, rule)
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})

	s.log.WithField("count", len(rules)).Debug("Loaded categorization rules")
	return rules, nil
}
