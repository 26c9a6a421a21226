/*
rules.go - category rule table loading

PURPOSE:
  Lets a deployment add category keywords via a YAML file. Loaded rules
  are matched ahead of the built-in table, so they win on overlap. Order
  in the file is match order, same as the built-in table.

FORMAT:
  rules:
    - pattern: "NETFLIX|SPOTIFY"
      category: Entertainment
    - pattern: "LIDL|ALDI"
      category: Groceries
*/
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/fintrack/fintrack/bankimport"
)

type rulesFile struct {
	Rules []struct {
		Pattern  string `yaml:"pattern"`
		Category string `yaml:"category"`
	} `yaml:"rules"`
}

// LoadCategoryRules parses a YAML rule file into an ordered rule table.
// Patterns compile case-insensitively, like the built-in rules.
func LoadCategoryRules(path string) ([]bankimport.Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s defines no rules", path)
	}

	rules := make([]bankimport.Rule, 0, len(file.Rules))
	for i, r := range file.Rules {
		if r.Category == "" {
			return nil, fmt.Errorf("rule %d has no category", i)
		}
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d pattern %q: %w", i, r.Pattern, err)
		}
		rules = append(rules, bankimport.Rule{Pattern: re, Category: r.Category})
	}
	return rules, nil
}
