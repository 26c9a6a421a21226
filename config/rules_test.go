package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/bankimport"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCategoryRules(t *testing.T) {
	path := writeRules(t, `
rules:
  - pattern: "CORNER SHOP"
    category: Groceries
  - pattern: "SHOP"
    category: Others
`)

	rules, err := LoadCategoryRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	// File order is match order and patterns are case-insensitive
	assert.Equal(t, "Groceries", bankimport.Categorize(rules, "corner shop dublin"))
	assert.Equal(t, "Others", bankimport.Categorize(rules, "Some Other Shop"))
}

func TestLoadedRulesWinOverBuiltins(t *testing.T) {
	path := writeRules(t, `
rules:
  - pattern: "TESCO"
    category: Splurges
`)

	loaded, err := LoadCategoryRules(path)
	require.NoError(t, err)

	// Loaded rules go ahead of the built-in table, so on overlap the
	// file's category wins while unmatched names still hit the builtins
	rules := append(loaded, bankimport.DefaultRules...)
	assert.Equal(t, "Splurges", bankimport.Categorize(rules, "Tesco Stores"))
	assert.Equal(t, "Entertainment", bankimport.Categorize(rules, "Netflix"))
}

func TestLoadCategoryRulesRejectsBadInput(t *testing.T) {
	_, err := LoadCategoryRules(writeRules(t, "rules: []"))
	assert.Error(t, err)

	_, err = LoadCategoryRules(writeRules(t, `
rules:
  - pattern: "("
    category: X
`))
	assert.Error(t, err)

	_, err = LoadCategoryRules(writeRules(t, `
rules:
  - pattern: "X"
`))
	assert.Error(t, err)

	_, err = LoadCategoryRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
