/*
clean.go - merchant name cleaning

PURPOSE:
  Strips card-processor noise from raw statement descriptions and title-cases
  the remainder so "VDC-TESCO STORES  1234" and "tesco stores 1234" land on
  the same merchant name.
*/
package bankimport

import (
	"regexp"
	"strings"
)

var (
	processorPrefix = regexp.MustCompile(`(?i)^\s*(VDC-WWW|VDC-|VDP-|D/D)\s*`)
	runsOfFiller    = regexp.MustCompile(`[\s-]{2,}`)
	wordStart       = regexp.MustCompile(`\b[a-z]`)
)

// CleanName normalizes a raw statement description into a merchant name.
func CleanName(raw string) string {
	s := processorPrefix.ReplaceAllString(raw, "")
	s = strings.ReplaceAll(s, "*", "")
	s = runsOfFiller.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return titleCase(s)
}

// titleCase lowercases the input and upper-cases the first letter of each
// word. Intentionally ASCII-oriented; statement descriptions are.
func titleCase(s string) string {
	s = strings.ToLower(s)
	return wordStart.ReplaceAllStringFunc(s, strings.ToUpper)
}
