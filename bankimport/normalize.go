/*
normalize.go - the row normalization pipeline

PURPOSE:
  Converts header-keyed CSV rows into canonical transaction rows, inferring
  direction, amount, ISO date, merchant name and category per row. Rows that
  end up without a valid date or a positive amount are silently dropped so
  a half-broken export still imports the rows that make sense.
*/
package bankimport

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/finance"
)

// Normalizer converts raw statement rows into canonical transaction rows.
// The zero value is not usable; construct with New.
type Normalizer struct {
	rules []Rule
}

// New returns a Normalizer using the given category rules, or DefaultRules
// when rules is nil.
func New(rules []Rule) *Normalizer {
	if rules == nil {
		rules = DefaultRules
	}
	return &Normalizer{rules: rules}
}

// Normalize runs the full pipeline over rows. Output order follows input
// order; dropped rows leave no trace beyond the shorter result.
func (n *Normalizer) Normalize(rows []map[string]string) []finance.NormalizedRow {
	if len(rows) == 0 {
		return nil
	}
	ly := detectLayout(rows[0])

	out := make([]finance.NormalizedRow, 0, len(rows))
	for _, raw := range rows {
		var row finance.NormalizedRow
		var ok bool
		if ly == layoutKnown {
			row, ok = n.normalizeKnown(parseKnownRow(raw))
		} else {
			row, ok = n.normalizeGeneric(parseGenericRow(raw))
		}
		if ok {
			out = append(out, row)
		}
	}
	return out
}

func (n *Normalizer) normalizeKnown(r knownRow) (finance.NormalizedRow, bool) {
	credit := parseAmount(r.Credit)
	debit := parseAmount(r.Debit)

	var typ finance.RowType
	var amount decimal.Decimal
	switch {
	case credit.IsPositive():
		typ, amount = finance.RowIncome, credit
	case debit.IsPositive():
		typ, amount = finance.RowExpense, debit
	case strings.Contains(strings.ToLower(r.TransactionType), "credit"):
		typ = finance.RowIncome
	default:
		typ = finance.RowExpense
	}

	return n.finishRow(typ, amount, r.PostedDate, joinDescriptions(r.Descriptions))
}

func (n *Normalizer) normalizeGeneric(r genericRow) (finance.NormalizedRow, bool) {
	credit := parseAmount(r.Credit)
	debit := parseAmount(r.Debit)
	signed := parseAmount(r.Amount)

	var typ finance.RowType
	var amount decimal.Decimal
	switch {
	case credit.IsPositive():
		typ, amount = finance.RowIncome, credit
	case debit.IsPositive():
		typ, amount = finance.RowExpense, debit
	case signed.IsNegative():
		typ, amount = finance.RowExpense, signed.Abs()
	default:
		typ, amount = finance.RowIncome, signed
	}

	name := joinDescriptions(r.Descriptions)
	if name == "" {
		name = r.Description
	}
	return n.finishRow(typ, amount, r.Date, name)
}

func (n *Normalizer) finishRow(typ finance.RowType, amount decimal.Decimal, rawDate, rawName string) (finance.NormalizedRow, bool) {
	date := toISODate(rawDate)
	if date == "" || !amount.IsPositive() {
		return finance.NormalizedRow{}, false
	}

	name := CleanName(rawName)
	category := CategoryIncome
	if typ == finance.RowExpense {
		category = Categorize(n.rules, name)
	}
	return finance.NormalizedRow{
		Type:     typ,
		Name:     name,
		Amount:   amount,
		Date:     date,
		Category: category,
	}, true
}

// joinDescriptions connects the populated description fields with " - ";
// CleanName later collapses the separator into a single space.
func joinDescriptions(parts []string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " - ")
}

// parseAmount strips whitespace and thousands separators and parses the
// remainder as a decimal. Anything unparsable becomes zero.
func parseAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var looseDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"02-01-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// toISODate converts a raw statement date to "2006-01-02". DD/MM/YYYY is
// reordered directly; anything else goes through a small set of fallback
// layouts. An empty string marks an unusable date.
func toISODate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if parts := strings.Split(raw, "/"); len(parts) == 3 {
		if t, err := time.Parse("02/01/2006", raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	for _, layout := range looseDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
