/*
Package report renders financial summaries as PDF and Excel documents.

PURPOSE:
  Takes a fully assembled Data value (transactions, budget progress,
  recurring rules, trends) and produces the bytes a report email attaches.
  Assembly lives with the caller; rendering here is pure.

SEE ALSO:
  - pdf.go:   PDF rendering
  - excel.go: Excel workbook rendering
*/
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/finance"
)

// Options selects which sections a rendered report carries.
type Options struct {
	Title            string
	PeriodStart      finance.Date
	PeriodEnd        finance.Date
	IncludeBudget    bool
	IncludeTrends    bool
	IncludeRecurring bool
}

// MonthlyTrend is one month's expense and income totals, for the trends
// section. Month is "2006-01".
type MonthlyTrend struct {
	Month    string
	Expenses decimal.Decimal
	Income   decimal.Decimal
}

// Data is everything a renderer needs to produce a report.
type Data struct {
	Options

	Expenses  []finance.Transaction
	Credits   []finance.Transaction
	Budget    []finance.BudgetProgress
	Recurring []finance.RecurringRule
	Trends    []MonthlyTrend
}

// TotalExpenses sums the expense amounts, rounded to cents.
func (d *Data) TotalExpenses() decimal.Decimal {
	return sumAmounts(d.Expenses)
}

// TotalIncome sums the credit amounts, rounded to cents.
func (d *Data) TotalIncome() decimal.Decimal {
	return sumAmounts(d.Credits)
}

// Net is income minus expenses for the period.
func (d *Data) Net() decimal.Decimal {
	return d.TotalIncome().Sub(d.TotalExpenses())
}

func sumAmounts(txs []finance.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return total.Round(2)
}

// BuildTrends groups transactions by calendar month and returns totals in
// ascending month order. Both slices may span any range.
func BuildTrends(expenses, credits []finance.Transaction) []MonthlyTrend {
	byMonth := map[string]*MonthlyTrend{}
	touch := func(month string) *MonthlyTrend {
		if t, ok := byMonth[month]; ok {
			return t
		}
		t := &MonthlyTrend{Month: month, Expenses: decimal.Zero, Income: decimal.Zero}
		byMonth[month] = t
		return t
	}

	for _, tx := range expenses {
		t := touch(tx.Date.Time.Format("2006-01"))
		t.Expenses = t.Expenses.Add(tx.Amount)
	}
	for _, tx := range credits {
		t := touch(tx.Date.Time.Format("2006-01"))
		t.Income = t.Income.Add(tx.Amount)
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	// "2006-01" keys sort correctly as plain strings
	sort.Strings(months)

	trends := make([]MonthlyTrend, 0, len(months))
	for _, m := range months {
		t := byMonth[m]
		t.Expenses = t.Expenses.Round(2)
		t.Income = t.Income.Round(2)
		trends = append(trends, *t)
	}
	return trends
}
