/*
Package finance provides the core domain types and pure engines of the
expense tracker.

KEY CONCEPTS IN THIS FILE (types.go):
  - Transaction: a single expense or credit ledger row
  - RecurringRule: a template that periodically posts a Transaction
  - ExpectedIncome: an income we expect to receive (reconciliation only)
  - BudgetGoal: a per-category monthly spending limit
  - ReportSchedule: a recurring report email

DESIGN PRINCIPLES:
  1. Precision: amounts are decimal.Decimal, never float64
  2. Calendar days: all dates are Date values (see date.go), no clock time
  3. Pure logic: engines in this package touch no storage or I/O

SEE ALSO:
  - recurrence.go: next-run date computation
  - reconcile.go:  expected-income reconciliation
  - budget.go:     budget progress
*/
package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType distinguishes the two ledgers.
type TxType string

const (
	TxExpense TxType = "expense"
	TxCredit  TxType = "credit"
)

// Transaction is a single ledger row. Created by manual entry, CSV import or
// a recurring rule firing; otherwise a plain append/edit/delete leaf.
type Transaction struct {
	ID       string
	Type     TxType
	Name     string
	Amount   decimal.Decimal
	Date     Date
	Category string
}

// Frequency enumerates recurrence intervals. Anything unrecognized is
// treated as monthly (see NextRun).
type Frequency string

const (
	Weekly    Frequency = "weekly"
	Biweekly  Frequency = "biweekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

// RecurringRule periodically posts a Transaction into the expense or credit
// ledger. While active, NextRun is always a concrete future-or-today date
// consistent with Frequency and the anchor fields.
type RecurringRule struct {
	ID         string
	Type       TxType
	Name       string
	Category   string
	Amount     decimal.Decimal
	Frequency  Frequency
	DayOfMonth *int          // 1..31, clamps monthly-style runs
	Weekday    *time.Weekday // aligns weekly-style runs
	NextRun    Date
	LastRun    *Date
	Active     bool
}

// ExpectedIncome is money we expect to arrive each period. It never posts
// anything; it only drives reconciliation against actual credits.
type ExpectedIncome struct {
	ID             string
	Name           string
	Category       string
	ExpectedAmount decimal.Decimal
	Frequency      Frequency
	DueDay         *int // 1..31, clamped to the month
	Notes          string
	LastReceived   *Date
	Active         bool
}

// BudgetGoal is a monthly spending limit for one category.
type BudgetGoal struct {
	ID           string
	Category     string
	MonthlyLimit decimal.Decimal
	Active       bool
}

// ReportFormat selects the rendered document type.
type ReportFormat string

const (
	FormatPDF   ReportFormat = "pdf"
	FormatExcel ReportFormat = "excel"
)

// ReportSchedule is a recurring report email. Weekly schedules cover the
// prior ISO week, monthly schedules the prior calendar month.
type ReportSchedule struct {
	ID               string
	Email            string
	Format           ReportFormat
	Frequency        Frequency // weekly or monthly only
	IncludeBudget    bool
	IncludeTrends    bool
	IncludeRecurring bool
	NextSend         Date
	LastSentAt       *time.Time
	Active           bool
	UserID           string
}

// RowType is the direction of a normalized bank-statement row. Income rows
// land in the credit ledger on import.
type RowType string

const (
	RowExpense RowType = "expense"
	RowIncome  RowType = "income"
)

// NormalizedRow is the canonical output of bank statement normalization.
// Amount is always positive and Date is always a valid ISO calendar day;
// rows that cannot satisfy that are dropped, never emitted.
type NormalizedRow struct {
	Type     RowType
	Name     string
	Amount   decimal.Decimal
	Date     string // YYYY-MM-DD
	Category string
}
