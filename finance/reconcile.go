package finance

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// INCOME RECONCILIATION - Expected income vs credits actually received
// =============================================================================

// IncomeStatus classifies how an expected income fared in a month.
type IncomeStatus string

const (
	IncomeOnTime  IncomeStatus = "on_time"
	IncomePartial IncomeStatus = "partial"
	IncomeMissing IncomeStatus = "missing"
	IncomeLate    IncomeStatus = "late"
)

// IncomeReconciliation is the outcome for one expected income in one month.
type IncomeReconciliation struct {
	Income       ExpectedIncome
	Received     decimal.Decimal
	Records      []Transaction
	DueDate      Date
	LastReceived *Date
	Status       IncomeStatus
}

// ReconcileIncome matches each expected income against the credits received
// in the month starting at monthStart. Credits are matched by category.
//
// Status: received >= expected is on_time; anything received is partial;
// nothing is missing. partial/missing flip to late once today is past the
// due date (due_day clamped to the month, or end of month when unset).
func ReconcileIncome(expected []ExpectedIncome, monthCredits []Transaction, monthStart, today Date) []IncomeReconciliation {
	monthEnd := monthStart.EndOfMonth()
	results := make([]IncomeReconciliation, 0, len(expected))

	for _, inc := range expected {
		var records []Transaction
		received := decimal.Zero
		for _, c := range monthCredits {
			if c.Category != inc.Category {
				continue
			}
			records = append(records, c)
			received = received.Add(c.Amount)
		}
		// Oldest first regardless of caller order, so the last record is
		// the most recent receipt.
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Date.Before(records[j].Date)
		})

		dueDate := monthEnd
		if inc.DueDay != nil {
			dueDate = monthStart.WithDay(*inc.DueDay)
		}

		var lastReceived *Date
		if len(records) > 0 {
			d := records[len(records)-1].Date
			lastReceived = &d
		}

		status := IncomeMissing
		switch {
		case received.GreaterThanOrEqual(inc.ExpectedAmount):
			status = IncomeOnTime
		case received.IsPositive():
			status = IncomePartial
		}
		if status != IncomeOnTime && today.After(dueDate) && received.LessThan(inc.ExpectedAmount) {
			status = IncomeLate
		}

		results = append(results, IncomeReconciliation{
			Income:       inc,
			Received:     received.Round(2),
			Records:      records,
			DueDate:      dueDate,
			LastReceived: lastReceived,
			Status:       status,
		})
	}

	return results
}
