package finance_test

import (
	"testing"
	"time"

	"github.com/fintrack/fintrack/finance"
	"github.com/shopspring/decimal"
)

func money(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func salaryIncome(dueDay *int) finance.ExpectedIncome {
	return finance.ExpectedIncome{
		ID:             "inc-1",
		Name:           "Salary",
		Category:       "Income",
		ExpectedAmount: money("3000"),
		Frequency:      finance.Monthly,
		DueDay:         dueDay,
	}
}

func credit(amount string, day int) finance.Transaction {
	return finance.Transaction{
		ID:       "c-1",
		Name:     "Salary",
		Amount:   money(amount),
		Date:     finance.NewDate(2024, time.March, day),
		Category: "Income",
	}
}

func TestReconcileIncome_OnTime(t *testing.T) {
	// GIVEN: full salary received before the due day
	// THEN: status is on_time with the received total and record attached

	march := finance.NewDate(2024, time.March, 1)
	results := finance.ReconcileIncome(
		[]finance.ExpectedIncome{salaryIncome(dom(28))},
		[]finance.Transaction{credit("3000", 25)},
		march,
		finance.NewDate(2024, time.March, 26),
	)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Status != finance.IncomeOnTime {
		t.Errorf("expected on_time, got %s", r.Status)
	}
	if !r.Received.Equal(money("3000")) {
		t.Errorf("expected 3000 received, got %s", r.Received)
	}
	if r.DueDate.String() != "2024-03-28" {
		t.Errorf("expected due 2024-03-28, got %s", r.DueDate)
	}
	if r.LastReceived == nil || r.LastReceived.String() != "2024-03-25" {
		t.Errorf("unexpected last received: %v", r.LastReceived)
	}
}

func TestReconcileIncome_PartialBeforeDue(t *testing.T) {
	march := finance.NewDate(2024, time.March, 1)
	results := finance.ReconcileIncome(
		[]finance.ExpectedIncome{salaryIncome(dom(28))},
		[]finance.Transaction{credit("1000", 10)},
		march,
		finance.NewDate(2024, time.March, 15),
	)

	if results[0].Status != finance.IncomePartial {
		t.Errorf("expected partial, got %s", results[0].Status)
	}
}

func TestReconcileIncome_LateAfterDue(t *testing.T) {
	// GIVEN: a partial payment and today past the due day
	// THEN: partial escalates to late

	march := finance.NewDate(2024, time.March, 1)
	results := finance.ReconcileIncome(
		[]finance.ExpectedIncome{salaryIncome(dom(15))},
		[]finance.Transaction{credit("1000", 10)},
		march,
		finance.NewDate(2024, time.March, 20),
	)

	if results[0].Status != finance.IncomeLate {
		t.Errorf("expected late, got %s", results[0].Status)
	}
}

func TestReconcileIncome_MissingNoCredits(t *testing.T) {
	march := finance.NewDate(2024, time.March, 1)
	results := finance.ReconcileIncome(
		[]finance.ExpectedIncome{salaryIncome(dom(28))},
		nil,
		march,
		finance.NewDate(2024, time.March, 10),
	)

	r := results[0]
	if r.Status != finance.IncomeMissing {
		t.Errorf("expected missing, got %s", r.Status)
	}
	if r.LastReceived != nil {
		t.Errorf("expected no last received date, got %v", r.LastReceived)
	}
}

func TestReconcileIncome_DueDayClampedAndDefaulted(t *testing.T) {
	// due_day 31 in February clamps; no due_day means end of month.
	feb := finance.NewDate(2025, time.February, 1)

	results := finance.ReconcileIncome(
		[]finance.ExpectedIncome{salaryIncome(dom(31))},
		nil, feb, feb,
	)
	if results[0].DueDate.String() != "2025-02-28" {
		t.Errorf("expected clamped due date 2025-02-28, got %s", results[0].DueDate)
	}

	results = finance.ReconcileIncome(
		[]finance.ExpectedIncome{salaryIncome(nil)},
		nil, feb, feb,
	)
	if results[0].DueDate.String() != "2025-02-28" {
		t.Errorf("expected end-of-month due date, got %s", results[0].DueDate)
	}
}

func TestReconcileIncome_LastReceivedIsLatestCredit(t *testing.T) {
	// GIVEN: two salary payments fed newest first, as the store lists them
	// THEN: last received is the latest credit and records run oldest first

	march := finance.NewDate(2024, time.March, 1)
	results := finance.ReconcileIncome(
		[]finance.ExpectedIncome{salaryIncome(dom(28))},
		[]finance.Transaction{credit("1500", 25), credit("1500", 10)},
		march,
		finance.NewDate(2024, time.March, 26),
	)

	r := results[0]
	if r.LastReceived == nil || r.LastReceived.String() != "2024-03-25" {
		t.Errorf("expected last received 2024-03-25, got %v", r.LastReceived)
	}
	if len(r.Records) != 2 || r.Records[0].Date.String() != "2024-03-10" {
		t.Errorf("expected records oldest first, got %v", r.Records)
	}
	if !r.Received.Equal(money("3000")) {
		t.Errorf("expected 3000 received, got %s", r.Received)
	}
}

func TestReconcileIncome_MatchesByCategoryOnly(t *testing.T) {
	march := finance.NewDate(2024, time.March, 1)
	other := finance.Transaction{
		ID: "c-2", Name: "Refund", Amount: money("50"),
		Date: finance.NewDate(2024, time.March, 5), Category: "Other",
	}

	results := finance.ReconcileIncome(
		[]finance.ExpectedIncome{salaryIncome(dom(28))},
		[]finance.Transaction{other, credit("3000", 25)},
		march,
		finance.NewDate(2024, time.March, 26),
	)

	if len(results[0].Records) != 1 {
		t.Errorf("expected only category-matched credits, got %d records", len(results[0].Records))
	}
}
