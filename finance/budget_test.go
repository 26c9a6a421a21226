package finance_test

import (
	"testing"
	"time"

	"github.com/fintrack/fintrack/finance"
)

func expense(category, amount string, day int) finance.Transaction {
	return finance.Transaction{
		Name:     category + " spend",
		Amount:   money(amount),
		Date:     finance.NewDate(2024, time.March, day),
		Category: category,
	}
}

func TestProgress_ComputesSpendAndSorts(t *testing.T) {
	// GIVEN: two goals with different utilization
	// THEN: progress is computed per category and sorted most-used first

	goals := []finance.BudgetGoal{
		{ID: "g-1", Category: "Groceries", MonthlyLimit: money("400"), Active: true},
		{ID: "g-2", Category: "Entertainment", MonthlyLimit: money("50"), Active: true},
	}
	expenses := []finance.Transaction{
		expense("Groceries", "120.50", 2),
		expense("Groceries", "79.50", 9),
		expense("Entertainment", "45", 5),
	}

	results := finance.Progress(goals, expenses)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// Entertainment is 90% used, Groceries 50%.
	if results[0].Category != "Entertainment" {
		t.Errorf("expected Entertainment first, got %s", results[0].Category)
	}
	if !results[0].PercentUsed.Equal(money("90")) {
		t.Errorf("expected 90%%, got %s", results[0].PercentUsed)
	}
	if !results[1].Spent.Equal(money("200")) {
		t.Errorf("expected 200 spent on groceries, got %s", results[1].Spent)
	}
	if !results[1].Remaining.Equal(money("200")) {
		t.Errorf("expected 200 remaining, got %s", results[1].Remaining)
	}
}

func TestProgress_ZeroLimitDoesNotDivide(t *testing.T) {
	goals := []finance.BudgetGoal{
		{ID: "g-1", Category: "Misc", MonthlyLimit: money("0"), Active: true},
	}
	results := finance.Progress(goals, []finance.Transaction{expense("Misc", "10", 1)})

	if !results[0].PercentUsed.IsZero() {
		t.Errorf("expected 0%% for zero limit, got %s", results[0].PercentUsed)
	}
}

func TestProgress_NoExpensesForGoal(t *testing.T) {
	goals := []finance.BudgetGoal{
		{ID: "g-1", Category: "Travel", MonthlyLimit: money("300"), Active: true},
	}
	results := finance.Progress(goals, nil)

	if !results[0].Spent.IsZero() {
		t.Errorf("expected 0 spent, got %s", results[0].Spent)
	}
	if !results[0].Remaining.Equal(money("300")) {
		t.Errorf("expected full limit remaining, got %s", results[0].Remaining)
	}
}
