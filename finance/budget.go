package finance

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BUDGET PROGRESS - Spend against per-category monthly limits
// =============================================================================

// BudgetProgress is one category's spend against its monthly limit.
type BudgetProgress struct {
	GoalID       string
	Category     string
	MonthlyLimit decimal.Decimal
	Spent        decimal.Decimal
	Remaining    decimal.Decimal
	PercentUsed  decimal.Decimal
}

// Progress computes per-goal spending for a month's expenses, most-used
// first. Goals with a zero limit report 0% rather than dividing by zero.
func Progress(goals []BudgetGoal, monthExpenses []Transaction) []BudgetProgress {
	spentByCategory := make(map[string]decimal.Decimal)
	for _, e := range monthExpenses {
		spentByCategory[e.Category] = spentByCategory[e.Category].Add(e.Amount)
	}

	hundred := decimal.NewFromInt(100)
	results := make([]BudgetProgress, 0, len(goals))
	for _, g := range goals {
		spent := spentByCategory[g.Category]
		percent := decimal.Zero
		if g.MonthlyLimit.IsPositive() {
			percent = spent.Div(g.MonthlyLimit).Mul(hundred).Round(2)
		}
		results = append(results, BudgetProgress{
			GoalID:       g.ID,
			Category:     g.Category,
			MonthlyLimit: g.MonthlyLimit,
			Spent:        spent.Round(2),
			Remaining:    g.MonthlyLimit.Sub(spent).Round(2),
			PercentUsed:  percent,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PercentUsed.GreaterThan(results[j].PercentUsed)
	})
	return results
}
