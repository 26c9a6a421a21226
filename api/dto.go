/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract: amounts cross
  the wire as JSON numbers even though they are decimals internally, and
  dates as "YYYY-MM-DD" strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/fintrack/fintrack/finance"
	"github.com/fintrack/fintrack/report"
)

// =============================================================================
// TRANSACTIONS
// =============================================================================

// TransactionDTO represents an expense or credit in API responses.
type TransactionDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
}

// TransactionRequest is the body for creating or updating a transaction.
type TransactionRequest struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
}

// =============================================================================
// BUDGET
// =============================================================================

// BudgetGoalDTO represents a per-category monthly limit.
type BudgetGoalDTO struct {
	ID           string  `json:"id"`
	Category     string  `json:"category"`
	MonthlyLimit float64 `json:"monthly_limit"`
	Active       bool    `json:"active"`
}

// BudgetGoalRequest is the body for creating or replacing a goal.
type BudgetGoalRequest struct {
	Category     string  `json:"category"`
	MonthlyLimit float64 `json:"monthly_limit"`
	Active       *bool   `json:"active,omitempty"`
}

// BudgetProgressDTO is one category's spend against its limit.
type BudgetProgressDTO struct {
	GoalID       string  `json:"goal_id"`
	Category     string  `json:"category"`
	MonthlyLimit float64 `json:"monthly_limit"`
	Spent        float64 `json:"spent"`
	Remaining    float64 `json:"remaining"`
	PercentUsed  float64 `json:"percent_used"`
}

// =============================================================================
// RECURRING RULES
// =============================================================================

// RecurringRuleDTO represents a recurring transaction rule.
type RecurringRuleDTO struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Frequency  string  `json:"frequency"`
	DayOfMonth *int    `json:"day_of_month,omitempty"`
	Weekday    *int    `json:"weekday,omitempty"`
	NextRun    string  `json:"next_run"`
	LastRun    *string `json:"last_run,omitempty"`
	Active     bool    `json:"active"`
}

// RecurringRuleRequest is the body for creating or updating a rule.
// NextRun is optional on create; when empty the first occurrence is
// computed from today.
type RecurringRuleRequest struct {
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Frequency  string  `json:"frequency"`
	DayOfMonth *int    `json:"day_of_month,omitempty"`
	Weekday    *int    `json:"weekday,omitempty"`
	NextRun    string  `json:"next_run,omitempty"`
	Active     *bool   `json:"active,omitempty"`
}

// =============================================================================
// EXPECTED INCOME
// =============================================================================

// ExpectedIncomeDTO represents an expected monthly income.
type ExpectedIncomeDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	ExpectedAmount float64 `json:"expected_amount"`
	Frequency      string  `json:"frequency"`
	DueDay         *int    `json:"due_day,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	LastReceived   *string `json:"last_received,omitempty"`
	Active         bool    `json:"active"`
}

// ExpectedIncomeRequest is the body for creating or updating one.
type ExpectedIncomeRequest struct {
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	ExpectedAmount float64 `json:"expected_amount"`
	Frequency      string  `json:"frequency,omitempty"`
	DueDay         *int    `json:"due_day,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	Active         *bool   `json:"active,omitempty"`
}

// IncomeReconciliationDTO is the per-income status for the current month.
type IncomeReconciliationDTO struct {
	IncomeID     string           `json:"income_id"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Expected     float64          `json:"expected"`
	Received     float64          `json:"received"`
	DueDate      string           `json:"due_date"`
	LastReceived *string          `json:"last_received,omitempty"`
	Status       string           `json:"status"`
	Records      []TransactionDTO `json:"records"`
}

// =============================================================================
// REPORT SCHEDULES
// =============================================================================

// ReportScheduleDTO represents a standing report email order.
type ReportScheduleDTO struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	Format           string  `json:"format"`
	Frequency        string  `json:"frequency"`
	IncludeBudget    bool    `json:"include_budget"`
	IncludeTrends    bool    `json:"include_trends"`
	IncludeRecurring bool    `json:"include_recurring"`
	NextSend         string  `json:"next_send"`
	LastSentAt       *string `json:"last_sent_at,omitempty"`
	Active           bool    `json:"active"`
	UserID           string  `json:"user_id,omitempty"`
}

// ReportScheduleRequest is the body for creating or updating a schedule.
type ReportScheduleRequest struct {
	Email            string `json:"email"`
	Format           string `json:"format"`
	Frequency        string `json:"frequency"`
	IncludeBudget    *bool  `json:"include_budget,omitempty"`
	IncludeTrends    *bool  `json:"include_trends,omitempty"`
	IncludeRecurring *bool  `json:"include_recurring,omitempty"`
	NextSend         string `json:"next_send,omitempty"`
	Active           *bool  `json:"active,omitempty"`
	UserID           string `json:"user_id,omitempty"`
}

// =============================================================================
// IMPORT AND JOBS
// =============================================================================

// UploadResultDTO summarizes one statement import.
type UploadResultDTO struct {
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Dropped    int `json:"dropped"`
}

// JobRunResultDTO summarizes a manual job run.
type JobRunResultDTO struct {
	RecurringPosted int `json:"recurring_posted"`
	ReportsSent     int `json:"reports_sent"`
}

// MonthlyTrendDTO is one month's totals for the trends view.
type MonthlyTrendDTO struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toTransactionDTO(tx finance.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:       tx.ID,
		Name:     tx.Name,
		Amount:   tx.Amount.InexactFloat64(),
		Date:     tx.Date.String(),
		Category: tx.Category,
	}
}

func toTransactionDTOs(txs []finance.Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toTransactionDTO(tx)
	}
	return dtos
}

func toBudgetGoalDTO(g finance.BudgetGoal) BudgetGoalDTO {
	return BudgetGoalDTO{
		ID:           g.ID,
		Category:     g.Category,
		MonthlyLimit: g.MonthlyLimit.InexactFloat64(),
		Active:       g.Active,
	}
}

func toBudgetProgressDTO(p finance.BudgetProgress) BudgetProgressDTO {
	return BudgetProgressDTO{
		GoalID:       p.GoalID,
		Category:     p.Category,
		MonthlyLimit: p.MonthlyLimit.InexactFloat64(),
		Spent:        p.Spent.InexactFloat64(),
		Remaining:    p.Remaining.InexactFloat64(),
		PercentUsed:  p.PercentUsed.InexactFloat64(),
	}
}

func toRecurringRuleDTO(r finance.RecurringRule) RecurringRuleDTO {
	dto := RecurringRuleDTO{
		ID:        r.ID,
		Type:      string(r.Type),
		Name:      r.Name,
		Category:  r.Category,
		Amount:    r.Amount.InexactFloat64(),
		Frequency: string(r.Frequency),
		NextRun:   r.NextRun.String(),
		Active:    r.Active,
	}
	dto.DayOfMonth = r.DayOfMonth
	if r.Weekday != nil {
		wd := int(*r.Weekday)
		dto.Weekday = &wd
	}
	if r.LastRun != nil {
		s := r.LastRun.String()
		dto.LastRun = &s
	}
	return dto
}

func toExpectedIncomeDTO(inc finance.ExpectedIncome) ExpectedIncomeDTO {
	dto := ExpectedIncomeDTO{
		ID:             inc.ID,
		Name:           inc.Name,
		Category:       inc.Category,
		ExpectedAmount: inc.ExpectedAmount.InexactFloat64(),
		Frequency:      string(inc.Frequency),
		DueDay:         inc.DueDay,
		Notes:          inc.Notes,
		Active:         inc.Active,
	}
	if inc.LastReceived != nil {
		s := inc.LastReceived.String()
		dto.LastReceived = &s
	}
	return dto
}

func toIncomeReconciliationDTO(rec finance.IncomeReconciliation) IncomeReconciliationDTO {
	dto := IncomeReconciliationDTO{
		IncomeID: rec.Income.ID,
		Name:     rec.Income.Name,
		Category: rec.Income.Category,
		Expected: rec.Income.ExpectedAmount.InexactFloat64(),
		Received: rec.Received.InexactFloat64(),
		DueDate:  rec.DueDate.String(),
		Status:   string(rec.Status),
		Records:  toTransactionDTOs(rec.Records),
	}
	if rec.LastReceived != nil {
		s := rec.LastReceived.String()
		dto.LastReceived = &s
	}
	return dto
}

func toReportScheduleDTO(sch finance.ReportSchedule) ReportScheduleDTO {
	dto := ReportScheduleDTO{
		ID:               sch.ID,
		Email:            sch.Email,
		Format:           string(sch.Format),
		Frequency:        string(sch.Frequency),
		IncludeBudget:    sch.IncludeBudget,
		IncludeTrends:    sch.IncludeTrends,
		IncludeRecurring: sch.IncludeRecurring,
		NextSend:         sch.NextSend.String(),
		Active:           sch.Active,
		UserID:           sch.UserID,
	}
	if sch.LastSentAt != nil {
		s := sch.LastSentAt.UTC().Format(time.RFC3339)
		dto.LastSentAt = &s
	}
	return dto
}

func toMonthlyTrendDTOs(trends []report.MonthlyTrend) []MonthlyTrendDTO {
	dtos := make([]MonthlyTrendDTO, len(trends))
	for i, t := range trends {
		dtos[i] = MonthlyTrendDTO{
			Month:    t.Month,
			Income:   t.Income.InexactFloat64(),
			Expenses: t.Expenses.InexactFloat64(),
			Net:      t.Income.Sub(t.Expenses).InexactFloat64(),
		}
	}
	return dtos
}
