/*
handlers.go - HTTP API handlers for the finance tracker

PURPOSE:
  Exposes the finance engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Transactions:
    GET    /api/expenses                 List expenses (from/to/month/category)
    POST   /api/expenses                 Create expense
    PUT    /api/expenses/{id}            Update expense
    DELETE /api/expenses/{id}            Delete expense
    (same surface under /api/credits)

  Budget:
    GET    /api/budget-goals             List goals
    POST   /api/budget-goals             Create/replace goal (keyed by category)
    DELETE /api/budget-goals/{id}        Delete goal
    GET    /api/budget-progress          Spend against limits for a month

  Recurring:
    GET    /api/recurring                List rules
    POST   /api/recurring                Create rule
    PUT    /api/recurring/{id}           Update rule
    DELETE /api/recurring/{id}           Delete rule

  Income:
    GET    /api/expected-income          List expected incomes
    POST   /api/expected-income          Create expected income
    PUT    /api/expected-income/{id}     Update expected income
    DELETE /api/expected-income/{id}     Delete expected income
    GET    /api/income-reconciliation    Current-month reconciliation

  Reports:
    GET    /api/report-schedules         List schedules
    POST   /api/report-schedules         Create schedule
    PUT    /api/report-schedules/{id}    Update schedule
    DELETE /api/report-schedules/{id}    Delete schedule
    GET    /api/reports/export           Download a report (format/start/end)
    GET    /api/trends                   Monthly income/expense totals

  Import:
    POST   /api/upload                   Multipart bank statement CSV

  Admin:
    POST   /api/admin/jobs/run           Run scheduled jobs immediately

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/bankimport"
	"github.com/fintrack/fintrack/finance"
	"github.com/fintrack/fintrack/jobs"
	"github.com/fintrack/fintrack/report"
	"github.com/fintrack/fintrack/store/sqlite"
)

// maxUploadBytes caps statement uploads at 10 MB.
const maxUploadBytes = 10 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *sqlite.Store
	Normalizer *bankimport.Normalizer
	Jobs       *jobs.Runner
	Log        zerolog.Logger
}

// NewHandler creates a handler with the given dependencies.
func NewHandler(store *sqlite.Store, normalizer *bankimport.Normalizer, runner *jobs.Runner, log zerolog.Logger) *Handler {
	return &Handler{Store: store, Normalizer: normalizer, Jobs: runner, Log: log}
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// ListExpenses returns expenses matching the query filters.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	h.listTransactions(w, r, finance.TxExpense)
}

// ListCredits returns credits matching the query filters.
func (h *Handler) ListCredits(w http.ResponseWriter, r *http.Request) {
	h.listTransactions(w, r, finance.TxCredit)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request, typ finance.TxType) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err)
		return
	}

	txs, err := h.Store.ListTransactions(r.Context(), typ, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list transactions", err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTOs(txs))
}

// CreateExpense creates an expense.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	h.createTransaction(w, r, finance.TxExpense)
}

// CreateCredit creates a credit.
func (h *Handler) CreateCredit(w http.ResponseWriter, r *http.Request) {
	h.createTransaction(w, r, finance.TxCredit)
}

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request, typ finance.TxType) {
	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tx, err := transactionFromRequest(req, typ)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	tx.ID = uuid.NewString()

	if err := h.Store.AddTransaction(r.Context(), tx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create transaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(tx))
}

// UpdateExpense replaces an expense's fields.
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	h.updateTransaction(w, r, finance.TxExpense)
}

// UpdateCredit replaces a credit's fields.
func (h *Handler) UpdateCredit(w http.ResponseWriter, r *http.Request) {
	h.updateTransaction(w, r, finance.TxCredit)
}

func (h *Handler) updateTransaction(w http.ResponseWriter, r *http.Request, typ finance.TxType) {
	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tx, err := transactionFromRequest(req, typ)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	tx.ID = chi.URLParam(r, "id")

	if err := h.Store.UpdateTransaction(r.Context(), tx); err != nil {
		writeStoreError(w, "Failed to update transaction", err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTO(tx))
}

// DeleteExpense removes an expense.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	h.deleteTransaction(w, r, finance.TxExpense)
}

// DeleteCredit removes a credit.
func (h *Handler) DeleteCredit(w http.ResponseWriter, r *http.Request) {
	h.deleteTransaction(w, r, finance.TxCredit)
}

func (h *Handler) deleteTransaction(w http.ResponseWriter, r *http.Request, typ finance.TxType) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteTransaction(r.Context(), typ, id); err != nil {
		writeStoreError(w, "Failed to delete transaction", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func transactionFromRequest(req TransactionRequest, typ finance.TxType) (finance.Transaction, error) {
	if req.Name == "" {
		return finance.Transaction{}, errors.New("name is required")
	}
	amount := decimal.NewFromFloat(req.Amount)
	if !amount.IsPositive() {
		return finance.Transaction{}, errors.New("amount must be positive")
	}
	date, err := finance.ParseDate(req.Date)
	if err != nil {
		return finance.Transaction{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", req.Date)
	}

	category := req.Category
	if category == "" {
		if typ == finance.TxCredit {
			category = bankimport.CategoryIncome
		} else {
			category = bankimport.Uncategorized
		}
	}

	return finance.Transaction{
		Type:     typ,
		Name:     req.Name,
		Amount:   amount,
		Date:     date,
		Category: category,
	}, nil
}

// parseFilter reads from/to/month/category/name query params. month=YYYY-MM
// expands to that month's full range and wins over from/to.
func parseFilter(r *http.Request) (sqlite.Filter, error) {
	var f sqlite.Filter
	q := r.URL.Query()

	if month := q.Get("month"); month != "" {
		first, err := finance.ParseDate(month + "-01")
		if err != nil {
			return f, fmt.Errorf("invalid month %q (use YYYY-MM)", month)
		}
		from, to := first.StartOfMonth(), first.EndOfMonth()
		f.From, f.To = &from, &to
	} else {
		if v := q.Get("from"); v != "" {
			d, err := finance.ParseDate(v)
			if err != nil {
				return f, fmt.Errorf("invalid from date %q", v)
			}
			f.From = &d
		}
		if v := q.Get("to"); v != "" {
			d, err := finance.ParseDate(v)
			if err != nil {
				return f, fmt.Errorf("invalid to date %q", v)
			}
			f.To = &d
		}
	}

	f.Category = q.Get("category")
	f.Name = q.Get("name")
	return f, nil
}

// =============================================================================
// BUDGET HANDLERS
// =============================================================================

// ListBudgetGoals returns all goals.
func (h *Handler) ListBudgetGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.Store.ListBudgetGoals(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list budget goals", err)
		return
	}

	dtos := make([]BudgetGoalDTO, len(goals))
	for i, g := range goals {
		dtos[i] = toBudgetGoalDTO(g)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateBudgetGoal creates or replaces the goal for a category.
func (h *Handler) CreateBudgetGoal(w http.ResponseWriter, r *http.Request) {
	var req BudgetGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Category == "" {
		writeError(w, http.StatusBadRequest, "category is required", nil)
		return
	}
	limit := decimal.NewFromFloat(req.MonthlyLimit)
	if !limit.IsPositive() {
		writeError(w, http.StatusBadRequest, "monthly_limit must be positive", nil)
		return
	}

	goal := finance.BudgetGoal{
		ID:           uuid.NewString(),
		Category:     req.Category,
		MonthlyLimit: limit,
		Active:       boolOr(req.Active, true),
	}
	if err := h.Store.SaveBudgetGoal(r.Context(), goal); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save budget goal", err)
		return
	}
	writeJSON(w, http.StatusCreated, toBudgetGoalDTO(goal))
}

// DeleteBudgetGoal removes a goal.
func (h *Handler) DeleteBudgetGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteBudgetGoal(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "Failed to delete budget goal", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBudgetProgress returns spend against limits for a month
// (?month=YYYY-MM, default the current month).
func (h *Handler) GetBudgetProgress(w http.ResponseWriter, r *http.Request) {
	monthStart, monthEnd, err := monthRange(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx := r.Context()
	goals, err := h.Store.ListBudgetGoals(ctx, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list budget goals", err)
		return
	}
	expenses, err := h.Store.ListTransactions(ctx, finance.TxExpense,
		sqlite.Filter{From: &monthStart, To: &monthEnd})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expenses", err)
		return
	}

	progress := finance.Progress(goals, expenses)
	dtos := make([]BudgetProgressDTO, len(progress))
	for i, p := range progress {
		dtos[i] = toBudgetProgressDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func monthRange(month string) (finance.Date, finance.Date, error) {
	if month == "" {
		today := finance.Today()
		return today.StartOfMonth(), today.EndOfMonth(), nil
	}
	first, err := finance.ParseDate(month + "-01")
	if err != nil {
		return finance.Date{}, finance.Date{}, fmt.Errorf("invalid month %q (use YYYY-MM)", month)
	}
	return first.StartOfMonth(), first.EndOfMonth(), nil
}

// =============================================================================
// RECURRING RULE HANDLERS
// =============================================================================

// ListRecurring returns all recurring rules.
func (h *Handler) ListRecurring(w http.ResponseWriter, r *http.Request) {
	rules, err := h.Store.ListRecurring(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list recurring rules", err)
		return
	}

	dtos := make([]RecurringRuleDTO, len(rules))
	for i, rule := range rules {
		dtos[i] = toRecurringRuleDTO(rule)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateRecurring creates a rule. When next_run is omitted the first
// occurrence is computed from today.
func (h *Handler) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req RecurringRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rule, err := recurringFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	rule.ID = uuid.NewString()

	if err := h.Store.SaveRecurring(r.Context(), rule); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save recurring rule", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecurringRuleDTO(rule))
}

// UpdateRecurring replaces a rule's fields, keeping its last_run.
func (h *Handler) UpdateRecurring(w http.ResponseWriter, r *http.Request) {
	var req RecurringRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	existing, err := h.Store.GetRecurring(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to load recurring rule", err)
		return
	}

	rule, err := recurringFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	rule.ID = existing.ID
	rule.LastRun = existing.LastRun

	if err := h.Store.SaveRecurring(r.Context(), rule); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save recurring rule", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurringRuleDTO(rule))
}

// DeleteRecurring removes a rule.
func (h *Handler) DeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteRecurring(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "Failed to delete recurring rule", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func recurringFromRequest(req RecurringRuleRequest) (finance.RecurringRule, error) {
	var rule finance.RecurringRule

	typ := finance.TxType(req.Type)
	if typ != finance.TxExpense && typ != finance.TxCredit {
		return rule, fmt.Errorf("type must be %q or %q", finance.TxExpense, finance.TxCredit)
	}
	if req.Name == "" {
		return rule, errors.New("name is required")
	}
	amount := decimal.NewFromFloat(req.Amount)
	if !amount.IsPositive() {
		return rule, errors.New("amount must be positive")
	}
	freq := finance.Frequency(req.Frequency)
	switch freq {
	case finance.Weekly, finance.Biweekly, finance.Monthly, finance.Quarterly, finance.Yearly:
	default:
		return rule, fmt.Errorf("unknown frequency %q", req.Frequency)
	}
	if req.DayOfMonth != nil && (*req.DayOfMonth < 1 || *req.DayOfMonth > 31) {
		return rule, errors.New("day_of_month must be between 1 and 31")
	}
	var weekday *time.Weekday
	if req.Weekday != nil {
		if *req.Weekday < 0 || *req.Weekday > 6 {
			return rule, errors.New("weekday must be between 0 (Sunday) and 6")
		}
		wd := time.Weekday(*req.Weekday)
		weekday = &wd
	}

	category := req.Category
	if category == "" {
		if typ == finance.TxCredit {
			category = bankimport.CategoryIncome
		} else {
			category = bankimport.Uncategorized
		}
	}

	nextRun := finance.NextRun(freq, req.DayOfMonth, weekday, finance.Today())
	if req.NextRun != "" {
		d, err := finance.ParseDate(req.NextRun)
		if err != nil {
			return rule, fmt.Errorf("invalid next_run %q (use YYYY-MM-DD)", req.NextRun)
		}
		nextRun = d
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return finance.RecurringRule{
		Type:       typ,
		Name:       req.Name,
		Category:   category,
		Amount:     amount,
		Frequency:  freq,
		DayOfMonth: req.DayOfMonth,
		Weekday:    weekday,
		NextRun:    nextRun,
		Active:     active,
	}, nil
}

// =============================================================================
// EXPECTED INCOME HANDLERS
// =============================================================================

// ListExpectedIncome returns all expected incomes.
func (h *Handler) ListExpectedIncome(w http.ResponseWriter, r *http.Request) {
	incomes, err := h.Store.ListExpectedIncomes(r.Context(), false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expected incomes", err)
		return
	}

	dtos := make([]ExpectedIncomeDTO, len(incomes))
	for i, inc := range incomes {
		dtos[i] = toExpectedIncomeDTO(inc)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateExpectedIncome creates an expected income.
func (h *Handler) CreateExpectedIncome(w http.ResponseWriter, r *http.Request) {
	var req ExpectedIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	inc, err := expectedIncomeFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	inc.ID = uuid.NewString()

	if err := h.Store.SaveExpectedIncome(r.Context(), inc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save expected income", err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpectedIncomeDTO(inc))
}

// UpdateExpectedIncome replaces an expected income's fields, keeping its
// last_received date.
func (h *Handler) UpdateExpectedIncome(w http.ResponseWriter, r *http.Request) {
	var req ExpectedIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	existing, err := h.Store.GetExpectedIncome(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to load expected income", err)
		return
	}

	inc, err := expectedIncomeFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	inc.ID = existing.ID
	inc.LastReceived = existing.LastReceived

	if err := h.Store.SaveExpectedIncome(r.Context(), inc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save expected income", err)
		return
	}
	writeJSON(w, http.StatusOK, toExpectedIncomeDTO(inc))
}

// DeleteExpectedIncome removes an expected income.
func (h *Handler) DeleteExpectedIncome(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteExpectedIncome(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "Failed to delete expected income", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func expectedIncomeFromRequest(req ExpectedIncomeRequest) (finance.ExpectedIncome, error) {
	var inc finance.ExpectedIncome
	if req.Name == "" {
		return inc, errors.New("name is required")
	}
	if req.Category == "" {
		return inc, errors.New("category is required")
	}
	amount := decimal.NewFromFloat(req.ExpectedAmount)
	if !amount.IsPositive() {
		return inc, errors.New("expected_amount must be positive")
	}
	if req.DueDay != nil && (*req.DueDay < 1 || *req.DueDay > 31) {
		return inc, errors.New("due_day must be between 1 and 31")
	}
	freq := finance.Monthly
	if req.Frequency != "" {
		freq = finance.Frequency(req.Frequency)
		switch freq {
		case finance.Weekly, finance.Biweekly, finance.Monthly, finance.Quarterly, finance.Yearly:
		default:
			return inc, fmt.Errorf("unknown frequency %q", req.Frequency)
		}
	}

	return finance.ExpectedIncome{
		Name:           req.Name,
		Category:       req.Category,
		ExpectedAmount: amount,
		Frequency:      freq,
		DueDay:         req.DueDay,
		Notes:          req.Notes,
		Active:         boolOr(req.Active, true),
	}, nil
}

// GetIncomeReconciliation reports each active expected income against the
// credits received in a month (?month=YYYY-MM, default the current month).
func (h *Handler) GetIncomeReconciliation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	today := finance.Today()
	monthStart, monthEnd, err := monthRange(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	expected, err := h.Store.ListExpectedIncomes(ctx, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expected incomes", err)
		return
	}
	credits, err := h.Store.ListTransactions(ctx, finance.TxCredit,
		sqlite.Filter{From: &monthStart, To: &monthEnd})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list credits", err)
		return
	}

	recs := finance.ReconcileIncome(expected, credits, monthStart, today)
	dtos := make([]IncomeReconciliationDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = toIncomeReconciliationDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REPORT SCHEDULE HANDLERS
// =============================================================================

// ListReportSchedules returns all schedules.
func (h *Handler) ListReportSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.Store.ListReportSchedules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list report schedules", err)
		return
	}

	dtos := make([]ReportScheduleDTO, len(schedules))
	for i, sch := range schedules {
		dtos[i] = toReportScheduleDTO(sch)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateReportSchedule creates a schedule. When next_send is omitted the
// first send is computed from today.
func (h *Handler) CreateReportSchedule(w http.ResponseWriter, r *http.Request) {
	var req ReportScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sch, err := scheduleFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	sch.ID = uuid.NewString()

	if err := h.Store.SaveReportSchedule(r.Context(), sch); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save report schedule", err)
		return
	}
	writeJSON(w, http.StatusCreated, toReportScheduleDTO(sch))
}

// UpdateReportSchedule replaces a schedule's fields.
func (h *Handler) UpdateReportSchedule(w http.ResponseWriter, r *http.Request) {
	var req ReportScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sch, err := scheduleFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	sch.ID = chi.URLParam(r, "id")

	if err := h.Store.SaveReportSchedule(r.Context(), sch); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save report schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, toReportScheduleDTO(sch))
}

// DeleteReportSchedule removes a schedule.
func (h *Handler) DeleteReportSchedule(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteReportSchedule(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "Failed to delete report schedule", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func scheduleFromRequest(req ReportScheduleRequest) (finance.ReportSchedule, error) {
	var sch finance.ReportSchedule
	if req.Email == "" {
		return sch, errors.New("email is required")
	}
	format := finance.ReportFormat(req.Format)
	if format != finance.FormatPDF && format != finance.FormatExcel {
		return sch, fmt.Errorf("format must be %q or %q", finance.FormatPDF, finance.FormatExcel)
	}
	freq := finance.Frequency(req.Frequency)
	if freq != finance.Weekly && freq != finance.Monthly {
		return sch, fmt.Errorf("frequency must be %q or %q", finance.Weekly, finance.Monthly)
	}

	nextSend := finance.AdvanceSendDate(finance.Today(), freq)
	if req.NextSend != "" {
		d, err := finance.ParseDate(req.NextSend)
		if err != nil {
			return sch, fmt.Errorf("invalid next_send %q (use YYYY-MM-DD)", req.NextSend)
		}
		nextSend = d
	}

	return finance.ReportSchedule{
		Email:            req.Email,
		Format:           format,
		Frequency:        freq,
		IncludeBudget:    boolOr(req.IncludeBudget, true),
		IncludeTrends:    boolOr(req.IncludeTrends, true),
		IncludeRecurring: boolOr(req.IncludeRecurring, false),
		NextSend:         nextSend,
		Active:           boolOr(req.Active, true),
		UserID:           req.UserID,
	}, nil
}

func boolOr(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}

// =============================================================================
// REPORT EXPORT AND TRENDS
// =============================================================================

// ExportReport streams a one-off report download
// (?format=pdf|excel&start=&end=, default the current month).
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := finance.ReportFormat(q.Get("format"))
	if format == "" {
		format = finance.FormatPDF
	}
	if format != finance.FormatPDF && format != finance.FormatExcel {
		writeError(w, http.StatusBadRequest, "format must be pdf or excel", nil)
		return
	}

	start, end, err := resolveRange(q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	data, err := jobs.BuildReportData(r.Context(), h.Store, report.Options{
		Title:            "Finance Report",
		PeriodStart:      start,
		PeriodEnd:        end,
		IncludeBudget:    true,
		IncludeTrends:    true,
		IncludeRecurring: true,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report", err)
		return
	}

	var out []byte
	var contentType, ext string
	if format == finance.FormatExcel {
		out, err = report.RenderExcel(data)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		ext = "xlsx"
	} else {
		out, err = report.RenderPDF(data)
		contentType = "application/pdf"
		ext = "pdf"
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render report", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="finance-report-%s.%s"`, end, ext))
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// resolveRange defaults to the current month and swaps a reversed range.
func resolveRange(startStr, endStr string) (finance.Date, finance.Date, error) {
	today := finance.Today()
	start, end := today.StartOfMonth(), today.EndOfMonth()

	if startStr != "" {
		d, err := finance.ParseDate(startStr)
		if err != nil {
			return start, end, fmt.Errorf("invalid start date %q", startStr)
		}
		start = d
	}
	if endStr != "" {
		d, err := finance.ParseDate(endStr)
		if err != nil {
			return start, end, fmt.Errorf("invalid end date %q", endStr)
		}
		end = d
	}
	if end.Before(start) {
		start, end = end, start
	}
	return start, end, nil
}

// GetTrends returns monthly income/expense totals
// (?start=&end=, default the last six calendar months).
func (h *Handler) GetTrends(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	today := finance.Today()
	start := today.AddMonths(-5).StartOfMonth()
	end := today.EndOfMonth()

	if v := q.Get("start"); v != "" {
		d, err := finance.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid start date %q", v), nil)
			return
		}
		start = d
	}
	if v := q.Get("end"); v != "" {
		d, err := finance.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid end date %q", v), nil)
			return
		}
		end = d
	}

	ctx := r.Context()
	filter := sqlite.Filter{From: &start, To: &end}
	expenses, err := h.Store.ListTransactions(ctx, finance.TxExpense, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expenses", err)
		return
	}
	credits, err := h.Store.ListTransactions(ctx, finance.TxCredit, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list credits", err)
		return
	}

	writeJSON(w, http.StatusOK, toMonthlyTrendDTOs(report.BuildTrends(expenses, credits)))
}

// =============================================================================
// STATEMENT UPLOAD
// =============================================================================

// UploadStatement imports a multipart bank statement CSV under the "file"
// field. The whole batch commits or rolls back together.
func (h *Handler) UploadStatement(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file upload field \"file\"", err)
		return
	}
	defer file.Close()

	rows, err := bankimport.ReadCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse CSV", err)
		return
	}

	normalized := h.Normalizer.Normalize(rows)
	result, err := h.Store.ImportTransactions(r.Context(), normalized, uuid.NewString)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to import transactions", err)
		return
	}

	h.Log.Info().
		Str("file", header.Filename).
		Int("inserted", result.Inserted).
		Int("duplicates", result.Duplicates).
		Int("dropped", len(rows)-len(normalized)).
		Msg("statement imported")

	writeJSON(w, http.StatusOK, UploadResultDTO{
		Inserted:   result.Inserted,
		Duplicates: result.Duplicates,
		Dropped:    len(rows) - len(normalized),
	})
}

// =============================================================================
// ADMIN
// =============================================================================

// RunJobsNow executes both scheduled jobs immediately.
func (h *Handler) RunJobsNow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	today := finance.Today()

	posted, err := h.Jobs.PostDueRecurring(ctx, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Recurring job failed", err)
		return
	}
	sent, err := h.Jobs.DispatchDueReports(ctx, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Report dispatch failed", err)
		return
	}

	writeJSON(w, http.StatusOK, JobRunResultDTO{
		RecurringPosted: posted,
		ReportsSent:     sent,
	})
}

// Health is a liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps ErrNotFound to 404, everything else to 500.
func writeStoreError(w http.ResponseWriter, message string, err error) {
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Record not found", nil)
		return
	}
	writeError(w, http.StatusInternalServerError, message, err)
}
