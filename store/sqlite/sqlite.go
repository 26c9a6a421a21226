/*
Package sqlite provides the SQLite-backed persistence layer.

PURPOSE:
  Single storage implementation for all finance records. In production, the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  expenses:               Outgoing transactions
  credits:                Incoming transactions
  budget_goals:           Per-category monthly limits
  recurring_transactions: Rules the scheduler materializes into rows
  expected_incomes:       Income the reconciliation view checks against
  report_schedules:       Standing report email orders

STORAGE FORMATS:
  Dates:   TEXT in ISO form ("2006-01-02"); lexicographic order is date order
  Amounts: TEXT from decimal.String(); duplicate checks compare through
           CAST(amount AS REAL) so "45.3" and "45.30" collide

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - finance/types.go: the record types stored here
  - jobs/runner.go:   the scheduler consuming the due-row queries
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/finance"
)

// ErrNotFound marks a lookup or mutation that matched no row.
var ErrNotFound = errors.New("record not found")

// Store implements all persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'Uncategorized',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS credits (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'Income',
		created_at TEXT NOT NULL
	);

	-- Date ranges are the hot path for both tables
	CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date);
	CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(category);
	CREATE INDEX IF NOT EXISTS idx_credits_date ON credits(date);

	-- Duplicate detection during statement import
	CREATE INDEX IF NOT EXISTS idx_expenses_dedup ON expenses(name, date);
	CREATE INDEX IF NOT EXISTS idx_credits_dedup ON credits(name, date);

	CREATE TABLE IF NOT EXISTS budget_goals (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL UNIQUE,
		monthly_limit TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS recurring_transactions (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'Uncategorized',
		amount TEXT NOT NULL,
		frequency TEXT NOT NULL,
		day_of_month INTEGER,
		weekday INTEGER,
		next_run TEXT NOT NULL,
		last_run TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_recurring_due
		ON recurring_transactions(next_run) WHERE active = TRUE;

	CREATE TABLE IF NOT EXISTS expected_incomes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		expected_amount TEXT NOT NULL,
		frequency TEXT NOT NULL DEFAULT 'monthly',
		due_day INTEGER,
		notes TEXT NOT NULL DEFAULT '',
		last_received TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS report_schedules (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		format TEXT NOT NULL,
		frequency TEXT NOT NULL,
		include_budget BOOLEAN NOT NULL DEFAULT TRUE,
		include_trends BOOLEAN NOT NULL DEFAULT TRUE,
		include_recurring BOOLEAN NOT NULL DEFAULT FALSE,
		next_send TEXT NOT NULL,
		last_sent_at TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		user_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_schedules_due
		ON report_schedules(next_send) WHERE active = TRUE;
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTIONS (expenses and credits)
// =============================================================================

// Filter narrows transaction listings. Zero values mean "no constraint".
type Filter struct {
	From     *finance.Date
	To       *finance.Date
	Category string
	Name     string // case-insensitive substring match
}

func tableFor(typ finance.TxType) string {
	if typ == finance.TxCredit {
		return "credits"
	}
	return "expenses"
}

// ListTransactions returns transactions of one type, newest date first.
func (s *Store) ListTransactions(ctx context.Context, typ finance.TxType, f Filter) ([]finance.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, name, amount, date, category FROM " + tableFor(typ)
	var clauses []string
	var args []any
	if f.From != nil {
		clauses = append(clauses, "date >= ?")
		args = append(args, f.From.String())
	}
	if f.To != nil {
		clauses = append(clauses, "date <= ?")
		args = append(args, f.To.String())
	}
	if f.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, f.Category)
	}
	if f.Name != "" {
		clauses = append(clauses, "name LIKE ?")
		args = append(args, "%"+f.Name+"%")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", tableFor(typ), err)
	}
	defer rows.Close()

	var txs []finance.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows, typ)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func scanTransaction(rows *sql.Rows, typ finance.TxType) (finance.Transaction, error) {
	var tx finance.Transaction
	var amount, date string

	if err := rows.Scan(&tx.ID, &tx.Name, &amount, &date, &tx.Category); err != nil {
		return tx, fmt.Errorf("failed to scan transaction: %w", err)
	}

	tx.Type = typ
	tx.Amount = mustDecimal(amount)
	tx.Date, _ = finance.ParseDate(date)
	return tx, nil
}

// AddTransaction inserts a transaction into its type's table.
func (s *Store) AddTransaction(ctx context.Context, tx finance.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertTransaction(ctx, s.db, tx)
}

func (s *Store) insertTransaction(ctx context.Context, db execer, tx finance.Transaction) error {
	query := "INSERT INTO " + tableFor(tx.Type) +
		" (id, name, amount, date, category, created_at) VALUES (?, ?, ?, ?, ?, ?)"

	_, err := db.ExecContext(ctx, query,
		tx.ID, tx.Name, tx.Amount.String(), tx.Date.String(), tx.Category,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// UpdateTransaction replaces the mutable fields of a transaction.
func (s *Store) UpdateTransaction(ctx context.Context, tx finance.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := "UPDATE " + tableFor(tx.Type) +
		" SET name = ?, amount = ?, date = ?, category = ? WHERE id = ?"

	res, err := s.db.ExecContext(ctx, query,
		tx.Name, tx.Amount.String(), tx.Date.String(), tx.Category, tx.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return requireRow(res)
}

// DeleteTransaction removes a transaction by type and ID.
func (s *Store) DeleteTransaction(ctx context.Context, typ finance.TxType, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM "+tableFor(typ)+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return requireRow(res)
}

// =============================================================================
// STATEMENT IMPORT
// =============================================================================

// ImportResult summarizes one import batch.
type ImportResult struct {
	Inserted   int
	Duplicates int
}

// ImportTransactions inserts normalized statement rows in one database
// transaction. A row whose (name, date, amount) already exists in its target
// table counts as a duplicate and is skipped; any error rolls back the whole
// batch. The id for each inserted row comes from newID.
func (s *Store) ImportTransactions(ctx context.Context, rows []finance.NormalizedRow, newID func() string) (ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result ImportResult

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, row := range rows {
		typ := finance.TxExpense
		if row.Type == finance.RowIncome {
			typ = finance.TxCredit
		}

		// Amounts are TEXT, so compare numerically: "45.3" == "45.30"
		var count int
		dupQuery := "SELECT COUNT(*) FROM " + tableFor(typ) +
			" WHERE name = ? AND date = ? AND CAST(amount AS REAL) = CAST(? AS REAL)"
		if err := sqlTx.QueryRowContext(ctx, dupQuery, row.Name, row.Date, row.Amount.String()).Scan(&count); err != nil {
			return ImportResult{}, fmt.Errorf("failed to check duplicate: %w", err)
		}
		if count > 0 {
			result.Duplicates++
			continue
		}

		date, err := finance.ParseDate(row.Date)
		if err != nil {
			return ImportResult{}, fmt.Errorf("bad normalized date %q: %w", row.Date, err)
		}
		err = s.insertTransaction(ctx, sqlTx, finance.Transaction{
			ID:       newID(),
			Type:     typ,
			Name:     row.Name,
			Amount:   row.Amount,
			Date:     date,
			Category: row.Category,
		})
		if err != nil {
			return ImportResult{}, err
		}
		result.Inserted++
	}

	if err := sqlTx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("failed to commit import: %w", err)
	}
	return result, nil
}

// =============================================================================
// BUDGET GOALS
// =============================================================================

// ListBudgetGoals returns goals ordered by category; activeOnly hides
// soft-deleted rows.
func (s *Store) ListBudgetGoals(ctx context.Context, activeOnly bool) ([]finance.BudgetGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, category, monthly_limit, active FROM budget_goals"
	if activeOnly {
		query += " WHERE active = TRUE"
	}
	query += " ORDER BY category"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []finance.BudgetGoal
	for rows.Next() {
		var g finance.BudgetGoal
		var limit string
		if err := rows.Scan(&g.ID, &g.Category, &limit, &g.Active); err != nil {
			return nil, err
		}
		g.MonthlyLimit = mustDecimal(limit)
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// SaveBudgetGoal upserts a goal keyed by category.
func (s *Store) SaveBudgetGoal(ctx context.Context, g finance.BudgetGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO budget_goals (id, category, monthly_limit, active, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET
			monthly_limit = excluded.monthly_limit,
			active = excluded.active
	`
	_, err := s.db.ExecContext(ctx, query,
		g.ID, g.Category, g.MonthlyLimit.String(), g.Active,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// DeleteBudgetGoal deactivates a goal. The row stays so saving the same
// category again reactivates it in place.
func (s *Store) DeleteBudgetGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE budget_goals SET active = FALSE WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// =============================================================================
// RECURRING RULES
// =============================================================================

const recurringColumns = "id, type, name, category, amount, frequency, day_of_month, weekday, next_run, last_run, active"

// ListRecurring returns all rules, soonest next_run first.
func (s *Store) ListRecurring(ctx context.Context) ([]finance.RecurringRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRecurring(ctx,
		"SELECT "+recurringColumns+" FROM recurring_transactions ORDER BY next_run ASC")
}

// GetRecurring returns one rule, or ErrNotFound.
func (s *Store) GetRecurring(ctx context.Context, id string) (*finance.RecurringRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules, err := s.queryRecurring(ctx,
		"SELECT "+recurringColumns+" FROM recurring_transactions WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, ErrNotFound
	}
	return &rules[0], nil
}

// DueRecurring returns active rules whose next_run is on or before today.
func (s *Store) DueRecurring(ctx context.Context, today finance.Date) ([]finance.RecurringRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRecurring(ctx,
		"SELECT "+recurringColumns+" FROM recurring_transactions WHERE active = TRUE AND next_run <= ? ORDER BY next_run ASC",
		today.String())
}

func (s *Store) queryRecurring(ctx context.Context, query string, args ...any) ([]finance.RecurringRule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring rules: %w", err)
	}
	defer rows.Close()

	var rules []finance.RecurringRule
	for rows.Next() {
		var r finance.RecurringRule
		var amount, nextRun string
		var lastRun sql.NullString
		var dayOfMonth, weekday sql.NullInt64

		if err := rows.Scan(&r.ID, &r.Type, &r.Name, &r.Category, &amount, &r.Frequency,
			&dayOfMonth, &weekday, &nextRun, &lastRun, &r.Active); err != nil {
			return nil, err
		}

		r.Amount = mustDecimal(amount)
		r.NextRun, _ = finance.ParseDate(nextRun)
		if lastRun.Valid {
			d, _ := finance.ParseDate(lastRun.String)
			r.LastRun = &d
		}
		if dayOfMonth.Valid {
			v := int(dayOfMonth.Int64)
			r.DayOfMonth = &v
		}
		if weekday.Valid {
			w := time.Weekday(weekday.Int64)
			r.Weekday = &w
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// SaveRecurring upserts a rule.
func (s *Store) SaveRecurring(ctx context.Context, r finance.RecurringRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO recurring_transactions
		(id, type, name, category, amount, frequency, day_of_month, weekday, next_run, last_run, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			name = excluded.name,
			category = excluded.category,
			amount = excluded.amount,
			frequency = excluded.frequency,
			day_of_month = excluded.day_of_month,
			weekday = excluded.weekday,
			next_run = excluded.next_run,
			last_run = excluded.last_run,
			active = excluded.active
	`

	var lastRun *string
	if r.LastRun != nil {
		v := r.LastRun.String()
		lastRun = &v
	}
	var dayOfMonth, weekday *int64
	if r.DayOfMonth != nil {
		v := int64(*r.DayOfMonth)
		dayOfMonth = &v
	}
	if r.Weekday != nil {
		v := int64(*r.Weekday)
		weekday = &v
	}

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.Type, r.Name, r.Category, r.Amount.String(), r.Frequency,
		dayOfMonth, weekday, r.NextRun.String(), lastRun, r.Active,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// MarkRuleFired records a firing: last_run moves to the firing day and
// next_run to the freshly computed occurrence.
func (s *Store) MarkRuleFired(ctx context.Context, id string, firedOn, nextRun finance.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE recurring_transactions SET last_run = ?, next_run = ? WHERE id = ?",
		firedOn.String(), nextRun.String(), id)
	if err != nil {
		return fmt.Errorf("failed to mark rule fired: %w", err)
	}
	return requireRow(res)
}

// DeleteRecurring removes a rule by ID.
func (s *Store) DeleteRecurring(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM recurring_transactions WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// =============================================================================
// EXPECTED INCOMES
// =============================================================================

const expectedIncomeColumns = "id, name, category, expected_amount, frequency, due_day, notes, last_received, active"

// ListExpectedIncomes returns expected incomes; activeOnly filters to
// currently active rows.
func (s *Store) ListExpectedIncomes(ctx context.Context, activeOnly bool) ([]finance.ExpectedIncome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + expectedIncomeColumns + " FROM expected_incomes"
	if activeOnly {
		query += " WHERE active = TRUE"
	}
	query += " ORDER BY name"

	return s.queryExpectedIncomes(ctx, query)
}

// GetExpectedIncome returns one expected income, or ErrNotFound.
func (s *Store) GetExpectedIncome(ctx context.Context, id string) (*finance.ExpectedIncome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	incomes, err := s.queryExpectedIncomes(ctx,
		"SELECT "+expectedIncomeColumns+" FROM expected_incomes WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(incomes) == 0 {
		return nil, ErrNotFound
	}
	return &incomes[0], nil
}

func (s *Store) queryExpectedIncomes(ctx context.Context, query string, args ...any) ([]finance.ExpectedIncome, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incomes []finance.ExpectedIncome
	for rows.Next() {
		var inc finance.ExpectedIncome
		var amount string
		var dueDay sql.NullInt64
		var lastReceived sql.NullString
		if err := rows.Scan(&inc.ID, &inc.Name, &inc.Category, &amount, &inc.Frequency,
			&dueDay, &inc.Notes, &lastReceived, &inc.Active); err != nil {
			return nil, err
		}
		inc.ExpectedAmount = mustDecimal(amount)
		if dueDay.Valid {
			v := int(dueDay.Int64)
			inc.DueDay = &v
		}
		if lastReceived.Valid {
			d, _ := finance.ParseDate(lastReceived.String)
			inc.LastReceived = &d
		}
		incomes = append(incomes, inc)
	}
	return incomes, rows.Err()
}

// SaveExpectedIncome upserts an expected income.
func (s *Store) SaveExpectedIncome(ctx context.Context, inc finance.ExpectedIncome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO expected_incomes
		(id, name, category, expected_amount, frequency, due_day, notes, last_received, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			expected_amount = excluded.expected_amount,
			frequency = excluded.frequency,
			due_day = excluded.due_day,
			notes = excluded.notes,
			last_received = excluded.last_received,
			active = excluded.active
	`

	var dueDay *int64
	if inc.DueDay != nil {
		v := int64(*inc.DueDay)
		dueDay = &v
	}
	var lastReceived *string
	if inc.LastReceived != nil {
		v := inc.LastReceived.String()
		lastReceived = &v
	}

	freq := inc.Frequency
	if freq == "" {
		freq = finance.Monthly
	}

	_, err := s.db.ExecContext(ctx, query,
		inc.ID, inc.Name, inc.Category, inc.ExpectedAmount.String(),
		freq, dueDay, inc.Notes, lastReceived, inc.Active,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// DeleteExpectedIncome removes an expected income by ID.
func (s *Store) DeleteExpectedIncome(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM expected_incomes WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// =============================================================================
// REPORT SCHEDULES
// =============================================================================

const scheduleColumns = "id, email, format, frequency, include_budget, include_trends, include_recurring, next_send, last_sent_at, active, user_id"

// ListReportSchedules returns all schedules, soonest next_send first.
func (s *Store) ListReportSchedules(ctx context.Context) ([]finance.ReportSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.querySchedules(ctx,
		"SELECT "+scheduleColumns+" FROM report_schedules ORDER BY next_send ASC")
}

// DueReportSchedules returns active schedules whose next_send is on or
// before today.
func (s *Store) DueReportSchedules(ctx context.Context, today finance.Date) ([]finance.ReportSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.querySchedules(ctx,
		"SELECT "+scheduleColumns+" FROM report_schedules WHERE active = TRUE AND next_send <= ? ORDER BY next_send ASC",
		today.String())
}

func (s *Store) querySchedules(ctx context.Context, query string, args ...any) ([]finance.ReportSchedule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query report schedules: %w", err)
	}
	defer rows.Close()

	var schedules []finance.ReportSchedule
	for rows.Next() {
		var sch finance.ReportSchedule
		var nextSend string
		var lastSent sql.NullString
		if err := rows.Scan(&sch.ID, &sch.Email, &sch.Format, &sch.Frequency,
			&sch.IncludeBudget, &sch.IncludeTrends, &sch.IncludeRecurring,
			&nextSend, &lastSent, &sch.Active, &sch.UserID); err != nil {
			return nil, err
		}
		sch.NextSend, _ = finance.ParseDate(nextSend)
		if lastSent.Valid {
			t, _ := time.Parse(time.RFC3339, lastSent.String)
			sch.LastSentAt = &t
		}
		schedules = append(schedules, sch)
	}
	return schedules, rows.Err()
}

// SaveReportSchedule upserts a schedule.
func (s *Store) SaveReportSchedule(ctx context.Context, sch finance.ReportSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO report_schedules
		(id, email, format, frequency, include_budget, include_trends, include_recurring,
		 next_send, last_sent_at, active, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			format = excluded.format,
			frequency = excluded.frequency,
			include_budget = excluded.include_budget,
			include_trends = excluded.include_trends,
			include_recurring = excluded.include_recurring,
			next_send = excluded.next_send,
			last_sent_at = excluded.last_sent_at,
			active = excluded.active,
			user_id = excluded.user_id
	`

	var lastSent *string
	if sch.LastSentAt != nil {
		v := sch.LastSentAt.UTC().Format(time.RFC3339)
		lastSent = &v
	}

	_, err := s.db.ExecContext(ctx, query,
		sch.ID, sch.Email, sch.Format, sch.Frequency,
		sch.IncludeBudget, sch.IncludeTrends, sch.IncludeRecurring,
		sch.NextSend.String(), lastSent, sch.Active, sch.UserID,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// MarkReportSent records a successful dispatch and the advanced next_send.
func (s *Store) MarkReportSent(ctx context.Context, id string, sentAt time.Time, nextSend finance.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE report_schedules SET last_sent_at = ?, next_send = ? WHERE id = ?",
		sentAt.UTC().Format(time.RFC3339), nextSend.String(), id)
	if err != nil {
		return fmt.Errorf("failed to mark report sent: %w", err)
	}
	return requireRow(res)
}

// DeleteReportSchedule removes a schedule by ID.
func (s *Store) DeleteReportSchedule(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM report_schedules WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"expenses", "credits", "budget_goals",
		"recurring_transactions", "expected_incomes", "report_schedules",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// mustDecimal parses stored amounts; the store only ever writes
// decimal.String() output so a parse failure means external corruption.
func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
