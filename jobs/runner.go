/*
Package jobs holds the scheduled work: materializing due recurring rules
into transactions and emailing due reports.

PURPOSE:
  Both jobs are idempotent per day at the rule level but deliberately
  at-least-once overall: a failure leaves next_run/next_send untouched so
  the next tick retries, and a crash between insert and advance can repeat
  one firing. Individual rule failures are logged and skipped so one bad
  rule never blocks the rest.

SEE ALSO:
  - api/scheduler.go: the ticker that calls RunAll
  - store/sqlite:     the due-row queries these jobs consume
*/
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fintrack/fintrack/finance"
	"github.com/fintrack/fintrack/mailer"
	"github.com/fintrack/fintrack/report"
	"github.com/fintrack/fintrack/store/sqlite"
)

// Store is the persistence surface the jobs need.
type Store interface {
	ListTransactions(ctx context.Context, typ finance.TxType, f sqlite.Filter) ([]finance.Transaction, error)
	AddTransaction(ctx context.Context, tx finance.Transaction) error
	ListBudgetGoals(ctx context.Context, activeOnly bool) ([]finance.BudgetGoal, error)
	ListRecurring(ctx context.Context) ([]finance.RecurringRule, error)
	DueRecurring(ctx context.Context, today finance.Date) ([]finance.RecurringRule, error)
	MarkRuleFired(ctx context.Context, id string, firedOn, nextRun finance.Date) error
	DueReportSchedules(ctx context.Context, today finance.Date) ([]finance.ReportSchedule, error)
	MarkReportSent(ctx context.Context, id string, sentAt time.Time, nextSend finance.Date) error
}

// Runner executes the scheduled jobs.
type Runner struct {
	Store  Store
	Mailer mailer.Mailer
	Log    zerolog.Logger

	// FromEmail is the sender for report mail.
	FromEmail string

	// NewID defaults to uuid.NewString; overridable for tests.
	NewID func() string

	// Now defaults to time.Now; overridable for tests.
	Now func() time.Time
}

func (r *Runner) newID() string {
	if r.NewID != nil {
		return r.NewID()
	}
	return uuid.NewString()
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// RunAll executes both jobs for today and logs totals.
func (r *Runner) RunAll(ctx context.Context) {
	today := finance.Today()

	posted, err := r.PostDueRecurring(ctx, today)
	if err != nil {
		r.Log.Error().Err(err).Msg("recurring job failed")
	} else if posted > 0 {
		r.Log.Info().Int("posted", posted).Msg("recurring transactions posted")
	}

	sent, err := r.DispatchDueReports(ctx, today)
	if err != nil {
		r.Log.Error().Err(err).Msg("report dispatch failed")
	} else if sent > 0 {
		r.Log.Info().Int("sent", sent).Msg("scheduled reports sent")
	}
}

// =============================================================================
// RECURRING TRANSACTIONS
// =============================================================================

// PostDueRecurring inserts a transaction for every active rule whose
// next_run is due, then advances the rule past today. Returns how many
// rules fired.
func (r *Runner) PostDueRecurring(ctx context.Context, today finance.Date) (int, error) {
	due, err := r.Store.DueRecurring(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("load due rules: %w", err)
	}

	fired := 0
	for _, rule := range due {
		tx := finance.Transaction{
			ID:       r.newID(),
			Type:     rule.Type,
			Name:     rule.Name,
			Amount:   rule.Amount,
			Date:     today,
			Category: rule.Category,
		}
		if err := r.Store.AddTransaction(ctx, tx); err != nil {
			r.Log.Error().Err(err).Str("rule", rule.ID).Msg("failed to post recurring transaction")
			continue
		}
		if err := r.Store.MarkRuleFired(ctx, rule.ID, today, rule.NextAfter(today)); err != nil {
			// The transaction exists but the rule did not advance; the next
			// tick will fire it again. At-least-once, logged loudly.
			r.Log.Error().Err(err).Str("rule", rule.ID).Msg("failed to advance recurring rule")
			continue
		}
		fired++
	}
	return fired, nil
}

// =============================================================================
// SCHEDULED REPORTS
// =============================================================================

// DispatchDueReports renders and emails every due schedule. Returns how
// many reports went out. A disabled mailer short-circuits the whole job.
func (r *Runner) DispatchDueReports(ctx context.Context, today finance.Date) (int, error) {
	if !r.Mailer.Enabled() {
		r.Log.Debug().Msg("mail not configured, skipping report dispatch")
		return 0, nil
	}

	due, err := r.Store.DueReportSchedules(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("load due schedules: %w", err)
	}

	sent := 0
	for _, sch := range due {
		if err := r.dispatchOne(ctx, sch, today); err != nil {
			r.Log.Error().Err(err).Str("schedule", sch.ID).Str("to", sch.Email).
				Msg("failed to send scheduled report")
			continue
		}
		sent++
	}
	return sent, nil
}

func (r *Runner) dispatchOne(ctx context.Context, sch finance.ReportSchedule, today finance.Date) error {
	start, end := reportWindow(sch.Frequency, today)

	data, err := BuildReportData(ctx, r.Store, report.Options{
		Title:            reportTitle(sch.Frequency),
		PeriodStart:      start,
		PeriodEnd:        end,
		IncludeBudget:    sch.IncludeBudget,
		IncludeTrends:    sch.IncludeTrends,
		IncludeRecurring: sch.IncludeRecurring,
	})
	if err != nil {
		return err
	}

	att, err := renderAttachment(sch.Format, data)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Hi,\n\nAttached is your %s finance report covering %s to %s.\n\n"+
			"Income: %s\nExpenses: %s\nNet: %s\n",
		sch.Frequency, start, end,
		data.TotalIncome().StringFixed(2),
		data.TotalExpenses().StringFixed(2),
		data.Net().StringFixed(2),
	)

	err = r.Mailer.Send(ctx, mailer.Message{
		From:        r.FromEmail,
		To:          sch.Email,
		Subject:     fmt.Sprintf("%s (%s to %s)", data.Title, start, end),
		Body:        body,
		Attachments: []mailer.Attachment{att},
	})
	if err != nil {
		return err
	}

	return r.Store.MarkReportSent(ctx, sch.ID, r.now(),
		finance.AdvanceSendDate(sch.NextSend, sch.Frequency))
}

// reportWindow is the completed period a report covers: the prior ISO week
// for weekly schedules, the prior calendar month otherwise.
func reportWindow(freq finance.Frequency, today finance.Date) (finance.Date, finance.Date) {
	if freq == finance.Weekly {
		return today.PriorISOWeek()
	}
	return today.PriorMonth()
}

func reportTitle(freq finance.Frequency) string {
	if freq == finance.Weekly {
		return "Weekly Finance Report"
	}
	return "Monthly Finance Report"
}

func renderAttachment(format finance.ReportFormat, data report.Data) (mailer.Attachment, error) {
	switch format {
	case finance.FormatExcel:
		out, err := report.RenderExcel(data)
		if err != nil {
			return mailer.Attachment{}, err
		}
		return mailer.Attachment{
			Filename:    fmt.Sprintf("finance-report-%s.xlsx", data.PeriodEnd),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        out,
		}, nil
	default:
		out, err := report.RenderPDF(data)
		if err != nil {
			return mailer.Attachment{}, err
		}
		return mailer.Attachment{
			Filename:    fmt.Sprintf("finance-report-%s.pdf", data.PeriodEnd),
			ContentType: "application/pdf",
			Data:        out,
		}, nil
	}
}

// BuildReportData assembles everything a report needs for one period.
// Trends always cover the six calendar months ending with the period so a
// weekly report still shows context.
func BuildReportData(ctx context.Context, st Store, opts report.Options) (report.Data, error) {
	inRange := sqlite.Filter{From: &opts.PeriodStart, To: &opts.PeriodEnd}

	expenses, err := st.ListTransactions(ctx, finance.TxExpense, inRange)
	if err != nil {
		return report.Data{}, fmt.Errorf("load expenses: %w", err)
	}
	credits, err := st.ListTransactions(ctx, finance.TxCredit, inRange)
	if err != nil {
		return report.Data{}, fmt.Errorf("load credits: %w", err)
	}

	data := report.Data{Options: opts, Expenses: expenses, Credits: credits}

	if opts.IncludeBudget {
		goals, err := st.ListBudgetGoals(ctx, true)
		if err != nil {
			return report.Data{}, fmt.Errorf("load budget goals: %w", err)
		}
		data.Budget = finance.Progress(goals, expenses)
	}

	if opts.IncludeRecurring {
		rules, err := st.ListRecurring(ctx)
		if err != nil {
			return report.Data{}, fmt.Errorf("load recurring rules: %w", err)
		}
		for _, rule := range rules {
			if rule.Active {
				data.Recurring = append(data.Recurring, rule)
			}
		}
	}

	if opts.IncludeTrends {
		trendStart := opts.PeriodEnd.AddMonths(-5).StartOfMonth()
		trendRange := sqlite.Filter{From: &trendStart, To: &opts.PeriodEnd}
		trendExpenses, err := st.ListTransactions(ctx, finance.TxExpense, trendRange)
		if err != nil {
			return report.Data{}, fmt.Errorf("load trend expenses: %w", err)
		}
		trendCredits, err := st.ListTransactions(ctx, finance.TxCredit, trendRange)
		if err != nil {
			return report.Data{}, fmt.Errorf("load trend credits: %w", err)
		}
		data.Trends = report.BuildTrends(trendExpenses, trendCredits)
	}

	return data, nil
}
