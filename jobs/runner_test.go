package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/finance"
	"github.com/fintrack/fintrack/mailer"
	"github.com/fintrack/fintrack/store/sqlite"
)

type fakeMailer struct {
	enabled bool
	fail    bool
	sent    []mailer.Message
}

func (f *fakeMailer) Enabled() bool { return f.enabled }

func (f *fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newRunner(t *testing.T, m mailer.Mailer) (*Runner, *sqlite.Store) {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	var seq int
	return &Runner{
		Store:     st,
		Mailer:    m,
		Log:       zerolog.Nop(),
		FromEmail: "reports@example.com",
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	}, st
}

func mustDate(t *testing.T, s string) finance.Date {
	t.Helper()
	d, err := finance.ParseDate(s)
	require.NoError(t, err)
	return d
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestPostDueRecurringFiresAndAdvances(t *testing.T) {
	r, st := newRunner(t, &fakeMailer{})
	ctx := context.Background()

	// GIVEN a monthly rule overdue since the 15th
	dom := 15
	require.NoError(t, st.SaveRecurring(ctx, finance.RecurringRule{
		ID: "rent", Type: finance.TxExpense, Name: "Rent", Category: "Utilities",
		Amount: dec("1200"), Frequency: finance.Monthly, DayOfMonth: &dom,
		NextRun: mustDate(t, "2024-03-15"), Active: true,
	}))

	// WHEN the job runs on the 17th
	today := mustDate(t, "2024-03-17")
	fired, err := r.PostDueRecurring(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, fired)

	// THEN a dated expense exists
	expenses, err := st.ListTransactions(ctx, finance.TxExpense, sqlite.Filter{})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Rent", expenses[0].Name)
	assert.Equal(t, "2024-03-17", expenses[0].Date.String())

	// AND the rule advanced strictly past today, onto its anchor day
	rule, err := st.GetRecurring(ctx, "rent")
	require.NoError(t, err)
	assert.Equal(t, "2024-04-15", rule.NextRun.String())
	require.NotNil(t, rule.LastRun)
	assert.Equal(t, "2024-03-17", rule.LastRun.String())

	// AND running again the same day fires nothing
	fired, err = r.PostDueRecurring(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 0, fired)
}

func TestPostDueRecurringSkipsInactiveAndFuture(t *testing.T) {
	r, st := newRunner(t, &fakeMailer{})
	ctx := context.Background()

	require.NoError(t, st.SaveRecurring(ctx, finance.RecurringRule{
		ID: "paused", Type: finance.TxExpense, Name: "Paused", Category: "Others",
		Amount: dec("5"), Frequency: finance.Monthly,
		NextRun: mustDate(t, "2024-01-01"), Active: false,
	}))
	require.NoError(t, st.SaveRecurring(ctx, finance.RecurringRule{
		ID: "future", Type: finance.TxCredit, Name: "Future", Category: "Income",
		Amount: dec("5"), Frequency: finance.Monthly,
		NextRun: mustDate(t, "2024-04-01"), Active: true,
	}))

	fired, err := r.PostDueRecurring(ctx, mustDate(t, "2024-03-17"))
	require.NoError(t, err)
	assert.Equal(t, 0, fired)
}

func TestDispatchDueReportsSendsAndAdvances(t *testing.T) {
	fm := &fakeMailer{enabled: true}
	r, st := newRunner(t, fm)
	ctx := context.Background()

	// GIVEN February data and a monthly schedule due on March 1st
	require.NoError(t, st.AddTransaction(ctx, finance.Transaction{
		ID: "e1", Type: finance.TxExpense, Name: "Tesco Stores",
		Amount: dec("45.30"), Date: mustDate(t, "2024-02-10"), Category: "Groceries",
	}))
	require.NoError(t, st.SaveReportSchedule(ctx, finance.ReportSchedule{
		ID: "s1", Email: "me@example.com", Format: finance.FormatPDF,
		Frequency: finance.Monthly, IncludeBudget: true, IncludeTrends: true,
		NextSend: mustDate(t, "2024-03-01"), Active: true,
	}))

	// WHEN dispatching on March 1st
	sent, err := r.DispatchDueReports(ctx, mustDate(t, "2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	// THEN the mail covers the prior calendar month and carries a PDF
	require.Len(t, fm.sent, 1)
	msg := fm.sent[0]
	assert.Equal(t, "me@example.com", msg.To)
	assert.Contains(t, msg.Subject, "2024-02-01")
	assert.Contains(t, msg.Subject, "2024-02-29")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)
	assert.Equal(t, []byte("%PDF"), msg.Attachments[0].Data[:4])

	// AND the schedule advanced one month
	schedules, err := st.ListReportSchedules(ctx)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, "2024-04-01", schedules[0].NextSend.String())
	assert.NotNil(t, schedules[0].LastSentAt)
}

func TestDispatchDueReportsWeeklyWindow(t *testing.T) {
	fm := &fakeMailer{enabled: true}
	r, st := newRunner(t, fm)
	ctx := context.Background()

	require.NoError(t, st.SaveReportSchedule(ctx, finance.ReportSchedule{
		ID: "s1", Email: "me@example.com", Format: finance.FormatExcel,
		Frequency: finance.Weekly,
		NextSend:  mustDate(t, "2024-03-06"), Active: true,
	}))

	// WHEN dispatching on a Wednesday
	sent, err := r.DispatchDueReports(ctx, mustDate(t, "2024-03-06"))
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	// THEN the window is the prior Monday-to-Sunday week
	require.Len(t, fm.sent, 1)
	assert.Contains(t, fm.sent[0].Subject, "2024-02-26")
	assert.Contains(t, fm.sent[0].Subject, "2024-03-03")
	require.Len(t, fm.sent[0].Attachments, 1)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		fm.sent[0].Attachments[0].ContentType)
}

func TestDispatchFailureDoesNotAdvance(t *testing.T) {
	fm := &fakeMailer{enabled: true, fail: true}
	r, st := newRunner(t, fm)
	ctx := context.Background()

	require.NoError(t, st.SaveReportSchedule(ctx, finance.ReportSchedule{
		ID: "s1", Email: "me@example.com", Format: finance.FormatPDF,
		Frequency: finance.Monthly,
		NextSend:  mustDate(t, "2024-03-01"), Active: true,
	}))

	// WHEN the mailer is down
	sent, err := r.DispatchDueReports(ctx, mustDate(t, "2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	// THEN next_send stays put so the next tick retries
	schedules, err := st.ListReportSchedules(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", schedules[0].NextSend.String())
	assert.Nil(t, schedules[0].LastSentAt)
}

func TestDispatchSkipsWhenMailDisabled(t *testing.T) {
	r, st := newRunner(t, mailer.Disabled{})
	ctx := context.Background()

	require.NoError(t, st.SaveReportSchedule(ctx, finance.ReportSchedule{
		ID: "s1", Email: "me@example.com", Format: finance.FormatPDF,
		Frequency: finance.Monthly,
		NextSend:  mustDate(t, "2024-03-01"), Active: true,
	}))

	sent, err := r.DispatchDueReports(ctx, mustDate(t, "2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}
