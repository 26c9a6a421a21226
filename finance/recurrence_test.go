package finance_test

import (
	"testing"
	"time"

	"github.com/fintrack/fintrack/finance"
)

func wd(d time.Weekday) *time.Weekday { return &d }
func dom(n int) *int                  { return &n }

// =============================================================================
// WEEKLY / BIWEEKLY
// =============================================================================

func TestNextRun_Weekly_NoAnchor(t *testing.T) {
	// GIVEN: a weekly rule with no weekday anchor
	// WHEN: computing the next run from a Wednesday
	// THEN: the result is exactly 7 days later

	ref := finance.NewDate(2024, time.March, 6) // Wednesday
	next := finance.NextRun(finance.Weekly, nil, nil, ref)

	if got, want := next.String(), "2024-03-13"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestNextRun_Weekly_AnchorAlreadyMatches(t *testing.T) {
	// GIVEN: a weekly rule anchored to Wednesday
	// WHEN: reference + 7 days already lands on a Wednesday
	// THEN: no extra advancement happens

	ref := finance.NewDate(2024, time.March, 6) // Wednesday
	next := finance.NextRun(finance.Weekly, nil, wd(time.Wednesday), ref)

	if got, want := next.String(), "2024-03-13"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestNextRun_Weekly_AnchorAdvancesForwardOnly(t *testing.T) {
	// GIVEN: a weekly rule anchored to Monday (weekday 1)
	// WHEN: reference + 7 days lands on a Wednesday
	// THEN: the date advances forward to the next Monday, never backward

	ref := finance.NewDate(2024, time.March, 6) // Wednesday
	next := finance.NextRun(finance.Weekly, nil, wd(time.Monday), ref)

	if next.Weekday() != time.Monday {
		t.Fatalf("expected Monday, got %s", next.Weekday())
	}
	if got, want := next.String(), "2024-03-18"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if !next.After(ref.AddDays(7)) && !next.Equal(ref.AddDays(7)) {
		t.Errorf("next run %s is earlier than reference+7d", next)
	}
}

func TestNextRun_Biweekly(t *testing.T) {
	// GIVEN: a biweekly rule anchored to Sunday (weekday 0)
	// WHEN: computing from a Friday
	// THEN: result is >= reference + 14 days and lands on Sunday

	ref := finance.NewDate(2024, time.March, 1) // Friday
	next := finance.NextRun(finance.Biweekly, nil, wd(time.Sunday), ref)

	if next.Weekday() != time.Sunday {
		t.Fatalf("expected Sunday, got %s", next.Weekday())
	}
	if next.Before(ref.AddDays(14)) {
		t.Errorf("next run %s is earlier than reference+14d", next)
	}
	if got, want := next.String(), "2024-03-17"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

// =============================================================================
// MONTHLY / QUARTERLY / YEARLY
// =============================================================================

func TestNextRun_Monthly_Day31IntoFebruary(t *testing.T) {
	// GIVEN: a monthly rule anchored to day 31
	// WHEN: firing from January 31
	// THEN: February's run clamps to the last day of February

	ref := finance.NewDate(2024, time.January, 31)
	next := finance.NextRun(finance.Monthly, dom(31), nil, ref)

	if got, want := next.String(), "2024-02-29"; got != want { // 2024 is a leap year
		t.Errorf("expected %s, got %s", want, got)
	}

	ref = finance.NewDate(2025, time.January, 31)
	next = finance.NextRun(finance.Monthly, dom(31), nil, ref)
	if got, want := next.String(), "2025-02-28"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestNextRun_Monthly_Day31Into30DayMonth(t *testing.T) {
	ref := finance.NewDate(2024, time.March, 31)
	next := finance.NextRun(finance.Monthly, dom(31), nil, ref)

	if got, want := next.String(), "2024-04-30"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestNextRun_Monthly_NoAnchorPreservesReferenceDay(t *testing.T) {
	// GIVEN: a monthly rule with no day-of-month anchor
	// WHEN: firing from the 15th
	// THEN: the next run keeps the 15th via calendar-month addition

	ref := finance.NewDate(2024, time.March, 15)
	next := finance.NextRun(finance.Monthly, nil, nil, ref)

	if got, want := next.String(), "2024-04-15"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	// An un-anchored rule firing from Jan 31 still clamps into February
	// rather than spilling into March.
	ref = finance.NewDate(2024, time.January, 31)
	next = finance.NextRun(finance.Monthly, nil, nil, ref)
	if got, want := next.String(), "2024-02-29"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestNextRun_Quarterly(t *testing.T) {
	ref := finance.NewDate(2024, time.November, 30)
	next := finance.NextRun(finance.Quarterly, dom(31), nil, ref)

	if got, want := next.String(), "2025-02-28"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestNextRun_Yearly(t *testing.T) {
	// Feb 29 in a leap year fires next on Feb 28.
	ref := finance.NewDate(2024, time.February, 29)
	next := finance.NextRun(finance.Yearly, nil, nil, ref)

	if got, want := next.String(), "2025-02-28"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestNextRun_UnknownFrequencyFallsBackToMonthly(t *testing.T) {
	ref := finance.NewDate(2024, time.March, 10)
	next := finance.NextRun(finance.Frequency("fortnightly-ish"), nil, nil, ref)

	if got, want := next.String(), "2024-04-10"; got != want {
		t.Errorf("expected monthly fallback %s, got %s", want, got)
	}
}

// =============================================================================
// REPORT SCHEDULE ADVANCEMENT
// =============================================================================

func TestAdvanceSendDate(t *testing.T) {
	// Weekly keeps the weekday, monthly the literal day (no anchor logic).
	d := finance.NewDate(2024, time.March, 4) // Monday

	weekly := finance.AdvanceSendDate(d, finance.Weekly)
	if got, want := weekly.String(), "2024-03-11"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	monthly := finance.AdvanceSendDate(finance.NewDate(2024, time.January, 31), finance.Monthly)
	if got, want := monthly.String(), "2024-02-29"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
