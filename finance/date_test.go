package finance_test

import (
	"testing"
	"time"

	"github.com/fintrack/fintrack/finance"
)

func TestAddMonths_ClampsEndOfMonth(t *testing.T) {
	cases := []struct {
		from   finance.Date
		months int
		want   string
	}{
		{finance.NewDate(2024, time.January, 31), 1, "2024-02-29"},
		{finance.NewDate(2025, time.January, 31), 1, "2025-02-28"},
		{finance.NewDate(2024, time.March, 31), 1, "2024-04-30"},
		{finance.NewDate(2024, time.January, 15), 1, "2024-02-15"},
		{finance.NewDate(2024, time.October, 31), 3, "2025-01-31"},
		{finance.NewDate(2024, time.February, 29), 12, "2025-02-28"},
		{finance.NewDate(2024, time.March, 31), -1, "2024-02-29"},
	}

	for _, c := range cases {
		if got := c.from.AddMonths(c.months).String(); got != c.want {
			t.Errorf("%s + %d months: expected %s, got %s", c.from, c.months, c.want, got)
		}
	}
}

func TestWithDay_Clamps(t *testing.T) {
	feb := finance.NewDate(2025, time.February, 10)
	if got := feb.WithDay(31).String(); got != "2025-02-28" {
		t.Errorf("expected 2025-02-28, got %s", got)
	}
	if got := feb.WithDay(5).String(); got != "2025-02-05" {
		t.Errorf("expected 2025-02-05, got %s", got)
	}
}

func TestPriorMonth(t *testing.T) {
	start, end := finance.NewDate(2024, time.March, 15).PriorMonth()
	if start.String() != "2024-02-01" || end.String() != "2024-02-29" {
		t.Errorf("expected 2024-02-01..2024-02-29, got %s..%s", start, end)
	}

	start, end = finance.NewDate(2024, time.January, 1).PriorMonth()
	if start.String() != "2023-12-01" || end.String() != "2023-12-31" {
		t.Errorf("expected 2023-12-01..2023-12-31, got %s..%s", start, end)
	}
}

func TestPriorISOWeek(t *testing.T) {
	// GIVEN: a Wednesday
	// THEN: the prior ISO week runs Monday through Sunday of last week
	start, end := finance.NewDate(2024, time.March, 13).PriorISOWeek()
	if start.String() != "2024-03-04" || end.String() != "2024-03-10" {
		t.Errorf("expected 2024-03-04..2024-03-10, got %s..%s", start, end)
	}

	// Sundays belong to the week that started the previous Monday.
	start, end = finance.NewDate(2024, time.March, 10).PriorISOWeek()
	if start.String() != "2024-02-26" || end.String() != "2024-03-03" {
		t.Errorf("expected 2024-02-26..2024-03-03, got %s..%s", start, end)
	}

	// A Monday's prior week ends on yesterday.
	start, end = finance.NewDate(2024, time.March, 11).PriorISOWeek()
	if start.String() != "2024-03-04" || end.String() != "2024-03-10" {
		t.Errorf("expected 2024-03-04..2024-03-10, got %s..%s", start, end)
	}
}

func TestParseDate(t *testing.T) {
	d, err := finance.ParseDate("2024-03-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-03-05" {
		t.Errorf("round trip failed: %s", d)
	}

	if _, err := finance.ParseDate("05/03/2024"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}
