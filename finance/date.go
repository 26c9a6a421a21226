package finance

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar-day abstraction (everything in this system is day-granular)
// =============================================================================

// Date is a calendar day in UTC. Ledger rows, rule due dates and report
// periods are all plain days; there is no time-of-day anywhere in the domain.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate parses an ISO calendar day (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }

// DaysInMonth returns the number of days in d's month.
func (d Date) DaysInMonth() int {
	return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Arithmetic
func (d Date) AddDays(n int) Date {
	return Date{Time: d.normalize().AddDate(0, 0, n)}
}

// AddMonths adds calendar months, clamping the day-of-month to the target
// month's length. Jan 31 + 1 month is Feb 28 (or 29), never Mar 2/3; this is
// deliberately not time.AddDate, which normalizes overflow forward.
func (d Date) AddMonths(n int) Date {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	target := Date{Time: first}
	day := d.Day()
	if max := target.DaysInMonth(); day > max {
		day = max
	}
	return NewDate(target.Year(), target.Month(), day)
}

// WithDay sets the day-of-month, clamped to the month's length.
func (d Date) WithDay(day int) Date {
	if day < 1 {
		day = 1
	}
	if max := d.DaysInMonth(); day > max {
		day = max
	}
	return NewDate(d.Year(), d.Month(), day)
}

func (d Date) StartOfMonth() Date { return NewDate(d.Year(), d.Month(), 1) }
func (d Date) EndOfMonth() Date   { return NewDate(d.Year(), d.Month(), d.DaysInMonth()) }

// PriorMonth returns the first and last day of the calendar month before d.
func (d Date) PriorMonth() (Date, Date) {
	start := d.StartOfMonth().AddMonths(-1)
	return start, start.EndOfMonth()
}

// PriorISOWeek returns the Monday and Sunday of the ISO week before the one
// containing d.
func (d Date) PriorISOWeek() (Date, Date) {
	// time.Weekday has Sunday = 0; shift so Monday = 0.
	offset := (int(d.Weekday()) + 6) % 7
	thisMonday := d.AddDays(-offset)
	start := thisMonday.AddDays(-7)
	return start, start.AddDays(6)
}

func (d Date) String() string { return d.Time.Format("2006-01-02") }
