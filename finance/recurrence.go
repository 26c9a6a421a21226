package finance

import "time"

// =============================================================================
// RECURRENCE ENGINE
// =============================================================================

// NextRun computes the next occurrence of a recurring rule after reference.
// reference is the date the rule last fired, or today for a fresh rule.
//
// Policy:
//   - weekly:    reference + 7 days, then advance forward until the weekday
//     anchor matches (a date already on the anchor stays put)
//   - biweekly:  same with + 14 days
//   - monthly:   + 1 calendar month; a day-of-month anchor is clamped to the
//     resulting month's length (31 in February becomes the last day)
//   - quarterly: + 3 months, same clamping
//   - yearly:    + 12 months, same clamping
//   - anything else falls back to monthly
func NextRun(freq Frequency, dayOfMonth *int, weekday *time.Weekday, reference Date) Date {
	switch freq {
	case Weekly:
		return alignWeekday(reference.AddDays(7), weekday)
	case Biweekly:
		return alignWeekday(reference.AddDays(14), weekday)
	case Quarterly:
		return addMonthsAnchored(reference, 3, dayOfMonth)
	case Yearly:
		return addMonthsAnchored(reference, 12, dayOfMonth)
	default: // Monthly and unknown frequencies
		return addMonthsAnchored(reference, 1, dayOfMonth)
	}
}

// NextAfter computes the rule's next run date after reference.
func (r RecurringRule) NextAfter(reference Date) Date {
	return NextRun(r.Frequency, r.DayOfMonth, r.Weekday, reference)
}

// alignWeekday walks forward one day at a time until the target weekday.
// Never moves backward.
func alignWeekday(d Date, target *time.Weekday) Date {
	if target == nil {
		return d
	}
	for d.Weekday() != *target {
		d = d.AddDays(1)
	}
	return d
}

func addMonthsAnchored(d Date, months int, dayOfMonth *int) Date {
	next := d.AddMonths(months)
	if dayOfMonth != nil {
		next = next.WithDay(*dayOfMonth)
	}
	return next
}

// AdvanceSendDate moves a report schedule's send date forward one period.
// Unlike NextRun this is a plain add on the literal date, with no
// day-of-month anchor; weekly keeps the weekday, monthly keeps the day
// (clamped by calendar-month addition).
func AdvanceSendDate(d Date, freq Frequency) Date {
	if freq == Weekly {
		return d.AddDays(7)
	}
	return d.AddMonths(1)
}
