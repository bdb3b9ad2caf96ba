// Package recurrence holds the calendar arithmetic shared by the recurring schedulers.
package recurrence

import (
	"fmt"
	"time"
)

const (
	// MinDayOfMonth and MaxDayOfMonth bound a recurring definition's day. 28 is
	// the last day every month has.
	MinDayOfMonth = 1
	MaxDayOfMonth = 28

	periodLayout = "2006-01"
)

// ValidateDayOfMonth rejects days outside 1–28.
func ValidateDayOfMonth(day int) error {
	if day < MinDayOfMonth || day > MaxDayOfMonth {
		return fmt.Errorf("dayOfMonth must be between %d and %d, got %d", MinDayOfMonth, MaxDayOfMonth, day)
	}
	return nil
}

// DateInMonth returns midnight of the given day in t's month and location.
func DateInMonth(t time.Time, day int) time.Time {
	return time.Date(t.Year(), t.Month(), day, 0, 0, 0, 0, t.Location())
}

// NextRunDate advances from by one calendar month and pins the day of month.
// Stepping through the first of the month avoids the overflow AddDate has on
// the 29th–31st.
func NextRunDate(from time.Time, day int) time.Time {
	return time.Date(from.Year(), from.Month()+1, day, 0, 0, 0, 0, from.Location())
}

// FirstRunDate is the initial next-run pointer for a new definition: the day
// in the current month if it has not passed yet, otherwise next month.
func FirstRunDate(today time.Time, day int) time.Time {
	if HasPassedThisMonth(today, day) {
		return NextRunDate(today, day)
	}
	return DateInMonth(today, day)
}

// HasPassedThisMonth reports whether day is strictly before today's day of month.
func HasPassedThisMonth(today time.Time, day int) bool {
	return day < today.Day()
}

// MonthBounds returns [start of t's month, start of next month).
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// PeriodKey identifies t's calendar month, e.g. "2026-10".
func PeriodKey(t time.Time) string {
	return t.Format(periodLayout)
}

// ExceedsEnd reports whether next lies after an optional end date.
func ExceedsEnd(next time.Time, end *time.Time) bool {
	return end != nil && next.After(*end)
}
