package times

import (
	"time"
)

const (
	YearMonthDayLayout = "2006-01-02"
	DateTimeLayout     = "2006-01-02 15:04:05"
)

const (
	DayDuration  = 24 * time.Hour
	WeekDuration = 7 * DayDuration
)

// Day truncates the timestamp to midnight UTC of the same calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysInRange returns the number of calendar days covered by [start, end],
// inclusive of both endpoints. A range where end precedes start yields 0.
func DaysInRange(start, end time.Time) int {
	s, e := Day(start), Day(end)
	if e.Before(s) {
		return 0
	}

	return int(e.Sub(s)/DayDuration) + 1
}

// EachDay calls fn with the midnight of every calendar day in [start, end].
func EachDay(start, end time.Time, fn func(day time.Time)) {
	for d := Day(start); !d.After(Day(end)); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// IsWeekday reports whether t falls on Monday through Friday.
func IsWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// WithinClockWindow reports whether t's clock time falls in [startHour, endHour).
func WithinClockWindow(t time.Time, startHour, endHour int) bool {
	h := t.Hour()
	return h >= startHour && h < endHour
}

// HoursBetween returns the duration between two timestamps in fractional hours.
func HoursBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// CurrentDayUTC returns the current day in the UTC time zone.
func CurrentDayUTC() time.Time {
	return Day(time.Now())
}
