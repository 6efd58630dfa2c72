package lifecycle

import (
	"time"

	"github.com/t77yq/lifeos/internal/model"
)

// Advance moves t forward by interval units on the calendar. Month and year
// steps keep the day of month and clamp to the last day of a shorter month,
// so Jan 31 + 1 month is Feb 29 in a leap year. The wall clock time and
// location of t are preserved. ok is false for a non-positive interval or an
// unknown unit.
func Advance(t time.Time, interval int, unit model.RecurrenceUnit) (time.Time, bool) {
	if interval <= 0 {
		return time.Time{}, false
	}
	switch unit {
	case model.UnitDay:
		return t.AddDate(0, 0, interval), true
	case model.UnitWeek:
		return t.AddDate(0, 0, 7*interval), true
	case model.UnitMonth:
		return addMonths(t, interval), true
	case model.UnitYear:
		return addMonths(t, 12*interval), true
	default:
		return time.Time{}, false
	}
}

func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	first := time.Date(year, month+time.Month(months), 1, hour, min, sec, t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
