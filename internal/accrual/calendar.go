package accrual

import "time"

// DateOnly truncates to midnight UTC so calendar comparisons ignore the
// time of day and zone the value arrived with.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddMonths advances by whole calendar months, clamping to the last day
// of the target month. Jan 31 + 1 month is Feb 28 (or 29), not Mar 3,
// which is what time.AddDate would give.
func AddMonths(t time.Time, months int) time.Time {
	t = DateOnly(t)
	anchor := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)

	day := t.Day()
	if last := daysInMonth(anchor.Year(), anchor.Month()); day > last {
		day = last
	}
	return time.Date(anchor.Year(), anchor.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthsBetween counts full calendar months elapsed from start to end,
// consistent with AddMonths clamping. Returns a negative count when end
// precedes start.
func MonthsBetween(start, end time.Time) int {
	start = DateOnly(start)
	end = DateOnly(end)

	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if AddMonths(start, months).After(end) {
		months--
	}
	return months
}
