// Package accrual holds the pure paid-leave grant calculator. Everything
// here is deterministic calendar arithmetic over a policy config; no I/O.
package accrual

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sawa0358/hr-system-2025-sub003/internal/accrualconfig"
)

// YearsOfService returns service length in half-year steps: 6 elapsed
// months count as 0.5 years, 18 months as 1.5, and so on. Partial steps
// are dropped.
func YearsOfService(joinDate, asOf time.Time) float64 {
	months := MonthsBetween(joinDate, asOf)
	if months < 0 {
		return 0
	}
	return float64(months/6) / 2
}

// GrantDateAt returns the nth grant date (0-based) for an employee:
// grant 0 falls InitialMonths after the join date, each later grant
// IntervalMonths after the previous one.
func GrantDateAt(cfg accrualconfig.Config, joinDate time.Time, n int) time.Time {
	return AddMonths(joinDate, cfg.InitialMonths+n*cfg.IntervalMonths)
}

// NextGrantDate returns the earliest grant date on or after asOf.
func NextGrantDate(cfg accrualconfig.Config, joinDate, asOf time.Time) time.Time {
	asOf = DateOnly(asOf)

	n := grantIndexBefore(cfg, joinDate, asOf)
	if n < 0 {
		return GrantDateAt(cfg, joinDate, 0)
	}
	if d := GrantDateAt(cfg, joinDate, n); d.Equal(asOf) {
		return d
	}
	return GrantDateAt(cfg, joinDate, n+1)
}

// PreviousGrantDate returns the latest grant date on or before asOf, or
// nil when asOf falls before the first grant.
func PreviousGrantDate(cfg accrualconfig.Config, joinDate, asOf time.Time) *time.Time {
	n := grantIndexBefore(cfg, joinDate, DateOnly(asOf))
	if n < 0 {
		return nil
	}
	d := GrantDateAt(cfg, joinDate, n)
	return &d
}

// IsGrantDay reports whether d is exactly one of the employee's grant dates.
func IsGrantDay(cfg accrualconfig.Config, joinDate, d time.Time) bool {
	prev := PreviousGrantDate(cfg, joinDate, d)
	return prev != nil && prev.Equal(DateOnly(d))
}

// GrantDatesThrough lists every grant date from the first up to and
// including asOf, oldest first. Used by the scheduler backfill.
func GrantDatesThrough(cfg accrualconfig.Config, joinDate, asOf time.Time) []time.Time {
	n := grantIndexBefore(cfg, joinDate, DateOnly(asOf))
	if n < 0 {
		return nil
	}
	dates := make([]time.Time, 0, n+1)
	for i := 0; i <= n; i++ {
		dates = append(dates, GrantDateAt(cfg, joinDate, i))
	}
	return dates
}

// grantIndexBefore returns the largest n with GrantDateAt(n) <= asOf,
// or -1 when even the first grant is after asOf.
func grantIndexBefore(cfg accrualconfig.Config, joinDate, asOf time.Time) int {
	first := GrantDateAt(cfg, joinDate, 0)
	if first.After(asOf) {
		return -1
	}
	if cfg.IntervalMonths <= 0 {
		return 0
	}

	// Estimate from elapsed months, then settle on the exact index.
	// Day-of-month clamping can push the estimate off by one in either
	// direction.
	n := MonthsBetween(first, asOf) / cfg.IntervalMonths
	for n > 0 && GrantDateAt(cfg, joinDate, n).After(asOf) {
		n--
	}
	for !GrantDateAt(cfg, joinDate, n+1).After(asOf) {
		n++
	}
	return n
}

// GrantDays looks up the number of days granted for the employee's
// vacation pattern at the given service length. The lookup takes the row
// with the greatest years threshold not exceeding the actual service
// years. ok is false when the employee has not yet reached the first
// threshold or the pattern has no table.
func GrantDays(cfg accrualconfig.Config, pattern string, weeklyPattern int, serviceYears float64) (decimal.Decimal, bool) {
	rows := grantTable(cfg, pattern, weeklyPattern)
	if len(rows) == 0 {
		return decimal.Zero, false
	}

	best := -1
	for i, row := range rows {
		if row.Years <= serviceYears && (best < 0 || row.Years > rows[best].Years) {
			best = i
		}
	}
	if best < 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(rows[best].Days), true
}

func grantTable(cfg accrualconfig.Config, pattern string, weeklyPattern int) []accrualconfig.GrantRow {
	if pattern == accrualconfig.PatternFullTime {
		return cfg.FullTimeTable
	}
	for _, pt := range cfg.PartTimeTables {
		if pt.WeeklyPattern == weeklyPattern {
			return pt.Grants
		}
	}
	return nil
}
