package request

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sawa0358/hr-system-2025-sub003/internal/consumption"
	requesterrors "github.com/sawa0358/hr-system-2025-sub003/internal/request/errors"
)

var (
	half = decimal.NewFromFloat(0.5)
	four = decimal.NewFromInt(4)
)

// DeriveTotalDays computes the charge for a request from its raw
// inputs. usedDays carries days for DAY requests (zero means the whole
// period) and hours for HOUR requests. DAY totals round to the nearest
// half day; HOUR totals of four hours or less count as a half day, more
// than that converts via hoursPerDay. Both are capped at the period
// length and must come out at least half a day.
func DeriveTotalDays(unit string, start, end time.Time, hoursPerDay, usedDays decimal.Decimal) (decimal.Decimal, error) {
	if start.After(end) {
		return decimal.Zero, requesterrors.ErrInvalidDateRange
	}
	periodDays := decimal.NewFromInt(int64(len(consumption.DateRange(start, end))))

	var total decimal.Decimal
	switch unit {
	case UnitHour:
		hours := usedDays
		if !hours.IsPositive() {
			return decimal.Zero, requesterrors.ErrHoursRequired
		}
		if hours.LessThanOrEqual(four) {
			total = half
		} else {
			if !hoursPerDay.IsPositive() {
				hoursPerDay = decimal.NewFromInt(8)
			}
			total = roundToHalf(hours.Div(hoursPerDay))
		}
	default:
		raw := usedDays
		if !raw.IsPositive() {
			raw = periodDays
		}
		total = roundToHalf(raw)
	}

	if total.GreaterThan(periodDays) {
		total = periodDays
	}
	if total.LessThan(half) {
		return decimal.Zero, requesterrors.ErrTotalTooSmall
	}
	return total, nil
}

// roundToHalf rounds to the nearest 0.5 step, halves away from zero.
func roundToHalf(d decimal.Decimal) decimal.Decimal {
	return d.Mul(decimal.NewFromInt(2)).Round(0).Div(decimal.NewFromInt(2))
}
