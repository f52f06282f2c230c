package accrual_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sawa0358/hr-system-2025-sub003/internal/accrual"
	"github.com/sawa0358/hr-system-2025-sub003/internal/accrualconfig"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	t.Run("success plain month add", func(t *testing.T) {
		got := accrual.AddMonths(date(2023, time.April, 1), 6)
		assert.Equal(t, date(2023, time.October, 1), got)
	})

	t.Run("success clamps jan 31 to end of february", func(t *testing.T) {
		got := accrual.AddMonths(date(2023, time.January, 31), 1)
		assert.Equal(t, date(2023, time.February, 28), got)
	})

	t.Run("success clamps to leap day", func(t *testing.T) {
		got := accrual.AddMonths(date(2023, time.August, 31), 6)
		assert.Equal(t, date(2024, time.February, 29), got)
	})

	t.Run("success crosses year boundary", func(t *testing.T) {
		got := accrual.AddMonths(date(2023, time.October, 1), 12)
		assert.Equal(t, date(2024, time.October, 1), got)
	})
}

func TestMonthsBetween(t *testing.T) {
	t.Run("success exact months", func(t *testing.T) {
		assert.Equal(t, 6, accrual.MonthsBetween(date(2023, time.April, 1), date(2023, time.October, 1)))
	})

	t.Run("success partial month not counted", func(t *testing.T) {
		assert.Equal(t, 5, accrual.MonthsBetween(date(2023, time.April, 1), date(2023, time.September, 30)))
	})

	t.Run("success clamped anniversary counts", func(t *testing.T) {
		// Jan 31 + 1 month clamps to Feb 28, so Feb 28 completes the month.
		assert.Equal(t, 1, accrual.MonthsBetween(date(2023, time.January, 31), date(2023, time.February, 28)))
	})

	t.Run("negative when end precedes start", func(t *testing.T) {
		assert.Equal(t, -1, accrual.MonthsBetween(date(2023, time.April, 1), date(2023, time.March, 15)))
	})
}

func TestYearsOfService(t *testing.T) {
	join := date(2023, time.April, 1)

	t.Run("success zero before six months", func(t *testing.T) {
		assert.Equal(t, 0.0, accrual.YearsOfService(join, date(2023, time.September, 30)))
	})

	t.Run("success half year at six months", func(t *testing.T) {
		assert.Equal(t, 0.5, accrual.YearsOfService(join, date(2023, time.October, 1)))
	})

	t.Run("success stays half year until eighteen months", func(t *testing.T) {
		assert.Equal(t, 0.5, accrual.YearsOfService(join, date(2024, time.September, 30)))
		assert.Equal(t, 1.5, accrual.YearsOfService(join, date(2024, time.October, 1)))
	})

	t.Run("success zero before join", func(t *testing.T) {
		assert.Equal(t, 0.0, accrual.YearsOfService(join, date(2023, time.January, 1)))
	})
}

func TestGrantSchedule(t *testing.T) {
	cfg := accrualconfig.DefaultConfig()
	join := date(2023, time.April, 1)

	t.Run("success first grant six months after join", func(t *testing.T) {
		assert.Equal(t, date(2023, time.October, 1), accrual.GrantDateAt(cfg, join, 0))
		assert.Equal(t, date(2024, time.October, 1), accrual.GrantDateAt(cfg, join, 1))
	})

	t.Run("success next grant before first grant", func(t *testing.T) {
		got := accrual.NextGrantDate(cfg, join, date(2023, time.May, 1))
		assert.Equal(t, date(2023, time.October, 1), got)
	})

	t.Run("success next grant on a grant day is that day", func(t *testing.T) {
		got := accrual.NextGrantDate(cfg, join, date(2023, time.October, 1))
		assert.Equal(t, date(2023, time.October, 1), got)
	})

	t.Run("success next grant mid cycle", func(t *testing.T) {
		got := accrual.NextGrantDate(cfg, join, date(2024, time.March, 1))
		assert.Equal(t, date(2024, time.October, 1), got)
	})

	t.Run("success previous grant mid cycle", func(t *testing.T) {
		got := accrual.PreviousGrantDate(cfg, join, date(2024, time.March, 1))
		if assert.NotNil(t, got) {
			assert.Equal(t, date(2023, time.October, 1), *got)
		}
	})

	t.Run("success previous grant just after second grant", func(t *testing.T) {
		got := accrual.PreviousGrantDate(cfg, join, date(2024, time.October, 2))
		if assert.NotNil(t, got) {
			assert.Equal(t, date(2024, time.October, 1), *got)
		}
	})

	t.Run("negative previous grant before first grant", func(t *testing.T) {
		assert.Nil(t, accrual.PreviousGrantDate(cfg, join, date(2023, time.September, 30)))
	})

	t.Run("success grant day detection", func(t *testing.T) {
		assert.True(t, accrual.IsGrantDay(cfg, join, date(2023, time.October, 1)))
		assert.True(t, accrual.IsGrantDay(cfg, join, date(2025, time.October, 1)))
		assert.False(t, accrual.IsGrantDay(cfg, join, date(2023, time.October, 2)))
		assert.False(t, accrual.IsGrantDay(cfg, join, date(2023, time.April, 1)))
	})

	t.Run("success grant dates through lists all past grants", func(t *testing.T) {
		dates := accrual.GrantDatesThrough(cfg, join, date(2025, time.December, 1))
		assert.Equal(t, []time.Time{
			date(2023, time.October, 1),
			date(2024, time.October, 1),
			date(2025, time.October, 1),
		}, dates)
	})

	t.Run("success grant dates through empty before first grant", func(t *testing.T) {
		assert.Empty(t, accrual.GrantDatesThrough(cfg, join, date(2023, time.June, 1)))
	})
}

func TestGrantDays(t *testing.T) {
	cfg := accrualconfig.DefaultConfig()

	t.Run("success full time table lookup", func(t *testing.T) {
		days, ok := accrual.GrantDays(cfg, accrualconfig.PatternFullTime, 0, 0.5)
		assert.True(t, ok)
		assert.Equal(t, "10", days.String())
	})

	t.Run("success greatest threshold not exceeding service years", func(t *testing.T) {
		days, ok := accrual.GrantDays(cfg, accrualconfig.PatternFullTime, 0, 3.0)
		assert.True(t, ok)
		assert.Equal(t, "12", days.String())
	})

	t.Run("success caps at top row", func(t *testing.T) {
		days, ok := accrual.GrantDays(cfg, accrualconfig.PatternFullTime, 0, 12.5)
		assert.True(t, ok)
		assert.Equal(t, "20", days.String())
	})

	t.Run("success part time pattern lookup", func(t *testing.T) {
		days, ok := accrual.GrantDays(cfg, accrualconfig.PatternPartTime, 2, 1.5)
		assert.True(t, ok)
		assert.Equal(t, "8", days.String())
	})

	t.Run("negative below first threshold", func(t *testing.T) {
		_, ok := accrual.GrantDays(cfg, accrualconfig.PatternFullTime, 0, 0)
		assert.False(t, ok)
	})

	t.Run("negative unknown weekly pattern", func(t *testing.T) {
		_, ok := accrual.GrantDays(cfg, accrualconfig.PatternPartTime, 7, 1.5)
		assert.False(t, ok)
	})
}
