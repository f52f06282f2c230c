package stats

import "github.com/shopspring/decimal"

type StatsResponse struct {
	EmployeeID string `json:"employee_id"`
	AsOf       string `json:"as_of"`

	RemainingDays decimal.Decimal `json:"remaining_days"`
	PendingDays   decimal.Decimal `json:"pending_days"`
	AvailableDays decimal.Decimal `json:"available_days"`

	// UsedDays counts consumption inside the current entitlement period.
	UsedDays decimal.Decimal `json:"used_days"`

	PreviousGrantDate *string `json:"previous_grant_date"`
	NextGrantDate     string  `json:"next_grant_date"`

	// ExpiringSoonDays is the balance on lots expiring within 30 days.
	ExpiringSoonDays decimal.Decimal `json:"expiring_soon_days"`

	// MinUseShortfallDays is how far the employee is from the statutory
	// minimum consumption for the current period; zero when not subject.
	MinUseShortfallDays decimal.Decimal `json:"min_use_shortfall_days"`
}
