package request

import "github.com/shopspring/decimal"

type CreateRequest struct {
	EmployeeID  string  `json:"employee_id" binding:"required,uuid"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     string  `json:"end_date" binding:"required"`
	Unit        string  `json:"unit" binding:"omitempty,oneof=DAY HOUR"`
	HoursPerDay float64 `json:"hours_per_day" binding:"omitempty,gt=0"`
	// UsedDays carries days for DAY requests and hours for HOUR requests.
	UsedDays float64 `json:"used_days" binding:"omitempty,gt=0"`
	Reason   string  `json:"reason"`
}

type EditRequest struct {
	EmployeeID  string  `json:"employee_id" binding:"required,uuid"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     string  `json:"end_date" binding:"required"`
	Unit        string  `json:"unit" binding:"omitempty,oneof=DAY HOUR"`
	HoursPerDay float64 `json:"hours_per_day" binding:"omitempty,gt=0"`
	UsedDays    float64 `json:"used_days" binding:"omitempty,gt=0"`
	Reason      string  `json:"reason"`
	Force       bool    `json:"force"`
}

type DeleteRequest struct {
	EmployeeID string `json:"employee_id" binding:"omitempty,uuid"`
	Force      bool   `json:"force"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type RequestResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Unit        string          `json:"unit"`
	HoursPerDay decimal.Decimal `json:"hours_per_day"`
	TotalDays   decimal.Decimal `json:"total_days"`
	Status      string          `json:"status"`
	Reason      string          `json:"reason,omitempty"`
	CreatedBy   string          `json:"created_by"`
	ApprovedBy  *string         `json:"approved_by,omitempty"`
	FinalizedBy *string         `json:"finalized_by,omitempty"`
	ApprovedAt  *string         `json:"approved_at,omitempty"`
	Breakdown   []BreakdownItem `json:"breakdown,omitempty"`
}

// BreakdownItem is the per-lot allocation snapshot stored on approval.
type BreakdownItem struct {
	LotID string          `json:"lot_id"`
	Days  decimal.Decimal `json:"days"`
}
