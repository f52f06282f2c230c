package lot

import "github.com/shopspring/decimal"

type GrantLotRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	GrantDate  string `json:"grant_date" binding:"required"`
}

type BackfillRequest struct {
	// Empty employee_id backfills every active employee.
	EmployeeID string `json:"employee_id" binding:"omitempty,uuid"`
}

type LotResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	GrantDate     string          `json:"grant_date"`
	DaysGranted   decimal.Decimal `json:"days_granted"`
	DaysRemaining decimal.Decimal `json:"days_remaining"`
	ExpiryDate    string          `json:"expiry_date"`
	ConfigVersion string          `json:"config_version,omitempty"`
}

type BackfillResponse struct {
	EmployeesChecked int `json:"employees_checked"`
	LotsCreated      int `json:"lots_created"`
}
