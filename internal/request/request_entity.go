package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	UnitDay  = "DAY"
	UnitHour = "HOUR"
)

type TimeOffRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_requests_employee_status"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`

	Unit        string          `gorm:"type:varchar(10);not null;default:'DAY'"`
	HoursPerDay decimal.Decimal `gorm:"type:decimal(4,2);not null;default:8"`

	// TotalDays is derived server-side from the unit inputs, never taken
	// from the client.
	TotalDays decimal.Decimal `gorm:"type:decimal(5,2);not null"`

	Status Status `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_requests_employee_status"`
	Reason string `gorm:"type:text"`

	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy  *uuid.UUID `gorm:"type:uuid"`
	FinalizedBy *uuid.UUID `gorm:"type:uuid"`

	// BreakdownJSON snapshots the lot allocation at approval time.
	BreakdownJSON string `gorm:"type:jsonb"`

	ApprovedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (TimeOffRequest) TableName() string {
	return "time_off_requests"
}
