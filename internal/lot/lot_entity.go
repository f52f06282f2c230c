package lot

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GrantLot is one grant of paid leave days. Consumption draws lots down
// via DaysRemaining; DaysGranted never changes after creation. The
// unique index makes grants idempotent per employee and grant date.
type GrantLot struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_grant_lot_employee_date;index:idx_grant_lots_employee_expiry"`
	GrantDate  time.Time `gorm:"type:date;not null;uniqueIndex:uq_grant_lot_employee_date"`

	DaysGranted   decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	DaysRemaining decimal.Decimal `gorm:"type:decimal(5,2);not null"`

	ExpiryDate    time.Time `gorm:"type:date;not null;index:idx_grant_lots_employee_expiry"`
	ConfigVersion string    `gorm:"type:varchar(50)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (GrantLot) TableName() string {
	return "grant_lots"
}

// Valid reports whether the lot can still be drawn from on the given
// day. The expiry date itself is the last usable day.
func (l GrantLot) Valid(asOf time.Time) bool {
	return l.DaysRemaining.IsPositive() && !l.ExpiryDate.Before(asOf)
}
