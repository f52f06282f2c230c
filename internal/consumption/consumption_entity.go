package consumption

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Consumption is one calendar day's draw from one grant lot for one
// approved request. Summing rows per lot reproduces exactly what the lot
// was decremented by, which is what makes refunds lossless.
type Consumption struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	RequestID  uuid.UUID `gorm:"type:uuid;not null;index:idx_consumptions_request"`
	LotID      uuid.UUID `gorm:"type:uuid;not null;index:idx_consumptions_lot"`

	Date     time.Time       `gorm:"type:date;not null"`
	DaysUsed decimal.Decimal `gorm:"type:decimal(8,4);not null"`

	CreatedAt time.Time
}

func (Consumption) TableName() string {
	return "consumptions"
}
