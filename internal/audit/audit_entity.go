package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one immutable audit row. Written in the same transaction as
// the mutation it records.
type Entry struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID *uuid.UUID `gorm:"type:uuid;index"`
	Actor      string     `gorm:"type:varchar(100);not null"`
	Action     string     `gorm:"type:varchar(50);not null;index"`
	Entity     string     `gorm:"type:varchar(100);not null"`
	Payload    string     `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

func (Entry) TableName() string { return "audit_logs" }
