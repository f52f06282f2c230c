package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

const (
	RoleMember  = "member"
	RoleManager = "manager"
	RoleHR      = "hr"
	RoleAdmin   = "admin"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeNumber string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_number"`
	FullName       string    `gorm:"type:varchar(100);not null"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	JoinDate       time.Time `gorm:"type:date;not null"`

	// VacationPattern "A" is full time; "B" is part time and requires
	// WeeklyPattern (scheduled workdays per week, 1 to 4).
	VacationPattern string `gorm:"type:varchar(5);not null;default:'A'"`
	WeeklyPattern   *int   `gorm:"type:int"`

	// ConfigVersion pins the employee to an accrual policy version.
	// Empty means the active config applies.
	ConfigVersion string `gorm:"type:varchar(50)"`

	Role   string `gorm:"type:varchar(20);not null;default:'member'"`
	Status string `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
