package rbac

import "time"

// RolePermission grants one (resource, action) pair to a role name.
// Roles are flat strings carried in the JWT (member, manager, hr, admin).
type RolePermission struct {
	ID        uint   `gorm:"primaryKey"`
	Role      string `gorm:"type:varchar(30);not null;index:idx_role_permissions_role"`
	Resource  string `gorm:"type:varchar(50);not null"`
	Action    string `gorm:"type:varchar(50);not null"`
	CreatedAt time.Time
}

func (RolePermission) TableName() string { return "role_permissions" }
