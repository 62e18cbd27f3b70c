package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/wardgate/wardgate/internal/shared/constants"
)

// RolePermissionModel is one grant or explicit deny of a permission code to a role.
// (role_id, permission_code) is unique.
type RolePermissionModel struct {
	ID             uint   `gorm:"primarykey"`
	RoleID         uint   `gorm:"not null;uniqueIndex:idx_role_permission,priority:1;index:idx_role_resource,priority:1"`
	PermissionCode string `gorm:"not null;size:100;uniqueIndex:idx_role_permission,priority:2"`
	Resource       string `gorm:"not null;size:50;index:idx_role_resource,priority:2"`
	Action         string `gorm:"not null;size:50"`
	IsGranted      bool   `gorm:"not null"`
	Conditions     datatypes.JSON
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (RolePermissionModel) TableName() string {
	return constants.TableRolePermissions
}
