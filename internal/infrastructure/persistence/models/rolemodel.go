package models

import (
	"time"

	"github.com/wardgate/wardgate/internal/shared/constants"
)

// RoleModel represents the database persistence model for roles
type RoleModel struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"not null;size:100"`
	Code        string `gorm:"uniqueIndex;not null;size:50"`
	Description string `gorm:"type:text"`
	RoleType    string `gorm:"not null;size:20;default:custom;index"`
	Level       int    `gorm:"not null;default:0"`
	Status      string `gorm:"not null;size:20;default:active;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Permissions []RolePermissionModel `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (RoleModel) TableName() string {
	return constants.TableRoles
}
