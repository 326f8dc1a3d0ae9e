package models

import "time"

// Permission grants one role access to one admin menu item.
// A (role, menu item) pair exists at most once.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey" json:"id"`
	// RoleID is the role this permission belongs to.
	RoleID uint `gorm:"not null;uniqueIndex:idx_permissions_role_menu" json:"roleId"`
	// MenuItem is a value of the closed menu vocabulary, see package menu.
	MenuItem string `gorm:"size:50;not null;uniqueIndex:idx_permissions_role_menu" json:"menuItem"`
	// Role is loaded on listings only.
	Role *Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"role,omitempty"`
	// CreatedAt is the timestamp when the permission was granted (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}
