package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Owners belong to a tenant; admins are platform staff.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null"`
	Name         string `gorm:"not null"`
	Role         string `gorm:"default:'owner'"`
	TenantID     *uint  `gorm:"index"`
	Status       string `gorm:"default:'active'"`
	LastLoginAt  time.Time
	TokenVersion int `gorm:"default:1"`
}
