package models

import (
	"time"

	"gorm.io/gorm"
)

// Review statuses for an uploaded verification document.
const (
	DocumentPending          = "PENDING"
	DocumentApproved         = "APPROVED"
	DocumentRejected         = "REJECTED"
	DocumentRequiresMoreInfo = "REQUIRES_MORE_INFO"
)

type VerificationDocument struct {
	gorm.Model
	TenantID     uint   `gorm:"not null;index"`
	DocumentType string `gorm:"size:64;not null"`
	FileName     string `gorm:"not null"`
	FileURL      string `gorm:"size:512;not null"`
	ObjectKey    string `gorm:"size:512;not null"`
	Status       string `gorm:"size:32;default:'PENDING';index"`
	ReviewedBy   string `gorm:"size:255"`
	ReviewedAt   *time.Time
	ReviewNotes  string `gorm:"type:text"`
}
