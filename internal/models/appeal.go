package models

import (
	"time"

	"gorm.io/gorm"
)

// Appeal statuses.
const (
	AppealPending  = "PENDING"
	AppealApproved = "APPROVED"
	AppealRejected = "REJECTED"
)

type VerificationAppeal struct {
	gorm.Model
	TenantID            uint   `gorm:"not null;index"`
	OriginalDecision    string `gorm:"size:32;not null"`
	AppealReason        string `gorm:"type:text;not null"`
	SupportingDocuments JSON   `gorm:"type:jsonb"`
	Status              string `gorm:"size:32;default:'PENDING';index"`
	ReviewedBy          string `gorm:"size:255"`
	ReviewedAt          *time.Time
	ReviewNotes         string `gorm:"type:text"`
}
