package models

import (
	"time"

	"gorm.io/gorm"
)

// Eligibility statuses a tenant moves through during verification.
const (
	StatusPending          = "PENDING"
	StatusUnderReview      = "UNDER_REVIEW"
	StatusRequiresMoreInfo = "REQUIRES_MORE_INFO"
	StatusVerified         = "VERIFIED"
	StatusRejected         = "REJECTED"
)

type Tenant struct {
	gorm.Model
	Name              string `gorm:"not null"`
	Slug              string `gorm:"uniqueIndex;not null"`
	ContactEmail      string `gorm:"not null"`
	EligibilityStatus string `gorm:"size:32;default:'PENDING';index"`
	// EligibilityDeadline is immutable once set, except through an
	// approved appeal which opens a fresh window.
	EligibilityDeadline *time.Time
	VerifiedAt          *time.Time

	Documents []VerificationDocument `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}
