package models

import "time"

// Audit actions recorded for verification-affecting operations.
const (
	ActionTenantRegistered     = "TENANT_REGISTERED"
	ActionDocumentUploaded     = "DOCUMENT_UPLOADED"
	ActionDocumentDeleted      = "DOCUMENT_DELETED"
	ActionVerificationReviewed = "VERIFICATION_REVIEWED"
	ActionAppealSubmitted      = "APPEAL_SUBMITTED"
	ActionAppealReviewed       = "APPEAL_REVIEWED"
	ActionNotificationSent     = "NOTIFICATION_SENT"
	ActionDeadlineExpired      = "DEADLINE_EXPIRED"
)

// VerificationAuditLog is append-only. No update or delete path exists
// anywhere in the codebase; rows carry a server-assigned id and timestamp.
type VerificationAuditLog struct {
	ID          uint   `gorm:"primaryKey"`
	TenantID    uint   `gorm:"not null;index"`
	Action      string `gorm:"size:64;not null;index"`
	Details     JSON   `gorm:"type:jsonb"`
	PerformedBy string `gorm:"size:255;not null"`
	CreatedAt   time.Time
}
