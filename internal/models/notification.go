package models

import "time"

// Notification types sent to a tenant's primary contact.
const (
	NotificationApproved         = "APPROVED"
	NotificationRejected         = "REJECTED"
	NotificationRequiresMoreInfo = "REQUIRES_MORE_INFO"
	NotificationDeadlineReminder = "DEADLINE_REMINDER"
)

// VerificationNotification records a delivery attempt. Rows are immutable
// once created.
type VerificationNotification struct {
	ID        uint   `gorm:"primaryKey"`
	TenantID  uint   `gorm:"not null;index"`
	Type      string `gorm:"size:64;not null"`
	Channel   string `gorm:"size:32;default:'EMAIL'"`
	Status    string `gorm:"size:32;default:'SENT'"`
	SentAt    time.Time
	Metadata  JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
}
