package notification

import (
	"fmt"

	"verity/internal/models"
)

// Message composes the subject and body for a notification type. Review
// notes, when present, are appended to the body.
func Message(notificationType, tenantName, reviewNotes string) (subject, body string, ok bool) {
	switch notificationType {
	case models.NotificationApproved:
		subject = "Your institution has been verified"
		body = fmt.Sprintf("Good news! %s has passed verification and now has full platform access.", tenantName)
	case models.NotificationRejected:
		subject = "Verification decision for your institution"
		body = fmt.Sprintf("Verification for %s was not approved. You may submit an appeal from your dashboard.", tenantName)
	case models.NotificationRequiresMoreInfo:
		subject = "More information needed for verification"
		body = fmt.Sprintf("The review of %s needs additional documentation. Please upload the requested documents.", tenantName)
	case models.NotificationDeadlineReminder:
		subject = "Verification deadline approaching"
		body = fmt.Sprintf("The verification deadline for %s is approaching. Submit your documents to keep full access.", tenantName)
	default:
		return "", "", false
	}

	if reviewNotes != "" {
		body += "\n\nReviewer notes: " + reviewNotes
	}
	return subject, body, true
}
