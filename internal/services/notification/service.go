// Package notification sends verification emails to tenant contacts and
// records each delivery as an immutable row plus an audit entry.
package notification

import (
	"context"
	"errors"
	"time"

	"verity/internal/models"
	"verity/internal/repositories"
	"verity/internal/services/audit"

	"gorm.io/gorm"
)

var ErrUnknownType = errors.New("unknown notification type")

type Service struct {
	db      *gorm.DB
	repo    repositories.NotificationRepository
	tenants repositories.TenantRepository
	audit   *audit.Service
	sender  EmailSender
}

func NewService(db *gorm.DB, repo repositories.NotificationRepository, tenants repositories.TenantRepository, auditSvc *audit.Service, sender EmailSender) *Service {
	return &Service{
		db:      db,
		repo:    repo,
		tenants: tenants,
		audit:   auditSvc,
		sender:  sender,
	}
}

// Send emails the tenant's primary contact and records the notification
// and audit rows. The email goes out first; nothing is recorded for a
// failed delivery.
func (s *Service) Send(ctx context.Context, tenantID uint, notificationType, reviewNotes, actor string) error {
	tenant, err := s.tenants.GetByID(tenantID)
	if err != nil {
		return err
	}

	subject, body, ok := Message(notificationType, tenant.Name, reviewNotes)
	if !ok {
		return ErrUnknownType
	}

	if err := s.sender.Send(ctx, tenant.ContactEmail, subject, body); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &models.VerificationNotification{
			TenantID: tenantID,
			Type:     notificationType,
			Channel:  "EMAIL",
			Status:   "SENT",
			SentAt:   time.Now(),
			Metadata: models.JSON{
				"sentBy":      actor,
				"reviewNotes": reviewNotes,
			},
		}); err != nil {
			return err
		}
		return s.audit.AppendTx(tx, tenantID, models.ActionNotificationSent, models.JSON{
			"notificationType": notificationType,
			"channel":          "EMAIL",
			"recipientEmail":   tenant.ContactEmail,
		}, actor)
	})
}

// List returns a tenant's notification history.
func (s *Service) List(ctx context.Context, tenantID uint, offset, limit int) ([]models.VerificationNotification, int64, error) {
	return s.repo.ListByTenant(tenantID, offset, limit)
}

// ReminderTarget is a tenant whose deadline falls on the requested day.
type ReminderTarget struct {
	TenantID uint       `json:"tenantId"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Deadline *time.Time `json:"deadline"`
}

// Reminders lists PENDING tenants whose deadline is exactly days away.
func (s *Service) Reminders(ctx context.Context, days int, now time.Time) ([]ReminderTarget, error) {
	day := now.AddDate(0, 0, days)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)

	tenants, err := s.tenants.ListDeadlineBetween(models.StatusPending, start, end)
	if err != nil {
		return nil, err
	}

	targets := make([]ReminderTarget, 0, len(tenants))
	for _, t := range tenants {
		targets = append(targets, ReminderTarget{
			TenantID: t.ID,
			Name:     t.Name,
			Email:    t.ContactEmail,
			Deadline: t.EligibilityDeadline,
		})
	}
	return targets, nil
}

// SendReminders fans a deadline reminder out to every target, returning
// the number delivered. A single failed send does not stop the rest.
func (s *Service) SendReminders(ctx context.Context, days int, actor string) (int, []error) {
	targets, err := s.Reminders(ctx, days, time.Now())
	if err != nil {
		return 0, []error{err}
	}

	sent := 0
	var errs []error
	for _, target := range targets {
		if err := s.Send(ctx, target.TenantID, models.NotificationDeadlineReminder, "", actor); err != nil {
			errs = append(errs, err)
			continue
		}
		sent++
	}
	return sent, errs
}
