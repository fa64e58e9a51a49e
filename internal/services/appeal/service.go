// Package appeal handles tenant-initiated appeals against verification
// decisions and their admin review.
package appeal

import (
	"context"
	"errors"
	"log"
	"time"

	"verity/internal/models"
	"verity/internal/repositories"
	"verity/internal/repositories/cache"
	"verity/internal/services/audit"
	"verity/internal/services/notification"
	"verity/internal/validation"

	"gorm.io/gorm"
)

var (
	ErrReasonTooShort   = errors.New("appeal reason must be at least 50 characters")
	ErrAppealNotAllowed = errors.New("appeals are only accepted after a rejection or a request for more information")
	ErrAppealPending    = errors.New("an appeal is already pending review")
	ErrAppealClosed     = errors.New("this appeal has already been reviewed")
	ErrInvalidDecision  = errors.New("decision must be APPROVED or REJECTED")
	ErrNotesRequired    = errors.New("review notes are required when rejecting an appeal")
)

// reEvaluationWindow is the fresh deadline granted when an appeal is
// approved and the tenant re-enters the queue.
const reEvaluationWindow = 30 * 24 * time.Hour

type Service struct {
	db       *gorm.DB
	appeals  repositories.AppealRepository
	tenants  repositories.TenantRepository
	audit    *audit.Service
	notifier *notification.Service
	cache    *cache.Service
}

func NewService(db *gorm.DB, appeals repositories.AppealRepository, tenants repositories.TenantRepository, auditSvc *audit.Service, notifier *notification.Service, cacheSvc *cache.Service) *Service {
	return &Service{
		db:       db,
		appeals:  appeals,
		tenants:  tenants,
		audit:    auditSvc,
		notifier: notifier,
		cache:    cacheSvc,
	}
}

// Submit files a new appeal for the tenant's current decision.
func (s *Service) Submit(ctx context.Context, tenantID uint, actor, reason string, supportingDocs []string) (*models.VerificationAppeal, error) {
	if len(reason) < validation.MinAppealReasonLength {
		return nil, ErrReasonTooShort
	}

	tenant, err := s.tenants.GetByID(tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.EligibilityStatus != models.StatusRejected && tenant.EligibilityStatus != models.StatusRequiresMoreInfo {
		return nil, ErrAppealNotAllowed
	}

	pending, err := s.appeals.ExistsPendingForTenant(tenantID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrAppealPending
	}

	docs := models.JSON{}
	if len(supportingDocs) > 0 {
		docs["urls"] = supportingDocs
	}

	appeal := &models.VerificationAppeal{
		TenantID:            tenantID,
		OriginalDecision:    tenant.EligibilityStatus,
		AppealReason:        reason,
		SupportingDocuments: docs,
		Status:              models.AppealPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.appeals.CreateTx(tx, appeal); err != nil {
			return err
		}
		return s.audit.AppendTx(tx, tenantID, models.ActionAppealSubmitted, models.JSON{
			"appealId":         appeal.ID,
			"originalDecision": appeal.OriginalDecision,
		}, actor)
	})
	if err != nil {
		return nil, err
	}
	return appeal, nil
}

// Latest returns the tenant's most recent appeal, or ErrAppealNotFound.
func (s *Service) Latest(ctx context.Context, tenantID uint) (*models.VerificationAppeal, error) {
	return s.appeals.FindLatestByTenant(tenantID)
}

// List returns appeals for the admin queue, filtered by status.
func (s *Service) List(ctx context.Context, status string, offset, limit int) ([]models.VerificationAppeal, int64, error) {
	return s.appeals.ListByStatus(status, offset, limit)
}

// Review applies an admin decision to a pending appeal.
//
// Approval re-opens the rejected tenant: REJECTED -> PENDING with a fresh
// 30-day deadline. Clearing the deadline instead would grant indefinite
// full access, which defeats re-evaluation.
func (s *Service) Review(ctx context.Context, appealID uint, reviewer, decision, notes string) (*models.VerificationAppeal, error) {
	if decision != models.AppealApproved && decision != models.AppealRejected {
		return nil, ErrInvalidDecision
	}
	if decision == models.AppealRejected && notes == "" {
		return nil, ErrNotesRequired
	}

	appeal, err := s.appeals.FindByID(appealID)
	if err != nil {
		return nil, err
	}
	if appeal.Status != models.AppealPending {
		return nil, ErrAppealClosed
	}

	tenant, err := s.tenants.GetByID(appeal.TenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		appeal.Status = decision
		appeal.ReviewedBy = reviewer
		appeal.ReviewedAt = &now
		appeal.ReviewNotes = notes
		if err := s.appeals.UpdateTx(tx, appeal); err != nil {
			return err
		}

		statusAfter := tenant.EligibilityStatus
		if decision == models.AppealApproved && tenant.EligibilityStatus == models.StatusRejected {
			deadline := now.Add(reEvaluationWindow)
			if err := tx.Model(&models.Tenant{}).Where("id = ?", tenant.ID).Updates(map[string]interface{}{
				"eligibility_status":   models.StatusPending,
				"eligibility_deadline": deadline,
			}).Error; err != nil {
				return err
			}
			statusAfter = models.StatusPending
		}

		return s.audit.AppendTx(tx, appeal.TenantID, models.ActionAppealReviewed, models.JSON{
			"appealId":     appeal.ID,
			"decision":     decision,
			"reviewNotes":  notes,
			"statusBefore": tenant.EligibilityStatus,
			"statusAfter":  statusAfter,
		}, reviewer)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateTenant(ctx, appeal.TenantID); err != nil {
			log.Printf("cache invalidation failed for tenant %d: %v", appeal.TenantID, err)
		}
	}

	s.notifyDecision(ctx, appeal.TenantID, decision, notes, reviewer)
	return appeal, nil
}

// notifyDecision emails the outcome. Delivery failure is logged, never
// surfaced: the review has already committed.
func (s *Service) notifyDecision(ctx context.Context, tenantID uint, decision, notes, reviewer string) {
	if s.notifier == nil {
		return
	}
	notificationType := models.NotificationRejected
	outcome := "Your appeal has been reviewed and not approved."
	if decision == models.AppealApproved {
		notificationType = models.NotificationApproved
		outcome = "Your appeal has been approved; verification will be re-evaluated within a fresh deadline."
	}
	if notes != "" {
		outcome += " " + notes
	}
	if err := s.notifier.Send(ctx, tenantID, notificationType, outcome, reviewer); err != nil {
		log.Printf("appeal decision notification failed for tenant %d: %v", tenantID, err)
	}
}
