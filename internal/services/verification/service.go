// Package verification implements document intake, deletion, admin review
// and the eligibility status state machine.
package verification

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"verity/internal/models"
	"verity/internal/repositories"
	"verity/internal/repositories/cache"
	"verity/internal/services/audit"
	"verity/internal/storage"
	"verity/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review actions accepted from admins.
const (
	ActionApprove          = "APPROVE"
	ActionReject           = "REJECT"
	ActionRequiresMoreInfo = "REQUIRES_MORE_INFO"
)

// Upload carries a validated multipart file into the service.
type Upload struct {
	DocumentType string
	FileName     string
	ContentType  string
	Size         int64
	Content      []byte
}

type Service struct {
	db      *gorm.DB
	tenants repositories.TenantRepository
	docs    repositories.DocumentRepository
	audit   *audit.Service
	store   storage.ObjectStore
	cache   *cache.Service
}

func NewService(db *gorm.DB, tenants repositories.TenantRepository, docs repositories.DocumentRepository, auditSvc *audit.Service, store storage.ObjectStore, cacheSvc *cache.Service) *Service {
	return &Service{
		db:      db,
		tenants: tenants,
		docs:    docs,
		audit:   auditSvc,
		store:   store,
		cache:   cacheSvc,
	}
}

// UploadDocument validates and persists a verification document.
//
// The object is written to the store first; the document row, the audit
// entry and the PENDING/REQUIRES_MORE_INFO -> UNDER_REVIEW latch then
// commit in one transaction. If the transaction fails the stored object
// is deleted best-effort so no orphan survives from the caller's view.
func (s *Service) UploadDocument(ctx context.Context, tenantID uint, actor string, up Upload) (*models.VerificationDocument, error) {
	if err := validation.ValidateUpload(up.FileName, up.ContentType, up.Size, up.DocumentType); err != nil {
		return nil, err
	}

	tenant, err := s.tenants.GetByID(tenantID)
	if err != nil {
		return nil, err
	}
	if !CanUpload(tenant.EligibilityStatus) {
		return nil, ErrUploadNotAllowed
	}

	key := objectKey(tenantID, up.DocumentType, up.FileName, up.ContentType)
	fileURL, err := s.store.Put(ctx, key, up.Content, up.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &models.VerificationDocument{
		TenantID:     tenantID,
		DocumentType: up.DocumentType,
		FileName:     up.FileName,
		FileURL:      fileURL,
		ObjectKey:    key,
		Status:       models.DocumentPending,
	}

	before := tenant.EligibilityStatus
	after := before

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.docs.CreateTx(tx, doc); err != nil {
			return err
		}

		latched, err := s.tenants.AdvanceStatus(tx, tenantID, latchStatuses, models.StatusUnderReview)
		if err != nil {
			return err
		}
		if latched {
			after = models.StatusUnderReview
		}

		return s.audit.AppendTx(tx, tenantID, models.ActionDocumentUploaded, models.JSON{
			"documentId":   doc.ID,
			"documentType": up.DocumentType,
			"fileName":     up.FileName,
			"fileSize":     up.Size,
			"statusBefore": before,
			"statusAfter":  after,
		}, actor)
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			log.Printf("failed to clean up object %s after rollback: %v", key, delErr)
		}
		return nil, err
	}

	if after != before {
		s.invalidate(ctx, tenantID)
	}
	return doc, nil
}

// DeleteDocument removes a document owned by the tenant. The object-store
// delete is best-effort: metadata consistency wins over storage cleanup,
// so the row is removed and audited even when the object is already gone.
func (s *Service) DeleteDocument(ctx context.Context, tenantID, documentID uint, actor string) error {
	doc, err := s.docs.FindByIDAndTenant(documentID, tenantID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, doc.ObjectKey); err != nil {
		log.Printf("object delete failed for %s (continuing): %v", doc.ObjectKey, err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.docs.DeleteTx(tx, doc.ID); err != nil {
			return err
		}
		return s.audit.AppendTx(tx, tenantID, models.ActionDocumentDeleted, models.JSON{
			"documentId":   doc.ID,
			"documentType": doc.DocumentType,
			"fileName":     doc.FileName,
		}, actor)
	})
}

// Review applies an admin decision to a tenant under review. The status
// change, document cascade and audit entry commit together.
func (s *Service) Review(ctx context.Context, tenantID uint, action, notes, reviewer string) (*models.Tenant, error) {
	var target, docStatus string
	switch action {
	case ActionApprove:
		target, docStatus = models.StatusVerified, models.DocumentApproved
	case ActionReject:
		target, docStatus = models.StatusRejected, models.DocumentRejected
	case ActionRequiresMoreInfo:
		target, docStatus = models.StatusRequiresMoreInfo, models.DocumentRequiresMoreInfo
	default:
		return nil, ErrInvalidAction
	}

	tenant, err := s.tenants.GetByID(tenantID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(tenant.EligibilityStatus, target) {
		return nil, ErrInvalidTransition
	}

	before := tenant.EligibilityStatus
	now := time.Now()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"eligibility_status": target}
		if action == ActionApprove {
			updates["verified_at"] = now
		}
		if err := tx.Model(&models.Tenant{}).Where("id = ?", tenantID).Updates(updates).Error; err != nil {
			return err
		}

		if err := s.docs.ReviewPendingTx(tx, tenantID, docStatus, reviewer, notes, now); err != nil {
			return err
		}

		return s.audit.AppendTx(tx, tenantID, models.ActionVerificationReviewed, models.JSON{
			"action":       action,
			"statusBefore": before,
			"statusAfter":  target,
			"reviewNotes":  notes,
		}, reviewer)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, tenantID)
	tenant.EligibilityStatus = target
	if action == ActionApprove {
		tenant.VerifiedAt = &now
	}
	return tenant, nil
}

// ExpireOverdue audits tenants whose deadline has passed while still
// unverified. At most one DEADLINE_EXPIRED entry is written per tenant;
// the access evaluator restricts them without any stored state change.
func (s *Service) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	tenants, err := s.tenants.ListOverdue(now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, tenant := range tenants {
		seen, err := s.audit.HasAction(tenant.ID, models.ActionDeadlineExpired)
		if err != nil {
			return expired, err
		}
		if seen {
			continue
		}
		s.audit.AppendBestEffort(ctx, tenant.ID, models.ActionDeadlineExpired, models.JSON{
			"status":   tenant.EligibilityStatus,
			"deadline": tenant.EligibilityDeadline,
		}, "system")
		expired++
	}
	return expired, nil
}

func (s *Service) invalidate(ctx context.Context, tenantID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTenant(ctx, tenantID); err != nil {
		log.Printf("cache invalidation failed for tenant %d: %v", tenantID, err)
	}
}

// objectKey scopes object names by tenant and document type. The uuid
// keeps concurrent uploads of the same file name from colliding.
func objectKey(tenantID uint, documentType, fileName, contentType string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = validation.ExtensionFor(contentType)
	}
	return fmt.Sprintf("%d/%s/%s%s", tenantID, documentType, uuid.New().String(), ext)
}
