// Package audit appends and queries the verification audit trail.
package audit

import (
	"context"
	"log"

	"verity/internal/models"
	"verity/internal/repositories"

	"gorm.io/gorm"
)

type Service struct {
	repo repositories.AuditRepository
}

func NewService(repo repositories.AuditRepository) *Service {
	return &Service{repo: repo}
}

// Append records an action against a tenant. The row id and timestamp are
// server-assigned.
func (s *Service) Append(ctx context.Context, tenantID uint, action string, details models.JSON, performedBy string) (*models.VerificationAuditLog, error) {
	entry := &models.VerificationAuditLog{
		TenantID:    tenantID,
		Action:      action,
		Details:     details,
		PerformedBy: performedBy,
	}
	if err := s.repo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// AppendTx writes the entry inside the caller's transaction so the primary
// action and its audit row commit or roll back together.
func (s *Service) AppendTx(tx *gorm.DB, tenantID uint, action string, details models.JSON, performedBy string) error {
	return s.repo.CreateTx(tx, &models.VerificationAuditLog{
		TenantID:    tenantID,
		Action:      action,
		Details:     details,
		PerformedBy: performedBy,
	})
}

// AppendBestEffort logs failures instead of returning them. Used after a
// primary action has already committed; audit failure must never undo it.
func (s *Service) AppendBestEffort(ctx context.Context, tenantID uint, action string, details models.JSON, performedBy string) {
	if _, err := s.Append(ctx, tenantID, action, details, performedBy); err != nil {
		log.Printf("audit append failed for tenant %d action %s: %v", tenantID, action, err)
	}
}

// Query returns a filtered, paginated slice of the trail.
func (s *Service) Query(ctx context.Context, filter repositories.AuditFilter, offset, limit int) ([]models.VerificationAuditLog, int64, error) {
	return s.repo.Search(filter, offset, limit)
}

// HasAction reports whether the trail already holds action for a tenant.
func (s *Service) HasAction(tenantID uint, action string) (bool, error) {
	return s.repo.HasAction(tenantID, action)
}
