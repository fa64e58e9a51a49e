package repositories

import (
	"time"

	"verity/internal/models"

	"gorm.io/gorm"
)

// AuditFilter narrows an audit query. Zero values mean "no constraint".
type AuditFilter struct {
	TenantID uint
	Action   string
	Start    *time.Time
	End      *time.Time
}

// AuditRepository is append-only: there is intentionally no update or
// delete method.
type AuditRepository interface {
	Create(entry *models.VerificationAuditLog) error
	CreateTx(tx *gorm.DB, entry *models.VerificationAuditLog) error
	Search(filter AuditFilter, offset, limit int) ([]models.VerificationAuditLog, int64, error)
	HasAction(tenantID uint, action string) (bool, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(entry *models.VerificationAuditLog) error {
	return r.db.Create(entry).Error
}

func (r *auditRepository) CreateTx(tx *gorm.DB, entry *models.VerificationAuditLog) error {
	return tx.Create(entry).Error
}

func (r *auditRepository) Search(filter AuditFilter, offset, limit int) ([]models.VerificationAuditLog, int64, error) {
	q := r.db.Model(&models.VerificationAuditLog{})
	if filter.TenantID != 0 {
		q = q.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.Start != nil {
		q = q.Where("created_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("created_at <= ?", *filter.End)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.VerificationAuditLog
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, total, err
}

func (r *auditRepository) HasAction(tenantID uint, action string) (bool, error) {
	var count int64
	err := r.db.Model(&models.VerificationAuditLog{}).
		Where("tenant_id = ? AND action = ?", tenantID, action).
		Count(&count).Error
	return count > 0, err
}
