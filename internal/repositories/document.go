package repositories

import (
	"errors"
	"time"

	"verity/internal/models"

	"gorm.io/gorm"
)

var ErrDocumentNotFound = errors.New("document not found")

type DocumentRepository interface {
	CreateTx(tx *gorm.DB, doc *models.VerificationDocument) error
	FindByIDAndTenant(id, tenantID uint) (*models.VerificationDocument, error)
	ListByTenant(tenantID uint) ([]models.VerificationDocument, error)
	DeleteTx(tx *gorm.DB, id uint) error
	// ReviewPendingTx stamps the review outcome on every PENDING document of
	// a tenant as part of an admin review transaction.
	ReviewPendingTx(tx *gorm.DB, tenantID uint, status, reviewedBy, notes string, reviewedAt time.Time) error
	CountByTenant(tenantID uint) (int64, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) CreateTx(tx *gorm.DB, doc *models.VerificationDocument) error {
	return tx.Create(doc).Error
}

func (r *documentRepository) FindByIDAndTenant(id, tenantID uint) (*models.VerificationDocument, error) {
	var doc models.VerificationDocument
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	return &doc, err
}

func (r *documentRepository) ListByTenant(tenantID uint) ([]models.VerificationDocument, error) {
	var docs []models.VerificationDocument
	err := r.db.Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func (r *documentRepository) DeleteTx(tx *gorm.DB, id uint) error {
	return tx.Unscoped().Delete(&models.VerificationDocument{}, id).Error
}

func (r *documentRepository) ReviewPendingTx(tx *gorm.DB, tenantID uint, status, reviewedBy, notes string, reviewedAt time.Time) error {
	return tx.Model(&models.VerificationDocument{}).
		Where("tenant_id = ? AND status = ?", tenantID, models.DocumentPending).
		Updates(map[string]interface{}{
			"status":       status,
			"reviewed_by":  reviewedBy,
			"reviewed_at":  reviewedAt,
			"review_notes": notes,
		}).Error
}

func (r *documentRepository) CountByTenant(tenantID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.VerificationDocument{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}
