package repositories

import (
	"errors"

	"verity/internal/models"

	"gorm.io/gorm"
)

var ErrAppealNotFound = errors.New("appeal not found")

type AppealRepository interface {
	CreateTx(tx *gorm.DB, appeal *models.VerificationAppeal) error
	FindByID(id uint) (*models.VerificationAppeal, error)
	FindLatestByTenant(tenantID uint) (*models.VerificationAppeal, error)
	ExistsPendingForTenant(tenantID uint) (bool, error)
	UpdateTx(tx *gorm.DB, appeal *models.VerificationAppeal) error
	ListByStatus(status string, offset, limit int) ([]models.VerificationAppeal, int64, error)
}

type appealRepository struct {
	db *gorm.DB
}

func NewAppealRepository(db *gorm.DB) AppealRepository {
	return &appealRepository{db: db}
}

func (r *appealRepository) CreateTx(tx *gorm.DB, appeal *models.VerificationAppeal) error {
	return tx.Create(appeal).Error
}

func (r *appealRepository) FindByID(id uint) (*models.VerificationAppeal, error) {
	var appeal models.VerificationAppeal
	err := r.db.First(&appeal, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAppealNotFound
	}
	return &appeal, err
}

func (r *appealRepository) FindLatestByTenant(tenantID uint) (*models.VerificationAppeal, error) {
	var appeal models.VerificationAppeal
	err := r.db.Where("tenant_id = ?", tenantID).Order("created_at DESC").First(&appeal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAppealNotFound
	}
	return &appeal, err
}

func (r *appealRepository) ExistsPendingForTenant(tenantID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.VerificationAppeal{}).
		Where("tenant_id = ? AND status = ?", tenantID, models.AppealPending).
		Count(&count).Error
	return count > 0, err
}

func (r *appealRepository) UpdateTx(tx *gorm.DB, appeal *models.VerificationAppeal) error {
	return tx.Save(appeal).Error
}

func (r *appealRepository) ListByStatus(status string, offset, limit int) ([]models.VerificationAppeal, int64, error) {
	q := r.db.Model(&models.VerificationAppeal{})
	if status != "" && status != "ALL" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var appeals []models.VerificationAppeal
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&appeals).Error
	return appeals, total, err
}
