package repositories

import (
	"verity/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateTx(tx *gorm.DB, n *models.VerificationNotification) error
	ListByTenant(tenantID uint, offset, limit int) ([]models.VerificationNotification, int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateTx(tx *gorm.DB, n *models.VerificationNotification) error {
	return tx.Create(n).Error
}

func (r *notificationRepository) ListByTenant(tenantID uint, offset, limit int) ([]models.VerificationNotification, int64, error) {
	q := r.db.Model(&models.VerificationNotification{}).Where("tenant_id = ?", tenantID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.VerificationNotification
	err := q.Order("sent_at DESC").Offset(offset).Limit(limit).Find(&notifications).Error
	return notifications, total, err
}
