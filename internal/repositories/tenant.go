package repositories

import (
	"errors"
	"time"

	"verity/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrSlugTaken      = errors.New("slug already taken")
)

type TenantRepository interface {
	Create(tenant *models.Tenant) error
	GetByID(id uint) (*models.Tenant, error)
	GetBySlug(slug string) (*models.Tenant, error)
	Update(tenant *models.Tenant) error
	// AdvanceStatus performs a conditional status update inside tx. It is a
	// one-way latch: the row changes only if its current status is in from.
	AdvanceStatus(tx *gorm.DB, tenantID uint, from []string, to string) (bool, error)
	ListByStatus(status string, offset, limit int) ([]models.Tenant, int64, error)
	ListDeadlineBetween(status string, start, end time.Time) ([]models.Tenant, error)
	ListOverdue(now time.Time) ([]models.Tenant, error)
}

type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) Create(tenant *models.Tenant) error {
	return r.db.Create(tenant).Error
}

func (r *tenantRepository) GetByID(id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.First(&tenant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTenantNotFound
	}
	return &tenant, err
}

func (r *tenantRepository) GetBySlug(slug string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.Where("slug = ?", slug).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTenantNotFound
	}
	return &tenant, err
}

func (r *tenantRepository) Update(tenant *models.Tenant) error {
	return r.db.Save(tenant).Error
}

func (r *tenantRepository) AdvanceStatus(tx *gorm.DB, tenantID uint, from []string, to string) (bool, error) {
	res := tx.Model(&models.Tenant{}).
		Where("id = ? AND eligibility_status IN ?", tenantID, from).
		Update("eligibility_status", to)
	return res.RowsAffected > 0, res.Error
}

func (r *tenantRepository) ListByStatus(status string, offset, limit int) ([]models.Tenant, int64, error) {
	var tenants []models.Tenant
	var total int64

	q := r.db.Model(&models.Tenant{}).Where("eligibility_status = ?", status)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Documents", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	}).Order("created_at DESC").Offset(offset).Limit(limit).Find(&tenants).Error
	return tenants, total, err
}

func (r *tenantRepository) ListDeadlineBetween(status string, start, end time.Time) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.
		Where("eligibility_status = ? AND eligibility_deadline BETWEEN ? AND ?", status, start, end).
		Find(&tenants).Error
	return tenants, err
}

func (r *tenantRepository) ListOverdue(now time.Time) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.
		Where("eligibility_status IN ? AND eligibility_deadline < ?",
			[]string{models.StatusPending, models.StatusUnderReview}, now).
		Find(&tenants).Error
	return tenants, err
}
