// Package tenant covers institution onboarding and the tenant-facing
// verification views.
package tenant

import (
	"context"
	"errors"
	"log"
	"time"

	"verity/internal/models"
	"verity/internal/repositories"
	"verity/internal/repositories/cache"
	"verity/internal/services/access"
	"verity/internal/services/audit"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// initialDeadline is the verification window granted at registration.
const initialDeadline = 30 * 24 * time.Hour

var (
	ErrSlugTaken  = errors.New("slug already taken")
	ErrEmailTaken = errors.New("email already taken")
)

// RegisterInput is the onboarding payload.
type RegisterInput struct {
	Name         string `json:"name" validate:"required,min=2"`
	Slug         string `json:"slug" validate:"required,min=2,max=63"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
	OwnerName    string `json:"ownerName" validate:"required"`
	OwnerEmail   string `json:"ownerEmail" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
}

// AccessSnapshot is the feature-access response body.
type AccessSnapshot struct {
	Status        string     `json:"status"`
	AccessLevel   string     `json:"accessLevel"`
	DaysRemaining *int       `json:"daysRemaining"`
	Deadline      *time.Time `json:"deadline"`
	Warnings      []string   `json:"warnings"`
}

type Service struct {
	db      *gorm.DB
	tenants repositories.TenantRepository
	users   repositories.UserRepository
	docs    repositories.DocumentRepository
	audit   *audit.Service
	cache   *cache.Service
}

func NewService(db *gorm.DB, tenants repositories.TenantRepository, users repositories.UserRepository, docs repositories.DocumentRepository, auditSvc *audit.Service, cacheSvc *cache.Service) *Service {
	return &Service{
		db:      db,
		tenants: tenants,
		users:   users,
		docs:    docs,
		audit:   auditSvc,
		cache:   cacheSvc,
	}
}

// Register creates the tenant in PENDING with its verification window and
// the owner account, in one transaction.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.Tenant, *models.User, error) {
	if _, err := s.tenants.GetBySlug(in.Slug); err == nil {
		return nil, nil, ErrSlugTaken
	} else if !errors.Is(err, repositories.ErrTenantNotFound) {
		return nil, nil, err
	}
	if _, err := s.users.GetByEmail(in.OwnerEmail); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	deadline := time.Now().Add(initialDeadline)
	tenant := &models.Tenant{
		Name:                in.Name,
		Slug:                in.Slug,
		ContactEmail:        in.ContactEmail,
		EligibilityStatus:   models.StatusPending,
		EligibilityDeadline: &deadline,
	}
	owner := &models.User{
		Email:    in.OwnerEmail,
		Password: string(hashed),
		Name:     in.OwnerName,
		Role:     models.RoleOwner,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return err
		}
		owner.TenantID = &tenant.ID
		if err := s.users.CreateTx(tx, owner); err != nil {
			return err
		}
		return s.audit.AppendTx(tx, tenant.ID, models.ActionTenantRegistered, models.JSON{
			"slug":     tenant.Slug,
			"deadline": deadline,
		}, owner.Email)
	})
	if err != nil {
		return nil, nil, err
	}
	return tenant, owner, nil
}

// Access evaluates the caller's current access level. The tenant record
// comes from the cache when warm; evaluation itself always runs fresh
// because it depends on the clock.
func (s *Service) Access(ctx context.Context, tenantID uint) (*AccessSnapshot, error) {
	tenant, err := s.getCached(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result := access.Evaluate(tenant.EligibilityStatus, tenant.EligibilityDeadline, time.Now())
	return &AccessSnapshot{
		Status:        tenant.EligibilityStatus,
		AccessLevel:   result.AccessLevel,
		DaysRemaining: result.DaysRemaining,
		Deadline:      tenant.EligibilityDeadline,
		Warnings:      result.Warnings,
	}, nil
}

// VerificationStatus bundles the tenant's state with its document list.
type VerificationStatus struct {
	Status        string                        `json:"status"`
	Deadline      *time.Time                    `json:"deadline"`
	DaysRemaining *int                          `json:"daysRemaining"`
	Documents     []models.VerificationDocument `json:"documents"`
}

func (s *Service) Status(ctx context.Context, tenantID uint) (*VerificationStatus, error) {
	tenant, err := s.tenants.GetByID(tenantID)
	if err != nil {
		return nil, err
	}
	docs, err := s.docs.ListByTenant(tenantID)
	if err != nil {
		return nil, err
	}

	status := &VerificationStatus{
		Status:    tenant.EligibilityStatus,
		Deadline:  tenant.EligibilityDeadline,
		Documents: docs,
	}
	if tenant.EligibilityDeadline != nil {
		days := access.DaysRemaining(*tenant.EligibilityDeadline, time.Now())
		status.DaysRemaining = &days
	}
	return status, nil
}

// Queue lists tenants by eligibility status for the admin review queue.
func (s *Service) Queue(ctx context.Context, status string, offset, limit int) ([]models.Tenant, int64, error) {
	return s.tenants.ListByStatus(status, offset, limit)
}

func (s *Service) getCached(ctx context.Context, tenantID uint) (*models.Tenant, error) {
	if s.cache != nil {
		if tenant, err := s.cache.GetTenant(ctx, tenantID); err == nil {
			return tenant, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("tenant cache read failed: %v", err)
		}
	}

	tenant, err := s.tenants.GetByID(tenantID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetTenant(ctx, tenant); err != nil {
			log.Printf("tenant cache write failed: %v", err)
		}
	}
	return tenant, nil
}
