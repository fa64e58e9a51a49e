package handlers

import (
	"testing"

	"verity/internal/models"
	"verity/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// appWithClaims builds a fiber app whose routes see the given claims,
// the same shape the auth middleware stores after validating a token.
func appWithClaims(claims *models.UserClaims) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("claims", claims)
		return c.Next()
	})
	return app
}

func ownerClaims(tenantID uint) *models.UserClaims {
	return &models.UserClaims{
		UserID:   1,
		TenantID: &tenantID,
		Email:    "owner@example.com",
		Role:     models.RoleOwner,
	}
}

func adminClaims() *models.UserClaims {
	return &models.UserClaims{
		UserID: 9,
		Email:  "admin@example.com",
		Role:   models.RoleAdmin,
	}
}

// openMockDB wires gorm over sqlmock so service transactions run
// against scripted Begin/Commit expectations.
func openMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return db, mock
}

// The stubs below embed their interface so only the methods a handler
// path actually reaches need an implementation.

type stubTenantRepo struct {
	repositories.TenantRepository
	tenant  *models.Tenant
	latched bool
}

func (s *stubTenantRepo) GetByID(id uint) (*models.Tenant, error) {
	if s.tenant == nil {
		return nil, repositories.ErrTenantNotFound
	}
	return s.tenant, nil
}

func (s *stubTenantRepo) AdvanceStatus(tx *gorm.DB, tenantID uint, from []string, to string) (bool, error) {
	return s.latched, nil
}

type stubDocumentRepo struct {
	repositories.DocumentRepository
	created int
}

func (s *stubDocumentRepo) CreateTx(tx *gorm.DB, doc *models.VerificationDocument) error {
	s.created++
	doc.ID = uint(s.created)
	return nil
}

type stubAppealRepo struct {
	repositories.AppealRepository
	pending bool
}

func (s *stubAppealRepo) ExistsPendingForTenant(tenantID uint) (bool, error) {
	return s.pending, nil
}

type stubAuditRepo struct {
	repositories.AuditRepository
	entries []models.VerificationAuditLog
}

func (s *stubAuditRepo) CreateTx(tx *gorm.DB, entry *models.VerificationAuditLog) error {
	s.entries = append(s.entries, *entry)
	return nil
}
