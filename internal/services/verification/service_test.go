package verification

import (
	"context"
	"testing"
	"time"

	"verity/internal/models"
	"verity/internal/repositories"
	"verity/internal/services/audit"
	"verity/internal/storage"
	"verity/internal/validation"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type MockTenantRepo struct {
	mock.Mock
}

func (m *MockTenantRepo) Create(tenant *models.Tenant) error {
	return m.Called(tenant).Error(0)
}

func (m *MockTenantRepo) GetByID(id uint) (*models.Tenant, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepo) GetBySlug(slug string) (*models.Tenant, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepo) Update(tenant *models.Tenant) error {
	return m.Called(tenant).Error(0)
}

func (m *MockTenantRepo) AdvanceStatus(tx *gorm.DB, tenantID uint, from []string, to string) (bool, error) {
	args := m.Called(tx, tenantID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantRepo) ListByStatus(status string, offset, limit int) ([]models.Tenant, int64, error) {
	args := m.Called(status, offset, limit)
	return args.Get(0).([]models.Tenant), args.Get(1).(int64), args.Error(2)
}

func (m *MockTenantRepo) ListDeadlineBetween(status string, start, end time.Time) ([]models.Tenant, error) {
	args := m.Called(status, start, end)
	return args.Get(0).([]models.Tenant), args.Error(1)
}

func (m *MockTenantRepo) ListOverdue(now time.Time) ([]models.Tenant, error) {
	args := m.Called(now)
	return args.Get(0).([]models.Tenant), args.Error(1)
}

type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) CreateTx(tx *gorm.DB, doc *models.VerificationDocument) error {
	return m.Called(tx, doc).Error(0)
}

func (m *MockDocumentRepo) FindByIDAndTenant(id, tenantID uint) (*models.VerificationDocument, error) {
	args := m.Called(id, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerificationDocument), args.Error(1)
}

func (m *MockDocumentRepo) ListByTenant(tenantID uint) ([]models.VerificationDocument, error) {
	args := m.Called(tenantID)
	return args.Get(0).([]models.VerificationDocument), args.Error(1)
}

func (m *MockDocumentRepo) DeleteTx(tx *gorm.DB, id uint) error {
	return m.Called(tx, id).Error(0)
}

func (m *MockDocumentRepo) ReviewPendingTx(tx *gorm.DB, tenantID uint, status, reviewedBy, notes string, reviewedAt time.Time) error {
	return m.Called(tx, tenantID, status, reviewedBy, notes, reviewedAt).Error(0)
}

func (m *MockDocumentRepo) CountByTenant(tenantID uint) (int64, error) {
	args := m.Called(tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func validUpload() Upload {
	return Upload{
		DocumentType: "ACCREDITATION",
		FileName:     "accreditation.pdf",
		ContentType:  "application/pdf",
		Size:         1024,
		Content:      []byte("pdf bytes"),
	}
}

func TestUploadDocument_RejectsBeforePersistence(t *testing.T) {
	tests := []struct {
		name      string
		upload    Upload
		setupMock func(*MockTenantRepo)
		wantErr   error
	}{
		{
			name: "file over the size limit",
			upload: Upload{
				DocumentType: "ACCREDITATION",
				FileName:     "huge.pdf",
				ContentType:  "application/pdf",
				Size:         15 << 20,
			},
			wantErr: validation.ErrFileTooLarge,
		},
		{
			name:   "verified tenant cannot upload",
			upload: validUpload(),
			setupMock: func(tenants *MockTenantRepo) {
				tenants.On("GetByID", uint(1)).Return(&models.Tenant{
					EligibilityStatus: models.StatusVerified,
				}, nil)
			},
			wantErr: ErrUploadNotAllowed,
		},
		{
			name:   "rejected tenant cannot upload",
			upload: validUpload(),
			setupMock: func(tenants *MockTenantRepo) {
				tenants.On("GetByID", uint(1)).Return(&models.Tenant{
					EligibilityStatus: models.StatusRejected,
				}, nil)
			},
			wantErr: ErrUploadNotAllowed,
		},
		{
			name:   "unknown tenant",
			upload: validUpload(),
			setupMock: func(tenants *MockTenantRepo) {
				tenants.On("GetByID", uint(1)).Return(nil, repositories.ErrTenantNotFound)
			},
			wantErr: repositories.ErrTenantNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenants := new(MockTenantRepo)
			docs := new(MockDocumentRepo)
			store := storage.NewMemoryStore()
			if tt.setupMock != nil {
				tt.setupMock(tenants)
			}

			s := NewService(nil, tenants, docs, nil, store, nil)
			doc, err := s.UploadDocument(context.Background(), 1, "owner@example.com", tt.upload)

			assert.Nil(t, doc)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, store.Len(), "nothing should reach the object store")
			tenants.AssertExpectations(t)
		})
	}
}

func TestDeleteDocument_NotFound(t *testing.T) {
	tenants := new(MockTenantRepo)
	docs := new(MockDocumentRepo)
	docs.On("FindByIDAndTenant", uint(42), uint(1)).Return(nil, repositories.ErrDocumentNotFound)

	s := NewService(nil, tenants, docs, nil, storage.NewMemoryStore(), nil)
	err := s.DeleteDocument(context.Background(), 1, 42, "owner@example.com")

	assert.ErrorIs(t, err, repositories.ErrDocumentNotFound)
	docs.AssertExpectations(t)
}

func TestReview_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		action    string
		setupMock func(*MockTenantRepo)
		wantErr   error
	}{
		{
			name:    "unknown action",
			action:  "ESCALATE",
			wantErr: ErrInvalidAction,
		},
		{
			name:   "cannot approve a pending tenant",
			action: ActionApprove,
			setupMock: func(tenants *MockTenantRepo) {
				tenants.On("GetByID", uint(1)).Return(&models.Tenant{
					EligibilityStatus: models.StatusPending,
				}, nil)
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name:   "cannot reject a verified tenant",
			action: ActionReject,
			setupMock: func(tenants *MockTenantRepo) {
				tenants.On("GetByID", uint(1)).Return(&models.Tenant{
					EligibilityStatus: models.StatusVerified,
				}, nil)
			},
			wantErr: ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenants := new(MockTenantRepo)
			docs := new(MockDocumentRepo)
			if tt.setupMock != nil {
				tt.setupMock(tenants)
			}

			s := NewService(nil, tenants, docs, nil, storage.NewMemoryStore(), nil)
			reviewed, err := s.Review(context.Background(), 1, tt.action, "", "admin@example.com")

			assert.Nil(t, reviewed)
			assert.ErrorIs(t, err, tt.wantErr)
			tenants.AssertExpectations(t)
		})
	}
}

type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Create(entry *models.VerificationAuditLog) error {
	return m.Called(entry).Error(0)
}

func (m *MockAuditRepo) CreateTx(tx *gorm.DB, entry *models.VerificationAuditLog) error {
	return m.Called(tx, entry).Error(0)
}

func (m *MockAuditRepo) Search(filter repositories.AuditFilter, offset, limit int) ([]models.VerificationAuditLog, int64, error) {
	args := m.Called(filter, offset, limit)
	return args.Get(0).([]models.VerificationAuditLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditRepo) HasAction(tenantID uint, action string) (bool, error) {
	args := m.Called(tenantID, action)
	return args.Bool(0), args.Error(1)
}

// gormWithMock opens GORM over a sqlmock connection so db.Transaction
// runs a real begin/commit cycle while repositories stay mocked.
func gormWithMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	return db, sqlMock
}

func auditRowMatcher(action, performedBy string) interface{} {
	return mock.MatchedBy(func(entry *models.VerificationAuditLog) bool {
		return entry.Action == action && entry.PerformedBy == performedBy
	})
}

func TestUploadDocument_LatchesPendingTenant(t *testing.T) {
	db, sqlMock := gormWithMock(t)
	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	tenants := new(MockTenantRepo)
	tenants.On("GetByID", uint(1)).Return(&models.Tenant{
		Model:             gorm.Model{ID: 1},
		EligibilityStatus: models.StatusPending,
	}, nil)
	tenants.On("AdvanceStatus", mock.Anything, uint(1), mock.Anything, models.StatusUnderReview).
		Return(true, nil)

	docs := new(MockDocumentRepo)
	docs.On("CreateTx", mock.Anything, mock.Anything).Return(nil)

	auditRepo := new(MockAuditRepo)
	auditRepo.On("CreateTx", mock.Anything, auditRowMatcher(models.ActionDocumentUploaded, "owner@example.com")).
		Return(nil)

	store := storage.NewMemoryStore()
	s := NewService(db, tenants, docs, audit.NewService(auditRepo), store, nil)

	doc, err := s.UploadDocument(context.Background(), 1, "owner@example.com", validUpload())

	assert.NoError(t, err)
	if assert.NotNil(t, doc) {
		assert.Equal(t, models.DocumentPending, doc.Status)
		assert.NotEmpty(t, doc.ObjectKey)
	}
	assert.Equal(t, 1, store.Len())
	auditRepo.AssertNumberOfCalls(t, "CreateTx", 1)
	tenants.AssertExpectations(t)
	docs.AssertExpectations(t)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestUploadDocument_SecondUploadDoesNotLatchAgain(t *testing.T) {
	db, sqlMock := gormWithMock(t)
	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	tenants := new(MockTenantRepo)
	tenants.On("GetByID", uint(1)).Return(&models.Tenant{
		Model:             gorm.Model{ID: 1},
		EligibilityStatus: models.StatusUnderReview,
	}, nil)
	// The conditional update finds no row in a latchable status and
	// reports false; the upload still succeeds.
	tenants.On("AdvanceStatus", mock.Anything, uint(1), mock.Anything, models.StatusUnderReview).
		Return(false, nil)

	docs := new(MockDocumentRepo)
	docs.On("CreateTx", mock.Anything, mock.Anything).Return(nil)

	auditRepo := new(MockAuditRepo)
	auditRepo.On("CreateTx", mock.Anything, auditRowMatcher(models.ActionDocumentUploaded, "owner@example.com")).
		Return(nil)

	s := NewService(db, tenants, docs, audit.NewService(auditRepo), storage.NewMemoryStore(), nil)

	doc, err := s.UploadDocument(context.Background(), 1, "owner@example.com", validUpload())

	assert.NoError(t, err)
	assert.NotNil(t, doc)
	auditRepo.AssertNumberOfCalls(t, "CreateTx", 1)
	tenants.AssertExpectations(t)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestDeleteDocument_MissingObjectStillDeletesRow(t *testing.T) {
	db, sqlMock := gormWithMock(t)
	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	docs := new(MockDocumentRepo)
	docs.On("FindByIDAndTenant", uint(42), uint(1)).Return(&models.VerificationDocument{
		Model:        gorm.Model{ID: 42},
		TenantID:     1,
		DocumentType: "ACCREDITATION",
		FileName:     "accreditation.pdf",
		ObjectKey:    "1/ACCREDITATION/gone.pdf",
	}, nil)
	docs.On("DeleteTx", mock.Anything, uint(42)).Return(nil)

	auditRepo := new(MockAuditRepo)
	auditRepo.On("CreateTx", mock.Anything, auditRowMatcher(models.ActionDocumentDeleted, "owner@example.com")).
		Return(nil)

	// The store never held the object; its delete fails but the row and
	// audit entry go through regardless.
	store := storage.NewMemoryStore()
	s := NewService(db, new(MockTenantRepo), docs, audit.NewService(auditRepo), store, nil)

	err := s.DeleteDocument(context.Background(), 1, 42, "owner@example.com")

	assert.NoError(t, err)
	auditRepo.AssertNumberOfCalls(t, "CreateTx", 1)
	docs.AssertExpectations(t)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
