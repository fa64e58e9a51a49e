package auth

import (
	"testing"

	"verity/internal/models"
	"verity/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepo) CreateTx(tx *gorm.DB, user *models.User) error {
	return m.Called(tx, user).Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepo) TouchLogin(userID uint) error {
	return m.Called(userID).Error(0)
}

func (m *MockUserRepo) IncrementTokenVersion(userID uint) error {
	return m.Called(userID).Error(0)
}

func hashedPassword(t *testing.T, plain string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		setupMock func(*testing.T, *MockUserRepo)
		wantErr   error
	}{
		{
			name:     "successful login",
			password: "correct-horse!",
			setupMock: func(t *testing.T, users *MockUserRepo) {
				users.On("GetByEmail", "owner@example.com").Return(&models.User{
					Model:        gorm.Model{ID: 1},
					Email:        "owner@example.com",
					Password:     hashedPassword(t, "correct-horse!"),
					Role:         models.RoleOwner,
					Status:       "active",
					TokenVersion: 1,
				}, nil)
				users.On("TouchLogin", uint(1)).Return(nil)
			},
		},
		{
			name:     "wrong password",
			password: "wrong",
			setupMock: func(t *testing.T, users *MockUserRepo) {
				users.On("GetByEmail", "owner@example.com").Return(&models.User{
					Model:    gorm.Model{ID: 1},
					Password: hashedPassword(t, "correct-horse!"),
					Status:   "active",
				}, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			password: "whatever",
			setupMock: func(t *testing.T, users *MockUserRepo) {
				users.On("GetByEmail", "owner@example.com").Return(nil, repositories.ErrUserNotFound)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "suspended account",
			password: "correct-horse!",
			setupMock: func(t *testing.T, users *MockUserRepo) {
				users.On("GetByEmail", "owner@example.com").Return(&models.User{
					Model:    gorm.Model{ID: 1},
					Password: hashedPassword(t, "correct-horse!"),
					Status:   "suspended",
				}, nil)
			},
			wantErr: ErrAccountSuspended,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepo)
			tt.setupMock(t, users)

			s := NewService(users, "access-secret", "refresh-secret")
			user, tokens, err := s.Login("owner@example.com", tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, tokens)
				assert.NotEmpty(t, tokens.AccessToken)
				assert.NotEmpty(t, tokens.RefreshToken)
				assert.Empty(t, user.Password, "password hash must not leak")
			}
			users.AssertExpectations(t)
		})
	}
}

func TestRefresh_StaleTokenVersion(t *testing.T) {
	users := new(MockUserRepo)
	s := NewService(users, "access-secret", "refresh-secret")

	user := &models.User{
		Model:        gorm.Model{ID: 1},
		Email:        "owner@example.com",
		Role:         models.RoleOwner,
		TokenVersion: 1,
	}
	_, refresh, err := tokensFor(s, user)
	assert.NoError(t, err)

	// Password change bumps the stored version; the old refresh token dies.
	user.TokenVersion = 2
	users.On("GetByID", uint(1)).Return(user, nil)

	_, err = s.Refresh(refresh)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	users.AssertExpectations(t)
}

func TestRefresh_GarbageToken(t *testing.T) {
	users := new(MockUserRepo)
	s := NewService(users, "access-secret", "refresh-secret")

	_, err := s.Refresh("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func tokensFor(s *Service, user *models.User) (string, string, error) {
	pair, err := s.mintPair(user)
	if err != nil {
		return "", "", err
	}
	return pair.AccessToken, pair.RefreshToken, nil
}
