package auth

import (
	"errors"

	"verity/internal/models"
	"verity/internal/repositories"
	"verity/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrWeakPassword       = errors.New("password does not meet requirements")
)

// TokenPair holds a freshly minted access/refresh pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Service struct {
	users         repositories.UserRepository
	jwtSecret     string
	refreshSecret string
}

func NewService(users repositories.UserRepository, jwtSecret, refreshSecret string) *Service {
	return &Service{users: users, jwtSecret: jwtSecret, refreshSecret: refreshSecret}
}

// Login authenticates by email and password and mints a token pair.
func (s *Service) Login(email, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if user.Status != "active" {
		return nil, nil, ErrAccountSuspended
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.mintPair(user)
	if err != nil {
		return nil, nil, err
	}
	if err := s.users.TouchLogin(user.ID); err != nil {
		return nil, nil, err
	}
	user.Password = ""
	return user, pair, nil
}

// Refresh validates a refresh token and issues a new pair. Tokens minted
// before a password change carry a stale version and are rejected.
func (s *Service) Refresh(refreshToken string) (*TokenPair, error) {
	_, claims, err := utils.ParseToken(refreshToken, s.refreshSecret)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrTokenRevoked
	}
	return s.mintPair(user)
}

// ChangePassword verifies the current password, stores the new hash and
// bumps the token version so outstanding tokens die.
func (s *Service) ChangePassword(userID uint, current, next string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	if err := s.users.Update(user); err != nil {
		return err
	}
	return s.users.IncrementTokenVersion(userID)
}

// Logout revokes every outstanding token for the user.
func (s *Service) Logout(userID uint) error {
	return s.users.IncrementTokenVersion(userID)
}

func (s *Service) mintPair(user *models.User) (*TokenPair, error) {
	claims := &models.UserClaims{
		UserID:       user.ID,
		TenantID:     user.TenantID,
		Email:        user.Email,
		Role:         user.Role,
		Permissions:  models.GetDefaultPermissions(user.Role),
		TokenVersion: user.TokenVersion,
	}
	access, refresh, err := utils.GenerateTokens(claims, s.jwtSecret, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
