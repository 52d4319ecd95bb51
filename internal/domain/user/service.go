// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a user does not exist
	ErrNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned on bad username/password/PIN
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveAccount is returned when a deactivated user logs in
	ErrInactiveAccount = errors.New("account is deactivated")
)

// Service handles staff accounts and authentication
type Service struct {
	db         *gorm.DB
	config     *config.Config
	jwtManager *auth.JWTManager
	passwords  *auth.PasswordManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:         db,
		config:     cfg,
		jwtManager: auth.NewJWTManager(cfg),
		passwords:  auth.NewPasswordManager(cfg),
	}
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PINLoginRequest represents a quick cashier login
type PINLoginRequest struct {
	Username string `json:"username" binding:"required"`
	PIN      string `json:"pin" binding:"required"`
}

// AuthResponse represents a successful authentication
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateUserRequest represents new staff member data
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required"`
	PIN      string `json:"pin"`
	Role     Role   `json:"role"`
}

// UpdateUserRequest represents staff member update data
type UpdateUserRequest struct {
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
	PIN      *string `json:"pin"`
	Role     *Role   `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// Login authenticates with username and password
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var u User
	err := s.db.WithContext(ctx).Where("username = ?", req.Username).First(&u).Error
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.passwords.VerifyPassword(req.Password, u.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(ctx, &u)
}

// LoginWithPIN authenticates a cashier with a quick PIN
func (s *Service) LoginWithPIN(ctx context.Context, req *PINLoginRequest) (*AuthResponse, error) {
	var u User
	err := s.db.WithContext(ctx).Where("username = ?", req.Username).First(&u).Error
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if u.PINHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := s.passwords.VerifyPIN(req.PIN, u.PINHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(ctx, &u)
}

// Refresh exchanges a refresh token for a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	u, err := s.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(ctx, u)
}

func (s *Service) issueTokens(ctx context.Context, u *User) (*AuthResponse, error) {
	if !u.IsActive {
		return nil, ErrInactiveAccount
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Username, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now().UTC()
	s.db.WithContext(ctx).Model(&User{}).Where("id = ?", u.ID).Update("last_login_at", now)
	u.LastLoginAt = &now

	return &AuthResponse{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// List retrieves all staff members
func (s *Service) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.db.WithContext(ctx).Order("username ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetByID retrieves a staff member
func (s *Service) GetByID(ctx context.Context, id uint) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &u, nil
}

// Create creates a new staff member
func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	var count int64
	s.db.WithContext(ctx).Model(&User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("username %q is already taken", req.Username)
	}

	passwordHash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = RoleCashier
	}

	u := &User{
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}

	if req.PIN != "" {
		pinHash, err := s.passwords.HashPIN(req.PIN)
		if err != nil {
			return nil, err
		}
		u.PINHash = pinHash
	}

	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// Update updates a staff member; only provided fields change
func (s *Service) Update(ctx context.Context, id uint, req *UpdateUserRequest) (*User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.Password != nil {
		hash, err := s.passwords.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if req.PIN != nil {
		hash, err := s.passwords.HashPIN(*req.PIN)
		if err != nil {
			return nil, err
		}
		u.PINHash = hash
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// Delete soft-deletes a staff member
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
