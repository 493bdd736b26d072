// internal/domain/employee/service.go
package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/boba-pos-backend/internal/config"
	"github.com/your-org/boba-pos-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("employee with this email already exists")
	ErrInvalidRole        = errors.New("role must be cashier or manager")
	ErrLastManager        = errors.New("cannot remove the last active manager")
)

// Service handles employee accounts and login
type Service struct {
	db              *gorm.DB
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	logger          *logrus.Logger
}

// NewService creates a new employee service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:              db,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		logger:          logger,
	}
}

// LoginRequest represents employee login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Employee    *Employee `json:"employee"`
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
}

// CreateRequest represents new employee data
type CreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role" binding:"required"`
}

// UpdateRequest represents employee changes; nil fields are left alone
type UpdateRequest struct {
	Name     *string `json:"name"`
	Role     *Role   `json:"role"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password"`
}

// ListRequest represents employee list query parameters
type ListRequest struct {
	Search string `form:"search"`
	Role   Role   `form:"role"`
	Status string `form:"status"` // active, inactive, all
}

// Login authenticates an employee
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var e Employee
	email := strings.ToLower(strings.TrimSpace(req.Email))
	result := s.db.WithContext(ctx).Where("email = ? AND is_active = ?", email, true).First(&e)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find employee: %w", result.Error)
	}

	if err := s.passwordManager.VerifyPassword(req.Password, e.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(e.ID, e.Email, string(e.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := time.Now().UTC()
	// A failed stamp must not block the shift from starting
	if err := s.db.WithContext(ctx).Model(&e).UpdateColumn("last_login_at", now).Error; err != nil {
		s.logger.WithError(err).WithField("employee_id", e.ID).Warn("Failed to record last login")
	} else {
		e.LastLoginAt = &now
	}

	return &AuthResponse{
		Employee:    &e,
		AccessToken: accessToken,
		ExpiresIn:   s.jwtManager.ExpiresIn(),
	}, nil
}

// GetByID retrieves an active or inactive employee
func (s *Service) GetByID(ctx context.Context, id uint) (*Employee, error) {
	var e Employee
	if err := s.db.WithContext(ctx).First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &e, nil
}

// List retrieves employees for the manager dashboard
func (s *Service) List(ctx context.Context, req *ListRequest) ([]Employee, error) {
	query := s.db.WithContext(ctx).Model(&Employee{})

	if req.Search != "" {
		searchTerm := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", searchTerm, searchTerm)
	}
	if req.Role != "" {
		query = query.Where("role = ?", req.Role)
	}
	switch req.Status {
	case "active":
		query = query.Where("is_active = ?", true)
	case "inactive":
		query = query.Where("is_active = ?", false)
	}

	var employees []Employee
	if err := query.Order("name ASC").Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// Create adds an employee account
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Employee, error) {
	if !ValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var count int64
	// Soft-deleted rows still hold the unique email index
	if err := s.db.WithContext(ctx).Unscoped().Model(&Employee{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	e := Employee{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashedPassword,
		Role:     req.Role,
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return &e, nil
}

// Update changes an employee's name, role, status or password
func (s *Service) Update(ctx context.Context, id uint, req *UpdateRequest) (*Employee, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		if !ValidRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Password != nil {
		hashedPassword, err := s.passwordManager.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashedPassword
	}

	demoted := req.Role != nil && *req.Role != RoleManager
	deactivated := req.IsActive != nil && !*req.IsActive
	if e.IsManager() && e.IsActive && (demoted || deactivated) {
		if err := s.ensureAnotherManager(ctx, e.ID); err != nil {
			return nil, err
		}
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(e).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update employee: %w", err)
		}
	}

	return s.GetByID(ctx, id)
}

// Delete soft-deletes an employee
func (s *Service) Delete(ctx context.Context, id uint) error {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e.IsManager() && e.IsActive {
		if err := s.ensureAnotherManager(ctx, e.ID); err != nil {
			return err
		}
	}
	if err := s.db.WithContext(ctx).Delete(e).Error; err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

func (s *Service) ensureAnotherManager(ctx context.Context, excludeID uint) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&Employee{}).
		Where("role = ? AND is_active = ? AND id <> ?", RoleManager, true, excludeID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to count managers: %w", err)
	}
	if count == 0 {
		return ErrLastManager
	}
	return nil
}
