// internal/domain/customer/service.go
package customer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidIdentity  = errors.New("identity is required")
	ErrInvalidPoints    = errors.New("points must be positive")
)

// Service is the customer store
type Service struct {
	db *gorm.DB
}

// NewService creates a new customer service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SessionRequest is the identity provider hand-off
type SessionRequest struct {
	Identity    string `json:"identity" binding:"required"`
	DisplayName string `json:"display_name"`
}

// FindByIdentity looks a customer up by identity
func (s *Service) FindByIdentity(ctx context.Context, identity string) (*Customer, error) {
	identity = NormalizeIdentity(identity)
	if identity == "" {
		return nil, ErrInvalidIdentity
	}

	var c Customer
	if err := s.db.WithContext(ctx).Where("identity = ?", identity).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &c, nil
}

// FindOrCreate resolves the customer for an identity, provisioning one with
// zero points on first login.
func (s *Service) FindOrCreate(ctx context.Context, req *SessionRequest) (*Customer, error) {
	identity := NormalizeIdentity(req.Identity)
	if identity == "" {
		return nil, ErrInvalidIdentity
	}

	now := time.Now().UTC()
	c := Customer{
		Identity:      identity,
		DisplayName:   req.DisplayName,
		RewardsPoints: 0,
		LastSeenAt:    &now,
	}

	// Concurrent first logins race on the unique index; the loser reads the winner's row
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"last_seen_at": now}),
		}).
		Create(&c).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return s.FindByIdentity(ctx, identity)
}

// GetByID retrieves a customer by id
func (s *Service) GetByID(ctx context.Context, id uint) (*Customer, error) {
	var c Customer
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

// IncrementRewards atomically adds points to a customer's balance and
// returns the new balance.
func (s *Service) IncrementRewards(ctx context.Context, id uint, points int64) (int64, error) {
	if points <= 0 {
		return 0, ErrInvalidPoints
	}

	var c Customer
	result := s.db.WithContext(ctx).
		Model(&c).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "rewards_points"}}}).
		Where("id = ?", id).
		UpdateColumn("rewards_points", gorm.Expr("rewards_points + ?", points))

	if result.Error != nil {
		return 0, fmt.Errorf("failed to increment rewards: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ErrCustomerNotFound
	}

	return c.RewardsPoints, nil
}
