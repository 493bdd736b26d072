// internal/domain/customer/entity.go
package customer

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Customer is an identified buyer who earns rewards points
type Customer struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Identity      string     `gorm:"uniqueIndex;not null;size:255" json:"identity"` // as supplied by the identity provider
	DisplayName   string     `gorm:"size:255" json:"display_name"`
	RewardsPoints int64      `gorm:"not null;default:0;check:rewards_points >= 0" json:"rewards_points"`
	LastSeenAt    *time.Time `json:"last_seen_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName overrides the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate normalizes the identity before insert
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	c.Identity = NormalizeIdentity(c.Identity)
	return nil
}

// NormalizeIdentity lowercases and trims an identity
func NormalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

// GetDisplayName returns display name or identity
func (c *Customer) GetDisplayName() string {
	if name := strings.TrimSpace(c.DisplayName); name != "" {
		return name
	}
	return c.Identity
}
