// internal/domain/employee/entity.go
package employee

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is an employee's permission level
type Role string

const (
	RoleCashier Role = "cashier"
	RoleManager Role = "manager"
)

// ValidRole reports whether r is a known role
func ValidRole(r Role) bool {
	return r == RoleCashier || r == RoleManager
}

// Employee represents a staff account
type Employee struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:120" json:"name"`
	Email       string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string         `gorm:"not null;size:255" json:"-"` // Don't return in JSON
	Role        Role           `gorm:"not null;size:20;default:'cashier'" json:"role"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for Employee
func (Employee) TableName() string {
	return "employees"
}

// BeforeCreate hook to handle business logic before employee creation
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	// Email should be lowercase
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	return nil
}

// IsManager reports whether the employee can use the manager dashboard
func (e *Employee) IsManager() bool {
	return e.Role == RoleManager
}
