// internal/domain/inventory/entity.go
package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	MovementTypeInbound  MovementType = "inbound"  // Delivery, count correction up
	MovementTypeOutbound MovementType = "outbound" // Usage, waste, count correction down
)

// MovementReason represents the reason for a stock movement
type MovementReason string

const (
	ReasonPurchase   MovementReason = "purchase"
	ReasonUsage      MovementReason = "usage"
	ReasonWaste      MovementReason = "waste"
	ReasonAdjustment MovementReason = "adjustment"
)

// ValidReason reports whether r is a known reason
func ValidReason(r MovementReason) bool {
	switch r {
	case ReasonPurchase, ReasonUsage, ReasonWaste, ReasonAdjustment:
		return true
	}
	return false
}

// InventoryItem is an ingredient or supply kept in stock
type InventoryItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"uniqueIndex;not null;size:120" json:"name"`
	Unit            string          `gorm:"not null;size:20" json:"unit"` // kg, L, pcs
	Quantity        decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0" json:"quantity"`
	ReorderLevel    decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0" json:"reorder_level"`
	CostPrice       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"cost_price"` // per unit
	Supplier        string          `gorm:"size:120" json:"supplier"`
	LastRestockDate *time.Time      `json:"last_restock_date,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// InventoryMovement represents a record of stock movement
type InventoryMovement struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	InventoryItemID  uint            `gorm:"not null;index" json:"inventory_item_id"`
	MovementType     MovementType    `gorm:"not null;size:20" json:"movement_type"`
	Reason           MovementReason  `gorm:"not null;size:20" json:"reason"`
	Quantity         decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"quantity"`
	PreviousQuantity decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"previous_quantity"`
	NewQuantity      decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"new_quantity"`
	Notes            string          `gorm:"type:text" json:"notes"`
	CreatedBy        uint            `gorm:"index" json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
}

// TableName overrides
func (InventoryItem) TableName() string     { return "inventory_items" }
func (InventoryMovement) TableName() string { return "inventory_movements" }

// IsLowStock checks if inventory is at or below reorder level
func (ii *InventoryItem) IsLowStock() bool {
	return ii.Quantity.LessThanOrEqual(ii.ReorderLevel)
}

// IsOutOfStock checks if inventory is out of stock
func (ii *InventoryItem) IsOutOfStock() bool {
	return !ii.Quantity.IsPositive()
}

// StockValue is quantity times cost price
func (ii *InventoryItem) StockValue() decimal.Decimal {
	return ii.Quantity.Mul(ii.CostPrice).Round(2)
}
