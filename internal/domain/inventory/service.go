// internal/domain/inventory/service.go
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidMovement   = errors.New("invalid stock movement")
)

// Service handles inventory business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new inventory service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ItemRequest represents inventory item create/update data
type ItemRequest struct {
	Name         string          `json:"name" binding:"required"`
	Unit         string          `json:"unit" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	Supplier     string          `json:"supplier"`
}

// AdjustRequest represents a stock movement. A positive delta is inbound.
type AdjustRequest struct {
	Delta  decimal.Decimal `json:"delta" binding:"required"`
	Reason MovementReason  `json:"reason" binding:"required"`
	Notes  string          `json:"notes"`
}

// ListRequest represents inventory list query parameters
type ListRequest struct {
	Search       string `form:"search"`
	LowStockOnly bool   `form:"low_stock"`
}

// ApplyDelta computes the stock level after a movement. Stock never goes below zero.
func ApplyDelta(current, delta decimal.Decimal) (decimal.Decimal, MovementType, error) {
	if delta.IsZero() {
		return current, "", fmt.Errorf("%w: delta must not be zero", ErrInvalidMovement)
	}

	next := current.Add(delta)
	if next.IsNegative() {
		return current, "", fmt.Errorf("%w: available %s, requested %s", ErrInsufficientStock, current, delta.Abs())
	}

	if delta.IsPositive() {
		return next, MovementTypeInbound, nil
	}
	return next, MovementTypeOutbound, nil
}

// List retrieves inventory items
func (s *Service) List(ctx context.Context, req *ListRequest) ([]InventoryItem, error) {
	query := s.db.WithContext(ctx).Model(&InventoryItem{})

	if req.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(req.Search)+"%")
	}
	if req.LowStockOnly {
		query = query.Where("quantity <= reorder_level")
	}

	var items []InventoryItem
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

// LowStock lists items at or below their reorder level
func (s *Service) LowStock(ctx context.Context) ([]InventoryItem, error) {
	return s.List(ctx, &ListRequest{LowStockOnly: true})
}

// Get retrieves an inventory item
func (s *Service) Get(ctx context.Context, id uint) (*InventoryItem, error) {
	var item InventoryItem
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return &item, nil
}

// Create adds an inventory item
func (s *Service) Create(ctx context.Context, req *ItemRequest) (*InventoryItem, error) {
	if err := validateItem(req); err != nil {
		return nil, err
	}

	item := InventoryItem{
		Name:         strings.TrimSpace(req.Name),
		Unit:         strings.TrimSpace(req.Unit),
		Quantity:     req.Quantity,
		ReorderLevel: req.ReorderLevel,
		CostPrice:    req.CostPrice,
		Supplier:     req.Supplier,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return &item, nil
}

// Update changes an item's descriptive fields. Quantity only changes through AdjustStock.
func (s *Service) Update(ctx context.Context, id uint, req *ItemRequest) (*InventoryItem, error) {
	if err := validateItem(req); err != nil {
		return nil, err
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(item).Updates(map[string]interface{}{
		"name":          strings.TrimSpace(req.Name),
		"unit":          strings.TrimSpace(req.Unit),
		"reorder_level": req.ReorderLevel,
		"cost_price":    req.CostPrice,
		"supplier":      req.Supplier,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes an inventory item
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&InventoryItem{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete inventory item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// AdjustStock records a stock movement and updates the item's quantity
func (s *Service) AdjustStock(ctx context.Context, id uint, req *AdjustRequest, employeeID uint) (*InventoryMovement, error) {
	if !ValidReason(req.Reason) {
		return nil, fmt.Errorf("%w: unknown reason %q", ErrInvalidMovement, req.Reason)
	}

	var movement *InventoryMovement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item InventoryItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get inventory item: %w", err)
		}

		previous := item.Quantity
		next, movementType, err := ApplyDelta(previous, req.Delta)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{"quantity": next}
		if movementType == MovementTypeInbound && req.Reason == ReasonPurchase {
			updates["last_restock_date"] = time.Now().UTC()
		}
		if err := tx.Model(&item).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update inventory: %w", err)
		}

		movement = &InventoryMovement{
			InventoryItemID:  item.ID,
			MovementType:     movementType,
			Reason:           req.Reason,
			Quantity:         req.Delta.Abs(),
			PreviousQuantity: previous,
			NewQuantity:      next,
			Notes:            req.Notes,
			CreatedBy:        employeeID,
		}
		if err := tx.Create(movement).Error; err != nil {
			return fmt.Errorf("failed to record movement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// Movements lists the most recent movements of an item
func (s *Service) Movements(ctx context.Context, id uint, limit int) ([]InventoryMovement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var movements []InventoryMovement
	err := s.db.WithContext(ctx).
		Where("inventory_item_id = ?", id).
		Order("created_at DESC").
		Limit(limit).
		Find(&movements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return movements, nil
}

func validateItem(req *ItemRequest) error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Unit) == "" {
		return fmt.Errorf("%w: name and unit are required", ErrInvalidMovement)
	}
	if req.Quantity.IsNegative() || req.ReorderLevel.IsNegative() || req.CostPrice.IsNegative() {
		return fmt.Errorf("%w: quantities and prices must not be negative", ErrInvalidMovement)
	}
	return nil
}
