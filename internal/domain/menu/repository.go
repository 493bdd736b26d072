// internal/domain/menu/repository.go
package menu

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repository reads and writes menu_items through gorm
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new menu repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListMenuItems returns active purchasable items
func (r *Repository) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	var rows []Item
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND item_type NOT IN ?", true, []ItemType{ItemTypeAddOn, ItemTypeCustomization}).
		Order("category, name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	items := make([]MenuItem, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].ToMenuItem())
	}
	return items, nil
}

// ListCustomizationOptions returns active add-on and customization rows grouped by option group
func (r *Repository) ListCustomizationOptions(ctx context.Context) (map[Group][]CustomizationOption, error) {
	var rows []Item
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND item_type IN ?", true, []ItemType{ItemTypeAddOn, ItemTypeCustomization}).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list customization options: %w", err)
	}

	grouped := make(map[Group][]CustomizationOption)
	for i := range rows {
		opt, ok := rows[i].ToOption()
		if !ok {
			continue // customization row without a usable group
		}
		grouped[opt.Group] = append(grouped[opt.Group], opt)
	}
	return grouped, nil
}

// ListAll returns every row, including inactive and internal ones, for the manager screen
func (r *Repository) ListAll(ctx context.Context, itemType ItemType) ([]Item, error) {
	var rows []Item
	query := r.db.WithContext(ctx).Order("item_type, category, name")
	if itemType != "" {
		query = query.Where("item_type = ?", itemType)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list menu rows: %w", err)
	}
	return rows, nil
}

// Get returns a single row
func (r *Repository) Get(ctx context.Context, id uint) (*Item, error) {
	var item Item
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return &item, nil
}

// Create inserts a row
func (r *Repository) Create(ctx context.Context, item *Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

// Save updates a row
func (r *Repository) Save(ctx context.Context, item *Item) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	return nil
}

// Delete soft-deletes a row
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&Item{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete menu item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}
