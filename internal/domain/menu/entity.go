// internal/domain/menu/entity.go
package menu

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemType classifies a menu_items row
type ItemType string

const (
	ItemTypeDrink         ItemType = "drink"
	ItemTypeSnack         ItemType = "snack"
	ItemTypeAddOn         ItemType = "add_on"        // consumed as an addon option
	ItemTypeCustomization ItemType = "customization" // consumed as a size/ice/sweetness option
)

// Group is a customization option group
type Group string

const (
	GroupSize      Group = "size"
	GroupIce       Group = "ice"
	GroupSweetness Group = "sweetness"
	GroupAddOn     Group = "addon"
)

// SingleChoiceGroups are the groups that allow at most one selection.
var SingleChoiceGroups = []Group{GroupSize, GroupIce, GroupSweetness}

// AllGroups lists every option group in display order.
var AllGroups = []Group{GroupSize, GroupIce, GroupSweetness, GroupAddOn}

// RegularOptionID identifies the implicit default option of a single-choice group.
const RegularOptionID uint = 0

// Item represents a row of the menu_items table
type Item struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null;size:120" json:"name"`
	Category    string          `gorm:"size:60;index" json:"category"`
	ItemType    ItemType        `gorm:"not null;size:20;default:'drink';index" json:"item_type"`
	OptionGroup Group           `gorm:"size:20" json:"option_group,omitempty"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Item) TableName() string {
	return "menu_items"
}

// IsInternal reports whether the row is option data rather than a purchasable item
func (i *Item) IsInternal() bool {
	return i.ItemType == ItemTypeAddOn || i.ItemType == ItemTypeCustomization
}

// MenuItem is a purchasable item as seen by the ordering screens
type MenuItem struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"base_price"`
	Category  string          `json:"category"`
}

// CustomizationOption is a size, ice, sweetness or add-on choice
type CustomizationOption struct {
	ID         uint            `json:"id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
	Group      Group           `json:"group"`
}

// Regular returns the sentinel default option for a single-choice group
func Regular(group Group) CustomizationOption {
	return CustomizationOption{
		ID:         RegularOptionID,
		Name:       "Regular",
		PriceDelta: decimal.Zero,
		Group:      group,
	}
}

// IsRegular reports whether the option is a group's sentinel default
func (o CustomizationOption) IsRegular() bool {
	return o.ID == RegularOptionID && o.Group != GroupAddOn
}

// ToMenuItem converts a purchasable row
func (i *Item) ToMenuItem() MenuItem {
	return MenuItem{
		ID:        i.ID,
		Name:      i.Name,
		BasePrice: i.Price,
		Category:  i.Category,
	}
}

// ToOption converts an add-on or customization row
func (i *Item) ToOption() (CustomizationOption, bool) {
	switch i.ItemType {
	case ItemTypeAddOn:
		return CustomizationOption{ID: i.ID, Name: i.Name, PriceDelta: i.Price, Group: GroupAddOn}, true
	case ItemTypeCustomization:
		if !ValidGroup(i.OptionGroup) || i.OptionGroup == GroupAddOn {
			return CustomizationOption{}, false
		}
		return CustomizationOption{ID: i.ID, Name: i.Name, PriceDelta: i.Price, Group: i.OptionGroup}, true
	default:
		return CustomizationOption{}, false
	}
}

// ValidGroup reports whether g is a known option group
func ValidGroup(g Group) bool {
	switch g {
	case GroupSize, GroupIce, GroupSweetness, GroupAddOn:
		return true
	}
	return false
}

// ValidItemType reports whether t is a known item type
func ValidItemType(t ItemType) bool {
	switch t {
	case ItemTypeDrink, ItemTypeSnack, ItemTypeAddOn, ItemTypeCustomization:
		return true
	}
	return false
}
