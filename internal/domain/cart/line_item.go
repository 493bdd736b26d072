// internal/domain/cart/line_item.go
package cart

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/boba-pos-backend/internal/domain/menu"
	"github.com/your-org/boba-pos-backend/internal/pkg/money"
)

// ValidationError reports bad input to the line-item builder or the ledger
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Selections are the customization choices made in the drink dialog.
// A zero id in a single-choice group means the regular option.
type Selections struct {
	Size      uint   `json:"size"`
	Ice       uint   `json:"ice"`
	Sweetness uint   `json:"sweetness"`
	AddOns    []uint `json:"add_ons"`
}

func (s Selections) single(group menu.Group) uint {
	switch group {
	case menu.GroupSize:
		return s.Size
	case menu.GroupIce:
		return s.Ice
	case menu.GroupSweetness:
		return s.Sweetness
	}
	return menu.RegularOptionID
}

// LineItem is one priced, configured menu item in a cart
type LineItem struct {
	MenuItemID    uint                       `json:"menu_item_id"`
	DisplayName   string                     `json:"display_name"`
	UnitBasePrice decimal.Decimal            `json:"unit_base_price"`
	Options       []menu.CustomizationOption `json:"selected_options"`
	Quantity      int                        `json:"quantity"`
	LineTotal     decimal.Decimal            `json:"line_total"`
}

// UnitPrice is the base price plus every option's price delta
func (li LineItem) UnitPrice() decimal.Decimal {
	unit := li.UnitBasePrice
	for _, o := range li.Options {
		unit = unit.Add(o.PriceDelta)
	}
	return unit
}

// ConfigKey identifies the configuration of a line item: the menu item and
// the set of selected option ids, independent of selection order.
func (li LineItem) ConfigKey() string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(li.MenuItemID), 10))

	parts := make([]string, 0, len(li.Options))
	for _, o := range li.Options {
		if o.IsRegular() {
			continue
		}
		parts = append(parts, string(o.Group)+":"+strconv.FormatUint(uint64(o.ID), 10))
	}
	sort.Strings(parts)

	for _, p := range parts {
		b.WriteByte('|')
		b.WriteString(p)
	}
	return b.String()
}

// ConfigEqual reports whether two line items are configuration-equal
func (li LineItem) ConfigEqual(other LineItem) bool {
	return li.ConfigKey() == other.ConfigKey()
}

// Selections recovers the dialog selections of a line item, for edit mode
func (li LineItem) Selections() Selections {
	var sel Selections
	for _, o := range li.Options {
		switch o.Group {
		case menu.GroupSize:
			sel.Size = o.ID
		case menu.GroupIce:
			sel.Ice = o.ID
		case menu.GroupSweetness:
			sel.Sweetness = o.ID
		case menu.GroupAddOn:
			sel.AddOns = append(sel.AddOns, o.ID)
		}
	}
	return sel
}

func (li *LineItem) recalculate() {
	li.LineTotal = money.Round2(li.UnitPrice().Mul(decimal.NewFromInt(int64(li.Quantity))))
}

func (li LineItem) clone() LineItem {
	out := li
	out.Options = make([]menu.CustomizationOption, len(li.Options))
	copy(out.Options, li.Options)
	return out
}

// Builder prices line items against a session catalog
type Builder struct {
	catalog *menu.Catalog
}

// NewBuilder creates a builder for catalog
func NewBuilder(catalog *menu.Catalog) *Builder {
	return &Builder{catalog: catalog}
}

// Build combines a menu item with its selections into a priced line item
func (b *Builder) Build(item menu.MenuItem, sel Selections, quantity int) (LineItem, error) {
	if quantity < 1 {
		return LineItem{}, invalid("quantity", "must be at least 1, got %d", quantity)
	}

	options := make([]menu.CustomizationOption, 0, len(menu.SingleChoiceGroups)+len(sel.AddOns))
	for _, group := range menu.SingleChoiceGroups {
		id := sel.single(group)
		opt, ok := b.catalog.Option(group, id)
		if !ok {
			return LineItem{}, invalid(string(group), "option %d not found", id)
		}
		options = append(options, opt)
	}

	addOnIDs := make([]uint, 0, len(sel.AddOns))
	seen := make(map[uint]bool, len(sel.AddOns))
	for _, id := range sel.AddOns {
		if seen[id] {
			continue
		}
		seen[id] = true
		addOnIDs = append(addOnIDs, id)
	}
	sort.Slice(addOnIDs, func(i, j int) bool { return addOnIDs[i] < addOnIDs[j] })

	for _, id := range addOnIDs {
		opt, ok := b.catalog.Option(menu.GroupAddOn, id)
		if !ok {
			return LineItem{}, invalid("add_ons", "add-on %d not found", id)
		}
		options = append(options, opt)
	}

	li := LineItem{
		MenuItemID:    item.ID,
		DisplayName:   item.Name,
		UnitBasePrice: item.BasePrice,
		Options:       options,
		Quantity:      quantity,
	}
	li.recalculate()
	return li, nil
}

// BuildByID resolves the menu item from the catalog before building
func (b *Builder) BuildByID(menuItemID uint, sel Selections, quantity int) (LineItem, error) {
	item, ok := b.catalog.MenuItem(menuItemID)
	if !ok {
		return LineItem{}, invalid("menu_item_id", "menu item %d not found", menuItemID)
	}
	return b.Build(item, sel, quantity)
}

// Rebuild re-applies new selections to an existing line item. A quantity of
// zero keeps the existing quantity.
func (b *Builder) Rebuild(existing LineItem, sel Selections, quantity int) (LineItem, error) {
	if quantity == 0 {
		quantity = existing.Quantity
	}

	item := menu.MenuItem{
		ID:        existing.MenuItemID,
		Name:      existing.DisplayName,
		BasePrice: existing.UnitBasePrice,
	}
	return b.Build(item, sel, quantity)
}
