// internal/domain/menu/catalog.go
package menu

import (
	"sort"
	"time"
)

// Catalog is the read-only menu snapshot an ordering session works against
type Catalog struct {
	Items    []MenuItem                      `json:"items"`
	Options  map[Group][]CustomizationOption `json:"options"`
	LoadedAt time.Time                       `json:"loaded_at"`
}

// NewCatalog builds a catalog, ordering items by category then name and options by id
func NewCatalog(items []MenuItem, options map[Group][]CustomizationOption) *Catalog {
	sorted := make([]MenuItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Category != sorted[j].Category {
			return sorted[i].Category < sorted[j].Category
		}
		return sorted[i].Name < sorted[j].Name
	})

	grouped := make(map[Group][]CustomizationOption, 4)
	for _, g := range AllGroups {
		opts := make([]CustomizationOption, 0, len(options[g]))
		for _, o := range options[g] {
			if o.Group == g {
				opts = append(opts, o)
			}
		}
		sort.Slice(opts, func(i, j int) bool { return opts[i].ID < opts[j].ID })
		grouped[g] = opts
	}

	return &Catalog{
		Items:    sorted,
		Options:  grouped,
		LoadedAt: time.Now().UTC(),
	}
}

// MenuItem looks up a purchasable item by id
func (c *Catalog) MenuItem(id uint) (MenuItem, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return MenuItem{}, false
}

// Option looks up an option within a group. The regular option of a
// single-choice group always resolves.
func (c *Catalog) Option(group Group, id uint) (CustomizationOption, bool) {
	if id == RegularOptionID && group != GroupAddOn {
		return Regular(group), true
	}
	for _, o := range c.Options[group] {
		if o.ID == id {
			return o, true
		}
	}
	return CustomizationOption{}, false
}
