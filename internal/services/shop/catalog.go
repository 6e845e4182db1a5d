package shop

import (
	"slices"

	"github.com/mcoot/chirpygame/internal/model"
)

// Catalog is the read-only list of items for sale
type Catalog struct {
	items []model.ShopItem
}

// NewCatalog creates a catalog of the given items
func NewCatalog(items ...model.ShopItem) *Catalog {
	return &Catalog{items: slices.Clone(items)}
}

// DefaultCatalog returns the standard exercise catalog
func DefaultCatalog() *Catalog {
	return NewCatalog(
		model.ShopItem{Name: "Fire Spell", Price: 250, Damage: 20},
		model.ShopItem{Name: "Ice Spell", Price: 200, Damage: 15},
		model.ShopItem{Name: "Lightning Spell", Price: 300, Damage: 25},
	)
}

// Items returns a copy of the catalog's items
func (c *Catalog) Items() []model.ShopItem {
	return slices.Clone(c.items)
}

// Lookup finds an item by name
func (c *Catalog) Lookup(name string) (model.ShopItem, error) {
	for _, item := range c.items {
		if item.Name == name {
			return item, nil
		}
	}
	return model.ShopItem{}, model.ErrItemNotFound
}
