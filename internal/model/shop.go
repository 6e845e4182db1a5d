package model

// ShopItem is an entry in the static shop catalog
type ShopItem struct {
	Name   string `json:"name"`
	Price  int    `json:"price"`
	Damage int    `json:"damage,omitempty"`
}

// NewInventoryItem creates an owned instance of a shop item
func (i ShopItem) NewInventoryItem() InventoryItem {
	return InventoryItem{
		Name:   i.Name,
		Price:  i.Price,
		Damage: i.Damage,
	}
}
