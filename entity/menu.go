package entity

import (
	"gorm.io/gorm"
)

type Menu struct {
	gorm.Model
	Name    string `json:"name"`
	Detail  string `json:"detail"`
	Picture string `json:"picture"`

	PriceCents           int64  `json:"priceCents"`
	DiscountedPriceCents *int64 `json:"discountedPriceCents"`

	Available bool `gorm:"default:true" json:"available"`

	RestaurantID uint       `json:"restaurantId"`
	Restaurant   Restaurant `json:"-"` // preload when needed

	// a dish can sit under several pricing tiers (e.g. lunch and dinner)
	Categories []MenuCategory `gorm:"many2many:menu_category_items;" json:"categories"`
	OrderItems []OrderItem    `json:"-"`
}

// EffectivePriceCents prefers a non-negative discounted price over the list price.
func (m *Menu) EffectivePriceCents() int64 {
	if m.DiscountedPriceCents != nil && *m.DiscountedPriceCents >= 0 {
		return *m.DiscountedPriceCents
	}
	return m.PriceCents
}
