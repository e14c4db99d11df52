package entity

import (
	"gorm.io/gorm"
)

// MenuCategory is a menu section/variant context of one restaurant, e.g.
// "Lunch" vs "Dinner". The same dish listed under two categories can be
// ordered twice as distinct cart lines.
type MenuCategory struct {
	gorm.Model
	Name string `json:"name"`

	RestaurantID uint       `json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	Menus []Menu `gorm:"many2many:menu_category_items;" json:"-"`
}
