package entity

import (
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
	Picture     string `json:"picture"`
	// branding color shown by the storefront, 3- or 6-digit hex
	PrimaryColor string `json:"primaryColor"`

	UserID uint `json:"userId"` // owner (users.id)
	User   User `json:"-"`

	Menus      []Menu         `json:"-"`
	Categories []MenuCategory `json:"-"`
	Orders     []Order        `json:"-"`
}
