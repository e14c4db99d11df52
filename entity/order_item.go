package entity

import (
	"gorm.io/gorm"
)

type OrderItem struct {
	gorm.Model
	Qty            int    `json:"qty"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
	Remark         string `json:"remark"`

	// category context snapshotted at checkout time
	CategoryID    *uint  `json:"categoryId"`
	CategoryLabel string `json:"categoryLabel"`

	OrderID uint  `json:"orderId"`
	Order   Order `json:"-"`

	MenuID uint `json:"menuId"`
	Menu   Menu `json:"-"` // preload for menu names only
}
