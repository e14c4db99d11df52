package entity

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	SubtotalCents int64 `json:"subtotalCents"`

	Scenario       string     `json:"scenario"`
	TargetTimeType string     `json:"targetTimeType"`
	TargetTime     *time.Time `json:"targetTime"`
	Remark         string     `json:"remark"`

	UserID uint `json:"userId"`
	User   User `json:"-"` // preload for user detail only

	RestaurantID uint       `json:"restaurantId"`
	Restaurant   Restaurant `json:"-"` // preload when needed

	OrderStatusID uint        `json:"orderStatusId"`
	OrderStatus   OrderStatus `json:"orderStatus"`

	Items []OrderItem `json:"items" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
