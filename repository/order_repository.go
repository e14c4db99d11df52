package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type OrderRepository struct{ DB *gorm.DB }

func NewOrderRepository(db *gorm.DB) *OrderRepository { return &OrderRepository{DB: db} }

func (r *OrderRepository) Create(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) FindByID(id uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.Preload("Items").Preload("OrderStatus").First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(userID uint) ([]entity.Order, error) {
	var out []entity.Order
	err := r.DB.Where("user_id = ?", userID).
		Preload("OrderStatus").
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *OrderRepository) ListByRestaurant(restaurantID uint) ([]entity.Order, error) {
	var out []entity.Order
	err := r.DB.Where("restaurant_id = ?", restaurantID).
		Preload("Items").
		Preload("OrderStatus").
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *OrderRepository) StatusByName(name string) (*entity.OrderStatus, error) {
	var s entity.OrderStatus
	if err := r.DB.Where("status_name = ?", name).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *OrderRepository) UpdateStatus(orderID, statusID uint) error {
	return r.DB.Model(&entity.Order{}).
		Where("id = ?", orderID).
		Update("order_status_id", statusID).Error
}
