package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type MenuRepository struct{ DB *gorm.DB }

func NewMenuRepository(db *gorm.DB) *MenuRepository { return &MenuRepository{DB: db} }

func (r *MenuRepository) FindByID(id uint) (*entity.Menu, error) {
	var m entity.Menu
	if err := r.DB.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MenuRepository) ListByRestaurant(restaurantID uint) ([]entity.Menu, error) {
	var out []entity.Menu
	err := r.DB.Where("restaurant_id = ? AND available = ?", restaurantID, true).
		Preload("Categories").
		Order("name").
		Find(&out).Error
	return out, err
}

func (r *MenuRepository) FindCategory(id uint) (*entity.MenuCategory, error) {
	var c entity.MenuCategory
	if err := r.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// CategoryBelongsToMenu checks the category is one the menu is actually
// listed under.
func (r *MenuRepository) CategoryBelongsToMenu(menuID, categoryID uint) (bool, error) {
	var count int64
	err := r.DB.Table("menu_category_items").
		Where("menu_id = ? AND menu_category_id = ?", menuID, categoryID).
		Count(&count).Error
	return count > 0, err
}
