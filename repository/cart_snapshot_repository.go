package repository

import (
	"errors"

	"backend/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartSnapshotRepository is the durable backend of the cart store: one row
// per cart key holding the serialized snapshot. It satisfies cart.Store.
type CartSnapshotRepository struct{ DB *gorm.DB }

func NewCartSnapshotRepository(db *gorm.DB) *CartSnapshotRepository {
	return &CartSnapshotRepository{DB: db}
}

// Load returns (nil, nil) when no snapshot exists under key.
func (r *CartSnapshotRepository) Load(key string) ([]byte, error) {
	var row entity.CartSnapshot
	err := r.DB.Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.Data, nil
}

func (r *CartSnapshotRepository) Save(key string, data []byte) error {
	row := entity.CartSnapshot{Key: key, Data: data}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&row).Error
}

func (r *CartSnapshotRepository) Delete(key string) error {
	return r.DB.Where("key = ?", key).Delete(&entity.CartSnapshot{}).Error
}
