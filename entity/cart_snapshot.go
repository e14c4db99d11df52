package entity

import (
	"time"
)

// CartSnapshot is the durable key-value row behind the cart store: the full
// serialized cart of one user under a fixed key.
type CartSnapshot struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Data      []byte    `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}
