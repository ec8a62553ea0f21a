package models

import "time"

type MenuStatus string

const (
	MenuStatusInStock    MenuStatus = "In Stock"
	MenuStatusOutOfStock MenuStatus = "Out of Stock"
)

func (s MenuStatus) Valid() bool {
	return s == MenuStatusInStock || s == MenuStatusOutOfStock
}

type Menu struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	CategoryID uint     `gorm:"not null;index" json:"category_id"`
	Category   Category `gorm:"constraint:OnDelete:RESTRICT;" json:"-"`

	// Price is in the smallest currency unit.
	Price        int64      `gorm:"not null" json:"price"`
	Status       MenuStatus `gorm:"size:20;not null;default:'In Stock'" json:"status"`
	Image        string     `gorm:"size:500" json:"image"`
	IsBestSeller bool       `gorm:"default:false" json:"is_best_seller"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
