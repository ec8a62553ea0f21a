package models

import "time"

type Category struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"size:100;not null;uniqueIndex:idx_category_name_parent" json:"name"`
	ParentID *uint     `gorm:"uniqueIndex:idx_category_name_parent" json:"parent_id"`
	Parent   *Category `gorm:"constraint:OnDelete:CASCADE;" json:"parent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
