package models

import "time"

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended:
		return true
	}
	return false
}

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:255;not null" json:"name"`
	Username     string `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password;size:255;not null" json:"-"`

	RoleID uint `gorm:"not null;index" json:"role_id"`
	Role   Role `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"role"`

	Status    UserStatus     `gorm:"size:20;not null;default:'active'" json:"status"`
	LastLogin *time.Time     `json:"last_login"`
	Metadata  map[string]any `gorm:"type:jsonb;serializer:json" json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
