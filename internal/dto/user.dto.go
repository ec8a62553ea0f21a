package dto

import (
	"time"

	"github.com/BruksfildServices01/ajo-backend/internal/models"
)

type UserDTO struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	RoleID    uint       `json:"role_id"`
	Role      string     `json:"role,omitempty"`
	Status    string     `json:"status"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func User(u *models.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		RoleID:    u.RoleID,
		Role:      u.Role.Name,
		Status:    string(u.Status),
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func Users(us []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(us))
	for i := range us {
		out = append(out, User(&us[i]))
	}
	return out
}

type AuditLogDTO struct {
	ID         uint                `json:"id"`
	UserID     uint                `json:"user_id"`
	ActionType string              `json:"action_type"`
	Details    models.AuditDetails `json:"details"`
	Timestamp  time.Time           `json:"timestamp"`
}

func AuditLogs(logs []models.UserAuditLog) []AuditLogDTO {
	out := make([]AuditLogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, AuditLogDTO{
			ID:         l.ID,
			UserID:     l.UserID,
			ActionType: string(l.ActionType),
			Details:    l.Details,
			Timestamp:  l.Timestamp,
		})
	}
	return out
}
