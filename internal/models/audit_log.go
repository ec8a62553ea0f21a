package models

import "time"

type AuditAction string

const (
	AuditActionCreate       AuditAction = "create"
	AuditActionUpdate       AuditAction = "update"
	AuditActionDelete       AuditAction = "delete"
	AuditActionStatusChange AuditAction = "status_change"
)

// FieldChange is one entry of an update record's updated_fields.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

type AuditDetails struct {
	Description   string                 `json:"description"`
	UpdatedFields map[string]FieldChange `json:"updated_fields,omitempty"`
}

// UserAuditLog rows are append-only. UserID has no foreign key so the
// delete record outlives the user it documents.
type UserAuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID     uint         `gorm:"not null;index:idx_user_audit_user_ts,priority:1" json:"user_id"`
	ActionType AuditAction  `gorm:"size:50;not null" json:"action_type"`
	Details    AuditDetails `gorm:"type:jsonb;serializer:json" json:"details"`
	Timestamp  time.Time    `gorm:"not null;index:idx_user_audit_user_ts,priority:2" json:"timestamp"`

	CreatedAt time.Time `json:"created_at"`
}
