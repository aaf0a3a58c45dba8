package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions
const (
	AuditActionCreateListing = "CREATE_LISTING"
	AuditActionUpdatePrice   = "UPDATE_PRICE"
	AuditActionGenerateKey   = "GENERATE_KEY"
	AuditActionRevokeKey     = "REVOKE_KEY"
)

// AuditLog is an append-only record of partner-initiated mutations.
type AuditLog struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	PartnerID   *uuid.UUID `gorm:"type:uuid;index" json:"partner_id,omitempty"`
	Action      string     `gorm:"index;not null" json:"action"`
	EntityTable string     `json:"entity_table"`
	EntityID    string     `json:"entity_id"`
	OldData     string     `json:"old_data,omitempty"`
	NewData     string     `json:"new_data,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
