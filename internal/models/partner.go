package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Partner statuses
const (
	PartnerStatusPending   = "PENDING"
	PartnerStatusActive    = "ACTIVE"
	PartnerStatusSuspended = "SUSPENDED"
)

// Partner is an external account allowed to submit and manage its own
// price entries and hold API keys.
type Partner struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Status      string     `gorm:"default:'PENDING';not null" json:"status"`
	OwnerUserID *uuid.UUID `gorm:"type:uuid;index" json:"owner_user_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (p *Partner) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Partner) TableName() string {
	return "partners"
}
