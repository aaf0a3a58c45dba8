package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// APIKey holds a one-way hash of a partner credential. The raw secret is
// returned exactly once at generation time and never persisted.
type APIKey struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	PartnerID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"partner_id"`
	TierID     string     `gorm:"default:'free';not null" json:"tier_id"`
	KeyHash    string     `gorm:"uniqueIndex;not null" json:"-"`
	Prefix     string     `gorm:"not null" json:"prefix"`
	Name       string     `json:"name"`
	IsRevoked  bool       `gorm:"default:false" json:"is_revoked"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`

	Partner *Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
}

func (a *APIKey) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (APIKey) TableName() string {
	return "api_keys"
}
