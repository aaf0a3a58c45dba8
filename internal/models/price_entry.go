package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Price entry types
const (
	PriceTypeOfficial  = "OFFICIAL"
	PriceTypeMarketAvg = "MARKET_AVG"
)

// PriceEntry is one priced listing for a variant in a given model year.
// PartnerID is nil for system-sourced entries.
type PriceEntry struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	VariantID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"variant_id"`
	YearModel   int        `gorm:"index;not null" json:"year_model"`
	PriceAmount float64    `gorm:"type:decimal(12,2);not null" json:"price_amount"`
	Currency    string     `gorm:"default:'EGP';not null" json:"currency"`
	Type        string     `gorm:"not null" json:"type"`
	SourceURL   string     `json:"source_url,omitempty"`
	IsVerified  bool       `gorm:"default:false" json:"is_verified"`
	PartnerID   *uuid.UUID `gorm:"type:uuid;index" json:"partner_id,omitempty"`
	ValidFrom   time.Time  `gorm:"index" json:"valid_from"`
	CreatedAt   time.Time  `json:"created_at"`

	Variant *Variant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

func (p *PriceEntry) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.ValidFrom.IsZero() {
		p.ValidFrom = time.Now().UTC()
	}
	return nil
}

func (PriceEntry) TableName() string {
	return "price_entries"
}
