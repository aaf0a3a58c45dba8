package models

import (
	"time"

	"github.com/google/uuid"
)

// PriceChangeLog records every partner price update, appended after the
// mutation commits. Append failures do not roll back the price change.
type PriceChangeLog struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	PriceEntryID       uuid.UUID `gorm:"type:uuid;index;not null" json:"price_entry_id"`
	OldPrice           float64   `gorm:"type:decimal(12,2)" json:"old_price"`
	NewPrice           float64   `gorm:"type:decimal(12,2)" json:"new_price"`
	ChangedByPartnerID uuid.UUID `gorm:"type:uuid;index" json:"changed_by_partner_id"`
	CreatedAt          time.Time `json:"created_at"`
}

func (PriceChangeLog) TableName() string {
	return "price_change_logs"
}
