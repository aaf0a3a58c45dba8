package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Brand is the top level of the vehicle catalog hierarchy.
type Brand struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	NameEn    string    `gorm:"not null" json:"name_en"`
	NameAr    string    `json:"name_ar,omitempty"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	LogoURL   string    `json:"logo_url,omitempty"`
	Website   string    `json:"website,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (Brand) TableName() string {
	return "brands"
}

// CarModel belongs to a brand (e.g. "Corolla" under "Toyota").
type CarModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BrandID   uuid.UUID `gorm:"type:uuid;index;not null" json:"brand_id"`
	NameEn    string    `gorm:"not null" json:"name_en"`
	NameAr    string    `json:"name_ar,omitempty"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Brand *Brand `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
}

func (m *CarModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (CarModel) TableName() string {
	return "models"
}

// Variant belongs to a model (e.g. "1.6L Highline" under "Tiguan").
type Variant struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ModelID      uuid.UUID `gorm:"type:uuid;index;not null" json:"model_id"`
	NameEn       string    `gorm:"not null" json:"name_en"`
	NameAr       string    `json:"name_ar,omitempty"`
	Transmission string    `json:"transmission,omitempty"`
	EngineCC     int       `json:"engine_cc,omitempty"`

	Model *CarModel `gorm:"foreignKey:ModelID" json:"model,omitempty"`
}

func (v *Variant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (Variant) TableName() string {
	return "variants"
}
