package models

// APITier is a static rate-limit class attached to an API key.
type APITier struct {
	ID              string `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"not null" json:"name"`
	RequestsPerHour int    `gorm:"not null" json:"requests_per_hour"`
}

func (APITier) TableName() string {
	return "api_tiers"
}

// DefaultTiers seeds the tier lookup table on first migrate.
func DefaultTiers() []APITier {
	return []APITier{
		{ID: "free", Name: "Free", RequestsPerHour: 100},
		{ID: "startup", Name: "Startup", RequestsPerHour: 1000},
		{ID: "business", Name: "Business", RequestsPerHour: 10000},
	}
}
