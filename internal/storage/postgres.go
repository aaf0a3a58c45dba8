package storage

import (
	"fmt"
	"time"

	"github.com/open-egypt/pricing-api/internal/models"
	"golang.org/x/net/context"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type Postgres struct {
	DB *gorm.DB
}

// dsn - Data Source Name
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Postgres{DB: db}, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func (p *Postgres) AutoMigrate() error {
	if err := p.DB.AutoMigrate(
		&models.Brand{},
		&models.CarModel{},
		&models.Variant{},
		&models.PriceEntry{},
		&models.Partner{},
		&models.APIKey{},
		&models.APITier{},
		&models.UsageCounter{},
		&models.PriceChangeLog{},
		&models.AuditLog{},
		&models.RequestLog{},
		&models.User{},
	); err != nil {
		return err
	}

	return p.seedTiers()
}

// seedTiers inserts the default tiers, leaving existing rows untouched so
// operators can adjust limits in place.
func (p *Postgres) seedTiers() error {
	tiers := models.DefaultTiers()
	return p.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&tiers).Error
}

func (p *Postgres) Close() error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func (p *Postgres) Transaction(fn func(*gorm.DB) error) error {
	return p.DB.Transaction(fn)
}
