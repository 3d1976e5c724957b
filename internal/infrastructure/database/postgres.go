package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adiel098/subscribely-serenity-sub007/config"
	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate keeps the schema aligned with entities; versioned SQL
	// migrations in /migrations handle everything AutoMigrate cannot.
	if err := db.AutoMigrate(
		&domain.Community{},
		&domain.Member{},
		&domain.SubscriptionPlan{},
		&domain.PlatformPayment{},
		&domain.ProjectPayment{},
		&domain.BroadcastStatus{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	return db, nil
}
