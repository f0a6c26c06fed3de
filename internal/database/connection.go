package database

import (
	"fmt"

	"phone_orders/internal/migrations"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize opens the confirmed-order archive and brings its schema up to date.
func Initialize(databaseURL string, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	config := &gorm.Config{
		Logger: logger.Default.LogMode(level),
	}

	db, err := gorm.Open(postgres.Open(databaseURL), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrations.RunMigrations(db, false); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info().Msg("database connected and migrated")
	return db, nil
}
