package main

import (
	"flag"
	"os"

	"phone_orders/internal/config"
	"phone_orders/internal/logger"
	"phone_orders/internal/migrations"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	envPath := flag.String("env", "", "path to a .env file")
	reset := flag.Bool("reset", false, "drop the archive tables before migrating")
	flag.Parse()

	logger.Init(logger.Config{PrettyFormat: true})

	if err := config.LoadEnvFile(*envPath); err != nil {
		log.Fatal().Err(err).Msg("failed to load env file")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := migrations.RunMigrations(db, *reset); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	log.Info().Bool("reset", *reset).Msg("archive schema is ready")
}
