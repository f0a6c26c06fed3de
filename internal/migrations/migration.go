package migrations

import (
	"phone_orders/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// archiveModels are created in dependency order: items reference orders.
func archiveModels() []any {
	return []any{
		&models.ConfirmedOrder{},
		&models.ConfirmedOrderItem{},
	}
}

// RunMigrations migrates the archive tables. With reset the tables are
// dropped first, which discards every archived order.
func RunMigrations(db *gorm.DB, reset bool) error {
	if reset {
		log.Warn().Msg("dropping archive tables")
		if err := db.Migrator().DropTable(&models.ConfirmedOrderItem{}, &models.ConfirmedOrder{}); err != nil {
			return err
		}
	}

	log.Info().Msg("running archive migrations")
	return db.AutoMigrate(archiveModels()...)
}
