package database

import (
	"log"

	"github.com/siriwat/tickethub/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Event{},
		&models.TicketCategory{},
		&models.Booking{},
		&models.BookingDetail{},
		&models.Ticket{},
		&models.PromotionalCampaign{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Storage-level guard for the inventory invariant; the conditional
	// decrement should make this unreachable.
	db.Exec(`
		ALTER TABLE ticket_categories
		DROP CONSTRAINT IF EXISTS chk_available_quantity;
	`)
	db.Exec(`
		ALTER TABLE ticket_categories
		ADD CONSTRAINT chk_available_quantity
		CHECK (available_quantity >= 0 AND available_quantity <= total_quantity)
	`)

	return db
}
