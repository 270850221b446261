package storage

import (
	"log"
	"os"

	"github.com/ShahjahanMirza/Book-Play-sub000/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connection to db: " + dbError.Error())
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.Venue{},
		&models.Field{},
		&models.TimeSlot{},
		&models.Booking{},
		&models.BookingSlot{},
		&models.Notification{},
		&models.AuditLog{},
	)

	// Confirmed bookings may not overlap for the same venue/field/date/hour.
	// Partial unique index backs up the transactional re-check in services.
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_confirmed_slot ON bookings
		(venue_id, COALESCE(field_id, 0), booking_date, start_time)
		WHERE status = 'confirmed' AND deleted_at IS NULL;`)
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	return db
}
