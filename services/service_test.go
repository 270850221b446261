package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ShahjahanMirza/Book-Play-sub000/models"
	"github.com/ShahjahanMirza/Book-Play-sub000/storage"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global storage.DB at a fresh in-memory sqlite
// database for one test.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Venue{},
		&models.Field{},
		&models.TimeSlot{},
		&models.Booking{},
		&models.BookingSlot{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	storage.DB = db
}

func daysJSON(t *testing.T, days []int) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(days)
	if err != nil {
		t.Fatalf("failed to marshal days: %v", err)
	}
	return datatypes.JSON(raw)
}

func createTestUser(t *testing.T, name, role string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@test.local", Role: role}
	if err := storage.DB.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createTestVenue(t *testing.T, ownerID uint, opening, closing string, days []int) *models.Venue {
	t.Helper()
	venue := &models.Venue{
		OwnerID:        ownerID,
		Name:           "Test Arena",
		Address:        "12 Stadium Road",
		City:           "Karachi",
		OpeningTime:    opening,
		ClosingTime:    closing,
		DaysAvailable:  daysJSON(t, days),
		DayCharges:     10,
		NightCharges:   20,
		Status:         "open",
		ApprovalStatus: "approved",
	}
	if err := storage.DB.Create(venue).Error; err != nil {
		t.Fatalf("failed to create venue: %v", err)
	}
	return venue
}

// nextDateForWeekday returns the next future date falling on the given
// weekday, so bookings never trip past-date checks.
func nextDateForWeekday(weekday time.Weekday) time.Time {
	d := time.Now().UTC().AddDate(0, 0, 1)
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func materializeGrid(t *testing.T, venueID uint) {
	t.Helper()
	if err := NewTimeSlotService().EnsureTimeSlotsExist(venueID); err != nil {
		t.Fatalf("EnsureTimeSlotsExist failed: %v", err)
	}
}

func confirmBooking(t *testing.T, booking *models.Booking) {
	t.Helper()
	if err := storage.DB.Model(booking).Update("status", models.BookingStatusConfirmed).Error; err != nil {
		t.Fatalf("failed to confirm booking: %v", err)
	}
}
