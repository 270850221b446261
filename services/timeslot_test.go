package services

import (
	"errors"
	"testing"
	"time"

	"github.com/ShahjahanMirza/Book-Play-sub000/models"
	"github.com/ShahjahanMirza/Book-Play-sub000/storage"
)

func TestEnsureTimeSlotsExistGeneratesHourlyGrid(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "owner1", "owner")
	venue := createTestVenue(t, owner.ID, "06:00", "09:00", []int{1})

	svc := NewTimeSlotService()
	if err := svc.EnsureTimeSlotsExist(venue.ID); err != nil {
		t.Fatalf("EnsureTimeSlotsExist failed: %v", err)
	}

	var slots []models.TimeSlot
	if err := storage.DB.Where("venue_id = ?", venue.ID).Order("start_time ASC").Find(&slots).Error; err != nil {
		t.Fatalf("failed to load slots: %v", err)
	}

	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}

	expected := [][2]string{{"06:00", "07:00"}, {"07:00", "08:00"}, {"08:00", "09:00"}}
	for i, slot := range slots {
		if slot.StartTime != expected[i][0] || slot.EndTime != expected[i][1] {
			t.Errorf("slot %d: expected %v-%v, got %v-%v", i, expected[i][0], expected[i][1], slot.StartTime, slot.EndTime)
		}
		if slot.DayOfWeek != 1 {
			t.Errorf("slot %d: expected day_of_week 1, got %d", i, slot.DayOfWeek)
		}
		if slot.FieldID != nil {
			t.Errorf("slot %d: expected venue-level slot, got field %d", i, *slot.FieldID)
		}
		if !slot.IsActive {
			t.Errorf("slot %d: expected active", i)
		}
	}
}

func TestEnsureTimeSlotsExistTruncatesMinutes(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "owner1", "owner")
	venue := createTestVenue(t, owner.ID, "06:30", "09:45", []int{2})

	if err := NewTimeSlotService().EnsureTimeSlotsExist(venue.ID); err != nil {
		t.Fatalf("EnsureTimeSlotsExist failed: %v", err)
	}

	var count int64
	storage.DB.Model(&models.TimeSlot{}).Where("venue_id = ?", venue.ID).Count(&count)
	// 06:30 and 09:45 truncate to hours 6 and 9: three whole-hour slots.
	if count != 3 {
		t.Fatalf("expected 3 slots after truncation, got %d", count)
	}
}

func TestEnsureTimeSlotsExistIsIdempotent(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "owner1", "owner")
	venue := createTestVenue(t, owner.ID, "06:00", "10:00", []int{1, 3, 5})

	field := models.Field{VenueID: venue.ID, Name: "Court A", FieldNumber: 1, Status: "open"}
	if err := storage.DB.Create(&field).Error; err != nil {
		t.Fatalf("failed to create field: %v", err)
	}

	svc := NewTimeSlotService()
	if err := svc.EnsureTimeSlotsExist(venue.ID); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	var countAfterFirst int64
	storage.DB.Model(&models.TimeSlot{}).Where("venue_id = ?", venue.ID).Count(&countAfterFirst)

	// 4 hours x 3 days, once venue-level and once for the field.
	if countAfterFirst != 24 {
		t.Fatalf("expected 24 slots, got %d", countAfterFirst)
	}

	if err := svc.EnsureTimeSlotsExist(venue.ID); err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	var countAfterSecond int64
	storage.DB.Model(&models.TimeSlot{}).Where("venue_id = ?", venue.ID).Count(&countAfterSecond)

	if countAfterSecond != countAfterFirst {
		t.Fatalf("expected %d slots after re-run, got %d", countAfterFirst, countAfterSecond)
	}
}

func TestEnsureTimeSlotsExistRejectsBadConfig(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "owner1", "owner")

	venue := &models.Venue{
		OwnerID:        owner.ID,
		Name:           "Broken Arena",
		OpeningTime:    "18:00",
		ClosingTime:    "06:00",
		DaysAvailable:  daysJSON(t, []int{1}),
		Status:         "open",
		ApprovalStatus: "approved",
	}
	if err := storage.DB.Create(venue).Error; err != nil {
		t.Fatalf("failed to create venue: %v", err)
	}

	err := NewTimeSlotService().EnsureTimeSlotsExist(venue.ID)
	if !errors.Is(err, ErrVenueConfig) {
		t.Fatalf("expected ErrVenueConfig, got %v", err)
	}
}

func TestGetVenueAvailabilityStatuses(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "owner1", "owner")
	player := createTestUser(t, "player1", "player")

	date := nextDateForWeekday(time.Monday)
	venue := createTestVenue(t, owner.ID, "06:00", "09:00", []int{int(time.Monday)})

	svc := NewTimeSlotService()
	if err := svc.EnsureTimeSlotsExist(venue.ID); err != nil {
		t.Fatalf("EnsureTimeSlotsExist failed: %v", err)
	}

	dateISO := date.Format("2006-01-02")

	// No bookings at all: available.
	availability, err := svc.GetVenueAvailability(venue.ID, nil, date, date)
	if err != nil {
		t.Fatalf("GetVenueAvailability failed: %v", err)
	}
	if availability[dateISO] != AvailabilityAvailable {
		t.Fatalf("expected available, got %s", availability[dateISO])
	}

	// One confirmed hour out of three: limited.
	slots, err := svc.GetAvailableSlots(venue.ID, date, nil)
	if err != nil {
		t.Fatalf("GetAvailableSlots failed: %v", err)
	}
	booking, err := NewBookingService().CreateBooking(player.ID, venue.ID, nil, date, slots[:1], "")
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	confirmBooking(t, booking)

	availability, err = svc.GetVenueAvailability(venue.ID, nil, date, date)
	if err != nil {
		t.Fatalf("GetVenueAvailability failed: %v", err)
	}
	if availability[dateISO] != AvailabilityLimited {
		t.Fatalf("expected limited, got %s", availability[dateISO])
	}

	// All hours confirmed: unavailable.
	rest, err := svc.GetAvailableSlots(venue.ID, date, nil)
	if err != nil {
		t.Fatalf("GetAvailableSlots failed: %v", err)
	}
	booking2, err := NewBookingService().CreateBooking(player.ID, venue.ID, nil, date, rest, "")
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	confirmBooking(t, booking2)

	availability, err = svc.GetVenueAvailability(venue.ID, nil, date, date)
	if err != nil {
		t.Fatalf("GetVenueAvailability failed: %v", err)
	}
	if availability[dateISO] != AvailabilityUnavailable {
		t.Fatalf("expected unavailable, got %s", availability[dateISO])
	}

	// A weekday outside days_available has no grid: unavailable.
	offDay := nextDateForWeekday(time.Tuesday)
	availability, err = svc.GetVenueAvailability(venue.ID, nil, offDay, offDay)
	if err != nil {
		t.Fatalf("GetVenueAvailability failed: %v", err)
	}
	if availability[offDay.Format("2006-01-02")] != AvailabilityUnavailable {
		t.Fatalf("expected unavailable on off day, got %s", availability[offDay.Format("2006-01-02")])
	}
}

func TestGetAvailableSlotsIgnoresPendingAndCancelled(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "owner1", "owner")
	player := createTestUser(t, "player1", "player")

	date := nextDateForWeekday(time.Friday)
	venue := createTestVenue(t, owner.ID, "06:00", "10:00", []int{int(time.Friday)})

	svc := NewTimeSlotService()
	if err := svc.EnsureTimeSlotsExist(venue.ID); err != nil {
		t.Fatalf("EnsureTimeSlotsExist failed: %v", err)
	}

	slots, err := svc.GetAvailableSlots(venue.ID, date, nil)
	if err != nil {
		t.Fatalf("GetAvailableSlots failed: %v", err)
	}
	if len(slots) != 4 {
		t.Fatalf("expected 4 free slots, got %d", len(slots))
	}

	// A pending booking must not reserve capacity.
	pending, err := NewBookingService().CreateBooking(player.ID, venue.ID, nil, date, slots[:1], "")
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	free, err := svc.GetAvailableSlots(venue.ID, date, nil)
	if err != nil {
		t.Fatalf("GetAvailableSlots failed: %v", err)
	}
	if len(free) != 4 {
		t.Fatalf("pending booking should not consume capacity: expected 4 free slots, got %d", len(free))
	}

	// Confirmed does.
	confirmBooking(t, pending)
	free, err = svc.GetAvailableSlots(venue.ID, date, nil)
	if err != nil {
		t.Fatalf("GetAvailableSlots failed: %v", err)
	}
	if len(free) != 3 {
		t.Fatalf("expected 3 free slots after confirmation, got %d", len(free))
	}
	for _, slot := range free {
		if slot.StartTime == pending.StartTime {
			t.Fatalf("confirmed slot %s still listed as free", slot.StartTime)
		}
	}

	// Cancelling releases the hour again.
	if err := storage.DB.Model(pending).Update("status", models.BookingStatusCancelled).Error; err != nil {
		t.Fatalf("failed to cancel booking: %v", err)
	}
	free, err = svc.GetAvailableSlots(venue.ID, date, nil)
	if err != nil {
		t.Fatalf("GetAvailableSlots failed: %v", err)
	}
	if len(free) != 4 {
		t.Fatalf("expected 4 free slots after cancellation, got %d", len(free))
	}
}

func TestGetAvailableSlotsFieldFallback(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "owner1", "owner")

	date := nextDateForWeekday(time.Wednesday)
	venue := createTestVenue(t, owner.ID, "06:00", "08:00", []int{int(time.Wednesday)})

	svc := NewTimeSlotService()
	if err := svc.EnsureTimeSlotsExist(venue.ID); err != nil {
		t.Fatalf("EnsureTimeSlotsExist failed: %v", err)
	}

	// Field created after grid generation has no slots of its own yet;
	// the resolver falls back to the venue-level grid.
	field := models.Field{VenueID: venue.ID, Name: "Court B", FieldNumber: 2, Status: "open"}
	if err := storage.DB.Create(&field).Error; err != nil {
		t.Fatalf("failed to create field: %v", err)
	}

	slots, err := svc.GetAvailableSlots(venue.ID, date, &field.ID)
	if err != nil {
		t.Fatalf("GetAvailableSlots failed: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected fallback to 2 venue-level slots, got %d", len(slots))
	}

	// Once the field grid is materialized, field slots win.
	if err := svc.EnsureTimeSlotsExist(venue.ID); err != nil {
		t.Fatalf("EnsureTimeSlotsExist failed: %v", err)
	}
	slots, err = svc.GetAvailableSlots(venue.ID, date, &field.ID)
	if err != nil {
		t.Fatalf("GetAvailableSlots failed: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 field slots, got %d", len(slots))
	}
	for _, slot := range slots {
		if slot.FieldID == nil || *slot.FieldID != field.ID {
			t.Fatalf("expected field-level slot, got field %v", slot.FieldID)
		}
	}
}
