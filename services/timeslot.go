// Package services contains the booking core: slot grid generation,
// availability resolution, selection pricing and booking submission.
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ShahjahanMirza/Book-Play-sub000/models"
	"github.com/ShahjahanMirza/Book-Play-sub000/storage"

	"golang.org/x/exp/slices"
)

var (
	// ErrVenueConfig means the venue cannot produce a slot grid
	// (opening >= closing, no available days). Surfaced to the owner
	// at venue create/edit time, never retried.
	ErrVenueConfig = errors.New("venue has no bookable configuration")

	ErrNotFound = errors.New("not found")
)

// Availability statuses returned per date by GetVenueAvailability.
const (
	AvailabilityAvailable   = "available"
	AvailabilityLimited     = "limited"
	AvailabilityUnavailable = "unavailable"
)

// TimeSlotService generates the slot grid for a venue and resolves
// real-time availability against confirmed bookings.
type TimeSlotService struct{}

func NewTimeSlotService() *TimeSlotService {
	return &TimeSlotService{}
}

// slotHour parses "HH:MM" and returns the hour, discarding minutes.
// The grid is hour-granular: a venue opening at 06:30 produces the same
// grid as one opening at 06:00.
func slotHour(t string) (int, error) {
	parsed, err := time.Parse("15:04", t)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", t, err)
	}
	return parsed.Hour(), nil
}

func formatHour(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

// EnsureTimeSlotsExist materializes the hourly slot grid for a venue and
// all of its fields. Idempotent: slots that already exist for a
// (field, day, start) key are left alone, so re-invoking never creates
// duplicates. If field-level inserts fail after the venue-level grid
// succeeded, the venue stays bookable field-less and the error is only
// logged.
func (s *TimeSlotService) EnsureTimeSlotsExist(venueID uint) error {
	var venue models.Venue
	if err := storage.DB.Preload("Fields").First(&venue, venueID).Error; err != nil {
		return fmt.Errorf("venue %d: %w", venueID, ErrNotFound)
	}

	openingHour, err := slotHour(venue.OpeningTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVenueConfig, err)
	}
	closingHour, err := slotHour(venue.ClosingTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVenueConfig, err)
	}
	days := venue.Days()
	if openingHour >= closingHour || len(days) == 0 {
		return ErrVenueConfig
	}

	// One query for the whole existing grid, keyed for the idempotence check.
	var existing []models.TimeSlot
	if err := storage.DB.Where("venue_id = ?", venueID).Find(&existing).Error; err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, slot := range existing {
		seen[slotKey(slot.FieldID, slot.DayOfWeek, slot.StartTime)] = true
	}

	build := func(fieldID *uint) []models.TimeSlot {
		var slots []models.TimeSlot
		for _, day := range days {
			for h := openingHour; h < closingHour; h++ {
				start := formatHour(h)
				if seen[slotKey(fieldID, day, start)] {
					continue
				}
				slots = append(slots, models.TimeSlot{
					VenueID:   venueID,
					FieldID:   fieldID,
					DayOfWeek: day,
					StartTime: start,
					EndTime:   formatHour(h + 1),
					IsActive:  true,
				})
			}
		}
		return slots
	}

	// Venue-level grid first: it is the fallback used when the player
	// does not pick a specific field, so it must never be missing.
	if venueSlots := build(nil); len(venueSlots) > 0 {
		if err := storage.DB.Create(&venueSlots).Error; err != nil {
			return fmt.Errorf("failed to create venue slots: %w", err)
		}
	}

	for i := range venue.Fields {
		fieldID := venue.Fields[i].ID
		if fieldSlots := build(&fieldID); len(fieldSlots) > 0 {
			if err := storage.DB.Create(&fieldSlots).Error; err != nil {
				// Venue-level slots already exist, so the venue stays
				// bookable; the field grid can be retried later.
				log.Printf("⚠️  Failed to create slots for field %d of venue %d: %v", fieldID, venueID, err)
			}
		}
	}

	return nil
}

func slotKey(fieldID *uint, day int, start string) string {
	f := uint(0)
	if fieldID != nil {
		f = *fieldID
	}
	return fmt.Sprintf("%d|%d|%s", f, day, start)
}

// gridSlots returns the active grid for (venue, field) on one weekday,
// falling back to venue-level slots when the field has none of its own.
func (s *TimeSlotService) gridSlots(venueID uint, fieldID *uint, dayOfWeek int) ([]models.TimeSlot, error) {
	var slots []models.TimeSlot
	if fieldID != nil {
		err := storage.DB.
			Where("venue_id = ? AND field_id = ? AND day_of_week = ? AND is_active = ?", venueID, *fieldID, dayOfWeek, true).
			Order("start_time ASC").
			Find(&slots).Error
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 {
			return slots, nil
		}
	}
	err := storage.DB.
		Where("venue_id = ? AND field_id IS NULL AND day_of_week = ? AND is_active = ?", venueID, dayOfWeek, true).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

// occupiedPairs returns the (start, end) pairs taken by confirmed
// bookings for (venue, field, date). Pending and cancelled bookings
// never reserve capacity; that status filter is the availability
// invariant the whole subsystem leans on.
func occupiedPairs(venueID uint, fieldID *uint, date time.Time) (map[string]bool, error) {
	var bookings []models.Booking
	q := storage.DB.Preload("Slots").
		Where("venue_id = ? AND booking_date = ? AND status = ?", venueID, dateOnly(date), models.BookingStatusConfirmed)
	if fieldID != nil {
		q = q.Where("field_id = ?", *fieldID)
	} else {
		q = q.Where("field_id IS NULL")
	}
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}

	occupied := make(map[string]bool)
	for _, booking := range bookings {
		for _, slot := range booking.Slots {
			occupied[slot.SlotStartTime+"-"+slot.SlotEndTime] = true
		}
	}
	return occupied, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetVenueAvailability classifies every date in [startDate, endDate] as
// available, limited or unavailable by sweeping the grid against
// confirmed bookings. Keys are ISO dates ("2006-01-02").
func (s *TimeSlotService) GetVenueAvailability(venueID uint, fieldID *uint, startDate, endDate time.Time) (map[string]string, error) {
	if endDate.Before(startDate) {
		return nil, errors.New("endDate must not be before startDate")
	}

	var venue models.Venue
	if err := storage.DB.First(&venue, venueID).Error; err != nil {
		return nil, fmt.Errorf("venue %d: %w", venueID, ErrNotFound)
	}

	availableDays := venue.Days()

	// Grid totals per weekday, one query pass.
	totals := make(map[int]int, 7)
	for day := 0; day < 7; day++ {
		if !slices.Contains(availableDays, day) {
			continue
		}
		slots, err := s.gridSlots(venueID, fieldID, day)
		if err != nil {
			return nil, err
		}
		totals[day] = len(slots)
	}

	result := make(map[string]string)
	for d := dateOnly(startDate); !d.After(dateOnly(endDate)); d = d.AddDate(0, 0, 1) {
		dateISO := d.Format("2006-01-02")
		total := totals[int(d.Weekday())]
		if total == 0 || !venue.Bookable() {
			result[dateISO] = AvailabilityUnavailable
			continue
		}

		occupied, err := occupiedPairs(venueID, fieldID, d)
		if err != nil {
			return nil, err
		}
		booked := len(occupied)

		switch {
		case booked == 0:
			result[dateISO] = AvailabilityAvailable
		case booked >= total:
			result[dateISO] = AvailabilityUnavailable
		default:
			result[dateISO] = AvailabilityLimited
		}
	}

	return result, nil
}

// GetAvailableSlots lists the free grid slots for one date in ascending
// start-time order: the weekday grid minus every (start, end) pair
// occupied by a confirmed booking.
func (s *TimeSlotService) GetAvailableSlots(venueID uint, date time.Time, fieldID *uint) ([]models.TimeSlot, error) {
	var venue models.Venue
	if err := storage.DB.First(&venue, venueID).Error; err != nil {
		return nil, fmt.Errorf("venue %d: %w", venueID, ErrNotFound)
	}

	dayOfWeek := int(date.Weekday())
	if !slices.Contains(venue.Days(), dayOfWeek) {
		return []models.TimeSlot{}, nil
	}

	grid, err := s.gridSlots(venueID, fieldID, dayOfWeek)
	if err != nil {
		return nil, err
	}

	occupied, err := occupiedPairs(venueID, fieldID, date)
	if err != nil {
		return nil, err
	}

	free := make([]models.TimeSlot, 0, len(grid))
	for _, slot := range grid {
		if occupied[slot.StartTime+"-"+slot.EndTime] {
			continue
		}
		free = append(free, slot)
	}
	return free, nil
}
