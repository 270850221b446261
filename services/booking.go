package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/ShahjahanMirza/Book-Play-sub000/models"
	"github.com/ShahjahanMirza/Book-Play-sub000/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrSlotTaken means the submit-time re-check found part of the
	// selection newly occupied. Always recoverable: the caller refreshes
	// availability and re-selects.
	ErrSlotTaken = errors.New("slot no longer available")

	// ErrNotBookable means the venue or field is closed or the venue is
	// not approved.
	ErrNotBookable = errors.New("venue is not accepting bookings")

	ErrEmptySelection = errors.New("no slots selected")
	ErrNotContiguous  = errors.New("selected slots must be contiguous")

	// ErrNotInGrid means the selection contains a (start, end) pair that
	// is not a generated slot for this venue/field/weekday. Catches both
	// off-grid hours and multi-hour spans disguised as a single slot.
	ErrNotInGrid = errors.New("selected slots are not offered by this venue")
)

// BookingService validates a slot selection and writes the booking plus
// its per-hour breakdown in one transaction.
type BookingService struct{}

func NewBookingService() *BookingService {
	return &BookingService{}
}

// CreateBooking re-validates the selection against confirmed bookings
// inside the insert transaction and writes the Booking with one
// BookingSlot row per hour, all-or-nothing. The in-memory availability
// snapshot the client selected from may be stale; this re-check is what
// turns the race into a clean ErrSlotTaken instead of a double booking.
func (s *BookingService) CreateBooking(playerID, venueID uint, fieldID *uint, date time.Time, selected []models.TimeSlot, note string) (*models.Booking, error) {
	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}

	run := ReduceContiguous(selected)
	if len(run) != len(selected) {
		return nil, ErrNotContiguous
	}

	var venue models.Venue
	if err := storage.DB.First(&venue, venueID).Error; err != nil {
		return nil, fmt.Errorf("venue %d: %w", venueID, ErrNotFound)
	}
	if !venue.Bookable() {
		return nil, ErrNotBookable
	}

	if fieldID != nil {
		var field models.Field
		if err := storage.DB.Where("id = ? AND venue_id = ?", *fieldID, venueID).First(&field).Error; err != nil {
			return nil, fmt.Errorf("field %d: %w", *fieldID, ErrNotFound)
		}
		if field.Status != "open" {
			return nil, ErrNotBookable
		}
	}

	bookingDate := dateOnly(date)

	// Every selected pair must be an exact grid slot for the booking
	// weekday. Client input is untrusted: without this check a selection
	// could book hours the venue never offers, or span several hours in
	// one "slot" and be priced as one.
	grid, err := NewTimeSlotService().gridSlots(venueID, fieldID, int(bookingDate.Weekday()))
	if err != nil {
		return nil, err
	}
	inGrid := make(map[string]bool, len(grid))
	for _, slot := range grid {
		inGrid[slot.StartTime+"-"+slot.EndTime] = true
	}
	for _, slot := range run {
		if !inGrid[slot.StartTime+"-"+slot.EndTime] {
			return nil, ErrNotInGrid
		}
	}

	total := PriceOf(run, bookingDate, &venue)

	slots := make([]models.BookingSlot, len(run))
	for i, slot := range run {
		slots[i] = models.BookingSlot{
			SlotStartTime: slot.StartTime,
			SlotEndTime:   slot.EndTime,
			SlotOrder:     i + 1,
		}
	}

	booking := &models.Booking{
		Reference:   uuid.NewString(),
		PlayerID:    playerID,
		VenueID:     venueID,
		FieldID:     fieldID,
		BookingDate: bookingDate,
		StartTime:   run[0].StartTime,
		EndTime:     run[len(run)-1].EndTime,
		TotalSlots:  len(run),
		TotalAmount: total,
		Status:      models.BookingStatusPending,
		Note:        note,
		Slots:       slots,
	}

	err = storage.DB.Transaction(func(tx *gorm.DB) error {
		occupied, err := occupiedPairsTx(tx, venueID, fieldID, bookingDate)
		if err != nil {
			return err
		}
		for _, slot := range run {
			if occupied[slot.StartTime+"-"+slot.EndTime] {
				return ErrSlotTaken
			}
		}
		// Creates the BookingSlot rows through the association, so the
		// booking and its breakdown commit or roll back together.
		return tx.Create(booking).Error
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// occupiedPairsTx mirrors occupiedPairs but runs inside the write
// transaction, locking the candidate confirmed bookings so two
// concurrent submissions serialize on the same rows.
func occupiedPairsTx(tx *gorm.DB, venueID uint, fieldID *uint, date time.Time) (map[string]bool, error) {
	q := tx.Preload("Slots").
		Where("venue_id = ? AND booking_date = ? AND status = ?", venueID, date, models.BookingStatusConfirmed)
	if fieldID != nil {
		q = q.Where("field_id = ?", *fieldID)
	} else {
		q = q.Where("field_id IS NULL")
	}
	// sqlite (used in tests) has no row locks; its writes serialize on
	// the whole database anyway.
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var bookings []models.Booking
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

// UpdateStatus applies an owner-gated status transition. Confirming
// re-checks overlap against other confirmed bookings, because a sibling
// pending booking for the same hours may have been confirmed first.
func (s *BookingService) UpdateStatus(ownerID, bookingID uint, to string) (*models.Booking, error) {
	var booking models.Booking
	if err := storage.DB.Preload("Slots").Preload("Venue").First(&booking, bookingID).Error; err != nil {
		return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}
	if booking.Venue.OwnerID != ownerID {
		return nil, errors.New("booking belongs to another owner's venue")
	}

	if !validTransition(booking.Status, to) {
		return nil, fmt.Errorf("cannot change booking from %s to %s", booking.Status, to)
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if to == models.BookingStatusConfirmed {
			occupied, err := occupiedPairsTx(tx, booking.VenueID, booking.FieldID, booking.BookingDate)
			if err != nil {
				return err
			}
			for _, slot := range booking.Slots {
				if occupied[slot.SlotStartTime+"-"+slot.SlotEndTime] {
					return ErrSlotTaken
				}
			}
		}
		return tx.Model(&booking).Update("status", to).Error
	})
	if err != nil {
		return nil, err
	}

	booking.Status = to
	return &booking, nil
}

// Cancel lets a player cancel their own pending or confirmed booking.
func (s *BookingService) Cancel(playerID, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := storage.DB.First(&booking, bookingID).Error; err != nil {
		return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}
	if booking.PlayerID != playerID {
		return nil, errors.New("booking belongs to another player")
	}
	if !validTransition(booking.Status, models.BookingStatusCancelled) {
		return nil, fmt.Errorf("cannot cancel a %s booking", booking.Status)
	}

	if err := storage.DB.Model(&booking).Update("status", models.BookingStatusCancelled).Error; err != nil {
		return nil, err
	}
	booking.Status = models.BookingStatusCancelled
	return &booking, nil
}

// pending -> confirmed | cancelled, confirmed -> completed | cancelled.
func validTransition(from, to string) bool {
	switch from {
	case models.BookingStatusPending:
		return to == models.BookingStatusConfirmed || to == models.BookingStatusCancelled
	case models.BookingStatusConfirmed:
		return to == models.BookingStatusCompleted || to == models.BookingStatusCancelled
	}
	return false
}
