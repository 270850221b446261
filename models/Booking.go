package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking spans one or more contiguous hourly slots on a single date.
// Only confirmed bookings consume slot capacity for availability purposes.
type Booking struct {
	gorm.Model
	Reference   string    `json:"reference" gorm:"type:varchar(36);uniqueIndex"`
	PlayerID    uint      `json:"playerID" gorm:"not null;index"`
	VenueID     uint      `json:"venueID" gorm:"not null;index:idx_booking_lookup"`
	FieldID     *uint     `json:"fieldID" gorm:"index:idx_booking_lookup"` // null for venue-level bookings
	BookingDate time.Time `json:"bookingDate" gorm:"type:date;not null;index:idx_booking_lookup"`
	StartTime   string    `json:"startTime" gorm:"type:varchar(10);not null"` // "HH:MM"
	EndTime     string    `json:"endTime" gorm:"type:varchar(10);not null"`   // "HH:MM"
	TotalSlots  int       `json:"totalSlots" gorm:"not null"`
	TotalAmount float64   `json:"totalAmount" gorm:"not null"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:pending;index"` // pending, confirmed, completed, cancelled
	Note        string    `json:"note" gorm:"type:text"`

	Player User          `json:"player" gorm:"foreignKey:PlayerID;references:ID"`
	Venue  Venue         `json:"venue" gorm:"foreignKey:VenueID"`
	Field  *Field        `json:"field,omitempty" gorm:"foreignKey:FieldID"`
	Slots  []BookingSlot `json:"slots" gorm:"foreignKey:BookingID"`
}

// BookingSlot is the per-hour breakdown of a booking, used both for
// conflict checking and for display. Rows are created atomically with
// the booking and never updated independently.
type BookingSlot struct {
	gorm.Model
	BookingID     uint   `json:"bookingID" gorm:"not null;index"`
	SlotStartTime string `json:"slotStartTime" gorm:"type:varchar(10);not null"`
	SlotEndTime   string `json:"slotEndTime" gorm:"type:varchar(10);not null"`
	SlotOrder     int    `json:"slotOrder" gorm:"not null"`
}
