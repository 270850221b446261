package models

import "gorm.io/gorm"

// TimeSlot is one generated hourly interval [StartTime, EndTime) for a
// (venue, field-or-null, weekday). Slots are created in bulk when a venue
// or its fields are first materialized and are immutable reference data
// afterwards: bookings consult them, never delete them.
type TimeSlot struct {
	gorm.Model
	VenueID   uint   `json:"venueID" gorm:"not null;index:idx_slot_lookup"`
	FieldID   *uint  `json:"fieldID" gorm:"index:idx_slot_lookup"` // null for venue-level slots
	DayOfWeek int    `json:"dayOfWeek" gorm:"not null;index:idx_slot_lookup"`
	StartTime string `json:"startTime" gorm:"type:varchar(10);not null"` // "HH:MM"
	EndTime   string `json:"endTime" gorm:"type:varchar(10);not null"`   // "HH:MM"
	IsActive  bool   `json:"isActive" gorm:"default:true"`

	Venue Venue  `json:"-" gorm:"foreignKey:VenueID"`
	Field *Field `json:"field,omitempty" gorm:"foreignKey:FieldID"`
}
