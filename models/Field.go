package models

import "gorm.io/gorm"

// Field is an optional sub-resource of a venue (court, pitch, ground).
// A venue with zero fields takes venue-level bookings (field reference null).
type Field struct {
	gorm.Model
	VenueID     uint   `json:"venueID" gorm:"not null;index"`
	Name        string `json:"name"`
	FieldNumber int    `json:"fieldNumber"`
	Status      string `json:"status" gorm:"type:varchar(20);default:open;index"` // open, closed

	Venue Venue `json:"venue,omitempty" gorm:"foreignKey:VenueID"`
}
