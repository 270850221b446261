package models

import "gorm.io/gorm"

// Notification is the in-app copy of an event also dispatched as a push
// message / broker event. Kept so the mobile client can list history.
type Notification struct {
	gorm.Model
	UserID    uint   `json:"userID" gorm:"not null;index"`
	Type      string `json:"type" gorm:"type:varchar(40);index"` // booking_pending, booking_confirmed, booking_cancelled
	Title     string `json:"title"`
	Body      string `json:"body" gorm:"type:text"`
	BookingID *uint  `json:"bookingID" gorm:"index"`
	VenueID   *uint  `json:"venueID" gorm:"index"`
	IsRead    bool   `json:"isRead" gorm:"default:false;index"`
}
