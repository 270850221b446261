package models

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Venue struct {
	gorm.Model
	OwnerID     uint   `json:"ownerID" gorm:"not null;index"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Address     string `json:"address"`
	City        string `json:"city" gorm:"index"`
	PhoneNumber string `json:"phoneNumber"`

	// Operating window. Only the hour part is used when generating the
	// slot grid; minutes are truncated (hour-granularity slots).
	OpeningTime   string         `json:"openingTime" gorm:"type:varchar(10);not null"` // "HH:MM"
	ClosingTime   string         `json:"closingTime" gorm:"type:varchar(10);not null"` // "HH:MM"
	DaysAvailable datatypes.JSON `json:"daysAvailable"`                                // array of weekday ints 0-6 (0 = Sunday)

	// Hourly tariffs. WeekdayCharges/WeekendCharges override the
	// day/night split for the whole hour when > 0.
	DayCharges     float64 `json:"dayCharges" gorm:"default:0;check:day_charges >= 0"`
	NightCharges   float64 `json:"nightCharges" gorm:"default:0;check:night_charges >= 0"`
	WeekdayCharges float64 `json:"weekdayCharges" gorm:"default:0;check:weekday_charges >= 0"`
	WeekendCharges float64 `json:"weekendCharges" gorm:"default:0;check:weekend_charges >= 0"`

	Status         string `json:"status" gorm:"type:varchar(20);default:open;index"`            // open, closed
	ApprovalStatus string `json:"approvalStatus" gorm:"type:varchar(20);default:pending;index"` // pending, approved, rejected
	ReviewNotes    string `json:"reviewNotes" gorm:"type:text"`

	Images string `json:"images"` // JSON array of URLs

	Owner    User      `json:"owner" gorm:"foreignKey:OwnerID;references:ID"`
	Fields   []Field   `json:"fields" gorm:"foreignKey:VenueID"`
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:VenueID"`
}

// Days parses the DaysAvailable JSON column into weekday ints.
func (v *Venue) Days() []int {
	var days []int
	if v.DaysAvailable != nil {
		if err := json.Unmarshal(v.DaysAvailable, &days); err != nil {
			return nil
		}
	}
	return days
}

// Validate enforces the venue invariants at creation/edit time:
// opening strictly before closing, at least one available day,
// non-negative tariffs.
func (v *Venue) Validate() error {
	opening, err := time.Parse("15:04", v.OpeningTime)
	if err != nil {
		return errors.New("openingTime must be in HH:MM format")
	}
	closing, err := time.Parse("15:04", v.ClosingTime)
	if err != nil {
		return errors.New("closingTime must be in HH:MM format")
	}
	if !opening.Before(closing) {
		return errors.New("openingTime must be before closingTime")
	}
	days := v.Days()
	if len(days) == 0 {
		return errors.New("at least one available day is required")
	}
	for _, d := range days {
		if d < 0 || d > 6 {
			return errors.New("daysAvailable must contain weekday values 0-6")
		}
	}
	if v.DayCharges < 0 || v.NightCharges < 0 || v.WeekdayCharges < 0 || v.WeekendCharges < 0 {
		return errors.New("charges must be non-negative")
	}
	return nil
}

// Bookable reports whether the venue can accept bookings at all:
// open and approved by an admin.
func (v *Venue) Bookable() bool {
	return v.Status == "open" && v.ApprovalStatus == "approved"
}
