package services

import (
	"sort"
	"time"

	"github.com/ShahjahanMirza/Book-Play-sub000/models"
)

// Day-rate window: slots starting in [06:00, 18:00) are charged at the
// day tariff, everything else at the night tariff.
const (
	dayRateStartHour = 6
	dayRateEndHour   = 18
)

// ReduceContiguous sorts the candidate slots by start time and keeps the
// longest unbroken chain from the earliest slot, where each next slot
// starts exactly when the previous one ends. Everything after the first
// gap is dropped, so a selection is always a single contiguous run.
func ReduceContiguous(slots []models.TimeSlot) []models.TimeSlot {
	if len(slots) == 0 {
		return slots
	}

	sorted := make([]models.TimeSlot, len(slots))
	copy(sorted, slots)
	// Zero-padded "HH:MM" strings order correctly as text.
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})

	chain := []models.TimeSlot{sorted[0]}
	for _, slot := range sorted[1:] {
		if slot.StartTime != chain[len(chain)-1].EndTime {
			break
		}
		chain = append(chain, slot)
	}
	return chain
}

// ToggleSlot flips one slot in or out of the current selection and
// re-normalizes. Removing a slot truncates the remainder back to its
// contiguous prefix. Adding a slot that would break contiguity resets
// the selection to just the newly picked slot, so the player never ends
// up with two disjoint runs.
func ToggleSlot(selected []models.TimeSlot, slot models.TimeSlot) []models.TimeSlot {
	idx := -1
	for i, s := range selected {
		if s.StartTime == slot.StartTime && s.EndTime == slot.EndTime {
			idx = i
			break
		}
	}

	if idx >= 0 {
		remainder := make([]models.TimeSlot, 0, len(selected)-1)
		remainder = append(remainder, selected[:idx]...)
		remainder = append(remainder, selected[idx+1:]...)
		return ReduceContiguous(remainder)
	}

	candidate := make([]models.TimeSlot, 0, len(selected)+1)
	candidate = append(candidate, selected...)
	candidate = append(candidate, slot)
	reduced := ReduceContiguous(candidate)
	if len(reduced) < len(candidate) {
		return []models.TimeSlot{slot}
	}
	return reduced
}

// hourlyRate resolves the tariff for a single slot. Weekend/weekday
// override rates take the whole hour when set (> 0); otherwise the
// day/night split applies.
func hourlyRate(slot models.TimeSlot, bookingDate time.Time, venue *models.Venue) float64 {
	weekday := bookingDate.Weekday()
	isWeekend := weekday == time.Saturday || weekday == time.Sunday

	if isWeekend && venue.WeekendCharges > 0 {
		return venue.WeekendCharges
	}
	if !isWeekend && venue.WeekdayCharges > 0 {
		return venue.WeekdayCharges
	}

	startHour, err := slotHour(slot.StartTime)
	if err != nil {
		return venue.DayCharges
	}
	if startHour >= dayRateStartHour && startHour < dayRateEndHour {
		return venue.DayCharges
	}
	return venue.NightCharges
}

// PriceOf sums the resolved hourly rate over the selected slots. Each
// slot is exactly one hour, so mixed day/night selections are priced
// per hour rather than by a flat multiplier.
func PriceOf(selected []models.TimeSlot, bookingDate time.Time, venue *models.Venue) float64 {
	var total float64
	for _, slot := range selected {
		total += hourlyRate(slot, bookingDate, venue)
	}
	return total
}
