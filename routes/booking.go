package routes

import (
	"errors"
	"time"

	"github.com/ShahjahanMirza/Book-Play-sub000/models"
	"github.com/ShahjahanMirza/Book-Play-sub000/services"
	"github.com/ShahjahanMirza/Book-Play-sub000/storage"
	"github.com/ShahjahanMirza/Book-Play-sub000/utils"

	"github.com/kataras/iris/v12"
)

type SelectedSlotInput struct {
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

type CreateBookingInput struct {
	FieldID       *uint               `json:"fieldID"`
	Date          string              `json:"date" validate:"required"`
	SelectedSlots []SelectedSlotInput `json:"selectedSlots" validate:"required,min=1,dive"`
	Note          string              `json:"note"`
}

// CreateBooking submits a slot selection as one pending booking. A 409
// with code slot_taken means the selection went stale: the client must
// refresh availability and re-select.
func CreateBooking(ctx iris.Context) {
	playerID := ctx.Values().Get("userID").(uint)
	params := ctx.Params()
	venueID, err := params.GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid venue ID", ctx)
		return
	}

	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid date format", ctx)
		return
	}

	if date.Before(time.Now().UTC().Truncate(24 * time.Hour)) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Cannot book dates in the past", ctx)
		return
	}

	selected := make([]models.TimeSlot, len(input.SelectedSlots))
	for i, s := range input.SelectedSlots {
		selected[i] = models.TimeSlot{StartTime: s.StartTime, EndTime: s.EndTime}
	}

	booking, err := services.NewBookingService().CreateBooking(playerID, venueID, input.FieldID, date, selected, input.Note)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSlotTaken):
			utils.JSONError(ctx, iris.StatusConflict, "slot_taken", "One or more selected slots are no longer available. Refresh availability and try again.")
		case errors.Is(err, services.ErrEmptySelection), errors.Is(err, services.ErrNotContiguous), errors.Is(err, services.ErrNotInGrid):
			utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		case errors.Is(err, services.ErrNotBookable):
			utils.CreateError(iris.StatusUnprocessableEntity, "Not Bookable", err.Error(), ctx)
		case errors.Is(err, services.ErrNotFound):
			utils.CreateNotFound(ctx)
		default:
			utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		}
		return
	}

	// Notify the venue owner; delivery failures never fail the booking.
	var venue models.Venue
	var player models.User
	if storage.DB.First(&venue, venueID).Error == nil && storage.DB.First(&player, playerID).Error == nil {
		services.NewNotificationService().SendBookingPendingToOwner(booking, &venue, player.Name)
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(booking)
}

func GetUserBookings(ctx iris.Context) {
	params := ctx.Params()
	userID := params.Get("id")

	var bookings []models.Booking
	res := storage.DB.Preload("Venue").Preload("Field").Preload("Slots").
		Where("player_id = ?", userID).Order("created_at DESC").Find(&bookings)

	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(bookings)
}

// GetOwnerBookings returns bookings for all venues owned by the
// authenticated owner.
func GetOwnerBookings(ctx iris.Context) {
	ownerID := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	res := storage.DB.
		Joins("JOIN venues v ON v.id = bookings.venue_id").
		Where("v.owner_id = ?", ownerID).
		Preload("Venue").
		Preload("Field").
		Preload("Player").
		Preload("Slots").
		Order("bookings.created_at DESC").
		Find(&bookings)

	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(bookings)
}

type UpdateBookingStatusInput struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled completed"`
}

// UpdateBookingStatus applies the owner decision (confirm / cancel /
// complete) and notifies the player.
func UpdateBookingStatus(ctx iris.Context) {
	ownerID := ctx.Values().Get("userID").(uint)
	params := ctx.Params()
	bookingID, err := params.GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid booking ID", ctx)
		return
	}

	var input UpdateBookingStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	booking, err := services.NewBookingService().UpdateStatus(ownerID, bookingID, input.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSlotTaken):
			utils.JSONError(ctx, iris.StatusConflict, "slot_taken", "Another booking for these slots was confirmed first.")
		case errors.Is(err, services.ErrNotFound):
			utils.CreateNotFound(ctx)
		default:
			utils.CreateError(iris.StatusBadRequest, "Error", err.Error(), ctx)
		}
		return
	}

	services.NewNotificationService().SendBookingStatusToPlayer(booking, booking.Venue.Name)

	ctx.JSON(booking)
}

// CancelBooking lets a player cancel their own booking.
func CancelBooking(ctx iris.Context) {
	playerID := ctx.Values().Get("userID").(uint)
	params := ctx.Params()
	bookingID, err := params.GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid booking ID", ctx)
		return
	}

	booking, err := services.NewBookingService().Cancel(playerID, bookingID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateError(iris.StatusBadRequest, "Error", err.Error(), ctx)
		return
	}

	var venue models.Venue
	if storage.DB.First(&venue, booking.VenueID).Error == nil {
		services.NewNotificationService().SendBookingStatusToPlayer(booking, venue.Name)
	}

	ctx.JSON(booking)
}
