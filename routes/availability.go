package routes

import (
	"errors"
	"time"

	"github.com/ShahjahanMirza/Book-Play-sub000/services"
	"github.com/ShahjahanMirza/Book-Play-sub000/utils"

	"github.com/kataras/iris/v12"
)

// Venue availability endpoints backing the booking-screen calendar and
// slot picker.

func parseFieldIDParam(ctx iris.Context) (*uint, bool) {
	raw := ctx.URLParamDefault("fieldID", "")
	if raw == "" {
		return nil, true
	}
	id, err := ctx.URLParamInt("fieldID")
	if err != nil || id <= 0 {
		return nil, false
	}
	fieldID := uint(id)
	return &fieldID, true
}

// GetVenueAvailability returns a per-date status map for the calendar:
// {"2026-09-01": "available" | "limited" | "unavailable", ...}
func GetVenueAvailability(ctx iris.Context) {
	params := ctx.Params()
	venueID, err := params.GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid venue ID", ctx)
		return
	}

	startDateStr := ctx.URLParam("startDate")
	endDateStr := ctx.URLParam("endDate")
	if startDateStr == "" || endDateStr == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "startDate and endDate are required", ctx)
		return
	}

	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid startDate format", ctx)
		return
	}
	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid endDate format", ctx)
		return
	}

	fieldID, ok := parseFieldIDParam(ctx)
	if !ok {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid fieldID", ctx)
		return
	}

	availability, err := services.NewTimeSlotService().GetVenueAvailability(venueID, fieldID, startDate, endDate)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    availability,
	})
}

// GetAvailableSlots returns the free slots for one date, ascending by
// start time.
func GetAvailableSlots(ctx iris.Context) {
	params := ctx.Params()
	venueID, err := params.GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid venue ID", ctx)
		return
	}

	dateStr := ctx.URLParam("date")
	if dateStr == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "date is required", ctx)
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid date format", ctx)
		return
	}

	fieldID, ok := parseFieldIDParam(ctx)
	if !ok {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid fieldID", ctx)
		return
	}

	slots, err := services.NewTimeSlotService().GetAvailableSlots(venueID, date, fieldID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    slots,
	})
}
