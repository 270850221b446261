package routes

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/ShahjahanMirza/Book-Play-sub000/models"
	"github.com/ShahjahanMirza/Book-Play-sub000/services"
	"github.com/ShahjahanMirza/Book-Play-sub000/storage"
	"github.com/ShahjahanMirza/Book-Play-sub000/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
)

type CreateVenueInput struct {
	Name           string  `json:"name" validate:"required,max=256"`
	Description    string  `json:"description"`
	Address        string  `json:"address" validate:"required"`
	City           string  `json:"city" validate:"required"`
	PhoneNumber    string  `json:"phoneNumber"`
	OpeningTime    string  `json:"openingTime" validate:"required"`
	ClosingTime    string  `json:"closingTime" validate:"required"`
	DaysAvailable  []int   `json:"daysAvailable" validate:"required,min=1,dive,gte=0,lte=6"`
	DayCharges     float64 `json:"dayCharges" validate:"gte=0"`
	NightCharges   float64 `json:"nightCharges" validate:"gte=0"`
	WeekdayCharges float64 `json:"weekdayCharges" validate:"gte=0"`
	WeekendCharges float64 `json:"weekendCharges" validate:"gte=0"`
	Images         string  `json:"images"`
	Fields         []struct {
		Name        string `json:"name"`
		FieldNumber int    `json:"fieldNumber"`
	} `json:"fields" validate:"dive"`
}

// CreateVenue registers a venue for the authenticated owner and
// materializes its slot grid right away, so the venue is browsable as
// soon as an admin approves it.
func CreateVenue(ctx iris.Context) {
	ownerID := ctx.Values().Get("userID").(uint)

	var input CreateVenueInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	days, err := json.Marshal(input.DaysAvailable)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	venue := models.Venue{
		OwnerID:        ownerID,
		Name:           input.Name,
		Description:    input.Description,
		Address:        input.Address,
		City:           input.City,
		PhoneNumber:    input.PhoneNumber,
		OpeningTime:    input.OpeningTime,
		ClosingTime:    input.ClosingTime,
		DaysAvailable:  datatypes.JSON(days),
		DayCharges:     input.DayCharges,
		NightCharges:   input.NightCharges,
		WeekdayCharges: input.WeekdayCharges,
		WeekendCharges: input.WeekendCharges,
		Status:         "open",
		ApprovalStatus: "pending",
		Images:         input.Images,
	}

	if err := venue.Validate(); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}

	for _, f := range input.Fields {
		venue.Fields = append(venue.Fields, models.Field{
			Name:        f.Name,
			FieldNumber: f.FieldNumber,
			Status:      "open",
		})
	}

	if err := storage.DB.Create(&venue).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := services.NewTimeSlotService().EnsureTimeSlotsExist(venue.ID); err != nil {
		// The venue row exists; the grid can be re-materialized on first
		// availability read, so only the configuration error is fatal here.
		if errors.Is(err, services.ErrVenueConfig) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
			return
		}
		log.Printf("⚠️  Slot generation failed for venue %d: %v", venue.ID, err)
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(venue)
}

func GetVenue(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var venue models.Venue
	if err := storage.DB.Preload("Fields").Preload("Owner").First(&venue, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(venue)
}

// GetApprovedVenues lists venues visible to players, optionally
// filtered by city.
func GetApprovedVenues(ctx iris.Context) {
	city := ctx.URLParamDefault("city", "")

	query := storage.DB.Preload("Fields").Where("approval_status = ?", "approved")
	if city != "" {
		query = query.Where("lower(city) = lower(?)", city)
	}

	var venues []models.Venue
	if err := query.Order("name ASC").Find(&venues).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(venues)
}

func GetVenuesByOwnerID(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var venues []models.Venue
	if err := storage.DB.Preload("Fields").Where("owner_id = ?", id).Order("created_at DESC").Find(&venues).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(venues)
}

type UpdateVenueStatusInput struct {
	Status string `json:"status" validate:"required,oneof=open closed"`
}

// UpdateVenueStatus lets the owner open or close the venue. A closed
// venue never offers slots, whatever the grid says.
func UpdateVenueStatus(ctx iris.Context) {
	ownerID := ctx.Values().Get("userID").(uint)
	params := ctx.Params()
	id := params.Get("id")

	var input UpdateVenueStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var venue models.Venue
	if err := storage.DB.Where("id = ? AND owner_id = ?", id, ownerID).First(&venue).Error; err != nil {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Venue not found or access denied", ctx)
		return
	}

	venue.Status = input.Status
	if err := storage.DB.Save(&venue).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(venue)
}

type CreateFieldInput struct {
	Name        string `json:"name" validate:"required,max=256"`
	FieldNumber int    `json:"fieldNumber" validate:"gte=0"`
}

// CreateField adds a field to an owned venue and extends the slot grid
// to cover it.
func CreateField(ctx iris.Context) {
	ownerID := ctx.Values().Get("userID").(uint)
	params := ctx.Params()
	id := params.Get("id")

	var input CreateFieldInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var venue models.Venue
	if err := storage.DB.Where("id = ? AND owner_id = ?", id, ownerID).First(&venue).Error; err != nil {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Venue not found or access denied", ctx)
		return
	}

	field := models.Field{
		VenueID:     venue.ID,
		Name:        input.Name,
		FieldNumber: input.FieldNumber,
		Status:      "open",
	}
	if err := storage.DB.Create(&field).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := services.NewTimeSlotService().EnsureTimeSlotsExist(venue.ID); err != nil {
		log.Printf("⚠️  Slot generation failed for venue %d after adding field %d: %v", venue.ID, field.ID, err)
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(field)
}

func GetVenueFields(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var fields []models.Field
	if err := storage.DB.Where("venue_id = ?", id).Order("field_number ASC").Find(&fields).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(fields)
}

type UpdateFieldStatusInput struct {
	Status string `json:"status" validate:"required,oneof=open closed"`
}

func UpdateFieldStatus(ctx iris.Context) {
	ownerID := ctx.Values().Get("userID").(uint)
	params := ctx.Params()
	id := params.Get("id")

	var input UpdateFieldStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var field models.Field
	if err := storage.DB.Preload("Venue").First(&field, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if field.Venue.OwnerID != ownerID {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Field belongs to another owner's venue", ctx)
		return
	}

	field.Status = input.Status
	if err := storage.DB.Save(&field).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(field)
}

// EnsureVenueSlots materializes the slot grid for a venue. Idempotent;
// safe to call on every booking-screen open.
func EnsureVenueSlots(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var venue models.Venue
	if err := storage.DB.First(&venue, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := services.NewTimeSlotService().EnsureTimeSlotsExist(venue.ID); err != nil {
		if errors.Is(err, services.ErrVenueConfig) {
			utils.CreateError(iris.StatusBadRequest, "Configuration Error", err.Error(), ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	var count int64
	storage.DB.Model(&models.TimeSlot{}).Where("venue_id = ?", venue.ID).Count(&count)

	ctx.JSON(iris.Map{
		"success":    true,
		"totalSlots": count,
	})
}
