package routes

import (
	"strings"

	"github.com/ShahjahanMirza/Book-Play-sub000/models"
	"github.com/ShahjahanMirza/Book-Play-sub000/storage"
	"github.com/ShahjahanMirza/Book-Play-sub000/utils"

	"github.com/kataras/iris/v12"
)

// Admin moderation endpoints. Thin pass-through queries; the only
// side effect beyond the row update is the audit trail.

func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.User{})
	if role := ctx.URLParamDefault("role", ""); role != "" {
		query = query.Where("role = ?", role)
	}
	if q := ctx.URLParamDefault("q", ""); q != "" {
		search := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(name) LIKE ? OR lower(email) LIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var users []models.User
	if err := query.Order("created_at DESC").Limit(perPage).Offset((page - 1) * perPage).Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

func AdminListVenues(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.Venue{})
	if status := ctx.URLParamDefault("approval_status", ""); status != "" {
		query = query.Where("approval_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var venues []models.Venue
	if err := query.Preload("Owner").Preload("Fields").
		Order("created_at DESC").Limit(perPage).Offset((page - 1) * perPage).Find(&venues).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, venues, page, perPage, total)
}

type AdminVenueApprovalInput struct {
	ApprovalStatus string `json:"approvalStatus" validate:"required,oneof=pending approved rejected"`
	ReviewNotes    string `json:"reviewNotes"`
}

// AdminUpdateVenueApproval gates venue visibility. Audited.
func AdminUpdateVenueApproval(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var input AdminVenueApprovalInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var venue models.Venue
	if err := storage.DB.First(&venue, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := venue
	venue.ApprovalStatus = input.ApprovalStatus
	venue.ReviewNotes = input.ReviewNotes

	if err := storage.DB.Save(&venue).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "venue.approval", "venue", venue.ID, before, venue)

	ctx.JSON(venue)
}

func AdminListBookings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.Booking{})
	if status := ctx.URLParamDefault("status", ""); status != "" {
		query = query.Where("status = ?", status)
	}
	if venueID := ctx.URLParamDefault("venueID", ""); venueID != "" {
		query = query.Where("venue_id = ?", venueID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var bookings []models.Booking
	if err := query.Preload("Venue").Preload("Player").Preload("Slots").
		Order("created_at DESC").Limit(perPage).Offset((page - 1) * perPage).Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, bookings, page, perPage, total)
}
