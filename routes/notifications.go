package routes

import (
	"github.com/ShahjahanMirza/Book-Play-sub000/models"
	"github.com/ShahjahanMirza/Book-Play-sub000/storage"
	"github.com/ShahjahanMirza/Book-Play-sub000/utils"

	"github.com/kataras/iris/v12"
)

// GetUserNotifications lists the authenticated user's in-app
// notifications, newest first.
func GetUserNotifications(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var notifications []models.Notification
	res := storage.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(100).Find(&notifications)
	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(notifications)
}

func MarkNotificationRead(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	params := ctx.Params()
	id := params.Get("id")

	var notification models.Notification
	if err := storage.DB.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	notification.IsRead = true
	if err := storage.DB.Save(&notification).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(notification)
}
