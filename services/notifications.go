package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ShahjahanMirza/Book-Play-sub000/models"
	"github.com/ShahjahanMirza/Book-Play-sub000/storage"
	"github.com/ShahjahanMirza/Book-Play-sub000/utils"
)

// NotificationService handles booking lifecycle notifications: it stores
// the in-app copy, sends the push message and publishes the broker event.
type NotificationService struct{}

// NewNotificationService creates a new notification service instance
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// getUserPushTokens retrieves all push tokens for a user
func (ns *NotificationService) getUserPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user has notifications disabled or no tokens")
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}

	return tokens, nil
}

func (ns *NotificationService) notify(userID uint, notifType, title, body string, booking *models.Booking) {
	record := models.Notification{
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Body:      body,
		BookingID: &booking.ID,
		VenueID:   &booking.VenueID,
	}
	if err := storage.DB.Create(&record).Error; err != nil {
		log.Printf("❌ NOTIFICATION ERROR: Failed to store notification for user %d: %v", userID, err)
	}

	// Broker event; delivery to devices is a downstream consumer's job.
	payload := map[string]any{
		"type":        notifType,
		"userId":      userID,
		"bookingId":   booking.ID,
		"reference":   booking.Reference,
		"venueId":     booking.VenueID,
		"bookingDate": booking.BookingDate.Format("2006-01-02"),
		"startTime":   booking.StartTime,
		"endTime":     booking.EndTime,
	}
	if err := storage.Events.PublishJSON(context.Background(), "booking."+booking.Status, payload); err != nil {
		log.Printf("⚠️  Failed to publish %s event for booking %d: %v", notifType, booking.ID, err)
	}

	tokens, err := ns.getUserPushTokens(userID)
	if err != nil {
		log.Printf("Skipping push for user %d: %v", userID, err)
		return
	}
	data := map[string]string{
		"type":      notifType,
		"bookingId": fmt.Sprintf("%d", booking.ID),
		"venueId":   fmt.Sprintf("%d", booking.VenueID),
	}
	for _, token := range tokens {
		if err := utils.SendNotification(token, title, body, data); err != nil {
			log.Printf("Failed to send notification to token %s: %v", token, err)
		}
	}
}

// SendBookingPendingToOwner notifies the venue owner that a player has
// requested a booking.
func (ns *NotificationService) SendBookingPendingToOwner(booking *models.Booking, venue *models.Venue, playerName string) {
	title := "🏟️ New Booking Request!"
	body := fmt.Sprintf("%s requested %s on %s, %s - %s",
		playerName, venue.Name, booking.BookingDate.Format("Mon, 02 Jan 2006"), booking.StartTime, booking.EndTime)
	ns.notify(venue.OwnerID, "booking_pending", title, body, booking)
}

// SendBookingStatusToPlayer notifies the player of an owner decision.
func (ns *NotificationService) SendBookingStatusToPlayer(booking *models.Booking, venueName string) {
	var title, body string
	switch booking.Status {
	case models.BookingStatusConfirmed:
		title = "✅ Booking Confirmed!"
		body = fmt.Sprintf("Your booking at %s on %s is confirmed", venueName, booking.BookingDate.Format("Mon, 02 Jan 2006"))
	case models.BookingStatusCancelled:
		title = "❌ Booking Cancelled"
		body = fmt.Sprintf("Your booking at %s on %s was cancelled", venueName, booking.BookingDate.Format("Mon, 02 Jan 2006"))
	case models.BookingStatusCompleted:
		title = "🏁 Booking Completed"
		body = fmt.Sprintf("Thanks for playing at %s!", venueName)
	default:
		return
	}
	ns.notify(booking.PlayerID, "booking_"+booking.Status, title, body, booking)
}
