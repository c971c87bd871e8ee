package handlers

import (
	"encoding/json"
	"net/http"

	"taskboard/logging"
	"taskboard/middleware"
	"taskboard/services"

	"github.com/gorilla/mux"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// GetNotifications returns the caller's newest notifications.
func (nh *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	notifications, err := nh.service.Feed(userID.Hex())
	if err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_FETCH_FAILED, Description: Failed to fetch notifications for user %s: %v", userID.Hex(), err)
		http.Error(w, "Failed to fetch notifications", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}

// MarkRead flips one notification to read. This route does not pass the auth
// gate; marking an unknown or already-read notification still succeeds.
func (nh *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID := mux.Vars(r)["id"]

	if err := nh.service.MarkRead(notificationID); err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_MARK_READ_FAILED, Description: Failed to mark notification %s read: %v", notificationID, err)
		http.Error(w, "Failed to mark notification as read", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead flips every unread notification owned by the caller.
func (nh *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := nh.service.MarkAllRead(userID.Hex()); err != nil {
		logging.Logger.Errorf("Event ID: NOTIFICATION_MARK_ALL_FAILED, Description: Failed to mark all notifications read for user %s: %v", userID.Hex(), err)
		http.Error(w, "Failed to mark notifications as read", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "All notifications marked as read"})
}
