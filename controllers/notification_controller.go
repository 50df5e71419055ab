package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"thriveup_server/helpers"
	"thriveup_server/services"
)

// NotificationController serves a user's notification feed.
type NotificationController struct {
	NotificationService *services.NotificationService
}

func NewNotificationController(service *services.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: service}
}

// HandleListNotifications returns notifications, newest first.
func (c *NotificationController) HandleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "userId is required")
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	notifications, err := c.NotificationService.List(r.Context(), userID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, notifications)
}

// HandleMarkSeen flags one notification as seen.
func (c *NotificationController) HandleMarkSeen(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID    string `json:"userId"`
		CreatedAt string `json:"createdAt"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.UserID == "" || request.CreatedAt == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Missing required fields: userId, createdAt")
		return
	}

	if err := c.NotificationService.MarkSeen(r.Context(), request.UserID, request.CreatedAt); err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "success"})
}
