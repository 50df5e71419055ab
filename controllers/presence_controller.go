package controllers

import (
	"context"
	"log"
	"net/http"

	"thriveup_server/helpers"

	"github.com/gorilla/mux"
)

// presenceReader is the slice of PresenceService the controller needs.
type presenceReader interface {
	IsOnline(ctx context.Context, userID string) (bool, error)
	GetUnread(ctx context.Context, userID, threadID string) (int, error)
}

// PresenceController serves the Redis-backed presence view.
type PresenceController struct {
	Presence presenceReader
}

func NewPresenceController(presence presenceReader) *PresenceController {
	return &PresenceController{Presence: presence}
}

// HandleGetPresence reports whether the user currently holds a live
// presence key.
func (c *PresenceController) HandleGetPresence(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	online, err := c.Presence.IsOnline(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to read presence for %s: %v", userID, err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to read presence")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"userId": userID,
		"online": online,
	})
}

// HandleGetUnread serves the per-thread unread counter.
func (c *PresenceController) HandleGetUnread(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	threadID := r.URL.Query().Get("threadId")

	if threadID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "threadId is required")
		return
	}

	count, err := c.Presence.GetUnread(r.Context(), userID, threadID)
	if err != nil {
		log.Printf("❌ Failed to read unread counter for %s/%s: %v", userID, threadID, err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to read unread counter")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"userId":      userID,
		"threadId":    threadID,
		"unreadCount": count,
	})
}
