package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"thriveup_server/helpers"
	"thriveup_server/services"
)

// FriendController handles the friend request lifecycle.
type FriendController struct {
	FriendService *services.FriendService
}

func NewFriendController(service *services.FriendService) *FriendController {
	return &FriendController{FriendService: service}
}

// HandleSendRequest creates a pending friend request.
func (c *FriendController) HandleSendRequest(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FromUserID string `json:"fromUserId"`
		ToUserID   string `json:"toUserId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.FromUserID == "" || request.ToUserID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Missing required fields: fromUserId, toUserId")
		return
	}

	created, err := c.FriendService.SendFriendRequest(r.Context(), request.FromUserID, request.ToUserID)
	if err != nil {
		log.Printf("❌ Friend request %s -> %s failed: %v", request.FromUserID, request.ToUserID, err)
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusCreated, created)
}

// HandleGetPendingRequests lists requests waiting on the user.
func (c *FriendController) HandleGetPendingRequests(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "userId is required")
		return
	}

	requests, err := c.FriendService.GetPendingRequests(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, requests)
}

// HandleGetSentRequests lists requests the user has sent.
func (c *FriendController) HandleGetSentRequests(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "userId is required")
		return
	}

	requests, err := c.FriendService.GetSentRequests(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, requests)
}

// HandleAcceptRequest accepts a request: both friendship rows land and
// the request disappears in one transaction.
func (c *FriendController) HandleAcceptRequest(w http.ResponseWriter, r *http.Request) {
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

	if err := c.FriendService.AcceptFriendRequest(r.Context(), request.UserID, request.CreatedAt); err != nil {
		log.Printf("❌ Failed to accept friend request for %s: %v", request.UserID, err)
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// HandleRejectRequest discards a pending request.
func (c *FriendController) HandleRejectRequest(w http.ResponseWriter, r *http.Request) {
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

	if err := c.FriendService.RejectFriendRequest(r.Context(), request.UserID, request.CreatedAt); err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "rejected"})
}

// HandleListFriends returns the user's friend ids.
func (c *FriendController) HandleListFriends(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "userId is required")
		return
	}

	friends, err := c.FriendService.ListFriends(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, friends)
}
