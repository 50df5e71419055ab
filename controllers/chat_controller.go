package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"thriveup_server/helpers"
	"thriveup_server/models"
	"thriveup_server/services"
)

// ChatController handles direct chat endpoints.
type ChatController struct {
	ChatService   *services.ChatService
	ThreadService *services.ThreadService
	Caches        *services.LastMessageCacheManager
}

// NewChatController initializes the chat controller
func NewChatController(chat *services.ChatService, threads *services.ThreadService, caches *services.LastMessageCacheManager) *ChatController {
	return &ChatController{ChatService: chat, ThreadService: threads, Caches: caches}
}

// HandleSendMessage stores a direct message and fans it out.
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		SenderID    string  `json:"senderId"`
		RecipientID string  `json:"recipientId"`
		Content     string  `json:"content"`
		MediaURL    *string `json:"mediaUrl,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if request.SenderID == "" || request.RecipientID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Missing required fields: senderId, recipientId")
		return
	}
	if request.Content == "" && request.MediaURL == nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Message needs content or mediaUrl")
		return
	}

	log.Printf("📩 Message from %s to %s", request.SenderID, request.RecipientID)

	message := models.Message{Content: request.Content, MediaURL: request.MediaURL}
	stored, err := c.ChatService.SendMessage(r.Context(), request.SenderID, request.RecipientID, message)
	if err != nil {
		log.Printf("❌ Failed to send message: %v", err)
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, stored)
}

// HandleGetMessages fetches a thread's messages in chronological order.
// Only a participant of the thread may read it.
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	threadID := r.URL.Query().Get("threadId")
	userID := r.URL.Query().Get("userId")
	limitStr := r.URL.Query().Get("limit")

	if threadID == "" || userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "threadId and userId are required")
		return
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 50
	}

	log.Printf("🔍 Fetching messages for threadId: %s, User: %s, Limit: %d", threadID, userID, limit)

	messages, err := c.ChatService.GetMessagesForUser(r.Context(), threadID, userID, limit)
	if err != nil {
		log.Printf("❌ Error fetching messages: %v", err)
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, messages)
}

// HandleMarkMessagesAsRead marks everything the user received as read.
func (c *ChatController) HandleMarkMessagesAsRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ThreadID string `json:"threadId"`
		UserID   string `json:"userId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.ThreadID == "" || request.UserID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Missing required fields: threadId, userId")
		return
	}

	log.Printf("🔄 Marking messages as read for threadId: %s, User: %s", request.ThreadID, request.UserID)

	if err := c.ChatService.MarkMessagesAsRead(r.Context(), request.ThreadID, request.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "success"})
}

// HandleResolveThread returns the thread for a pair of users, creating
// it on first contact. The same pair always resolves to the same thread
// no matter which side asks.
func (c *ChatController) HandleResolveThread(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserA string `json:"userA"`
		UserB string `json:"userB"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.UserA == "" || request.UserB == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Missing required fields: userA, userB")
		return
	}

	thread, err := c.ThreadService.FetchOrCreateThread(r.Context(), request.UserA, request.UserB)
	if err != nil {
		log.Printf("❌ Failed to resolve thread for %s/%s: %v", request.UserA, request.UserB, err)
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, thread)
}

// HandleGetLastMessages returns the last message and unread count per
// contact, refreshing the caller's cache across all listed contacts.
func (c *ChatController) HandleGetLastMessages(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID     string   `json:"userId"`
		ContactIDs []string `json:"contactIds"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.UserID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "userId is required")
		return
	}

	entries := c.Caches.ForUser(request.UserID).Refresh(r.Context(), request.ContactIDs)
	helpers.WriteJSONResponse(w, http.StatusOK, entries)
}
