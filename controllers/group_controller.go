package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"thriveup_server/helpers"
	"thriveup_server/models"
	"thriveup_server/services"

	"github.com/gorilla/mux"
)

// GroupController handles group chat endpoints.
type GroupController struct {
	GroupService *services.GroupService
}

func NewGroupController(service *services.GroupService) *GroupController {
	return &GroupController{GroupService: service}
}

// HandleCreateGroup creates a group with the creator as admin.
func (c *GroupController) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		ImageURL    string `json:"imageUrl"`
		CreatorID   string `json:"creatorId"`
		CreatorName string `json:"creatorName"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.Name == "" || request.CreatorID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Missing required fields: name, creatorId")
		return
	}

	group, err := c.GroupService.CreateGroup(r.Context(), request.Name, request.Description, request.ImageURL, request.CreatorID, request.CreatorName)
	if err != nil {
		log.Printf("❌ Failed to create group: %v", err)
		writeServiceError(w, err)
		return
	}

	log.Printf("✅ Group created: %s (%s)", group.Name, group.GroupID)
	helpers.WriteJSONResponse(w, http.StatusCreated, group)
}

// HandleGetGroup fetches one group by id.
func (c *GroupController) HandleGetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	group, err := c.GroupService.GetGroup(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, group)
}

// HandleAddMember adds a user to a group as a regular member.
func (c *GroupController) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	var request struct {
		UserID string `json:"userId"`
		Name   string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.UserID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if err := c.GroupService.AddMember(r.Context(), groupID, request.UserID, request.Name); err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "success"})
}

// HandleGetMembers lists a group's members.
func (c *GroupController) HandleGetMembers(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	members, err := c.GroupService.GetMembers(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, members)
}

// HandleSendGroupMessage posts a message into the group after the
// permission gate passes.
func (c *GroupController) HandleSendGroupMessage(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	var request struct {
		SenderID   string  `json:"senderId"`
		SenderName string  `json:"senderName"`
		Content    string  `json:"content"`
		ImageURL   *string `json:"imageUrl,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.SenderID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "senderId is required")
		return
	}
	if request.Content == "" && request.ImageURL == nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Message needs content or imageUrl")
		return
	}

	message := models.GroupMessage{
		GroupID:    groupID,
		SenderID:   request.SenderID,
		SenderName: request.SenderName,
		Content:    request.Content,
		ImageURL:   request.ImageURL,
	}

	stored, err := c.GroupService.SendGroupMessage(r.Context(), message)
	if err != nil {
		log.Printf("❌ Group message rejected for %s in %s: %v", request.SenderID, groupID, err)
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, stored)
}

// HandleGetGroupMessages fetches a group's messages in order.
func (c *GroupController) HandleGetGroupMessages(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]
	limitStr := r.URL.Query().Get("limit")

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 50
	}

	messages, err := c.GroupService.GetMessagesByGroupID(r.Context(), groupID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, messages)
}

// HandleGetGroupLastMessage returns the newest message of a group,
// null when the group has none.
func (c *GroupController) HandleGetGroupLastMessage(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	if _, err := c.GroupService.GetGroup(r.Context(), groupID); err != nil {
		writeServiceError(w, err)
		return
	}

	last, err := c.GroupService.GetLastGroupMessage(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, last)
}

// HandleUpdateMemberPermission lets an admin mute or unmute a member.
func (c *GroupController) HandleUpdateMemberPermission(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	var request struct {
		ActorID string `json:"actorId"`
		UserID  string `json:"userId"`
		CanChat bool   `json:"canChat"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.ActorID == "" || request.UserID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Missing required fields: actorId, userId")
		return
	}

	if err := c.GroupService.UpdateMemberChatPermission(r.Context(), groupID, request.ActorID, request.UserID, request.CanChat); err != nil {
		writeServiceError(w, err)
		return
	}

	log.Printf("🔧 canChat=%v for %s in group %s", request.CanChat, request.UserID, groupID)
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "success"})
}

// HandleUpdateChatSetting lets an admin toggle the group-wide chat flag.
func (c *GroupController) HandleUpdateChatSetting(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]

	var request struct {
		ActorID     string `json:"actorId"`
		ChatEnabled bool   `json:"chatEnabled"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.ActorID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "actorId is required")
		return
	}

	if err := c.GroupService.UpdateGroupChatSetting(r.Context(), groupID, request.ActorID, request.ChatEnabled); err != nil {
		writeServiceError(w, err)
		return
	}

	log.Printf("🔧 chatEnabled=%v for group %s", request.ChatEnabled, groupID)
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "success"})
}
