package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"thriveup_server/helpers"
	"thriveup_server/models"
	"thriveup_server/services"

	"github.com/gorilla/mux"
)

// TeamController handles hackathon team endpoints.
type TeamController struct {
	TeamService *services.TeamService
}

func NewTeamController(service *services.TeamService) *TeamController {
	return &TeamController{TeamService: service}
}

// HandleCreateTeam registers a team with the lead as member zero.
func (c *TeamController) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var team models.HackathonTeam

	if err := json.NewDecoder(r.Body).Decode(&team); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if team.Name == "" || team.EventID == "" || team.TeamLeadID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Missing required fields: name, eventId, teamLeadId")
		return
	}

	created, err := c.TeamService.CreateTeam(r.Context(), team)
	if err != nil {
		log.Printf("❌ Failed to create team %s: %v", team.Name, err)
		writeServiceError(w, err)
		return
	}

	log.Printf("✅ Team created: %s (%s)", created.Name, created.TeamID)
	helpers.WriteJSONResponse(w, http.StatusCreated, created)
}

// HandleGetTeam fetches one team.
func (c *TeamController) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["teamId"]

	team, err := c.TeamService.GetTeam(r.Context(), teamID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, team)
}

// HandleListTeamsByEvent lists teams registered for an event.
func (c *TeamController) HandleListTeamsByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("eventId")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "eventId is required")
		return
	}

	teams, err := c.TeamService.ListTeamsByEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, teams)
}

// HandleCreateJoinRequest files a pending join request and notifies
// the team lead.
func (c *TeamController) HandleCreateJoinRequest(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["teamId"]

	var request models.TeamJoinRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	request.TeamID = teamID

	if request.SenderID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "senderId is required")
		return
	}

	created, err := c.TeamService.CreateJoinRequest(r.Context(), request)
	if err != nil {
		log.Printf("❌ Join request for team %s failed: %v", teamID, err)
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusCreated, created)
}

// HandleListJoinRequests lists a team's pending join requests.
func (c *TeamController) HandleListJoinRequests(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["teamId"]

	requests, err := c.TeamService.ListJoinRequests(r.Context(), teamID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, requests)
}

// HandleListLeadRequests lists pending join requests across every team
// the user leads.
func (c *TeamController) HandleListLeadRequests(w http.ResponseWriter, r *http.Request) {
	leadID := r.URL.Query().Get("leadId")
	if leadID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "leadId is required")
		return
	}

	requests, err := c.TeamService.ListJoinRequestsByLead(r.Context(), leadID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, requests)
}

// HandleAcceptJoinRequest admits the sender if the roster still has
// room; a full team yields 409.
func (c *TeamController) HandleAcceptJoinRequest(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["teamId"]

	var request struct {
		CreatedAt string `json:"createdAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.CreatedAt == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "createdAt is required")
		return
	}

	if err := c.TeamService.AcceptJoinRequest(r.Context(), teamID, request.CreatedAt); err != nil {
		log.Printf("❌ Failed to accept join request for team %s: %v", teamID, err)
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// HandleRejectJoinRequest declines a pending join request.
func (c *TeamController) HandleRejectJoinRequest(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["teamId"]

	var request struct {
		CreatedAt string `json:"createdAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.CreatedAt == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "createdAt is required")
		return
	}

	if err := c.TeamService.RejectJoinRequest(r.Context(), teamID, request.CreatedAt); err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "rejected"})
}
