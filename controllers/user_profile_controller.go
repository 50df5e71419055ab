package controllers

import (
	"encoding/json"
	"net/http"

	"thriveup_server/helpers"
	"thriveup_server/models"
	"thriveup_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController serves profile lookups.
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

func NewUserProfileController(service *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: service}
}

// HandleGetProfile fetches one profile. Unknown users come back with
// placeholder fields rather than an error.
func (c *UserProfileController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := c.UserProfileService.GetUserProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, profile)
}

// HandleGetProfiles fetches a batch of profiles by id.
func (c *UserProfileController) HandleGetProfiles(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserIDs []string `json:"userIds"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(request.UserIDs) == 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, "userIds is required")
		return
	}

	profiles := c.UserProfileService.GetUserProfiles(r.Context(), request.UserIDs)
	helpers.WriteJSONResponse(w, http.StatusOK, profiles)
}

// HandlePutProfile creates or replaces a profile.
func (c *UserProfileController) HandlePutProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile

	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if profile.UserID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if err := c.UserProfileService.PutUserProfile(r.Context(), profile); err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, profile)
}
