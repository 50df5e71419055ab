package controllers

import (
	"errors"
	"net/http"

	"thriveup_server/helpers"
	"thriveup_server/services"
)

// HandleWelcome serves the root endpoint.
func HandleWelcome(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{
		"message": "Welcome to the ThriveUp API!",
	})
}

// HandleHealthCheck reports liveness.
func HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeServiceError maps service errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrThreadNotFound),
		errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrRequestNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrNotMember),
		errors.Is(err, services.ErrNotAdmin),
		errors.Is(err, services.ErrChatDisabled),
		errors.Is(err, services.ErrMemberMuted):
		helpers.WriteJSONError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrAlreadyFriends),
		errors.Is(err, services.ErrRequestNotPending),
		errors.Is(err, services.ErrTeamFull):
		helpers.WriteJSONError(w, http.StatusConflict, err.Error())
	default:
		helpers.WriteJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
