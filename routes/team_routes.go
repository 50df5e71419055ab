package routes

import (
	"net/http"

	"thriveup_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterTeamRoutes wires hackathon team endpoints.
func RegisterTeamRoutes(r *mux.Router, controller *controllers.TeamController) {
	teams := r.PathPrefix("/api/teams").Subrouter()

	teams.HandleFunc("", controller.HandleCreateTeam).Methods(http.MethodPost)
	teams.HandleFunc("", controller.HandleListTeamsByEvent).Methods(http.MethodGet)
	// Registered before /{teamId} so "requests" is not taken as an id.
	teams.HandleFunc("/requests", controller.HandleListLeadRequests).Methods(http.MethodGet)
	teams.HandleFunc("/{teamId}", controller.HandleGetTeam).Methods(http.MethodGet)
	teams.HandleFunc("/{teamId}/requests", controller.HandleCreateJoinRequest).Methods(http.MethodPost)
	teams.HandleFunc("/{teamId}/requests", controller.HandleListJoinRequests).Methods(http.MethodGet)
	teams.HandleFunc("/{teamId}/requests/accept", controller.HandleAcceptJoinRequest).Methods(http.MethodPost)
	teams.HandleFunc("/{teamId}/requests/reject", controller.HandleRejectJoinRequest).Methods(http.MethodPost)
}
