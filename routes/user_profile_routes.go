package routes

import (
	"net/http"

	"thriveup_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes wires profile endpoints.
func RegisterUserProfileRoutes(r *mux.Router, controller *controllers.UserProfileController) {
	profiles := r.PathPrefix("/api/profiles").Subrouter()

	profiles.HandleFunc("", controller.HandlePutProfile).Methods(http.MethodPut)
	profiles.HandleFunc("/batch", controller.HandleGetProfiles).Methods(http.MethodPost)
	profiles.HandleFunc("/{userId}", controller.HandleGetProfile).Methods(http.MethodGet)
}
