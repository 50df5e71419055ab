package routes

import (
	"net/http"

	"thriveup_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterPresenceRoutes wires the presence and unread-counter reads.
func RegisterPresenceRoutes(r *mux.Router, controller *controllers.PresenceController) {
	presence := r.PathPrefix("/api/presence").Subrouter()

	presence.HandleFunc("/{userId}", controller.HandleGetPresence).Methods(http.MethodGet)
	presence.HandleFunc("/{userId}/unread", controller.HandleGetUnread).Methods(http.MethodGet)
}
