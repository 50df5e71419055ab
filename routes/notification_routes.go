package routes

import (
	"net/http"

	"thriveup_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterNotificationRoutes wires the notification feed endpoints.
func RegisterNotificationRoutes(r *mux.Router, controller *controllers.NotificationController) {
	notifications := r.PathPrefix("/api/notifications").Subrouter()

	notifications.HandleFunc("", controller.HandleListNotifications).Methods(http.MethodGet)
	notifications.HandleFunc("/seen", controller.HandleMarkSeen).Methods(http.MethodPost)
}
