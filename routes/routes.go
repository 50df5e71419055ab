package routes

import (
	"net/http"

	"thriveup_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterRootRoutes wires the welcome and health endpoints.
func RegisterRootRoutes(r *mux.Router) {
	r.HandleFunc("/", controllers.HandleWelcome).Methods(http.MethodGet)
	r.HandleFunc("/health", controllers.HandleHealthCheck).Methods(http.MethodGet)
}
