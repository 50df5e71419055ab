package routes

import (
	"net/http"

	"thriveup_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterS3Routes wires presigned media URL endpoints.
func RegisterS3Routes(r *mux.Router, controller *controllers.S3Controller) {
	media := r.PathPrefix("/api/media").Subrouter()

	media.HandleFunc("/uploadUrl", controller.HandleGenerateUploadURL).Methods(http.MethodPost)
	media.HandleFunc("/readUrl", controller.HandleGenerateReadURL).Methods(http.MethodGet)
}
