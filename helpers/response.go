package helpers

import (
	"encoding/json"
	"net/http"
)

// WriteJSONResponse writes a JSON payload with the given status code
func WriteJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// WriteJSONError writes an error message in the standard envelope
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	WriteJSONResponse(w, status, map[string]string{"error": message})
}
