package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"thriveup_server/helpers"
	"thriveup_server/services"
)

// S3Controller hands out presigned media URLs.
type S3Controller struct {
	S3Service *services.S3Service
}

func NewS3Controller(service *services.S3Service) *S3Controller {
	return &S3Controller{S3Service: service}
}

// HandleGenerateUploadURL returns a presigned PUT URL for a new object.
func (c *S3Controller) HandleGenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Kind     string `json:"kind"`
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.Kind == "" || request.FileName == "" || request.FileType == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Missing required fields: kind, fileName, fileType")
		return
	}

	url, key, err := c.S3Service.GenerateUploadURL(request.Kind, request.FileName, request.FileType)
	if err != nil {
		log.Printf("❌ Failed to presign upload for %s: %v", request.FileName, err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"uploadUrl": url, "key": key})
}

// HandleGenerateReadURL returns a presigned GET URL for a stored object.
func (c *S3Controller) HandleGenerateReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "key is required")
		return
	}

	url, err := c.S3Service.GenerateReadURL(key)
	if err != nil {
		log.Printf("❌ Failed to presign read for %s: %v", key, err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to generate read URL")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"readUrl": url})
}
