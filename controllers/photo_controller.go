package controllers

import (
	"encoding/json"
	"net/http"

	"golfmatch_server/services"

	"github.com/rs/zerolog/log"
)

// PhotoController hands out presigned URLs for profile photos
type PhotoController struct {
	Photos *services.PhotoService
}

func NewPhotoController(photos *services.PhotoService) *PhotoController {
	return &PhotoController{Photos: photos}
}

// UploadURL returns a presigned PUT URL and the key to store on the profile
func (c *PhotoController) UploadURL(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.FileName == "" {
		http.Error(w, `{"error": "fileName is required"}`, http.StatusBadRequest)
		return
	}

	url, key, err := c.Photos.GenerateUploadURL(r.Context(), request.FileName, request.FileType)
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to presign upload URL")
		http.Error(w, `{"error": "Failed to generate upload URL"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"uploadUrl": url,
		"key":       key,
	})
}

// ReadURL returns a presigned GET URL for a stored photo
func (c *PhotoController) ReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, `{"error": "key is required"}`, http.StatusBadRequest)
		return
	}

	url, err := c.Photos.GenerateReadURL(r.Context(), key)
	if err != nil {
		log.Error().Err(err).Msgf("❌ Failed to presign read URL for %s", key)
		http.Error(w, `{"error": "Failed to generate read URL"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"readUrl": url,
	})
}
