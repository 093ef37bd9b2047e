package controllers

import (
	"net/http"

	"github.com/WeiViv/StudyBuddy/services"
)

// MediaController hands out presigned URLs for profile pictures
type MediaController struct {
	MediaService *services.MediaService
}

// NewMediaController creates a new MediaController instance
func NewMediaController(mediaService *services.MediaService) *MediaController {
	return &MediaController{MediaService: mediaService}
}

// GetUploadURL handles presigning a profile picture upload
func (mc *MediaController) GetUploadURL(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	uid := query.Get("uid")
	fileType := query.Get("fileType")

	url, key, err := mc.MediaService.ProfilePicUploadURL(r.Context(), uid, fileType)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"uploadUrl": url,
		"key":       key,
	})
}

// GetReadURL handles presigning a profile picture read
func (mc *MediaController) GetReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")

	url, err := mc.MediaService.ProfilePicReadURL(r.Context(), key)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"url": url})
}
