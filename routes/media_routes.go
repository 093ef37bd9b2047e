package routes

import (
	"github.com/WeiViv/StudyBuddy/controllers"
	"github.com/WeiViv/StudyBuddy/services"

	"github.com/gorilla/mux"
)

// RegisterMediaRoutes sets up the profile picture presigning routes
func RegisterMediaRoutes(r *mux.Router, mediaService *services.MediaService) {
	controller := controllers.NewMediaController(mediaService)

	mediaRouter := r.PathPrefix("/api/media").Subrouter()

	mediaRouter.HandleFunc("/upload-url", controller.GetUploadURL).Methods("GET")
	mediaRouter.HandleFunc("/read-url", controller.GetReadURL).Methods("GET")
}
