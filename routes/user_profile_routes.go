package routes

import (
	"github.com/WeiViv/StudyBuddy/controllers"
	"github.com/WeiViv/StudyBuddy/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for profile operations under /api/profiles
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService) {
	controller := controllers.NewUserProfileController(userProfileService)

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()

	profileRouter.HandleFunc("/session", controller.EnsureProfile).Methods("POST")
	profileRouter.HandleFunc("/{uid}", controller.GetUserProfile).Methods("GET")
	profileRouter.HandleFunc("/{uid}", controller.UpdateUserProfile).Methods("PATCH")
	profileRouter.HandleFunc("/{uid}", controller.DeleteUserProfile).Methods("DELETE")
}
