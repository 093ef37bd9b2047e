package routes

import (
	"github.com/WeiViv/StudyBuddy/controllers"
	"github.com/WeiViv/StudyBuddy/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for the match lifecycle under /api/matches
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService) {
	controller := controllers.NewMatchController(matchService)

	matchRouter := r.PathPrefix("/api/matches").Subrouter()

	matchRouter.HandleFunc("", controller.CreateMatch).Methods("POST")
	matchRouter.HandleFunc("/{matchId}/resolve", controller.ResolveMatch).Methods("POST")
	matchRouter.HandleFunc("/user/{uid}", controller.GetUserMatches).Methods("GET")
	matchRouter.HandleFunc("/user/{uid}/uids", controller.GetMatchedUserUids).Methods("GET")
}
