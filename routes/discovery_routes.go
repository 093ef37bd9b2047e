package routes

import (
	"github.com/WeiViv/StudyBuddy/controllers"
	"github.com/WeiViv/StudyBuddy/services"

	"github.com/gorilla/mux"
)

// RegisterDiscoveryRoutes sets up the browse/filter routes
func RegisterDiscoveryRoutes(r *mux.Router, discoveryService *services.DiscoveryService) {
	controller := controllers.NewDiscoveryController(discoveryService)

	r.HandleFunc("/api/students", controller.BrowseStudents).Methods("GET")
	r.HandleFunc("/api/majors", controller.GetMajors).Methods("GET")
}
