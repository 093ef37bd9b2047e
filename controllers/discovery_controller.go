package controllers

import (
	"net/http"

	"github.com/WeiViv/StudyBuddy/services"
	"github.com/WeiViv/StudyBuddy/utils"
)

// DiscoveryController handles the browse/filter surface
type DiscoveryController struct {
	DiscoveryService *services.DiscoveryService
}

// NewDiscoveryController creates a new DiscoveryController instance
func NewDiscoveryController(discoveryService *services.DiscoveryService) *DiscoveryController {
	return &DiscoveryController{DiscoveryService: discoveryService}
}

// BrowseStudents handles fetching the filtered candidate list. Filters come
// in as comma-separated query params: ?majors=a,b&years=Junior,Senior
func (dc *DiscoveryController) BrowseStudents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	uid := query.Get("uid")
	if uid == "" {
		http.Error(w, "uid is required", http.StatusBadRequest)
		return
	}

	majors := utils.SplitAndTrim(query.Get("majors"))
	years := utils.SplitAndTrim(query.Get("years"))

	students, err := dc.DiscoveryService.BrowseStudents(r.Context(), uid, majors, years)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"students": students})
}

// GetMajors handles fetching the selectable majors reference list
func (dc *DiscoveryController) GetMajors(w http.ResponseWriter, r *http.Request) {
	majors, err := dc.DiscoveryService.GetMajors(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"majors": majors})
}
