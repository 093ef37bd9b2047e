package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/WeiViv/StudyBuddy/services"
	"github.com/gorilla/mux"
)

// MatchController handles HTTP requests for the match lifecycle
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

type createMatchRequest struct {
	Users       []string `json:"users"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
}

type resolveMatchRequest struct {
	RequestedUser  string `json:"requestedUser"`
	RequestingUser string `json:"requestingUser"`
	Accept         bool   `json:"accept"`
}

// CreateMatch handles sending a new match request
func (mc *MatchController) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var payload createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	matchID, err := mc.MatchService.CreateMatch(r.Context(), payload.Users, payload.Location, payload.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Match request sent",
		"matchId": matchID,
	})
}

// ResolveMatch handles accepting or declining a pending match request
func (mc *MatchController) ResolveMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	var payload resolveMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	err := mc.MatchService.ResolveMatchRequest(r.Context(), payload.RequestedUser, payload.RequestingUser, matchID, payload.Accept)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	message := "Match request declined"
	if payload.Accept {
		message = "Match request accepted"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": message})
}

// GetUserMatches handles fetching the profiles a user is matched with
func (mc *MatchController) GetUserMatches(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	if uid == "" {
		http.Error(w, "uid is required", http.StatusBadRequest)
		return
	}

	matches, err := mc.MatchService.GetUserMatches(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// GetMatchedUserUids handles fetching the de-duplicated matched peer uids
func (mc *MatchController) GetMatchedUserUids(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	if uid == "" {
		http.Error(w, "uid is required", http.StatusBadRequest)
		return
	}

	uids, err := mc.MatchService.GetMatchedUserUIDs(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"uids": uids})
}
