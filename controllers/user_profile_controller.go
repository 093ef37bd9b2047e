package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/WeiViv/StudyBuddy/models"
	"github.com/WeiViv/StudyBuddy/services"
	"github.com/WeiViv/StudyBuddy/utils"
	"github.com/gorilla/mux"
)

// UserProfileController handles requests related to student profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new instance of UserProfileController
func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

// EnsureProfile provisions or reconciles the caller's profile document on
// sign-in, from the identity provider's display metadata.
func (c *UserProfileController) EnsureProfile(w http.ResponseWriter, r *http.Request) {
	var identity services.ProviderIdentity
	if err := json.NewDecoder(r.Body).Decode(&identity); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	profile, created, err := c.UserProfileService.EnsureUserProfile(r.Context(), identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	message := "Profile already existed"
	if created {
		status = http.StatusCreated
		message = "Profile created"
	}
	log.Printf("EnsureProfile for %s: created=%v", identity.UID, created)
	writeJSON(w, status, map[string]interface{}{
		"message": message,
		"profile": profile,
	})
}

// GetUserProfile handles fetching a profile by uid
func (c *UserProfileController) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	profile, err := c.UserProfileService.GetUserProfile(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	Name          *string  `json:"name"`
	Email         *string  `json:"email"`
	PhoneNumber   *string  `json:"phoneNumber"`
	ProfilePic    *string  `json:"profilePic"`
	Majors        []string `json:"majors"`
	Year          *string  `json:"year"`
	Description   *string  `json:"description"`
	Open          *bool    `json:"open"`
	ListOfCourses *string  `json:"listOfCourses"`
}

// UpdateUserProfile handles owner edits. Majors arrive as a selection list
// and are stored comma-joined; courses arrive comma-separated and are stored
// as a trimmed list; phone numbers are normalized to (XXX)-XXX-XXXX.
func (c *UserProfileController) UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	var payload updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	updates := map[string]interface{}{}
	if payload.Name != nil {
		updates["name"] = *payload.Name
	}
	if payload.Email != nil {
		updates["email"] = *payload.Email
	}
	if payload.PhoneNumber != nil {
		updates["phoneNumber"] = utils.FormatPhoneNumber(*payload.PhoneNumber)
	}
	if payload.ProfilePic != nil {
		updates["profilePic"] = *payload.ProfilePic
	}
	if payload.Majors != nil {
		updates["major"] = utils.JoinMajors(payload.Majors, models.MaxMajorsPerProfile)
	}
	if payload.Year != nil {
		updates["year"] = *payload.Year
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if payload.Open != nil {
		updates["open"] = *payload.Open
	}
	if payload.ListOfCourses != nil {
		updates["listOfCourses"] = utils.SplitAndTrim(*payload.ListOfCourses)
	}

	profile, err := c.UserProfileService.UpdateUserProfile(r.Context(), uid, updates)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

// DeleteUserProfile handles deleting a profile
func (c *UserProfileController) DeleteUserProfile(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	if err := c.UserProfileService.DeleteUserProfile(r.Context(), uid); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile deleted successfully",
	})
}
