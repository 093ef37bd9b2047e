package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/WeiViv/StudyBuddy/services"
)

// writeJSON sends a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Callers can treat any non-2xx from a mutating endpoint as "no state change
// occurred"; 503 responses are safe to retry as a whole call.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrPreconditionFailed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrTransientStore):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		log.Printf("Internal error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
