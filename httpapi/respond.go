package httpapi

import (
	"encoding/json"
	"net/http"

	"propbets/service"

	log "github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service errors onto HTTP statuses. Conflicts map to 400
// rather than 409, matching what mobile clients already handle.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case service.IsValidation(err), service.IsConflict(err), service.IsAuthorization(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case service.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		log.WithError(err).Error("Request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
