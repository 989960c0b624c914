package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/studyslots/booking-server/internal/booking"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

// writeServiceError maps the engine's error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *booking.ValidationError
	var nferr *booking.NotFoundError
	var cerr *booking.ConflictError

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "validation_error", verr.Msg)
	case errors.As(err, &nferr):
		writeError(w, http.StatusNotFound, "not_found", nferr.Msg)
	case errors.As(err, &cerr):
		writeError(w, http.StatusConflict, "conflict", cerr.Msg)
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return false
	}
	return true
}
