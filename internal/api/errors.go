package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"user-reminders/internal/service"
)

// MapErrorToStatusCode maps service errors to HTTP status codes so
// internal error details never leak to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrBadDate):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// safeErrorMessage returns a user-facing message for the error.
func safeErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrValidation):
		return "Invalid reminder data"
	case errors.Is(err, service.ErrBadDate):
		return "Malformed due date"
	case errors.Is(err, service.ErrUnauthorized):
		return "You do not own this list"
	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this reminder"
	case errors.Is(err, service.ErrNotFound):
		return "Not found"
	default:
		return "An unexpected error occurred"
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, MapErrorToStatusCode(err), ErrorResponse{Error: safeErrorMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
