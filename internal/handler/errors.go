package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dkemp/drivelog/internal/domain"
)

// errorDetail is the machine-readable error body shared by all endpoints.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse is the envelope for every non-2xx JSON response.
// Errors carries the full violation list for multi-message validation
// failures; single-message errors use Error.Message alone.
type errorResponse struct {
	Error  errorDetail `json:"error"`
	Errors []string    `json:"errors,omitempty"`
}

// respondJSON writes v as the JSON body with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// respondError writes a single-message error envelope.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// respondServiceError maps a service-layer error onto the HTTP surface.
// notFoundMsg names the resource that was being looked up, because the
// handler is the layer that knows.
//
// Every domain sentinel is an expected, recoverable condition; only errors
// outside the taxonomy become a 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  errorDetail{Code: "validation_error", Message: verrs[0]},
			Errors: verrs,
		})
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusUnprocessableEntity, "validation_error", messageAfter(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrSessionConflict):
		respondError(w, http.StatusConflict, "session_conflict", messageAfter(err, domain.ErrSessionConflict))
	case errors.Is(err, domain.ErrNoActiveVehicle):
		respondError(w, http.StatusConflict, "no_active_vehicle", "no vehicle is selected")
	case errors.Is(err, domain.ErrNoActivePeriod):
		respondError(w, http.StatusNotFound, "no_active_period", "vehicle has no active logbook period")
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", notFoundMsg)
	default:
		slog.ErrorContext(r.Context(), "handler error", "method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// respondBadRequest writes the envelope for a request rejected before
// reaching the service layer (missing or malformed body, bad parameters).
func respondBadRequest(w http.ResponseWriter, message string) {
	respondError(w, http.StatusUnprocessableEntity, "validation_error", message)
}

// messageAfter extracts the human-readable tail from a wrapped sentinel
// error, e.g. "service.TrackingService.Start: tracking session conflict:
// a session is already being tracked" → "a session is already being tracked".
// Falls back to the sentinel's own text when no tail was attached.
func messageAfter(err error, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}
