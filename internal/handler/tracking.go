package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dkemp/drivelog/internal/domain"
)

// startTrackingRequest is the JSON body of POST /tracking/start.
// start_odometer_km is optional; omitted, the vehicle's current reading is
// used as the anchor.
type startTrackingRequest struct {
	VehicleID     uuid.UUID `json:"vehicle_id"`
	Type          string    `json:"type"`
	Purpose       string    `json:"purpose"`
	StartOdometer *float64  `json:"start_odometer_km"`
}

// stopTrackingRequest is the JSON body of POST /tracking/stop.
type stopTrackingRequest struct {
	EndOdometer float64 `json:"end_odometer_km"`
}

// sessionResponse is the JSON representation of a live tracking session.
type sessionResponse struct {
	VehicleID     uuid.UUID `json:"vehicle_id"`
	Type          string    `json:"type"`
	Purpose       string    `json:"purpose,omitempty"`
	StartOdometer float64   `json:"start_odometer_km"`
	StartedAt     time.Time `json:"started_at"`
}

// trackingStatusResponse is the JSON body of GET /tracking, consumed by the
// UI's display tick. ElapsedSeconds is derived server-side from the session
// start instant at read time; there is no timer behind it.
type trackingStatusResponse struct {
	Tracking       bool             `json:"tracking"`
	ElapsedSeconds int64            `json:"elapsed_seconds"`
	Session        *sessionResponse `json:"session,omitempty"`
}

// StartTracking handles POST /tracking/start (Idle → Tracking).
// Responds 409 when a session is already live; the live session is untouched.
func (s *Server) StartTracking(w http.ResponseWriter, r *http.Request) {
	var req startTrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "request body is required")
		return
	}

	session, err := s.tracking.Start(r.Context(), domain.TrackingStart{
		VehicleID:     req.VehicleID,
		Type:          domain.TripType(req.Type),
		Purpose:       req.Purpose,
		StartOdometer: req.StartOdometer,
	})
	if err != nil {
		respondServiceError(w, r, err, "vehicle not found")
		return
	}

	respondJSON(w, http.StatusCreated, sessionToResponse(session))
}

// StopTracking handles POST /tracking/stop (Tracking → Idle).
// On a validation failure (end odometer below the session's start) the
// session stays live so the caller can retry with a corrected reading;
// the 422 response signals exactly that.
func (s *Server) StopTracking(w http.ResponseWriter, r *http.Request) {
	var req stopTrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "request body is required")
		return
	}

	trip, err := s.tracking.Stop(r.Context(), req.EndOdometer)
	if err != nil {
		respondServiceError(w, r, err, "vehicle not found")
		return
	}

	respondJSON(w, http.StatusOK, tripToResponse(trip))
}

// CancelTracking handles POST /tracking/cancel.
// Discards the live session without saving anything; a no-op when idle.
func (s *Server) CancelTracking(w http.ResponseWriter, _ *http.Request) {
	s.tracking.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// GetTrackingStatus handles GET /tracking.
func (s *Server) GetTrackingStatus(w http.ResponseWriter, _ *http.Request) {
	status := s.tracking.Status()

	resp := trackingStatusResponse{
		Tracking:       status.Tracking,
		ElapsedSeconds: status.ElapsedSeconds,
	}
	if status.Session != nil {
		sess := sessionToResponse(*status.Session)
		resp.Session = &sess
	}
	respondJSON(w, http.StatusOK, resp)
}

func sessionToResponse(s domain.TrackingSession) sessionResponse {
	return sessionResponse{
		VehicleID:     s.VehicleID,
		Type:          string(s.Type),
		Purpose:       s.Purpose,
		StartOdometer: s.StartOdometer,
		StartedAt:     s.StartedAt,
	}
}
