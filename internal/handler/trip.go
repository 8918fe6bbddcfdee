package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/dkemp/drivelog/internal/domain"
)

// tripRequest is the JSON body of POST /trips and PUT /trips/{id}.
type tripRequest struct {
	VehicleID     uuid.UUID          `json:"vehicle_id"`
	Date          openapi_types.Date `json:"date"`
	StartTime     string             `json:"start_time"`
	EndTime       string             `json:"end_time"`
	StartOdometer float64            `json:"start_odometer_km"`
	EndOdometer   float64            `json:"end_odometer_km"`
	Type          string             `json:"type"`
	Purpose       string             `json:"purpose"`
	StartLocation string             `json:"start_location"`
	EndLocation   string             `json:"end_location"`
	Method        string             `json:"tracking_method"`
}

// tripResponse is the JSON representation of a trip.
// DistanceKM is derived from the odometer pair, never stored.
type tripResponse struct {
	ID            uuid.UUID          `json:"id"`
	VehicleID     uuid.UUID          `json:"vehicle_id"`
	Date          openapi_types.Date `json:"date"`
	StartTime     string             `json:"start_time,omitempty"`
	EndTime       string             `json:"end_time,omitempty"`
	StartOdometer float64            `json:"start_odometer_km"`
	EndOdometer   float64            `json:"end_odometer_km"`
	DistanceKM    float64            `json:"distance_km"`
	Type          string             `json:"type"`
	Purpose       string             `json:"purpose,omitempty"`
	StartLocation string             `json:"start_location,omitempty"`
	EndLocation   string             `json:"end_location,omitempty"`
	Method        string             `json:"tracking_method"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// tripListResponse is the paged envelope of GET /trips.
type tripListResponse struct {
	Data []tripResponse `json:"data"`
	Page int            `json:"page"`
	Size int            `json:"size"`
	// Total is the number of trips the vehicle has across all pages.
	Total int64 `json:"total"`
}

// CreateTrip handles POST /trips (manual entry).
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "request body is required")
		return
	}

	created, err := s.trips.Create(r.Context(), requestToTrip(uuid.Nil, req))
	if err != nil {
		respondServiceError(w, r, err, "vehicle not found")
		return
	}

	respondJSON(w, http.StatusCreated, tripToResponse(created))
}

// UpdateTrip handles PUT /trips/{id}. All trip invariants are re-validated.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "request body is required")
		return
	}

	updated, err := s.trips.Update(r.Context(), requestToTrip(id, req))
	if err != nil {
		respondServiceError(w, r, err, "trip not found")
		return
	}

	respondJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{id}.
// The vehicle's odometer keeps its reading: it reflects the last known
// physical state of the car, not a replay of recorded history.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err, "trip not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListTrips handles GET /trips?vehicle_id=...
// With from and to (inclusive/exclusive dates) it returns every trip in the
// range; otherwise it returns a page controlled by ?page= and ?size=.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := uuid.Parse(r.URL.Query().Get("vehicle_id"))
	if err != nil {
		respondBadRequest(w, "vehicle_id query parameter is required")
		return
	}

	fromStr, toStr := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if fromStr != "" || toStr != "" {
		from, err1 := time.Parse("2006-01-02", fromStr)
		to, err2 := time.Parse("2006-01-02", toStr)
		if err1 != nil || err2 != nil {
			respondBadRequest(w, "from and to must both be dates in YYYY-MM-DD form")
			return
		}

		trips, err := s.trips.ListInRange(r.Context(), vehicleID, from, to)
		if err != nil {
			respondServiceError(w, r, err, "vehicle not found")
			return
		}
		respondJSON(w, http.StatusOK, tripsToResponses(trips))
		return
	}

	page := domain.NewListPage(queryInt(r, "page"), queryInt(r, "size"))
	trips, total, err := s.trips.ListByVehiclePaged(r.Context(), vehicleID, page)
	if err != nil {
		respondServiceError(w, r, err, "vehicle not found")
		return
	}

	respondJSON(w, http.StatusOK, tripListResponse{
		Data:  tripsToResponses(trips),
		Page:  page.Page,
		Size:  page.Size,
		Total: total,
	})
}

// --- mapping helpers --------------------------------------------------------

// queryInt parses an optional integer query parameter, nil when absent or
// malformed (NewListPage applies the defaults).
func queryInt(r *http.Request, name string) *int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// requestToTrip converts a tripRequest into a domain.Trip, preserving the
// path ID on updates.
func requestToTrip(id uuid.UUID, req tripRequest) domain.Trip {
	return domain.Trip{
		ID:            id,
		VehicleID:     req.VehicleID,
		Date:          req.Date.Time,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		StartOdometer: req.StartOdometer,
		EndOdometer:   req.EndOdometer,
		Type:          domain.TripType(req.Type),
		Purpose:       req.Purpose,
		StartLocation: req.StartLocation,
		EndLocation:   req.EndLocation,
		Method:        domain.TrackingMethod(req.Method),
	}
}

// tripToResponse converts a domain.Trip into its JSON representation.
func tripToResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:            t.ID,
		VehicleID:     t.VehicleID,
		Date:          openapi_types.Date{Time: t.Date},
		StartTime:     t.StartTime,
		EndTime:       t.EndTime,
		StartOdometer: t.StartOdometer,
		EndOdometer:   t.EndOdometer,
		DistanceKM:    t.Distance(),
		Type:          string(t.Type),
		Purpose:       t.Purpose,
		StartLocation: t.StartLocation,
		EndLocation:   t.EndLocation,
		Method:        string(t.Method),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func tripsToResponses(trips []domain.Trip) []tripResponse {
	out := make([]tripResponse, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t)
	}
	return out
}
