package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/dkemp/drivelog/internal/domain"
)

// createVehicleRequest is the JSON body of POST /vehicles.
type createVehicleRequest struct {
	Name         string             `json:"name"`
	Registration string             `json:"registration"`
	Make         string             `json:"make"`
	Model        string             `json:"model"`
	Year         int                `json:"year"`
	OdometerKM   float64            `json:"odometer_km"`
	OdometerDate openapi_types.Date `json:"odometer_date"`
}

// vehicleResponse is the JSON representation of a vehicle.
type vehicleResponse struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	Registration  string             `json:"registration"`
	Make          string             `json:"make,omitempty"`
	Model         string             `json:"model,omitempty"`
	Year          int                `json:"year,omitempty"`
	OdometerKM    float64            `json:"odometer_km"`
	OdometerDate  openapi_types.Date `json:"odometer_date"`
	LogbookActive bool               `json:"logbook_active"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// statsResponse is the JSON representation of a vehicle's all-time stats.
type statsResponse struct {
	TotalTrips         int     `json:"total_trips"`
	TotalDistance      float64 `json:"total_distance_km"`
	BusinessDistance   float64 `json:"business_distance_km"`
	BusinessPercentage float64 `json:"business_percentage"`
}

// CreateVehicle handles POST /vehicles.
func (s *Server) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req createVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "request body is required")
		return
	}

	created, err := s.vehicles.Create(r.Context(), domain.Vehicle{
		Name:         req.Name,
		Registration: req.Registration,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		OdometerKM:   req.OdometerKM,
		OdometerDate: req.OdometerDate.Time,
	})
	if err != nil {
		respondServiceError(w, r, err, "vehicle not found")
		return
	}

	respondJSON(w, http.StatusCreated, vehicleToResponse(created))
}

// ListVehicles handles GET /vehicles.
func (s *Server) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.vehicles.List(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "vehicle not found")
		return
	}

	data := make([]vehicleResponse, len(vehicles))
	for i, v := range vehicles {
		data[i] = vehicleToResponse(v)
	}
	respondJSON(w, http.StatusOK, data)
}

// GetVehicle handles GET /vehicles/{id}.
func (s *Server) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	vehicle, err := s.vehicles.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "vehicle not found")
		return
	}

	respondJSON(w, http.StatusOK, vehicleToResponse(vehicle))
}

// DeleteVehicle handles DELETE /vehicles/{id}.
// Deleting a vehicle removes its trips and logbook periods with it.
func (s *Server) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.vehicles.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err, "vehicle not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SelectVehicle handles PUT /vehicles/{id}/select.
// It sets the active-vehicle pointer consumed by export and tracking.
func (s *Server) SelectVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.tracking.SelectVehicle(r.Context(), id); err != nil {
		respondServiceError(w, r, err, "vehicle not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetVehicleStats handles GET /vehicles/{id}/stats.
// The statistics cover every trip the vehicle has recorded, not just those
// inside the current logbook period.
func (s *Server) GetVehicleStats(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	stats, err := s.vehicles.Stats(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "vehicle not found")
		return
	}

	respondJSON(w, http.StatusOK, statsToResponse(stats))
}

// --- mapping helpers --------------------------------------------------------

// pathUUID parses the named chi URL parameter as a UUID, writing a 404 when
// it is malformed (an unparseable ID can never name an existing resource).
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "resource not found")
		return uuid.Nil, false
	}
	return id, true
}

func vehicleToResponse(v domain.Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:            v.ID,
		Name:          v.Name,
		Registration:  v.Registration,
		Make:          v.Make,
		Model:         v.Model,
		Year:          v.Year,
		OdometerKM:    v.OdometerKM,
		OdometerDate:  openapi_types.Date{Time: v.OdometerDate},
		LogbookActive: v.LogbookActive,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func statsToResponse(s domain.VehicleStats) statsResponse {
	return statsResponse{
		TotalTrips:         s.TotalTrips,
		TotalDistance:      s.TotalDistance,
		BusinessDistance:   s.BusinessDistance,
		BusinessPercentage: s.BusinessPercentage,
	}
}
