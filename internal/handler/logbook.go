package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/dkemp/drivelog/internal/domain"
)

// startPeriodRequest is the JSON body of POST /vehicles/{id}/logbook.
type startPeriodRequest struct {
	StartDate openapi_types.Date `json:"start_date"`
}

// periodResponse is the JSON representation of a logbook period.
// ExpiryDate is derived (start + 5 years), included for display.
type periodResponse struct {
	ID         uuid.UUID          `json:"id"`
	VehicleID  uuid.UUID          `json:"vehicle_id"`
	StartDate  openapi_types.Date `json:"start_date"`
	ExpiryDate openapi_types.Date `json:"expiry_date"`
	Status     string             `json:"status"`
}

// weekResponse is the JSON representation of one week of the ledger.
type weekResponse struct {
	WeekIndex          int                `json:"week_index"`
	WeekStart          openapi_types.Date `json:"week_start"`
	WeekEnd            openapi_types.Date `json:"week_end"`
	TotalTrips         int                `json:"total_trips"`
	TotalDistance      float64            `json:"total_distance_km"`
	BusinessDistance   float64            `json:"business_distance_km"`
	BusinessPercentage float64            `json:"business_percentage"`
	Complete           bool               `json:"complete"`
}

// complianceResponse is the JSON representation of the compliance verdict.
type complianceResponse struct {
	Warnings        []string           `json:"warnings"`
	CanBeUsedForTax bool               `json:"can_be_used_for_tax"`
	ExpiryDate      openapi_types.Date `json:"expiry_date"`
}

// reportResponse is the JSON body of GET /vehicles/{id}/logbook.
type reportResponse struct {
	Period     periodResponse     `json:"period"`
	Weeks      []weekResponse     `json:"weeks"`
	Compliance complianceResponse `json:"compliance"`
}

// StartLogbookPeriod handles POST /vehicles/{id}/logbook.
// A period that is still active gets archived; the new one starts fresh.
func (s *Server) StartLogbookPeriod(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req startPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "request body is required")
		return
	}

	period, err := s.logbook.StartPeriod(r.Context(), id, req.StartDate.Time)
	if err != nil {
		respondServiceError(w, r, err, "vehicle not found")
		return
	}

	respondJSON(w, http.StatusCreated, periodToResponse(period))
}

// GetLogbookReport handles GET /vehicles/{id}/logbook.
// The weekly ledger and compliance verdict are recomputed on every call, so
// a period that passed its expiry date stops qualifying without any write.
func (s *Server) GetLogbookReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	report, err := s.logbook.Report(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "vehicle not found")
		return
	}

	weeks := make([]weekResponse, len(report.Weeks))
	for i, wk := range report.Weeks {
		weeks[i] = weekToResponse(wk)
	}
	respondJSON(w, http.StatusOK, reportResponse{
		Period:     periodToResponse(report.Period),
		Weeks:      weeks,
		Compliance: complianceToResponse(report.Compliance),
	})
}

// GetLogbookHistory handles GET /vehicles/{id}/logbook/history.
func (s *Server) GetLogbookHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	periods, err := s.logbook.History(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "vehicle not found")
		return
	}

	data := make([]periodResponse, len(periods))
	for i, p := range periods {
		data[i] = periodToResponse(p)
	}
	respondJSON(w, http.StatusOK, data)
}

// --- mapping helpers --------------------------------------------------------

func periodToResponse(p domain.LogbookPeriod) periodResponse {
	return periodResponse{
		ID:         p.ID,
		VehicleID:  p.VehicleID,
		StartDate:  openapi_types.Date{Time: p.StartDate},
		ExpiryDate: openapi_types.Date{Time: p.ExpiryDate()},
		Status:     string(p.Status),
	}
}

func weekToResponse(w domain.WeeklySummary) weekResponse {
	return weekResponse{
		WeekIndex:          w.WeekIndex,
		WeekStart:          openapi_types.Date{Time: w.WeekStart},
		WeekEnd:            openapi_types.Date{Time: w.WeekEnd},
		TotalTrips:         w.TotalTrips,
		TotalDistance:      w.TotalDistance,
		BusinessDistance:   w.BusinessDistance,
		BusinessPercentage: w.BusinessPercentage,
		Complete:           w.Complete,
	}
}

func complianceToResponse(c domain.ComplianceStatus) complianceResponse {
	return complianceResponse{
		Warnings:        c.Warnings,
		CanBeUsedForTax: c.CanBeUsedForTax,
		ExpiryDate:      openapi_types.Date{Time: c.ExpiryDate},
	}
}
