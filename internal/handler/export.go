package handler

import (
	"net/http"

	"github.com/dkemp/drivelog/internal/domain"
)

// exportResponse is the JSON body of GET /export: the full bundle handed to
// the download and to the external report generator.
// Period and Compliance are omitted when the vehicle has no active logbook
// period.
type exportResponse struct {
	Vehicle    vehicleResponse     `json:"vehicle"`
	Trips      []tripResponse      `json:"trips"`
	Period     *periodResponse     `json:"period,omitempty"`
	Weeks      []weekResponse      `json:"weeks"`
	Compliance *complianceResponse `json:"compliance,omitempty"`
	Stats      statsResponse       `json:"stats"`
}

// GetExport handles GET /export for the selected vehicle.
// Use ?format=csv to receive the trip history as CSV; default is the full
// JSON bundle. Responds 409 when no vehicle is selected.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "csv" {
		csvBody, err := s.export.CSV(r.Context())
		if err != nil {
			respondServiceError(w, r, err, "vehicle not found")
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="trips.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(csvBody))
		return
	}

	bundle, err := s.export.Bundle(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "vehicle not found")
		return
	}
	respondJSON(w, http.StatusOK, bundleToResponse(bundle))
}

func bundleToResponse(b domain.ExportBundle) exportResponse {
	resp := exportResponse{
		Vehicle: vehicleToResponse(b.Vehicle),
		Trips:   tripsToResponses(b.Trips),
		Weeks:   make([]weekResponse, len(b.Weeks)),
		Stats:   statsToResponse(b.Stats),
	}
	for i, wk := range b.Weeks {
		resp.Weeks[i] = weekToResponse(wk)
	}
	if b.Period != nil {
		p := periodToResponse(*b.Period)
		resp.Period = &p
	}
	if b.Compliance != nil {
		c := complianceToResponse(*b.Compliance)
		resp.Compliance = &c
	}
	return resp
}
