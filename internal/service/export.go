package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dkemp/drivelog/internal/domain"
	"github.com/dkemp/drivelog/internal/repo"
)

// ActiveVehicleSource yields the vehicle the user has selected.
// *TrackingService satisfies it; tests substitute a mock.
type ActiveVehicleSource interface {
	ActiveVehicle(ctx context.Context) (domain.Vehicle, error)
}

// ExportService assembles read-only exports of the selected vehicle's data.
// It never mutates anything.
type ExportService struct {
	selection ActiveVehicleSource
	trips     repo.TripRepo
	periods   repo.LogbookRepo
	now       func() time.Time
}

// NewExportService constructs an ExportService.
// A nil clock defaults to time.Now; tests inject a fixed one.
func NewExportService(selection ActiveVehicleSource, trips repo.TripRepo, periods repo.LogbookRepo, now func() time.Time) *ExportService {
	if now == nil {
		now = time.Now
	}
	return &ExportService{selection: selection, trips: trips, periods: periods, now: now}
}

// Bundle combines the selected vehicle, its trips, the weekly ledger, the
// compliance verdict, and the all-time stats into one structure for the
// JSON download and the external report generator.
//
// Returns domain.ErrNoActiveVehicle when nothing is selected. A vehicle
// without an active logbook period exports with nil Period/Compliance and
// an empty week list rather than fabricated values.
func (s *ExportService) Bundle(ctx context.Context) (domain.ExportBundle, error) {
	vehicle, err := s.selection.ActiveVehicle(ctx)
	if err != nil {
		return domain.ExportBundle{}, fmt.Errorf("service.ExportService.Bundle: %w", err)
	}

	trips, err := s.trips.ListByVehicle(ctx, vehicle.ID)
	if err != nil {
		return domain.ExportBundle{}, fmt.Errorf("service.ExportService.Bundle: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}

	bundle := domain.ExportBundle{
		Vehicle: vehicle,
		Trips:   trips,
		Weeks:   []domain.WeeklySummary{},
		Stats:   domain.ComputeVehicleStats(trips),
	}

	period, err := s.periods.ActiveByVehicle(ctx, vehicle.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// No active period: export the raw data without a ledger.
	case err != nil:
		return domain.ExportBundle{}, fmt.Errorf("service.ExportService.Bundle: %w", err)
	default:
		weeks := domain.ComputeWeeklySummaries(trips, period)
		compliance := domain.ComputeCompliance(period, weeks, s.now())
		bundle.Period = &period
		bundle.Weeks = weeks
		bundle.Compliance = &compliance
	}

	return bundle, nil
}

// CSV renders the selected vehicle's full trip history as a UTF-8 CSV string.
// Returns domain.ErrNoActiveVehicle when nothing is selected.
func (s *ExportService) CSV(ctx context.Context) (string, error) {
	vehicle, err := s.selection.ActiveVehicle(ctx)
	if err != nil {
		return "", fmt.Errorf("service.ExportService.CSV: %w", err)
	}
	trips, err := s.trips.ListByVehicle(ctx, vehicle.ID)
	if err != nil {
		return "", fmt.Errorf("service.ExportService.CSV: %w", err)
	}
	return TripsCSV(trips), nil
}

// csvHeader defines the stable column order of every trip CSV export.
var csvHeader = []string{
	"date", "start_time", "end_time", "type", "purpose",
	"start_location", "end_location", "distance", "tracking_method",
}

// TripsCSV encodes trips as CSV with a header row. encoding/csv quotes any
// field containing the delimiter, quotes, or line breaks, so free-text
// purpose and location values are safe.
func TripsCSV(trips []domain.Trip) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// Writes to a bytes.Buffer never fail, so the csv.Writer errors are
	// surfaced by Flush and ignored here.
	w.Write(csvHeader)
	for _, t := range trips {
		w.Write([]string{
			t.Date.Format("2006-01-02"),
			t.StartTime,
			t.EndTime,
			string(t.Type),
			t.Purpose,
			t.StartLocation,
			t.EndLocation,
			strconv.FormatFloat(t.Distance(), 'f', -1, 64),
			string(t.Method),
		})
	}
	w.Flush()

	return buf.String()
}
