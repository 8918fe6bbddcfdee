package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkemp/drivelog/internal/domain"
	"github.com/dkemp/drivelog/internal/repo"
)

// LogbookService orchestrates logbook periods and their evaluation.
// The weekly aggregation and compliance math are pure functions in domain;
// this service only loads their inputs and never caches their outputs, so
// the time-dependent expiry rule is re-evaluated on every read.
type LogbookService struct {
	periods  repo.LogbookRepo
	trips    repo.TripRepo
	vehicles repo.VehicleRepo
	now      func() time.Time
}

// NewLogbookService constructs a LogbookService backed by the provided repos.
// A nil clock defaults to time.Now; tests inject a fixed one.
func NewLogbookService(periods repo.LogbookRepo, trips repo.TripRepo, vehicles repo.VehicleRepo, now func() time.Time) *LogbookService {
	if now == nil {
		now = time.Now
	}
	return &LogbookService{periods: periods, trips: trips, vehicles: vehicles, now: now}
}

// StartPeriod begins a new logbook period for the vehicle. Any period that
// is still active is archived (status flips to expired) in the same
// statement — histories are never merged.
//
// Returns domain.ErrNotFound for an unknown vehicle or
// domain.ValidationErrors when startDate is missing.
func (s *LogbookService) StartPeriod(ctx context.Context, vehicleID uuid.UUID, startDate time.Time) (domain.LogbookPeriod, error) {
	if startDate.IsZero() {
		return domain.LogbookPeriod{}, domain.ValidationErrors{"start date is required"}
	}
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return domain.LogbookPeriod{}, fmt.Errorf("service.LogbookService.StartPeriod: %w", err)
	}
	period, err := s.periods.StartPeriod(ctx, vehicleID, startDate)
	if err != nil {
		return domain.LogbookPeriod{}, fmt.Errorf("service.LogbookService.StartPeriod: %w", err)
	}
	return period, nil
}

// ActivePeriod returns the vehicle's active logbook period.
// Returns domain.ErrNotFound for an unknown vehicle and
// domain.ErrNoActivePeriod when the vehicle exists but has no active period.
func (s *LogbookService) ActivePeriod(ctx context.Context, vehicleID uuid.UUID) (domain.LogbookPeriod, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return domain.LogbookPeriod{}, fmt.Errorf("service.LogbookService.ActivePeriod: %w", err)
	}
	period, err := s.periods.ActiveByVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.LogbookPeriod{}, fmt.Errorf("service.LogbookService.ActivePeriod: %w", domain.ErrNoActivePeriod)
		}
		return domain.LogbookPeriod{}, fmt.Errorf("service.LogbookService.ActivePeriod: %w", err)
	}
	return period, nil
}

// Report evaluates the vehicle's active period: the weekly ledger plus the
// compliance verdict as of the service clock.
func (s *LogbookService) Report(ctx context.Context, vehicleID uuid.UUID) (domain.LogbookReport, error) {
	period, err := s.ActivePeriod(ctx, vehicleID)
	if err != nil {
		return domain.LogbookReport{}, err
	}

	trips, err := s.trips.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return domain.LogbookReport{}, fmt.Errorf("service.LogbookService.Report: %w", err)
	}

	weeks := domain.ComputeWeeklySummaries(trips, period)
	return domain.LogbookReport{
		Period:     period,
		Weeks:      weeks,
		Compliance: domain.ComputeCompliance(period, weeks, s.now()),
	}, nil
}

// History returns every logbook period the vehicle has had, newest first,
// archived ones included.
func (s *LogbookService) History(ctx context.Context, vehicleID uuid.UUID) ([]domain.LogbookPeriod, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return nil, fmt.Errorf("service.LogbookService.History: %w", err)
	}
	periods, err := s.periods.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("service.LogbookService.History: %w", err)
	}
	if periods == nil {
		return []domain.LogbookPeriod{}, nil
	}
	return periods, nil
}
