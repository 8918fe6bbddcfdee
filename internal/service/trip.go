package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dkemp/drivelog/internal/domain"
	"github.com/dkemp/drivelog/internal/repo"
)

// TripService implements business logic for Trip operations.
// It holds the vehicle repo as well because recording a trip advances the
// owning vehicle's odometer.
type TripService struct {
	trips    repo.TripRepo
	vehicles repo.VehicleRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, vehicles repo.VehicleRepo) *TripService {
	return &TripService{trips: trips, vehicles: vehicles}
}

// Create validates and persists a new trip, then advances the owning
// vehicle's odometer to the trip's end reading (monotonic: a lower reading
// leaves the vehicle untouched).
//
// Returns domain.ValidationErrors listing every violated rule, or
// domain.ErrNotFound if the vehicle does not exist. No trip is persisted in
// either case.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if trip.Method == "" {
		trip.Method = domain.MethodManual
	}
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	if _, err := s.vehicles.GetByID(ctx, trip.VehicleID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	if err := s.vehicles.AdvanceOdometer(ctx, created.VehicleID, created.EndOdometer, created.Date); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: advance odometer: %w", err)
	}
	return created, nil
}

// Update re-validates all invariants and overwrites an existing trip.
// The odometer advance applies here too: an edit raising the end reading
// above the vehicle's stored value advances it, a lower one does not.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if trip.Method == "" {
		trip.Method = domain.MethodManual
	}
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	if err := s.vehicles.AdvanceOdometer(ctx, updated.VehicleID, updated.EndOdometer, updated.Date); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: advance odometer: %w", err)
	}
	return updated, nil
}

// Delete removes a trip by ID. The vehicle's odometer is deliberately not
// rewound: the reading reflects the last known physical state of the car,
// not a replay of recorded history, so deleting a trip never changes it.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// ListByVehicle returns all trips of a vehicle in chronological order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Trip, error) {
	trips, err := s.trips.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListByVehicle: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListByVehiclePaged returns one page of a vehicle's trips plus the total count.
func (s *TripService) ListByVehiclePaged(ctx context.Context, vehicleID uuid.UUID, page domain.ListPage) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.ListByVehiclePaged(ctx, vehicleID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListByVehiclePaged: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// ListInRange returns a vehicle's trips with date in [from, to).
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListInRange(ctx context.Context, vehicleID uuid.UUID, from, to time.Time) ([]domain.Trip, error) {
	trips, err := s.trips.ListInRange(ctx, vehicleID, from, to)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListInRange: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// validateTrip enforces the invariants common to Create and Update.
// Every violation is collected so the caller sees the whole list at once.
func validateTrip(t domain.Trip) error {
	var errs domain.ValidationErrors
	if t.Date.IsZero() {
		errs = append(errs, "date is required")
	}
	if !t.Type.Valid() {
		errs = append(errs, "type must be business or personal")
	}
	if t.Type == domain.TripBusiness && strings.TrimSpace(t.Purpose) == "" {
		errs = append(errs, "purpose is required for business trips")
	}
	if t.StartOdometer < 0 {
		errs = append(errs, "start odometer must not be negative")
	}
	if t.EndOdometer < t.StartOdometer {
		errs = append(errs, "end odometer must not be less than start odometer")
	}
	if t.Method != domain.MethodManual && t.Method != domain.MethodGPS {
		errs = append(errs, "tracking method must be manual or gps")
	}
	if t.StartTime != "" && !validClock(t.StartTime) {
		errs = append(errs, "start time must be in HH:MM form")
	}
	if t.EndTime != "" && !validClock(t.EndTime) {
		errs = append(errs, "end time must be in HH:MM form")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validClock reports whether s is a wall-clock label like "09:30".
func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
