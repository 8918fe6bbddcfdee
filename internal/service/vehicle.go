// Package service contains the business logic for the drivelog engine.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
//
// Validation failures are expected user-input conditions and come back as
// domain.ValidationErrors carrying every violation at once; nothing in this
// package panics or aborts for bad form input.
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

// VehicleService implements business logic for Vehicle operations.
type VehicleService struct {
	vehicles repo.VehicleRepo
	trips    repo.TripRepo
}

// NewVehicleService constructs a VehicleService backed by the provided repos.
// The trip repo is needed for the all-time statistics read.
func NewVehicleService(vehicles repo.VehicleRepo, trips repo.TripRepo) *VehicleService {
	return &VehicleService{vehicles: vehicles, trips: trips}
}

// Create validates and persists a new vehicle.
// Returns domain.ValidationErrors listing every violated rule.
func (s *VehicleService) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	if err := validateVehicle(v); err != nil {
		return domain.Vehicle{}, err
	}
	created, err := s.vehicles.Create(ctx, v)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single vehicle by ID.
// Returns domain.ErrNotFound if it does not exist.
func (s *VehicleService) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.GetByID: %w", err)
	}
	return v, nil
}

// List returns all vehicles ordered by name.
// Always returns a non-nil slice so callers can safely range over it.
func (s *VehicleService) List(ctx context.Context) ([]domain.Vehicle, error) {
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.VehicleService.List: %w", err)
	}
	if vehicles == nil {
		return []domain.Vehicle{}, nil
	}
	return vehicles, nil
}

// Delete removes a vehicle. Its trips and logbook periods are removed with
// it (cascading delete) — a single-user logbook has no way to re-home
// orphaned trips, so keeping them would only strand data.
func (s *VehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.vehicles.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.VehicleService.Delete: %w", err)
	}
	return nil
}

// Stats aggregates all trips the vehicle has ever recorded, regardless of
// any logbook period. Returns domain.ErrNotFound for an unknown vehicle.
func (s *VehicleService) Stats(ctx context.Context, id uuid.UUID) (domain.VehicleStats, error) {
	if _, err := s.vehicles.GetByID(ctx, id); err != nil {
		return domain.VehicleStats{}, fmt.Errorf("service.VehicleService.Stats: %w", err)
	}
	trips, err := s.trips.ListByVehicle(ctx, id)
	if err != nil {
		return domain.VehicleStats{}, fmt.Errorf("service.VehicleService.Stats: %w", err)
	}
	return domain.ComputeVehicleStats(trips), nil
}

// validateVehicle enforces the creation rules.
//   - Name and Registration must be non-empty (whitespace-only is rejected).
//   - Year, when given, must be plausible.
//   - The odometer reading must not be negative and needs a reading date.
func validateVehicle(v domain.Vehicle) error {
	var errs domain.ValidationErrors
	if strings.TrimSpace(v.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(v.Registration) == "" {
		errs = append(errs, "registration is required")
	}
	if v.Year != 0 && (v.Year < 1900 || v.Year > time.Now().Year()+1) {
		errs = append(errs, "year is out of range")
	}
	if v.OdometerKM < 0 {
		errs = append(errs, "odometer reading must not be negative")
	}
	if v.OdometerDate.IsZero() {
		errs = append(errs, "odometer date is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
