package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dkemp/drivelog/internal/domain"
	"github.com/dkemp/drivelog/internal/repo"
)

// TripCreator is the single operation the tracking slot needs from the trip
// side: turning a finished session into a persisted trip. *TripService
// satisfies it; tests substitute a mock.
type TripCreator interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

// TrackingService owns the process-wide session context: the live tracking
// slot and the active-vehicle pointer. Both are deliberately in-memory —
// a session is never persisted as a trip until it is finalized.
//
// The mutex makes state transitions deterministic under a concurrent HTTP
// server: a second Start while one session is live fails with
// domain.ErrSessionConflict instead of silently replacing the session (which
// would lose the original start instant and odometer anchor).
type TrackingService struct {
	vehicles repo.VehicleRepo
	trips    TripCreator
	now      func() time.Time

	mu            sync.Mutex
	session       *domain.TrackingSession
	activeVehicle uuid.UUID // uuid.Nil when nothing selected
}

// NewTrackingService constructs a TrackingService.
// A nil clock defaults to time.Now; tests inject a fixed one.
func NewTrackingService(vehicles repo.VehicleRepo, trips TripCreator, now func() time.Time) *TrackingService {
	if now == nil {
		now = time.Now
	}
	return &TrackingService{vehicles: vehicles, trips: trips, now: now}
}

// Start transitions Idle → Tracking.
//
// Returns domain.ErrSessionConflict if a session is already live (the live
// session is left untouched), domain.ErrNotFound for an unknown vehicle, or
// domain.ValidationErrors for bad input.
func (s *TrackingService) Start(ctx context.Context, p domain.TrackingStart) (domain.TrackingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		return domain.TrackingSession{}, fmt.Errorf(
			"service.TrackingService.Start: %w: a session is already being tracked", domain.ErrSessionConflict)
	}

	var errs domain.ValidationErrors
	if !p.Type.Valid() {
		errs = append(errs, "type must be business or personal")
	}
	if p.Type == domain.TripBusiness && strings.TrimSpace(p.Purpose) == "" {
		errs = append(errs, "purpose is required for business trips")
	}
	if p.StartOdometer != nil && *p.StartOdometer < 0 {
		errs = append(errs, "start odometer must not be negative")
	}
	if len(errs) > 0 {
		return domain.TrackingSession{}, errs
	}

	vehicle, err := s.vehicles.GetByID(ctx, p.VehicleID)
	if err != nil {
		return domain.TrackingSession{}, fmt.Errorf("service.TrackingService.Start: %w", err)
	}

	startOdo := vehicle.OdometerKM
	if p.StartOdometer != nil {
		startOdo = *p.StartOdometer
	}

	s.session = &domain.TrackingSession{
		VehicleID:     p.VehicleID,
		Type:          p.Type,
		Purpose:       p.Purpose,
		StartOdometer: startOdo,
		StartedAt:     s.now(),
	}
	return *s.session, nil
}

// Stop transitions Tracking → Idle by finalizing the session into a trip
// with tracking method "gps", persisting it, and advancing the vehicle's
// odometer (both via the TripCreator).
//
// On any failure the session is kept so the caller can retry with a
// corrected end odometer: domain.ValidationErrors when endOdometer is below
// the session's start, domain.ErrSessionConflict when nothing is tracking.
func (s *TrackingService) Stop(ctx context.Context, endOdometer float64) (domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return domain.Trip{}, fmt.Errorf(
			"service.TrackingService.Stop: %w: no session is being tracked", domain.ErrSessionConflict)
	}
	if endOdometer < s.session.StartOdometer {
		return domain.Trip{}, domain.ValidationErrors{
			"end odometer must not be less than start odometer",
		}
	}

	// Date and both wall-clock labels derive from the same zone, otherwise a
	// session spanning midnight could record a date that disagrees with its
	// own start time.
	started := s.session.StartedAt.UTC()
	ended := s.now().UTC()
	trip := domain.Trip{
		VehicleID:     s.session.VehicleID,
		Date:          time.Date(started.Year(), started.Month(), started.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:     started.Format("15:04"),
		EndTime:       ended.Format("15:04"),
		StartOdometer: s.session.StartOdometer,
		EndOdometer:   endOdometer,
		Type:          s.session.Type,
		Purpose:       s.session.Purpose,
		Method:        domain.MethodGPS,
	}

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		// Session survives so a corrected Stop can still succeed.
		return domain.Trip{}, fmt.Errorf("service.TrackingService.Stop: %w", err)
	}

	s.session = nil
	return created, nil
}

// Cancel discards the live session unconditionally without persisting
// anything. Calling it while idle is a no-op.
func (s *TrackingService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
}

// Status returns the read-only view of the tracking slot. Elapsed time is
// derived from the session's start instant and the injected clock; the
// service holds no timer of its own.
func (s *TrackingService) Status() domain.TrackingStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return domain.TrackingStatus{}
	}
	session := *s.session
	return domain.TrackingStatus{
		Tracking:       true,
		Session:        &session,
		ElapsedSeconds: int64(session.Elapsed(s.now()).Seconds()),
	}
}

// SelectVehicle sets the active-vehicle pointer consumed by export and other
// selection-scoped reads. Returns domain.ErrNotFound for an unknown vehicle.
func (s *TrackingService) SelectVehicle(ctx context.Context, id uuid.UUID) error {
	if _, err := s.vehicles.GetByID(ctx, id); err != nil {
		return fmt.Errorf("service.TrackingService.SelectVehicle: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeVehicle = id
	return nil
}

// ActiveVehicle returns the currently selected vehicle.
// Returns domain.ErrNoActiveVehicle when nothing has been selected.
func (s *TrackingService) ActiveVehicle(ctx context.Context) (domain.Vehicle, error) {
	s.mu.Lock()
	id := s.activeVehicle
	s.mu.Unlock()

	if id == uuid.Nil {
		return domain.Vehicle{}, fmt.Errorf("service.TrackingService.ActiveVehicle: %w", domain.ErrNoActiveVehicle)
	}
	vehicle, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.TrackingService.ActiveVehicle: %w", err)
	}
	return vehicle, nil
}
