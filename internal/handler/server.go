// Package handler implements the HTTP handlers for the drivelog API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (vehicle.go, trip.go, tracking.go, ...) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dkemp/drivelog/internal/domain"
	"github.com/dkemp/drivelog/spec"
)

// VehicleServicer defines the business operations the vehicle handlers
// depend on. Defining the interface here (in the consumer package) follows
// the Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the database or service layer.
type VehicleServicer interface {
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	List(ctx context.Context) ([]domain.Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, id uuid.UUID) (domain.VehicleStats, error)
}

// TripServicer defines the business operations the trip handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByVehiclePaged(ctx context.Context, vehicleID uuid.UUID, page domain.ListPage) ([]domain.Trip, int64, error)
	ListInRange(ctx context.Context, vehicleID uuid.UUID, from, to time.Time) ([]domain.Trip, error)
}

// TrackingServicer defines the live tracking-session operations, plus the
// active-vehicle selection, which the tracking component owns.
type TrackingServicer interface {
	Start(ctx context.Context, p domain.TrackingStart) (domain.TrackingSession, error)
	Stop(ctx context.Context, endOdometer float64) (domain.Trip, error)
	Cancel()
	Status() domain.TrackingStatus
	SelectVehicle(ctx context.Context, id uuid.UUID) error
}

// LogbookServicer defines the logbook period operations.
type LogbookServicer interface {
	StartPeriod(ctx context.Context, vehicleID uuid.UUID, startDate time.Time) (domain.LogbookPeriod, error)
	Report(ctx context.Context, vehicleID uuid.UUID) (domain.LogbookReport, error)
	History(ctx context.Context, vehicleID uuid.UUID) ([]domain.LogbookPeriod, error)
}

// ExportServicer defines the read-only export operations.
type ExportServicer interface {
	Bundle(ctx context.Context) (domain.ExportBundle, error)
	CSV(ctx context.Context) (string, error)
}

// Server holds the handlers for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	vehicles VehicleServicer
	trips    TripServicer
	tracking TrackingServicer
	logbook  LogbookServicer
	export   ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(vehicles VehicleServicer, trips TripServicer, tracking TrackingServicer, logbook LogbookServicer, export ExportServicer) *Server {
	return &Server{
		vehicles: vehicles,
		trips:    trips,
		tracking: tracking,
		logbook:  logbook,
		export:   export,
	}
}

// Routes wires every endpoint onto a chi router. Mount the result at "/".
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/vehicles", func(r chi.Router) {
		r.Post("/", s.CreateVehicle)
		r.Get("/", s.ListVehicles)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetVehicle)
			r.Delete("/", s.DeleteVehicle)
			r.Put("/select", s.SelectVehicle)
			r.Get("/stats", s.GetVehicleStats)
			r.Post("/logbook", s.StartLogbookPeriod)
			r.Get("/logbook", s.GetLogbookReport)
			r.Get("/logbook/history", s.GetLogbookHistory)
		})
	})

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)
		r.Put("/{id}", s.UpdateTrip)
		r.Delete("/{id}", s.DeleteTrip)
	})

	r.Route("/tracking", func(r chi.Router) {
		r.Get("/", s.GetTrackingStatus)
		r.Post("/start", s.StartTracking)
		r.Post("/stop", s.StopTracking)
		r.Post("/cancel", s.CancelTracking)
	})

	r.Get("/export", s.GetExport)

	return r
}

// GetOpenAPI handles GET /openapi.yaml.
// Serving the embedded spec from the binary keeps it in sync with the code.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}
