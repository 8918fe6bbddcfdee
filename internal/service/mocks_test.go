package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dkemp/drivelog/internal/domain"
	"github.com/dkemp/drivelog/internal/repo"
)

// Hand-written test doubles for the repo interfaces, shared by every test
// file in this package. Each method is a function field — set only the ones
// your test needs. This is idiomatic Go: no mock generation library required
// for simple cases.

// mockVehicleRepo is a test double for repo.VehicleRepo.
type mockVehicleRepo struct {
	create          func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	list            func(ctx context.Context) ([]domain.Vehicle, error)
	delete          func(ctx context.Context, id uuid.UUID) error
	advanceOdometer func(ctx context.Context, id uuid.UUID, reading float64, date time.Time) error
}

func (m *mockVehicleRepo) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.create(ctx, v)
}
func (m *mockVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByID(ctx, id)
}
func (m *mockVehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	return m.list(ctx)
}
func (m *mockVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockVehicleRepo) AdvanceOdometer(ctx context.Context, id uuid.UUID, reading float64, date time.Time) error {
	return m.advanceOdometer(ctx, id, reading, date)
}

// compile-time check: mockVehicleRepo must satisfy repo.VehicleRepo.
var _ repo.VehicleRepo = (*mockVehicleRepo)(nil)

// mockTripRepo is a test double for repo.TripRepo.
type mockTripRepo struct {
	create             func(ctx context.Context, t domain.Trip) (domain.Trip, error)
	getByID            func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listByVehicle      func(ctx context.Context, vehicleID uuid.UUID) ([]domain.Trip, error)
	listByVehiclePaged func(ctx context.Context, vehicleID uuid.UUID, page domain.ListPage) ([]domain.Trip, int64, error)
	listInRange        func(ctx context.Context, vehicleID uuid.UUID, from, to time.Time) ([]domain.Trip, error)
	update             func(ctx context.Context, t domain.Trip) (domain.Trip, error)
	delete             func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Trip, error) {
	return m.listByVehicle(ctx, vehicleID)
}
func (m *mockTripRepo) ListByVehiclePaged(ctx context.Context, vehicleID uuid.UUID, page domain.ListPage) ([]domain.Trip, int64, error) {
	return m.listByVehiclePaged(ctx, vehicleID, page)
}
func (m *mockTripRepo) ListInRange(ctx context.Context, vehicleID uuid.UUID, from, to time.Time) ([]domain.Trip, error) {
	return m.listInRange(ctx, vehicleID, from, to)
}
func (m *mockTripRepo) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, t)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// mockLogbookRepo is a test double for repo.LogbookRepo.
type mockLogbookRepo struct {
	startPeriod     func(ctx context.Context, vehicleID uuid.UUID, startDate time.Time) (domain.LogbookPeriod, error)
	activeByVehicle func(ctx context.Context, vehicleID uuid.UUID) (domain.LogbookPeriod, error)
	listByVehicle   func(ctx context.Context, vehicleID uuid.UUID) ([]domain.LogbookPeriod, error)
}

func (m *mockLogbookRepo) StartPeriod(ctx context.Context, vehicleID uuid.UUID, startDate time.Time) (domain.LogbookPeriod, error) {
	return m.startPeriod(ctx, vehicleID, startDate)
}
func (m *mockLogbookRepo) ActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (domain.LogbookPeriod, error) {
	return m.activeByVehicle(ctx, vehicleID)
}
func (m *mockLogbookRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.LogbookPeriod, error) {
	return m.listByVehicle(ctx, vehicleID)
}

// compile-time check: mockLogbookRepo must satisfy repo.LogbookRepo.
var _ repo.LogbookRepo = (*mockLogbookRepo)(nil)

// ---- shared fixtures ---------------------------------------------------

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func vehicleFixture() domain.Vehicle {
	return domain.Vehicle{
		ID:           uuid.New(),
		Name:         "Family Car",
		Registration: "ABC-123",
		Make:         "Toyota",
		Model:        "Corolla",
		Year:         2020,
		OdometerKM:   10000,
		OdometerDate: date(2025, 6, 1),
	}
}

func validTrip(vehicleID uuid.UUID) domain.Trip {
	return domain.Trip{
		VehicleID:     vehicleID,
		Date:          date(2025, 6, 2),
		StartTime:     "09:00",
		EndTime:       "09:45",
		StartOdometer: 10000,
		EndOdometer:   10042,
		Type:          domain.TripBusiness,
		Purpose:       "Client visit",
		Method:        domain.MethodManual,
	}
}

// vehicleRepoFor returns a mock that knows exactly one vehicle and records
// odometer advances into *advanced (when non-nil).
func vehicleRepoFor(v domain.Vehicle, advanced *[]float64) *mockVehicleRepo {
	return &mockVehicleRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Vehicle, error) {
			if id != v.ID {
				return domain.Vehicle{}, domain.ErrNotFound
			}
			return v, nil
		},
		advanceOdometer: func(_ context.Context, id uuid.UUID, reading float64, _ time.Time) error {
			if id != v.ID {
				return domain.ErrNotFound
			}
			if advanced != nil {
				*advanced = append(*advanced, reading)
			}
			return nil
		},
	}
}

// echoTripRepo echoes whatever it receives back — useful for Create/Update
// tests that only care about validation logic, not what the DB returns.
func echoTripRepo() *mockTripRepo {
	return &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (domain.Trip, error) {
			t.ID = uuid.New()
			return t, nil
		},
		update: func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
	}
}
