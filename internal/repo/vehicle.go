// Package repo contains all database access logic for the drivelog engine.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dkemp/drivelog/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and
// pgx.Tx. Accepting this interface instead of *pgxpool.Pool directly allows
// integration tests to pass a transaction that is rolled back after each
// test, giving free per-test isolation without any manual cleanup.
// Begin on a pgx.Tx opens a savepoint, so multi-statement repo operations
// work under test transactions too.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// VehicleRepo defines the persistence operations for Vehicles.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type VehicleRepo interface {
	// Create inserts a new vehicle and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)

	// GetByID retrieves a single vehicle by its UUID primary key.
	// Returns domain.ErrNotFound if no vehicle with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)

	// List returns all vehicles ordered by name ascending.
	List(ctx context.Context) ([]domain.Vehicle, error)

	// Delete removes a vehicle by ID. Trips and logbook periods referencing
	// it are removed by the schema's ON DELETE CASCADE.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AdvanceOdometer raises the vehicle's odometer to reading if reading is
	// higher than the stored value; lower readings leave it untouched, so
	// the column is monotonically non-decreasing. The odometer date is
	// updated only when the reading actually advances.
	// Returns domain.ErrNotFound if the vehicle does not exist.
	AdvanceOdometer(ctx context.Context, id uuid.UUID, reading float64, date time.Time) error
}

// pgVehicleRepo is the Postgres implementation of VehicleRepo.
type pgVehicleRepo struct {
	db db
}

// NewVehicleRepo constructs a VehicleRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewVehicleRepo(db db) VehicleRepo {
	return &pgVehicleRepo{db: db}
}

// vehicleColumns lists the scan order shared by every vehicle query.
// logbook_active is derived with an EXISTS subquery rather than stored.
const vehicleColumns = `
	v.id, v.name, v.registration, v.make, v.model, v.year,
	v.odometer_km, v.odometer_date, v.created_at, v.updated_at,
	EXISTS (
		SELECT 1 FROM logbook_periods p
		WHERE p.vehicle_id = v.id AND p.status = 'active'
	) AS logbook_active`

func (r *pgVehicleRepo) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	const q = `
		WITH inserted AS (
			INSERT INTO vehicles (name, registration, make, model, year, odometer_km, odometer_date)
			VALUES (@name, @registration, @make, @model, @year, @odometer_km, @odometer_date)
			RETURNING *
		)
		SELECT ` + vehicleColumns + ` FROM inserted v`

	args := pgx.NamedArgs{
		"name":          v.Name,
		"registration":  v.Registration,
		"make":          v.Make,
		"model":         v.Model,
		"year":          v.Year,
		"odometer_km":   v.OdometerKM,
		"odometer_date": v.OdometerDate,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanVehicle(row)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles v WHERE v.id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanVehicle(row)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgVehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles v ORDER BY v.name ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.List: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.VehicleRepo.List: scan: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.List: rows: %w", err)
	}

	return vehicles, nil
}

func (r *pgVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM vehicles WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.VehicleRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.VehicleRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgVehicleRepo) AdvanceOdometer(ctx context.Context, id uuid.UUID, reading float64, date time.Time) error {
	// GREATEST keeps the column monotonic without a read-modify-write cycle.
	const q = `
		UPDATE vehicles
		SET odometer_km   = GREATEST(odometer_km, @reading),
		    odometer_date = CASE WHEN @reading > odometer_km THEN @date ELSE odometer_date END,
		    updated_at    = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "reading": reading, "date": date})
	if err != nil {
		return fmt.Errorf("repo.VehicleRepo.AdvanceOdometer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.VehicleRepo.AdvanceOdometer: %w", domain.ErrNotFound)
	}
	return nil
}

// scanVehicle maps a single database row into a domain.Vehicle.
func scanVehicle(s scanner) (domain.Vehicle, error) {
	var (
		v    domain.Vehicle
		id   pgtype.UUID
		date pgtype.Date
	)

	err := s.Scan(&id, &v.Name, &v.Registration, &v.Make, &v.Model, &v.Year,
		&v.OdometerKM, &date, &v.CreatedAt, &v.UpdatedAt, &v.LogbookActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vehicle{}, domain.ErrNotFound
		}
		return domain.Vehicle{}, err
	}

	v.ID = uuid.UUID(id.Bytes)
	v.OdometerDate = date.Time
	return v, nil
}
