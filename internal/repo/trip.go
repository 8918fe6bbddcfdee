package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dkemp/drivelog/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// Distance is never stored — only the odometer pair — so the derived value
// can never drift from its inputs.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record.
	Create(ctx context.Context, t domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListByVehicle returns all trips of a vehicle ordered by date then
	// start_time ascending.
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Trip, error)

	// ListByVehiclePaged returns one page of a vehicle's trips (same order
	// as ListByVehicle) along with the total row count.
	ListByVehiclePaged(ctx context.Context, vehicleID uuid.UUID, page domain.ListPage) ([]domain.Trip, int64, error)

	// ListInRange returns a vehicle's trips with date in the half-open
	// interval [from, to), ordered by date then start_time ascending.
	ListInRange(ctx context.Context, vehicleID uuid.UUID, from, to time.Time) ([]domain.Trip, error)

	// Update overwrites the mutable fields of an existing trip and returns
	// the updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, t domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does
	// not exist. The owning vehicle's odometer is deliberately not touched.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `
	id, vehicle_id, date, start_time, end_time,
	start_odometer_km, end_odometer_km, type, purpose,
	start_location, end_location, tracking_method, created_at, updated_at`

func (r *pgTripRepo) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (vehicle_id, date, start_time, end_time,
		                   start_odometer_km, end_odometer_km, type, purpose,
		                   start_location, end_location, tracking_method)
		VALUES (@vehicle_id, @date, @start_time, @end_time,
		        @start_odometer_km, @end_odometer_km, @type, @purpose,
		        @start_location, @end_location, @tracking_method)
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, tripArgs(t))
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE vehicle_id = @vehicle_id
		ORDER BY date ASC, start_time ASC, created_at ASC`

	trips, err := r.queryTrips(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByVehicle: %w", err)
	}
	return trips, nil
}

func (r *pgTripRepo) ListByVehiclePaged(ctx context.Context, vehicleID uuid.UUID, page domain.ListPage) ([]domain.Trip, int64, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE vehicle_id = @vehicle_id
		ORDER BY date ASC, start_time ASC, created_at ASC
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{"vehicle_id": vehicleID, "limit": page.Size, "offset": page.Offset()}
	trips, err := r.queryTrips(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByVehiclePaged: %w", err)
	}

	const countQ = `SELECT count(*) FROM trips WHERE vehicle_id = @vehicle_id`
	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"vehicle_id": vehicleID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByVehiclePaged: count: %w", err)
	}

	return trips, total, nil
}

func (r *pgTripRepo) ListInRange(ctx context.Context, vehicleID uuid.UUID, from, to time.Time) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE vehicle_id = @vehicle_id
		  AND date >= @from AND date < @to
		ORDER BY date ASC, start_time ASC, created_at ASC`

	trips, err := r.queryTrips(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID, "from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListInRange: %w", err)
	}
	return trips, nil
}

func (r *pgTripRepo) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET date              = @date,
		    start_time        = @start_time,
		    end_time          = @end_time,
		    start_odometer_km = @start_odometer_km,
		    end_odometer_km   = @end_odometer_km,
		    type              = @type,
		    purpose           = @purpose,
		    start_location    = @start_location,
		    end_location      = @end_location,
		    tracking_method   = @tracking_method,
		    updated_at        = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := tripArgs(t)
	args["id"] = t.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// queryTrips runs a multi-row trip query and scans every row.
func (r *pgTripRepo) queryTrips(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Trip, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return trips, nil
}

// tripArgs builds the NamedArgs shared by Create and Update.
func tripArgs(t domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"vehicle_id":        t.VehicleID,
		"date":              t.Date,
		"start_time":        t.StartTime,
		"end_time":          t.EndTime,
		"start_odometer_km": t.StartOdometer,
		"end_odometer_km":   t.EndOdometer,
		"type":              string(t.Type),
		"purpose":           t.Purpose,
		"start_location":    t.StartLocation,
		"end_location":      t.EndLocation,
		"tracking_method":   string(t.Method),
	}
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		vehicleID pgtype.UUID
		date      pgtype.Date
		ttype     string
		method    string
	)

	err := s.Scan(&id, &vehicleID, &date, &t.StartTime, &t.EndTime,
		&t.StartOdometer, &t.EndOdometer, &ttype, &t.Purpose,
		&t.StartLocation, &t.EndLocation, &method, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.VehicleID = uuid.UUID(vehicleID.Bytes)
	t.Date = date.Time
	t.Type = domain.TripType(ttype)
	t.Method = domain.TrackingMethod(method)
	return t, nil
}
