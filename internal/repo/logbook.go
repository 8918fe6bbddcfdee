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

// LogbookRepo defines the persistence operations for logbook periods.
// The schema enforces at most one active period per vehicle with a partial
// unique index; StartPeriod archives and inserts inside one transaction so
// the invariant holds at every commit point.
type LogbookRepo interface {
	// StartPeriod archives any active period for the vehicle (status flips
	// to 'expired') and inserts a fresh active one starting at startDate.
	// Histories are never merged. Returns the new period.
	StartPeriod(ctx context.Context, vehicleID uuid.UUID, startDate time.Time) (domain.LogbookPeriod, error)

	// ActiveByVehicle returns the vehicle's active period.
	// Returns domain.ErrNotFound when the vehicle has none.
	ActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (domain.LogbookPeriod, error)

	// ListByVehicle returns all periods of a vehicle, newest first,
	// including archived ones.
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.LogbookPeriod, error)
}

// pgLogbookRepo is the Postgres implementation of LogbookRepo.
type pgLogbookRepo struct {
	db db
}

// NewLogbookRepo constructs a LogbookRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewLogbookRepo(db db) LogbookRepo {
	return &pgLogbookRepo{db: db}
}

const periodColumns = `id, vehicle_id, start_date, status, created_at, updated_at`

func (r *pgLogbookRepo) StartPeriod(ctx context.Context, vehicleID uuid.UUID, startDate time.Time) (domain.LogbookPeriod, error) {
	// The archive must be a separate statement committed with the insert:
	// folding it into a data-modifying CTE does not work, because the outer
	// INSERT's unique-index check still sees the old active row (the CTE and
	// the main query share one snapshot, and Postgres gives no ordering
	// guarantee between them). Two concurrent calls cannot both leave an
	// active row thanks to the partial unique index.
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.LogbookPeriod{}, fmt.Errorf("repo.LogbookRepo.StartPeriod: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const archive = `
		UPDATE logbook_periods
		SET status = 'expired', updated_at = now()
		WHERE vehicle_id = @vehicle_id AND status = 'active'`

	if _, err := tx.Exec(ctx, archive, pgx.NamedArgs{"vehicle_id": vehicleID}); err != nil {
		return domain.LogbookPeriod{}, fmt.Errorf("repo.LogbookRepo.StartPeriod: archive: %w", err)
	}

	const insert = `
		INSERT INTO logbook_periods (vehicle_id, start_date)
		VALUES (@vehicle_id, @start_date)
		RETURNING ` + periodColumns

	args := pgx.NamedArgs{"vehicle_id": vehicleID, "start_date": startDate}
	result, err := scanPeriod(tx.QueryRow(ctx, insert, args))
	if err != nil {
		return domain.LogbookPeriod{}, fmt.Errorf("repo.LogbookRepo.StartPeriod: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.LogbookPeriod{}, fmt.Errorf("repo.LogbookRepo.StartPeriod: commit: %w", err)
	}
	return result, nil
}

func (r *pgLogbookRepo) ActiveByVehicle(ctx context.Context, vehicleID uuid.UUID) (domain.LogbookPeriod, error) {
	const q = `
		SELECT ` + periodColumns + `
		FROM logbook_periods
		WHERE vehicle_id = @vehicle_id AND status = 'active'`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID})
	result, err := scanPeriod(row)
	if err != nil {
		return domain.LogbookPeriod{}, fmt.Errorf("repo.LogbookRepo.ActiveByVehicle: %w", err)
	}
	return result, nil
}

func (r *pgLogbookRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.LogbookPeriod, error) {
	const q = `
		SELECT ` + periodColumns + `
		FROM logbook_periods
		WHERE vehicle_id = @vehicle_id
		ORDER BY start_date DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID})
	if err != nil {
		return nil, fmt.Errorf("repo.LogbookRepo.ListByVehicle: %w", err)
	}
	defer rows.Close()

	var periods []domain.LogbookPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.LogbookRepo.ListByVehicle: scan: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LogbookRepo.ListByVehicle: rows: %w", err)
	}

	return periods, nil
}

// scanPeriod maps a single database row into a domain.LogbookPeriod.
func scanPeriod(s scanner) (domain.LogbookPeriod, error) {
	var (
		p         domain.LogbookPeriod
		id        pgtype.UUID
		vehicleID pgtype.UUID
		startDate pgtype.Date
		status    string
	)

	err := s.Scan(&id, &vehicleID, &startDate, &status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LogbookPeriod{}, domain.ErrNotFound
		}
		return domain.LogbookPeriod{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.VehicleID = uuid.UUID(vehicleID.Bytes)
	p.StartDate = startDate.Time
	p.Status = domain.PeriodStatus(status)
	return p, nil
}
