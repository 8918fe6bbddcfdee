package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/dkemp/drivelog/internal/domain"
	"github.com/dkemp/drivelog/internal/repo"
	"github.com/dkemp/drivelog/testutil"
)

// newTestTx opens a transaction against the test database. The transaction is
// rolled back when the test finishes, giving free per-test isolation — no
// cleanup SQL needed. Every repo under test shares the same transaction so
// cross-table behavior (cascades, the logbook_active subquery) is observable.
//
// Requires TEST_DATABASE_URL to be set; skipped otherwise.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return tx
}

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// vehicleFixture returns a domain.Vehicle with sensible defaults.
// Callers can override individual fields after calling this function.
func vehicleFixture() domain.Vehicle {
	return domain.Vehicle{
		Name:         "Family Car",
		Registration: "ABC-123",
		Make:         "Toyota",
		Model:        "Corolla",
		Year:         2020,
		OdometerKM:   10000,
		OdometerDate: testDate(2025, 6, 1),
	}
}

// createVehicle inserts a fixture vehicle through the repo and returns it.
func createVehicle(t *testing.T, tx pgx.Tx) domain.Vehicle {
	t.Helper()
	v, err := repo.NewVehicleRepo(tx).Create(context.Background(), vehicleFixture())
	require.NoError(t, err)
	return v
}

// tripFixture returns a domain.Trip belonging to the given vehicle.
func tripFixture(v domain.Vehicle) domain.Trip {
	return domain.Trip{
		VehicleID:     v.ID,
		Date:          testDate(2025, 6, 2),
		StartTime:     "09:00",
		EndTime:       "09:45",
		StartOdometer: 10000,
		EndOdometer:   10042,
		Type:          domain.TripBusiness,
		Purpose:       "Client visit",
		StartLocation: "Office",
		EndLocation:   "Client site",
		Method:        domain.MethodManual,
	}
}
