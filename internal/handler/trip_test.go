package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkemp/drivelog/internal/domain"
)

func TestCreateTrip(t *testing.T) {
	d := newDeps()
	var got domain.Trip
	d.trips.create = func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
		got = trip
		trip.ID = uuid.New()
		return trip, nil
	}

	vehicleID := uuid.New()
	rec := d.do(t, http.MethodPost, "/trips", map[string]any{
		"vehicle_id":        vehicleID,
		"date":              "2025-06-02",
		"start_time":        "09:00",
		"end_time":          "09:45",
		"start_odometer_km": 10000,
		"end_odometer_km":   10042,
		"type":              "business",
		"purpose":           "Client visit",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, vehicleID, got.VehicleID)
	assert.Equal(t, domain.TripBusiness, got.Type)

	var body map[string]any
	decode(t, rec, &body)
	// Distance is derived from the odometer pair, never accepted as input.
	assert.Equal(t, 42.0, body["distance_km"])
}

func TestCreateTrip_Validation(t *testing.T) {
	d := newDeps()
	d.trips.create = func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
		return domain.Trip{}, domain.ValidationErrors{"end odometer must not be less than start odometer"}
	}

	rec := d.do(t, http.MethodPost, "/trips", map[string]any{
		"vehicle_id": uuid.New(),
		"date":       "2025-06-02",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Errors []string `json:"errors"`
	}
	decode(t, rec, &body)
	assert.Len(t, body.Errors, 1)
}

func TestUpdateTrip(t *testing.T) {
	d := newDeps()
	var got domain.Trip
	d.trips.update = func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
		got = trip
		return trip, nil
	}

	id := uuid.New()
	rec := d.do(t, http.MethodPut, "/trips/"+id.String(), map[string]any{
		"vehicle_id":        uuid.New(),
		"date":              "2025-06-02",
		"start_odometer_km": 10000,
		"end_odometer_km":   10050,
		"type":              "personal",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	// The path ID wins over anything in the body.
	assert.Equal(t, id, got.ID)
}

func TestDeleteTrip_NotFound(t *testing.T) {
	d := newDeps()
	d.trips.delete = func(_ context.Context, _ uuid.UUID) error { return domain.ErrNotFound }

	rec := d.do(t, http.MethodDelete, "/trips/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTrips_Paged(t *testing.T) {
	d := newDeps()
	vehicleID := uuid.New()
	d.trips.listByVehiclePaged = func(_ context.Context, id uuid.UUID, page domain.ListPage) ([]domain.Trip, int64, error) {
		assert.Equal(t, vehicleID, id)
		assert.Equal(t, domain.ListPage{Page: 2, Size: 10}, page)
		return []domain.Trip{testTrip(id)}, 15, nil
	}

	rec := d.do(t, http.MethodGet, "/trips?vehicle_id="+vehicleID.String()+"&page=2&size=10", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data  []map[string]any `json:"data"`
		Page  int              `json:"page"`
		Size  int              `json:"size"`
		Total int64            `json:"total"`
	}
	decode(t, rec, &body)
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 10, body.Size)
	assert.EqualValues(t, 15, body.Total)
}

func TestListTrips_DefaultPaging(t *testing.T) {
	d := newDeps()
	vehicleID := uuid.New()
	d.trips.listByVehiclePaged = func(_ context.Context, _ uuid.UUID, page domain.ListPage) ([]domain.Trip, int64, error) {
		assert.Equal(t, domain.ListPage{Page: 1, Size: 50}, page)
		return nil, 0, nil
	}

	rec := d.do(t, http.MethodGet, "/trips?vehicle_id="+vehicleID.String(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListTrips_Range(t *testing.T) {
	d := newDeps()
	vehicleID := uuid.New()
	d.trips.listInRange = func(_ context.Context, _ uuid.UUID, from, to time.Time) ([]domain.Trip, error) {
		assert.Equal(t, dateAt(2025, 6, 1), from)
		assert.Equal(t, dateAt(2025, 7, 1), to)
		return []domain.Trip{testTrip(vehicleID)}, nil
	}

	rec := d.do(t, http.MethodGet, "/trips?vehicle_id="+vehicleID.String()+"&from=2025-06-01&to=2025-07-01", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body []map[string]any
	decode(t, rec, &body)
	assert.Len(t, body, 1)
}

func TestListTrips_RangeRequiresBothBounds(t *testing.T) {
	d := newDeps()

	rec := d.do(t, http.MethodGet, "/trips?vehicle_id="+uuid.NewString()+"&from=2025-06-01", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListTrips_MissingVehicleID(t *testing.T) {
	d := newDeps()

	rec := d.do(t, http.MethodGet, "/trips", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
