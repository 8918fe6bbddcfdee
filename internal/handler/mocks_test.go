package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dkemp/drivelog/internal/domain"
	"github.com/dkemp/drivelog/internal/handler"
)

// Function-field mocks for the servicer interfaces. Tests set only the
// operations the endpoint under test touches; an unset field panics, which
// catches handlers calling more than they should.

type mockVehicleServicer struct {
	create  func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	list    func(ctx context.Context) ([]domain.Vehicle, error)
	delete  func(ctx context.Context, id uuid.UUID) error
	stats   func(ctx context.Context, id uuid.UUID) (domain.VehicleStats, error)
}

func (m *mockVehicleServicer) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.create(ctx, v)
}
func (m *mockVehicleServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByID(ctx, id)
}
func (m *mockVehicleServicer) List(ctx context.Context) ([]domain.Vehicle, error) {
	return m.list(ctx)
}
func (m *mockVehicleServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockVehicleServicer) Stats(ctx context.Context, id uuid.UUID) (domain.VehicleStats, error) {
	return m.stats(ctx, id)
}

var _ handler.VehicleServicer = (*mockVehicleServicer)(nil)

type mockTripServicer struct {
	create             func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	update             func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete             func(ctx context.Context, id uuid.UUID) error
	listByVehiclePaged func(ctx context.Context, vehicleID uuid.UUID, page domain.ListPage) ([]domain.Trip, int64, error)
	listInRange        func(ctx context.Context, vehicleID uuid.UUID, from, to time.Time) ([]domain.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripServicer) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripServicer) ListByVehiclePaged(ctx context.Context, vehicleID uuid.UUID, page domain.ListPage) ([]domain.Trip, int64, error) {
	return m.listByVehiclePaged(ctx, vehicleID, page)
}
func (m *mockTripServicer) ListInRange(ctx context.Context, vehicleID uuid.UUID, from, to time.Time) ([]domain.Trip, error) {
	return m.listInRange(ctx, vehicleID, from, to)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockTrackingServicer struct {
	start         func(ctx context.Context, p domain.TrackingStart) (domain.TrackingSession, error)
	stop          func(ctx context.Context, endOdometer float64) (domain.Trip, error)
	cancel        func()
	status        func() domain.TrackingStatus
	selectVehicle func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTrackingServicer) Start(ctx context.Context, p domain.TrackingStart) (domain.TrackingSession, error) {
	return m.start(ctx, p)
}
func (m *mockTrackingServicer) Stop(ctx context.Context, endOdometer float64) (domain.Trip, error) {
	return m.stop(ctx, endOdometer)
}
func (m *mockTrackingServicer) Cancel()                       { m.cancel() }
func (m *mockTrackingServicer) Status() domain.TrackingStatus { return m.status() }
func (m *mockTrackingServicer) SelectVehicle(ctx context.Context, id uuid.UUID) error {
	return m.selectVehicle(ctx, id)
}

var _ handler.TrackingServicer = (*mockTrackingServicer)(nil)

type mockLogbookServicer struct {
	startPeriod func(ctx context.Context, vehicleID uuid.UUID, startDate time.Time) (domain.LogbookPeriod, error)
	report      func(ctx context.Context, vehicleID uuid.UUID) (domain.LogbookReport, error)
	history     func(ctx context.Context, vehicleID uuid.UUID) ([]domain.LogbookPeriod, error)
}

func (m *mockLogbookServicer) StartPeriod(ctx context.Context, vehicleID uuid.UUID, startDate time.Time) (domain.LogbookPeriod, error) {
	return m.startPeriod(ctx, vehicleID, startDate)
}
func (m *mockLogbookServicer) Report(ctx context.Context, vehicleID uuid.UUID) (domain.LogbookReport, error) {
	return m.report(ctx, vehicleID)
}
func (m *mockLogbookServicer) History(ctx context.Context, vehicleID uuid.UUID) ([]domain.LogbookPeriod, error) {
	return m.history(ctx, vehicleID)
}

var _ handler.LogbookServicer = (*mockLogbookServicer)(nil)

type mockExportServicer struct {
	bundle func(ctx context.Context) (domain.ExportBundle, error)
	csv    func(ctx context.Context) (string, error)
}

func (m *mockExportServicer) Bundle(ctx context.Context) (domain.ExportBundle, error) {
	return m.bundle(ctx)
}
func (m *mockExportServicer) CSV(ctx context.Context) (string, error) {
	return m.csv(ctx)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// deps bundles one mock per servicer so tests only fill in what they use.
type deps struct {
	vehicles *mockVehicleServicer
	trips    *mockTripServicer
	tracking *mockTrackingServicer
	logbook  *mockLogbookServicer
	export   *mockExportServicer
}

func newDeps() *deps {
	return &deps{
		vehicles: &mockVehicleServicer{},
		trips:    &mockTripServicer{},
		tracking: &mockTrackingServicer{},
		logbook:  &mockLogbookServicer{},
		export:   &mockExportServicer{},
	}
}

func (d *deps) router() http.Handler {
	return handler.NewServer(d.vehicles, d.trips, d.tracking, d.logbook, d.export).Routes()
}

// do executes a request against the full router and returns the recorder.
func (d *deps) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	d.router().ServeHTTP(rec, req)
	return rec
}

// decode unmarshals the recorded JSON body into out.
func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func dateAt(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testVehicle() domain.Vehicle {
	return domain.Vehicle{
		ID:           uuid.New(),
		Name:         "Family Car",
		Registration: "ABC-123",
		Make:         "Toyota",
		Model:        "Corolla",
		Year:         2020,
		OdometerKM:   10000,
		OdometerDate: dateAt(2025, 6, 1),
	}
}

func testTrip(vehicleID uuid.UUID) domain.Trip {
	return domain.Trip{
		ID:            uuid.New(),
		VehicleID:     vehicleID,
		Date:          dateAt(2025, 6, 2),
		StartTime:     "09:00",
		EndTime:       "09:45",
		StartOdometer: 10000,
		EndOdometer:   10042,
		Type:          domain.TripBusiness,
		Purpose:       "Client visit",
		Method:        domain.MethodManual,
	}
}
