package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripType classifies a trip for the business-use percentage calculation.
type TripType string

const (
	TripBusiness TripType = "business"
	TripPersonal TripType = "personal"
)

// Valid reports whether t is one of the known trip types.
func (t TripType) Valid() bool {
	return t == TripBusiness || t == TripPersonal
}

// TrackingMethod records how a trip was captured: entered retrospectively by
// hand, or finalized from a live tracking session.
type TrackingMethod string

const (
	MethodManual TrackingMethod = "manual"
	MethodGPS    TrackingMethod = "gps"
)

// Trip is a single completed journey. Distance is always derived from the
// odometer pair and never stored independently of its inputs.
// StartTime and EndTime are wall-clock labels in "HH:MM" form, the way a
// paper logbook records them; Date carries the calendar day.
type Trip struct {
	ID            uuid.UUID
	VehicleID     uuid.UUID
	Date          time.Time // calendar date, midnight UTC
	StartTime     string    // "15:04" form, may be empty for manual entries
	EndTime       string
	StartOdometer float64
	EndOdometer   float64
	Type          TripType
	Purpose       string // required when Type == TripBusiness
	StartLocation string
	EndLocation   string
	Method        TrackingMethod
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Distance returns the kilometres covered, derived from the odometer pair.
// Valid trips always satisfy EndOdometer >= StartOdometer, so this is >= 0.
func (t Trip) Distance() float64 {
	return t.EndOdometer - t.StartOdometer
}
