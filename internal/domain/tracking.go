package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrackingSession is a trip currently being recorded live. It is ephemeral:
// it exists only in memory between start and a successful stop, and is never
// persisted as a Trip until finalized. At most one session exists
// process-wide at any time, across all vehicles.
type TrackingSession struct {
	VehicleID     uuid.UUID
	Type          TripType
	Purpose       string
	StartOdometer float64
	StartedAt     time.Time
}

// Elapsed returns how long the session has been running as of now.
// The engine holds no timer; callers drive this from their own clock tick.
func (s TrackingSession) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}

// TrackingStart carries the parameters of a start-tracking call.
// StartOdometer is optional: when nil, the vehicle's current reading is used.
type TrackingStart struct {
	VehicleID     uuid.UUID
	Type          TripType
	Purpose       string
	StartOdometer *float64
}

// TrackingStatus is the read-only view of the tracking slot consumed by the
// UI's once-per-second tick.
type TrackingStatus struct {
	Tracking       bool
	Session        *TrackingSession // nil when idle
	ElapsedSeconds int64            // 0 when idle
}
