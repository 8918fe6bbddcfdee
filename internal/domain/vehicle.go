// Package domain contains the core data types for the drivelog engine.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
//
// Derived values (trip distance, weekly summaries, compliance) are computed
// by pure functions in this package rather than stored, so the same inputs
// always produce the same outputs regardless of where they are evaluated.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle is a car registered in the logbook.
// OdometerKM is the last known physical reading and only ever moves forward:
// it is advanced when a trip with a higher end odometer is recorded, and it
// is never rewound when a trip is deleted.
type Vehicle struct {
	ID           uuid.UUID
	Name         string
	Registration string
	Make         string
	Model        string
	Year         int
	OdometerKM   float64
	OdometerDate time.Time // date the current reading was established
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// LogbookActive is derived per read: true when the vehicle has an
	// active logbook period. Not persisted on the vehicles table.
	LogbookActive bool
}

// VehicleStats aggregates every trip of a vehicle, not just those inside the
// current logbook period. The UI dashboard reads these.
type VehicleStats struct {
	TotalTrips         int
	TotalDistance      float64
	BusinessDistance   float64
	BusinessPercentage float64
}

// ComputeVehicleStats derives the all-time statistics for a set of trips.
// BusinessPercentage is 0 when no distance has been recorded.
func ComputeVehicleStats(trips []Trip) VehicleStats {
	var s VehicleStats
	for _, t := range trips {
		s.TotalTrips++
		d := t.Distance()
		s.TotalDistance += d
		if t.Type == TripBusiness {
			s.BusinessDistance += d
		}
	}
	if s.TotalDistance > 0 {
		s.BusinessPercentage = s.BusinessDistance / s.TotalDistance * 100
	}
	return s
}
