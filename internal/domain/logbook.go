package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PeriodStatus is the lifecycle state of a logbook period.
type PeriodStatus string

const (
	PeriodActive  PeriodStatus = "active"
	PeriodExpired PeriodStatus = "expired"
)

// requiredWeeks is the statutory number of consecutive populated weeks a
// logbook period must contain before it can substantiate a claim.
const requiredWeeks = 12

// validityYears is how long a completed logbook remains usable.
const validityYears = 5

// LogbookPeriod is the observation window a vehicle must satisfy.
// A vehicle has at most one active period; starting a new one archives the
// prior period rather than merging histories.
type LogbookPeriod struct {
	ID        uuid.UUID
	VehicleID uuid.UUID
	StartDate time.Time // calendar date, midnight UTC
	Status    PeriodStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExpiryDate returns the end of the period's statutory validity,
// five years after the start date. Always derived, never stored.
func (p LogbookPeriod) ExpiryDate() time.Time {
	return p.StartDate.AddDate(validityYears, 0, 0)
}

// WeeklySummary is the per-week rollup of trips inside a logbook period.
// Summaries are derived on every read and never stored.
type WeeklySummary struct {
	WeekIndex          int       // 0-based offset from the period start
	WeekStart          time.Time // inclusive
	WeekEnd            time.Time // exclusive, WeekStart + 7 days
	TotalTrips         int
	TotalDistance      float64
	BusinessDistance   float64
	BusinessPercentage float64 // 0 when TotalDistance is 0
	Complete           bool    // at least one trip recorded this week
}

// ComplianceStatus is the evaluation of a logbook period against the
// 12-consecutive-week rule. It is recomputed on every read because the
// result depends on the evaluation date, never cached.
type ComplianceStatus struct {
	Warnings        []string
	CanBeUsedForTax bool
	ExpiryDate      time.Time // always populated, meaningful once compliant
}

// ComputeWeeklySummaries partitions trips into consecutive 7-day windows
// anchored at the period's start date: window i covers
// [start+7i days, start+7(i+1) days). Trips belonging to other vehicles or
// dated outside [start, expiry) are ignored. Only windows containing at
// least one trip are returned, in chronological order.
//
// Pure function: identical inputs always yield identical summaries.
func ComputeWeeklySummaries(trips []Trip, period LogbookPeriod) []WeeklySummary {
	start := midnightUTC(period.StartDate)
	expiry := period.ExpiryDate()

	byWeek := make(map[int]*WeeklySummary)
	for _, t := range trips {
		if t.VehicleID != period.VehicleID {
			continue
		}
		d := midnightUTC(t.Date)
		if d.Before(start) || !d.Before(expiry) {
			continue
		}
		idx := int(d.Sub(start).Hours() / 24 / 7)
		w, ok := byWeek[idx]
		if !ok {
			w = &WeeklySummary{
				WeekIndex: idx,
				WeekStart: start.AddDate(0, 0, 7*idx),
				WeekEnd:   start.AddDate(0, 0, 7*(idx+1)),
			}
			byWeek[idx] = w
		}
		w.TotalTrips++
		w.TotalDistance += t.Distance()
		if t.Type == TripBusiness {
			w.BusinessDistance += t.Distance()
		}
	}

	summaries := make([]WeeklySummary, 0, len(byWeek))
	for i, n := 0, len(byWeek); n > 0; i++ {
		w, ok := byWeek[i]
		if !ok {
			continue
		}
		if w.TotalDistance > 0 {
			w.BusinessPercentage = w.BusinessDistance / w.TotalDistance * 100
		}
		w.Complete = w.TotalTrips > 0
		summaries = append(summaries, *w)
		n--
	}
	return summaries
}

// ComputeCompliance evaluates a logbook period against the statutory rule:
// twelve consecutive populated weeks starting at the period's start date.
//
//   - One warning is emitted per empty week among indices 0..11, in order.
//   - CanBeUsedForTax requires all twelve of those weeks to be populated and
//     today to be on or before the expiry date.
//   - Once today passes the expiry date the period is void even if it was
//     previously complete, so callers must re-evaluate on every read.
func ComputeCompliance(period LogbookPeriod, summaries []WeeklySummary, today time.Time) ComplianceStatus {
	status := ComplianceStatus{
		Warnings:   []string{},
		ExpiryDate: period.ExpiryDate(),
	}

	populated := make(map[int]bool, len(summaries))
	for _, w := range summaries {
		if w.Complete {
			populated[w.WeekIndex] = true
		}
	}

	gaps := 0
	for i := 0; i < requiredWeeks; i++ {
		if !populated[i] {
			status.Warnings = append(status.Warnings,
				fmt.Sprintf("week %d of the logbook period has no recorded trips", i+1))
			gaps++
		}
	}

	status.CanBeUsedForTax = len(summaries) >= requiredWeeks && gaps == 0

	if midnightUTC(today).After(status.ExpiryDate) {
		status.CanBeUsedForTax = false
		status.Warnings = append(status.Warnings,
			fmt.Sprintf("logbook period expired on %s", status.ExpiryDate.Format("2006-01-02")))
	}

	return status
}

// LogbookReport is the full evaluation of a vehicle's active logbook period:
// the period itself, its weekly ledger, and the compliance verdict as of the
// evaluation date.
type LogbookReport struct {
	Period     LogbookPeriod
	Weeks      []WeeklySummary
	Compliance ComplianceStatus
}

// midnightUTC truncates t to its calendar date in UTC so that date
// comparisons are unaffected by the time-of-day or zone a caller happens to
// construct values with.
func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
