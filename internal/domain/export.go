package domain

// ExportBundle combines everything known about the selected vehicle into one
// serializable structure: the vehicle record, its full trip history, the
// weekly ledger of the active logbook period, the compliance evaluation, and
// the all-time statistics. It backs the JSON download and is what gets
// handed to the external report generator.
//
// Period and Compliance are nil when the vehicle has no active logbook
// period; Weeks is empty rather than fabricated in that case.
type ExportBundle struct {
	Vehicle    Vehicle
	Trips      []Trip
	Period     *LogbookPeriod
	Weeks      []WeeklySummary
	Compliance *ComplianceStatus
	Stats      VehicleStats
}
