package entity

import "time"

// DayStatus is the per-date production record. ProductionExported=true is the
// single authoritative "day closed" flag gating all order mutation for that
// date. A record is created lazily on the first production export; reopening
// clears the flag but keeps the export and unlock fields as an audit trail.
type DayStatus struct {
	Date               string // ISO "2006-01-02"
	ProductionExported bool
	ExportedAt         *time.Time
	ExportedBy         string
	LotNumber          int // LOT captured at export time
	UnlockedAt         *time.Time
	UnlockedBy         string
}

// OpenDay returns the default open-state record for a date with no row yet.
func OpenDay(date string) *DayStatus {
	return &DayStatus{Date: date}
}
