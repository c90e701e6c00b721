package repository

import (
	"context"
	"time"

	"github.com/adpopescu/panex-api/internal/domain/entity"
)

// DayStatusRepository is the persistence port for the per-date day record.
type DayStatusRepository interface {
	// Get returns nil when no record exists for the date (= day open).
	Get(ctx context.Context, date string) (*entity.DayStatus, error)

	// GetLocked locks the date against a concurrent Close, then reads. Must
	// run inside a transaction; the lock is held until it commits, so an order
	// mutation that saw the day open cannot commit after a close lands.
	GetLocked(ctx context.Context, date string) (*entity.DayStatus, error)

	// Close upserts the record with production_exported=true and the audit
	// stamp, taking the same per-date lock as GetLocked. Idempotent by
	// overwrite: closing an already-closed day succeeds.
	Close(ctx context.Context, date, exportedBy string, lotNumber int, now time.Time) error

	// Reopen clears production_exported while keeping the historical export
	// fields, and stamps the unlock audit. No-op when no record exists.
	Reopen(ctx context.Context, date, unlockedBy string, now time.Time) error
}
