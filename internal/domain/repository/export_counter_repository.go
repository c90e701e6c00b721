package repository

import (
	"context"

	"github.com/adpopescu/panex-api/internal/domain/entity"
)

// ExportCounterRepository is the persistence port for the per-date file
// export counters.
type ExportCounterRepository interface {
	// Get returns the counters for the date, zero-valued when absent.
	Get(ctx context.Context, date string) (*entity.ExportCounter, error)

	// Advance atomically increments the counter for (date, type) and returns
	// the new value. Single upsert-increment statement: two concurrent export
	// actions for the same date can never observe the same value.
	Advance(ctx context.Context, date string, t entity.DocumentType) (int, error)
}
