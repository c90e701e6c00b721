package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/adpopescu/panex-api/internal/domain/entity"
	"github.com/adpopescu/panex-api/internal/domain/repository"
)

var _ repository.DayStatusRepository = (*DayStatusRepo)(nil)

// DayStatusRepo implements DayStatusRepository (usable with pool or tx).
type DayStatusRepo struct {
	q Querier
}

// NewDayStatusRepository builds the adapter.
func NewDayStatusRepository(q Querier) *DayStatusRepo {
	return &DayStatusRepo{q: q}
}

// Get loads the day record, nil when absent (day open, never exported).
func (r *DayStatusRepo) Get(ctx context.Context, date string) (*entity.DayStatus, error) {
	query := `
		SELECT date::text, production_exported, exported_at, COALESCE(exported_by, ''),
		       COALESCE(lot_number, 0), unlocked_at, COALESCE(unlocked_by, '')
		FROM day_statuses WHERE date = $1::date`
	var ds entity.DayStatus
	err := r.q.QueryRow(ctx, query, date).Scan(
		&ds.Date, &ds.ProductionExported, &ds.ExportedAt, &ds.ExportedBy,
		&ds.LotNumber, &ds.UnlockedAt, &ds.UnlockedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get day status: %w", err)
	}
	return &ds, nil
}

// lockDate serializes day-gated work on one date. pg_advisory_xact_lock is
// held until the surrounding transaction commits, so an order save/delete and
// a day close for the same date never interleave.
func (r *DayStatusRepo) lockDate(ctx context.Context, date string) error {
	query := `SELECT pg_advisory_xact_lock(hashtextextended('day_statuses:' || $1, 0))`
	if _, err := r.q.Exec(ctx, query, date); err != nil {
		return fmt.Errorf("lock day %s: %w", date, err)
	}
	return nil
}

// GetLocked takes the per-date lock, then reads. Only meaningful inside a
// transaction.
func (r *DayStatusRepo) GetLocked(ctx context.Context, date string) (*entity.DayStatus, error) {
	if err := r.lockDate(ctx, date); err != nil {
		return nil, err
	}
	return r.Get(ctx, date)
}

// Close upserts the closed state under the per-date lock. Re-closing
// overwrites the export stamp and
// clears any previous unlock, which is the intended audit behavior: the most
// recent export wins, the unlock that preceded it is consumed.
func (r *DayStatusRepo) Close(ctx context.Context, date, exportedBy string, lotNumber int, now time.Time) error {
	if err := r.lockDate(ctx, date); err != nil {
		return err
	}
	query := `
		INSERT INTO day_statuses (date, production_exported, exported_at, exported_by, lot_number)
		VALUES ($1::date, TRUE, $2, $3, $4)
		ON CONFLICT (date) DO UPDATE
		SET production_exported = TRUE,
		    exported_at         = EXCLUDED.exported_at,
		    exported_by         = EXCLUDED.exported_by,
		    lot_number          = EXCLUDED.lot_number`
	if _, err := r.q.Exec(ctx, query, date, now, exportedBy, lotNumber); err != nil {
		return fmt.Errorf("close day: %w", err)
	}
	return nil
}

// Reopen clears the closed flag, keeping exported_at/exported_by/lot_number
// as history. No-op when the record does not exist.
func (r *DayStatusRepo) Reopen(ctx context.Context, date, unlockedBy string, now time.Time) error {
	query := `
		UPDATE day_statuses
		SET production_exported = FALSE,
		    unlocked_at         = $2,
		    unlocked_by         = $3
		WHERE date = $1::date`
	if _, err := r.q.Exec(ctx, query, date, now, unlockedBy); err != nil {
		return fmt.Errorf("reopen day: %w", err)
	}
	return nil
}
