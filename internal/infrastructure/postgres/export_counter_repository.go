package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/adpopescu/panex-api/internal/domain/entity"
	"github.com/adpopescu/panex-api/internal/domain/repository"
)

var _ repository.ExportCounterRepository = (*ExportCounterRepo)(nil)

// ExportCounterRepo implements ExportCounterRepository.
type ExportCounterRepo struct {
	q Querier
}

// NewExportCounterRepository builds the adapter.
func NewExportCounterRepository(q Querier) *ExportCounterRepo {
	return &ExportCounterRepo{q: q}
}

// Get returns the counters for the date, zero-valued when no row exists.
func (r *ExportCounterRepo) Get(ctx context.Context, date string) (*entity.ExportCounter, error) {
	query := `
		SELECT date::text, invoice_count, receipt_count, production_count
		FROM export_counters WHERE date = $1::date`
	var c entity.ExportCounter
	err := r.q.QueryRow(ctx, query, date).Scan(&c.Date, &c.InvoiceCount, &c.ReceiptCount, &c.ProductionCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.ExportCounter{Date: date}, nil
		}
		return nil, fmt.Errorf("get export counters: %w", err)
	}
	return &c, nil
}

// counterColumn maps the document type to its column. Kept as a lookup so the
// column name can never be caller-controlled.
func counterColumn(t entity.DocumentType) (string, error) {
	switch t {
	case entity.DocInvoice:
		return "invoice_count", nil
	case entity.DocReceipt:
		return "receipt_count", nil
	case entity.DocProduction:
		return "production_count", nil
	}
	return "", fmt.Errorf("unknown document type %q", t)
}

// Advance is a single atomic upsert-increment. The RETURNING value is the
// sequence number for this export batch; concurrent callers serialize on the
// row and each sees a distinct value.
func (r *ExportCounterRepo) Advance(ctx context.Context, date string, t entity.DocumentType) (int, error) {
	col, err := counterColumn(t)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`
		INSERT INTO export_counters (date, %[1]s)
		VALUES ($1::date, 1)
		ON CONFLICT (date) DO UPDATE
		SET %[1]s = export_counters.%[1]s + 1
		RETURNING %[1]s`, col)
	var n int
	if err := r.q.QueryRow(ctx, query, date).Scan(&n); err != nil {
		return 0, fmt.Errorf("advance %s counter: %w", t, err)
	}
	return n, nil
}
