package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adpopescu/panex-api/internal/application/billing"
	"github.com/adpopescu/panex-api/internal/application/export"
	"github.com/adpopescu/panex-api/internal/application/orders"
	"github.com/adpopescu/panex-api/internal/domain"
	"github.com/adpopescu/panex-api/internal/domain/repository"
)

// Ensure TxRunner implements every application tx port.
var (
	_ orders.TxRunner  = (*TxRunner)(nil)
	_ export.TxRunner  = (*TxRunner)(nil)
	_ billing.TxRunner = (*TxRunner)(nil)
)

// TxRunner executes callbacks inside one PostgreSQL transaction with
// tx-bound repositories. Serialization failures surface as
// domain.ErrConcurrency so callers know the whole operation is retryable.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner over the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) run(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("%w: %v", domain.ErrConcurrency, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("%w: %v", domain.ErrConcurrency, err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunOrder runs fn with the repositories an order mutation needs: the order
// store, the day gate and the company record for the LOT bump.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	dayRepo repository.DayStatusRepository,
	companyRepo repository.CompanyConfigRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewOrderRepository(q), NewDayStatusRepository(q), NewCompanyConfigRepository(q))
	})
}

// RunExport runs fn with the repositories an export action mutates.
func (r *TxRunner) RunExport(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	dayRepo repository.DayStatusRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewOrderRepository(q), NewDayStatusRepository(q))
	})
}

// RunBilling runs fn with the repositories an invoice-number allocation
// needs: settings under lock plus the invoice store.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	settingsRepo repository.BillingSettingsRepository,
	invoiceRepo repository.LocalInvoiceRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewBillingSettingsRepository(q), NewLocalInvoiceRepository(q))
	})
}
