package repository

import (
	"context"

	"github.com/adpopescu/panex-api/internal/domain/entity"
)

// OrderRepository is the persistence port for orders and their items.
// Implementations must enforce the unique (client_id, date) constraint and
// surface its violation as a duplicate error.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByClientAndDate(ctx context.Context, clientID, date string) (*entity.Order, error)
	ListByDate(ctx context.Context, date string) ([]*entity.Order, error)

	// CountByDate supports the first-order-of-the-day check for the LOT bump.
	// Must be called inside the same transaction as the order insert.
	CountByDate(ctx context.Context, date string) (int, error)

	// SetExportFlag bulk-sets invoice_exported or receipt_exported.
	// Setting an already-true flag is a no-op.
	SetExportFlag(ctx context.Context, ids []string, kind entity.ExportKind) error
}
