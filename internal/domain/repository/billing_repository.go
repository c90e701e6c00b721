package repository

import (
	"context"

	"github.com/adpopescu/panex-api/internal/domain/entity"
)

// BillingSettingsRepository is the persistence port for the singleton invoice
// numbering sequence.
type BillingSettingsRepository interface {
	Get(ctx context.Context) (*entity.BillingSettings, error)

	// GetForUpdate locks the singleton row so the read-increment-write of an
	// allocation is serialized with concurrent allocations.
	GetForUpdate(ctx context.Context) (*entity.BillingSettings, error)

	Update(ctx context.Context, s *entity.BillingSettings) error
}

// LocalInvoiceRepository is the persistence port for locally generated
// invoice records. order_id carries a unique constraint: at most one invoice
// per order.
type LocalInvoiceRepository interface {
	Create(ctx context.Context, inv *entity.LocalInvoice) error

	// GetByOrderID returns nil when the order has no invoice yet.
	GetByOrderID(ctx context.Context, orderID string) (*entity.LocalInvoice, error)

	// MarkPDFGenerated is flipped by the detached PDF task after the fact.
	MarkPDFGenerated(ctx context.Context, invoiceID string) error
}
