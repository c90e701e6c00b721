package billing

import (
	"context"

	"github.com/adpopescu/panex-api/internal/domain/entity"
	"github.com/adpopescu/panex-api/internal/domain/repository"
)

// TxRunner executes fn with tx-bound repositories in one transaction.
// The number read, its increment and the invoice insert commit together, so
// no two invoices can ever receive the same number.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		settingsRepo repository.BillingSettingsRepository,
		invoiceRepo repository.LocalInvoiceRepository,
	) error) error
}

// InvoicePDFGenerator renders the printable form of a local invoice.
// Called from a detached task: a failure must never undo the allocation.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv *entity.LocalInvoice, company *entity.CompanyConfig) ([]byte, error)
}
