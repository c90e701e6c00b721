package export

import (
	"context"

	"github.com/adpopescu/panex-api/internal/domain/fiscal"
	"github.com/adpopescu/panex-api/internal/domain/repository"
)

// TxRunner executes fn with tx-bound repositories in one transaction.
// Flag marking and day closing commit together with nothing half-done.
type TxRunner interface {
	RunExport(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		dayRepo repository.DayStatusRepository,
	) error) error
}

// DocumentRenderer turns assembled documents into export files. The sequence
// number is embedded in the filename as `_<n>_`.
type DocumentRenderer interface {
	RenderInvoices(date string, seq int, docs []fiscal.InvoiceDocument) (filename string, content []byte, err error)
	RenderReceipts(date string, seq int, docs []fiscal.ReceiptDocument) (filename string, content []byte, err error)
	RenderProduction(date string, seq int, rows []fiscal.ProductionRow) (filename string, content []byte, err error)
}
