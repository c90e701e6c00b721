package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adpopescu/panex-api/internal/application/dto"
	"github.com/adpopescu/panex-api/internal/domain"
	"github.com/adpopescu/panex-api/internal/domain/entity"
	"github.com/adpopescu/panex-api/internal/domain/fiscal"
	"github.com/adpopescu/panex-api/internal/domain/repository"
	"github.com/adpopescu/panex-api/pkg/logger"
)

// UseCase drives the file exports: advance the per-date counter, assemble the
// documents, render them, mark the affected orders, and on production export
// close the day.
type UseCase struct {
	tx          TxRunner
	orderRepo   repository.OrderRepository
	dayRepo     repository.DayStatusRepository
	counterRepo repository.ExportCounterRepository
	companyRepo repository.CompanyConfigRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	groupRepo   repository.ProductGroupRepository
	invoiceRepo repository.LocalInvoiceRepository
	renderer    DocumentRenderer
	log         *logger.Logger
}

// NewUseCase builds the usecase.
func NewUseCase(
	tx TxRunner,
	orderRepo repository.OrderRepository,
	dayRepo repository.DayStatusRepository,
	counterRepo repository.ExportCounterRepository,
	companyRepo repository.CompanyConfigRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	groupRepo repository.ProductGroupRepository,
	invoiceRepo repository.LocalInvoiceRepository,
	renderer DocumentRenderer,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		tx:          tx,
		orderRepo:   orderRepo,
		dayRepo:     dayRepo,
		counterRepo: counterRepo,
		companyRepo: companyRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		groupRepo:   groupRepo,
		invoiceRepo: invoiceRepo,
		renderer:    renderer,
		log:         log,
	}
}

// batchNumber is the document number applied to every file of one export
// batch: the date compacted plus the batch sequence.
func batchNumber(date string, seq int) string {
	return fmt.Sprintf("%s-%d", strings.ReplaceAll(date, "-", ""), seq)
}

// loadDay gathers the orders of a date and the lookup data the assembler
// needs. Fails with ErrNotFound when the date has no orders at all.
func (uc *UseCase) loadDay(ctx context.Context, date string) ([]*entity.Order, *entity.CompanyConfig, map[string]*entity.Product, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, nil, nil, domain.Validationf("malformed date %q", date)
	}
	orders, err := uc.orderRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(orders) == 0 {
		return nil, nil, nil, domain.ErrNotFound
	}
	company, err := uc.companyRepo.Get(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	var ids []string
	seen := map[string]bool{}
	for _, o := range orders {
		for _, it := range o.Items {
			if !seen[it.ProductID] {
				seen[it.ProductID] = true
				ids = append(ids, it.ProductID)
			}
		}
	}
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, nil, err
	}
	return orders, company, products, nil
}

// ExportInvoices builds the invoice file for a date. One counter advance per
// export action; the returned sequence is stamped on every document of the
// batch and embedded in the filename.
func (uc *UseCase) ExportInvoices(ctx context.Context, actor domain.Actor, date string) (*dto.ExportResult, error) {
	orders, company, products, err := uc.loadDay(ctx, date)
	if err != nil {
		return nil, err
	}
	groups, err := uc.groupRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	seq, err := uc.counterRepo.Advance(ctx, date, entity.DocInvoice)
	if err != nil {
		return nil, err
	}
	number := batchNumber(date, seq)

	docs := make([]fiscal.InvoiceDocument, 0, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		client, err := uc.clientRepo.GetByID(ctx, o.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, domain.Validationf("order %s references unknown client %s", o.ID, o.ClientID)
		}
		docs = append(docs, fiscal.AssembleInvoice(o, client, company, products, groups, number))
		ids = append(ids, o.ID)
	}

	filename, content, err := uc.renderer.RenderInvoices(date, seq, docs)
	if err != nil {
		return nil, err
	}

	err = uc.tx.RunExport(ctx, func(orderRepo repository.OrderRepository, _ repository.DayStatusRepository) error {
		return orderRepo.SetExportFlag(ctx, ids, entity.ExportInvoice)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("date", date).Int("seq", seq).Int("orders", len(ids)).Msg("invoices exported")
	return &dto.ExportResult{FileName: filename, Content: content, Sequence: seq, Orders: len(ids)}, nil
}

// ExportReceipts builds the receipt file for a date. Receipts reference the
// order's local invoice code when one has been generated.
func (uc *UseCase) ExportReceipts(ctx context.Context, actor domain.Actor, date string) (*dto.ExportResult, error) {
	orders, company, _, err := uc.loadDay(ctx, date)
	if err != nil {
		return nil, err
	}

	seq, err := uc.counterRepo.Advance(ctx, date, entity.DocReceipt)
	if err != nil {
		return nil, err
	}
	number := batchNumber(date, seq)

	docs := make([]fiscal.ReceiptDocument, 0, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		client, err := uc.clientRepo.GetByID(ctx, o.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, domain.Validationf("order %s references unknown client %s", o.ID, o.ClientID)
		}
		invoiceNumber := ""
		if inv, err := uc.invoiceRepo.GetByOrderID(ctx, o.ID); err != nil {
			return nil, err
		} else if inv != nil {
			invoiceNumber = inv.InvoiceCode
		}
		docs = append(docs, fiscal.AssembleReceipt(o, client, company, number, invoiceNumber))
		ids = append(ids, o.ID)
	}

	filename, content, err := uc.renderer.RenderReceipts(date, seq, docs)
	if err != nil {
		return nil, err
	}

	err = uc.tx.RunExport(ctx, func(orderRepo repository.OrderRepository, _ repository.DayStatusRepository) error {
		return orderRepo.SetExportFlag(ctx, ids, entity.ExportReceipt)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("date", date).Int("seq", seq).Int("orders", len(ids)).Msg("receipts exported")
	return &dto.ExportResult{FileName: filename, Content: content, Sequence: seq, Orders: len(ids)}, nil
}

// ExportProduction builds the production sheet and closes the day: from this
// point order mutation for the date is blocked (admin override aside).
func (uc *UseCase) ExportProduction(ctx context.Context, actor domain.Actor, date string) (*dto.ExportResult, error) {
	orders, company, products, err := uc.loadDay(ctx, date)
	if err != nil {
		return nil, err
	}

	if day, err := uc.dayRepo.Get(ctx, date); err != nil {
		return nil, err
	} else if day != nil && day.ProductionExported {
		uc.log.Warn().Str("date", date).Msg("re-exporting production for an already closed day")
	}

	seq, err := uc.counterRepo.Advance(ctx, date, entity.DocProduction)
	if err != nil {
		return nil, err
	}

	lot := company.LotNumberCurrent
	rows := fiscal.AssembleProduction(orders, company, products, lot, date)

	filename, content, err := uc.renderer.RenderProduction(date, seq, rows)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = uc.tx.RunExport(ctx, func(_ repository.OrderRepository, dayRepo repository.DayStatusRepository) error {
		return dayRepo.Close(ctx, date, actor.UserID, lot, now)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("date", date).Int("seq", seq).Int("lot", lot).Msg("production exported, day closed")
	return &dto.ExportResult{FileName: filename, Content: content, Sequence: seq, Orders: len(orders)}, nil
}

// ReopenDay clears the closed flag for a date. Admin capability required;
// export counters and order export flags stay as historical fact.
func (uc *UseCase) ReopenDay(ctx context.Context, actor domain.Actor, date string) (*dto.DayStatusResponse, error) {
	if !actor.CanReopenDay() {
		return nil, domain.ErrForbidden
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, domain.Validationf("malformed date %q", date)
	}
	if err := uc.dayRepo.Reopen(ctx, date, actor.UserID, time.Now()); err != nil {
		return nil, err
	}
	uc.log.Info().Str("date", date).Str("by", actor.UserID).Msg("day reopened")
	return uc.GetDay(ctx, date)
}

// GetDay returns the day state, defaulting to open when no record exists.
func (uc *UseCase) GetDay(ctx context.Context, date string) (*dto.DayStatusResponse, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, domain.Validationf("malformed date %q", date)
	}
	day, err := uc.dayRepo.Get(ctx, date)
	if err != nil {
		return nil, err
	}
	if day == nil {
		day = entity.OpenDay(date)
	}
	return dto.NewDayStatusResponse(day), nil
}

// PeekCounters returns the current per-date counters without advancing them.
func (uc *UseCase) PeekCounters(ctx context.Context, date string) (*dto.ExportCountersResponse, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, domain.Validationf("malformed date %q", date)
	}
	c, err := uc.counterRepo.Get(ctx, date)
	if err != nil {
		return nil, err
	}
	return &dto.ExportCountersResponse{
		Date:       date,
		Invoice:    c.Count(entity.DocInvoice),
		Receipt:    c.Count(entity.DocReceipt),
		Production: c.Count(entity.DocProduction),
	}, nil
}
