package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adpopescu/panex-api/internal/application/dto"
	"github.com/adpopescu/panex-api/internal/domain"
	"github.com/adpopescu/panex-api/internal/domain/entity"
	"github.com/adpopescu/panex-api/internal/domain/fiscal"
	"github.com/adpopescu/panex-api/internal/domain/repository"
	"github.com/adpopescu/panex-api/pkg/logger"
)

// UseCase allocates local invoice numbers and generates invoice records from
// validated orders. The number sequence is global (one series); allocation is
// a read-increment-write under a row lock, committed together with the
// invoice insert.
type UseCase struct {
	tx           TxRunner
	orderRepo    repository.OrderRepository
	clientRepo   repository.ClientRepository
	productRepo  repository.ProductRepository
	companyRepo  repository.CompanyConfigRepository
	settingsRepo repository.BillingSettingsRepository
	invoiceRepo  repository.LocalInvoiceRepository
	pdfGen       InvoicePDFGenerator
	log          *logger.Logger
}

// NewUseCase builds the usecase.
func NewUseCase(
	tx TxRunner,
	orderRepo repository.OrderRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	companyRepo repository.CompanyConfigRepository,
	settingsRepo repository.BillingSettingsRepository,
	invoiceRepo repository.LocalInvoiceRepository,
	pdfGen InvoicePDFGenerator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		tx:           tx,
		orderRepo:    orderRepo,
		clientRepo:   clientRepo,
		productRepo:  productRepo,
		companyRepo:  companyRepo,
		settingsRepo: settingsRepo,
		invoiceRepo:  invoiceRepo,
		pdfGen:       pdfGen,
		log:          log,
	}
}

// InvoiceCode formats series + zero-padded number, e.g. ("FAC", 28, 6) ->
// "FAC-000028". Numbers that outgrow the padding keep all their digits.
func InvoiceCode(series string, number, padding int) string {
	return fmt.Sprintf("%s-%0*d", series, padding, number)
}

// GenerateLocalInvoice creates the invoice record for a validated order, or
// returns the existing one unchanged: regeneration is number-stable. After a
// fresh allocation the PDF is rendered in a detached task whose failure never
// touches the committed invoice.
func (uc *UseCase) GenerateLocalInvoice(ctx context.Context, orderID string) (*dto.LocalInvoiceResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !order.Validated {
		return nil, domain.Conflictf("order %s is not validated", orderID)
	}
	client, err := uc.clientRepo.GetByID(ctx, order.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.Validationf("order %s references unknown client %s", orderID, order.ClientID)
	}

	ids := make([]string, 0, len(order.Items))
	for _, it := range order.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var result *entity.LocalInvoice
	var allocated bool
	err = uc.tx.RunBilling(ctx, func(
		settingsRepo repository.BillingSettingsRepository,
		invoiceRepo repository.LocalInvoiceRepository,
	) error {
		existing, err := invoiceRepo.GetByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		settings, err := settingsRepo.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		number := settings.InvoiceNextNumber
		inv := &entity.LocalInvoice{
			OrderID:       orderID,
			InvoiceNumber: number,
			InvoiceCode:   InvoiceCode(settings.InvoiceSeries, number, settings.InvoiceNumberPadding),
			DocumentDate:  order.Date,
			ClientName:    client.Name,
			ClientCIF:     client.CIF,
			ClientAddress: client.Address,
			Total:         order.Total,
			TotalVAT:      order.TotalVAT,
			TotalWithVAT:  order.TotalWithVAT,
			Status:        entity.InvoiceStatusIssued,
			CreatedAt:     time.Now(),
		}
		for _, it := range order.Items {
			desc, unit := it.ProductID, ""
			var vatRate decimal.Decimal
			if p := products[it.ProductID]; p != nil {
				desc, unit = p.Description, p.Unit
				vatRate = p.VATRate
			}
			value := fiscal.Money2(fiscal.Qty3(it.Quantity).Mul(fiscal.Price4(it.UnitPrice)))
			inv.Lines = append(inv.Lines, entity.LocalInvoiceLine{
				ProductID:   it.ProductID,
				Description: desc,
				Unit:        unit,
				Quantity:    fiscal.Qty3(it.Quantity),
				UnitPrice:   fiscal.Price4(it.UnitPrice),
				VATRate:     vatRate,
				Value:       value,
				VATAmount:   fiscal.VATAmount(value, vatRate),
			})
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		settings.InvoiceNextNumber = number + 1
		if err := settingsRepo.Update(ctx, settings); err != nil {
			return err
		}
		result = inv
		allocated = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if allocated {
		uc.log.Info().Str("order", orderID).Str("code", result.InvoiceCode).Msg("local invoice generated")
		go uc.generatePDF(result)
	}
	return dto.NewLocalInvoiceResponse(result), nil
}

// generatePDF runs detached from the caller's request. Best effort: errors
// are logged, the invoice stays valid either way.
func (uc *UseCase) generatePDF(inv *entity.LocalInvoice) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	company, err := uc.companyRepo.Get(ctx)
	if err != nil {
		uc.log.Error().Err(err).Str("invoice", inv.InvoiceCode).Msg("pdf: load company config")
		return
	}
	if _, err := uc.pdfGen.GenerateInvoicePDF(ctx, inv, company); err != nil {
		uc.log.Error().Err(err).Str("invoice", inv.InvoiceCode).Msg("pdf generation failed")
		return
	}
	if err := uc.invoiceRepo.MarkPDFGenerated(ctx, inv.ID); err != nil {
		uc.log.Error().Err(err).Str("invoice", inv.InvoiceCode).Msg("pdf: mark generated")
	}
}

// GetLocalInvoice returns the invoice for an order.
func (uc *UseCase) GetLocalInvoice(ctx context.Context, orderID string) (*dto.LocalInvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewLocalInvoiceResponse(inv), nil
}

// DownloadInvoicePDF renders the invoice PDF on demand.
func (uc *UseCase) DownloadInvoicePDF(ctx context.Context, orderID string) ([]byte, string, error) {
	inv, err := uc.invoiceRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	company, err := uc.companyRepo.Get(ctx)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.pdfGen.GenerateInvoicePDF(ctx, inv, company)
	if err != nil {
		return nil, "", fmt.Errorf("generate invoice pdf: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", inv.InvoiceCode), nil
}

// GetSettings returns the numbering state, including the code the next
// generated invoice would receive.
func (uc *UseCase) GetSettings(ctx context.Context) (*dto.BillingSettingsResponse, error) {
	s, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.BillingSettingsResponse{
		InvoiceSeries:        s.InvoiceSeries,
		InvoiceNextNumber:    s.InvoiceNextNumber,
		InvoiceNumberPadding: s.InvoiceNumberPadding,
		NextInvoiceCode:      InvoiceCode(s.InvoiceSeries, s.InvoiceNextNumber, s.InvoiceNumberPadding),
	}, nil
}

// UpdateSettings is the administrative override of the numbering sequence.
// Existing invoices keep their numbers.
func (uc *UseCase) UpdateSettings(ctx context.Context, actor domain.Actor, in dto.BillingSettingsRequest) error {
	if !actor.CanManageBilling() {
		return domain.ErrForbidden
	}
	if in.InvoiceSeries == "" {
		return domain.Validationf("invoice_series is required")
	}
	if in.InvoiceNextNumber < 1 {
		return domain.Validationf("invoice_next_number must be >= 1")
	}
	if in.InvoiceNumberPadding < 1 {
		return domain.Validationf("invoice_number_padding must be >= 1")
	}
	return uc.settingsRepo.Update(ctx, &entity.BillingSettings{
		InvoiceSeries:        in.InvoiceSeries,
		InvoiceNextNumber:    in.InvoiceNextNumber,
		InvoiceNumberPadding: in.InvoiceNumberPadding,
	})
}
