package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adpopescu/panex-api/internal/domain"
	"github.com/adpopescu/panex-api/internal/domain/entity"
	"github.com/adpopescu/panex-api/internal/domain/repository"
)

var (
	_ repository.BillingSettingsRepository = (*BillingSettingsRepo)(nil)
	_ repository.LocalInvoiceRepository    = (*LocalInvoiceRepo)(nil)
)

// BillingSettingsRepo implements BillingSettingsRepository over the singleton
// billing_settings row (id = 1).
type BillingSettingsRepo struct {
	q Querier
}

// NewBillingSettingsRepository builds the adapter.
func NewBillingSettingsRepository(q Querier) *BillingSettingsRepo {
	return &BillingSettingsRepo{q: q}
}

const billingSettingsQuery = `
	SELECT invoice_series, invoice_next_number, invoice_number_padding
	FROM billing_settings WHERE id = 1`

// Get loads the numbering settings.
func (r *BillingSettingsRepo) Get(ctx context.Context) (*entity.BillingSettings, error) {
	return r.get(ctx, billingSettingsQuery)
}

// GetForUpdate loads the settings under a row lock, serializing concurrent
// number allocations. Must only be called on a tx-bound repo.
func (r *BillingSettingsRepo) GetForUpdate(ctx context.Context) (*entity.BillingSettings, error) {
	return r.get(ctx, billingSettingsQuery+` FOR UPDATE`)
}

func (r *BillingSettingsRepo) get(ctx context.Context, query string) (*entity.BillingSettings, error) {
	var s entity.BillingSettings
	err := r.q.QueryRow(ctx, query).Scan(&s.InvoiceSeries, &s.InvoiceNextNumber, &s.InvoiceNumberPadding)
	if err != nil {
		return nil, fmt.Errorf("get billing settings: %w", err)
	}
	return &s, nil
}

// Update writes the settings. Existing invoices keep their numbers.
func (r *BillingSettingsRepo) Update(ctx context.Context, s *entity.BillingSettings) error {
	query := `
		UPDATE billing_settings
		SET invoice_series = $1, invoice_next_number = $2, invoice_number_padding = $3
		WHERE id = 1`
	if _, err := r.q.Exec(ctx, query, s.InvoiceSeries, s.InvoiceNextNumber, s.InvoiceNumberPadding); err != nil {
		return fmt.Errorf("update billing settings: %w", err)
	}
	return nil
}

// LocalInvoiceRepo implements LocalInvoiceRepository.
type LocalInvoiceRepo struct {
	q Querier
}

// NewLocalInvoiceRepository builds the adapter.
func NewLocalInvoiceRepository(q Querier) *LocalInvoiceRepo {
	return &LocalInvoiceRepo{q: q}
}

// Create persists the invoice and its snapshot lines. The unique constraint
// on order_id backs the at-most-one-invoice-per-order invariant.
func (r *LocalInvoiceRepo) Create(ctx context.Context, inv *entity.LocalInvoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO local_invoices (id, order_id, invoice_number, invoice_code, document_date,
		                            client_name, client_cif, client_address,
		                            total, total_vat, total_with_vat, status, pdf_generated, created_at)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.OrderID, inv.InvoiceNumber, inv.InvoiceCode, inv.DocumentDate,
		inv.ClientName, inv.ClientCIF, inv.ClientAddress,
		inv.Total, inv.TotalVAT, inv.TotalWithVAT, inv.Status, inv.PDFGenerated, inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("order %s already has an invoice", inv.OrderID)
		}
		return fmt.Errorf("insert local invoice: %w", err)
	}
	lineQuery := `
		INSERT INTO local_invoice_lines (id, invoice_id, product_id, description, unit,
		                                 quantity, unit_price, vat_rate, value, vat_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for i := range inv.Lines {
		l := &inv.Lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.InvoiceID = inv.ID
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.InvoiceID, l.ProductID, l.Description, l.Unit,
			l.Quantity, l.UnitPrice, l.VATRate, l.Value, l.VATAmount,
		); err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}
	return nil
}

// GetByOrderID loads an order's invoice with lines, nil when none exists.
func (r *LocalInvoiceRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.LocalInvoice, error) {
	query := `
		SELECT id, order_id, invoice_number, invoice_code, document_date::text,
		       client_name, client_cif, client_address,
		       total, total_vat, total_with_vat, status, pdf_generated, created_at
		FROM local_invoices WHERE order_id = $1`
	var inv entity.LocalInvoice
	err := r.q.QueryRow(ctx, query, orderID).Scan(
		&inv.ID, &inv.OrderID, &inv.InvoiceNumber, &inv.InvoiceCode, &inv.DocumentDate,
		&inv.ClientName, &inv.ClientCIF, &inv.ClientAddress,
		&inv.Total, &inv.TotalVAT, &inv.TotalWithVAT, &inv.Status, &inv.PDFGenerated, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get local invoice: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, product_id, description, unit,
		       quantity, unit_price, vat_rate, value, vat_amount
		FROM local_invoice_lines WHERE invoice_id = $1 ORDER BY id`, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.LocalInvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.Description, &l.Unit,
			&l.Quantity, &l.UnitPrice, &l.VATRate, &l.Value, &l.VATAmount); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		inv.Lines = append(inv.Lines, l)
	}
	return &inv, rows.Err()
}

// MarkPDFGenerated records that the detached PDF task finished.
func (r *LocalInvoiceRepo) MarkPDFGenerated(ctx context.Context, invoiceID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE local_invoices SET pdf_generated = TRUE WHERE id = $1`, invoiceID); err != nil {
		return fmt.Errorf("mark pdf generated: %w", err)
	}
	return nil
}
