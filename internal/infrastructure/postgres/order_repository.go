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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implements OrderRepository (usable with pool or tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository builds the adapter. Pass a pool or a tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persists the order header and its items. A unique violation on
// (client_id, date) surfaces as a duplicate-order state conflict.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO orders (id, date, client_id, agent_id, payment_type, due_date,
		                    total, total_vat, total_with_vat,
		                    invoice_exported, receipt_exported, validated,
		                    created_at, updated_at)
		VALUES ($1, $2::date, $3, $4, $5, NULLIF($6, '')::date, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.Date, order.ClientID, order.AgentID, order.PaymentType, order.DueDate,
		order.Total, order.TotalVAT, order.TotalWithVAT,
		order.InvoiceExported, order.ReceiptExported, order.Validated,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("duplicate order for client %s on %s", order.ClientID, order.Date)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return r.insertItems(ctx, order)
}

// Update rewrites the header and replaces the items.
func (r *OrderRepo) Update(ctx context.Context, order *entity.Order) error {
	query := `
		UPDATE orders
		SET agent_id       = $2,
		    payment_type   = $3,
		    due_date       = NULLIF($4, '')::date,
		    total          = $5,
		    total_vat      = $6,
		    total_with_vat = $7,
		    validated      = $8,
		    updated_at     = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		order.ID, order.AgentID, order.PaymentType, order.DueDate,
		order.Total, order.TotalVAT, order.TotalWithVAT,
		order.Validated, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("clear order items: %w", err)
	}
	return r.insertItems(ctx, order)
}

func (r *OrderRepo) insertItems(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO order_items (order_id, position, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`
	for i, it := range order.Items {
		if _, err := r.q.Exec(ctx, query, order.ID, i, it.ProductID, it.Quantity, it.UnitPrice); err != nil {
			return fmt.Errorf("insert order item %d: %w", i, err)
		}
	}
	return nil
}

// Delete removes the order and its items. Mutability gating happens in the
// usecase; this is the raw removal.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const orderColumns = `
	id, date::text, client_id, agent_id, payment_type, COALESCE(due_date::text, ''),
	total, total_vat, total_with_vat,
	invoice_exported, receipt_exported, validated, created_at, updated_at`

// GetByID loads one order with its items, nil when absent.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	row := r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return r.scanWithItems(ctx, row)
}

// GetByClientAndDate loads the order for one client and date, nil when absent.
func (r *OrderRepo) GetByClientAndDate(ctx context.Context, clientID, date string) (*entity.Order, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE client_id = $1 AND date = $2::date`,
		clientID, date)
	return r.scanWithItems(ctx, row)
}

func (r *OrderRepo) scanWithItems(ctx context.Context, row pgx.Row) (*entity.Order, error) {
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.Date, &o.ClientID, &o.AgentID, &o.PaymentType, &o.DueDate,
		&o.Total, &o.TotalVAT, &o.TotalWithVAT,
		&o.InvoiceExported, &o.ReceiptExported, &o.Validated,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, o *entity.Order) error {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, quantity, unit_price
		FROM order_items WHERE order_id = $1 ORDER BY position`, o.ID)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

// ListByDate returns every order of a date with items, sorted by client for
// stable export ordering.
func (r *OrderRepo) ListByDate(ctx context.Context, date string) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE date = $1::date ORDER BY client_id`, date)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// CountByDate counts the orders of a date (first-order-of-day check).
func (r *OrderRepo) CountByDate(ctx context.Context, date string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE date = $1::date`, date).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// SetExportFlag bulk-sets one export flag. Already-true rows are untouched
// (idempotent).
func (r *OrderRepo) SetExportFlag(ctx context.Context, ids []string, kind entity.ExportKind) error {
	if len(ids) == 0 {
		return nil
	}
	col := "invoice_exported"
	if kind == entity.ExportReceipt {
		col = "receipt_exported"
	}
	query := fmt.Sprintf(`UPDATE orders SET %s = TRUE, updated_at = NOW() WHERE id = ANY($1)`, col)
	if _, err := r.q.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("set %s: %w", col, err)
	}
	return nil
}
