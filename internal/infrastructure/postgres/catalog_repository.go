package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/adpopescu/panex-api/internal/domain/entity"
	"github.com/adpopescu/panex-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.ClientRepository  = (*ClientRepo)(nil)
)

// ProductRepo is the read-only adapter over the product catalog tables owned
// by the catalog service.
type ProductRepo struct {
	q Querier
}

// NewProductRepository builds the adapter.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `
	id, code, description, unit, weight_kg, vat_rate, price_zone1, price_zone2, price_zone3`

// GetByID loads one product, nil when absent.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id).Scan(
		&p.ID, &p.Code, &p.Description, &p.Unit, &p.WeightKg, &p.VATRate,
		&p.PriceZone1, &p.PriceZone2, &p.PriceZone3,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetByIDs loads a batch of products keyed by id. Missing ids are simply
// absent from the map.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Description, &p.Unit, &p.WeightKg, &p.VATRate,
			&p.PriceZone1, &p.PriceZone2, &p.PriceZone3); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out[p.ID] = &p
	}
	return out, rows.Err()
}

// ClientRepo is the read-only adapter over the client catalog table.
type ClientRepo struct {
	q Querier
}

// NewClientRepository builds the adapter.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// GetByID loads one client, nil when absent.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	query := `
		SELECT id, name, cif, address, price_zone, displays_weight, accounting_code
		FROM clients WHERE id = $1`
	var c entity.Client
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.CIF, &c.Address, &c.PriceZone, &c.DisplaysWeight, &c.AccountingCode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}
