package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adpopescu/panex-api/internal/domain/entity"
	"github.com/adpopescu/panex-api/internal/domain/repository"
)

var _ repository.ProductGroupRepository = (*ProductGroupRepo)(nil)

// ProductGroupRepo implements ProductGroupRepository.
type ProductGroupRepo struct {
	q Querier
}

// NewProductGroupRepository builds the adapter.
func NewProductGroupRepository(q Querier) *ProductGroupRepo {
	return &ProductGroupRepo{q: q}
}

// Upsert writes the group header and replaces its member set.
func (r *ProductGroupRepo) Upsert(ctx context.Context, g *entity.ProductGroup) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	query := `
		INSERT INTO product_groups (id, name, master_product_id, master_product_code, price, vat_rate, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name                = EXCLUDED.name,
		    master_product_id   = EXCLUDED.master_product_id,
		    master_product_code = EXCLUDED.master_product_code,
		    price               = EXCLUDED.price,
		    vat_rate            = EXCLUDED.vat_rate,
		    position            = EXCLUDED.position`
	if _, err := r.q.Exec(ctx, query,
		g.ID, g.Name, g.MasterProductID, g.MasterProductCode, g.Price, g.VATRate, g.Position,
	); err != nil {
		return fmt.Errorf("upsert product group: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM product_group_members WHERE group_id = $1`, g.ID); err != nil {
		return fmt.Errorf("clear group members: %w", err)
	}
	for _, pid := range g.MemberProductIDs {
		if _, err := r.q.Exec(ctx,
			`INSERT INTO product_group_members (group_id, product_id) VALUES ($1, $2)`, g.ID, pid,
		); err != nil {
			return fmt.Errorf("insert group member: %w", err)
		}
	}
	return nil
}

const groupColumns = `id, name, master_product_id, master_product_code, price, vat_rate, position`

// GetByID loads one group with its members, nil when absent.
func (r *ProductGroupRepo) GetByID(ctx context.Context, id string) (*entity.ProductGroup, error) {
	row := r.q.QueryRow(ctx, `SELECT `+groupColumns+` FROM product_groups WHERE id = $1`, id)
	g, err := scanGroup(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadMembers(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// List returns every group with members, in definition order.
func (r *ProductGroupRepo) List(ctx context.Context) ([]*entity.ProductGroup, error) {
	rows, err := r.q.Query(ctx, `SELECT `+groupColumns+` FROM product_groups ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("list product groups: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductGroup
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product group: %w", err)
		}
		list = append(list, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, g := range list {
		if err := r.loadMembers(ctx, g); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func scanGroup(row pgx.Row) (*entity.ProductGroup, error) {
	var g entity.ProductGroup
	if err := row.Scan(&g.ID, &g.Name, &g.MasterProductID, &g.MasterProductCode,
		&g.Price, &g.VATRate, &g.Position); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *ProductGroupRepo) loadMembers(ctx context.Context, g *entity.ProductGroup) error {
	rows, err := r.q.Query(ctx,
		`SELECT product_id FROM product_group_members WHERE group_id = $1 ORDER BY product_id`, g.ID)
	if err != nil {
		return fmt.Errorf("list group members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pid string
		if err := rows.Scan(&pid); err != nil {
			return fmt.Errorf("scan group member: %w", err)
		}
		g.MemberProductIDs = append(g.MemberProductIDs, pid)
	}
	return rows.Err()
}
