package postgres

import (
	"context"
	"fmt"

	"github.com/adpopescu/panex-api/internal/domain/entity"
	"github.com/adpopescu/panex-api/internal/domain/repository"
)

var _ repository.CompanyConfigRepository = (*CompanyConfigRepo)(nil)

// CompanyConfigRepo implements CompanyConfigRepository over the singleton
// company_config row (id = 1).
type CompanyConfigRepo struct {
	q Querier
}

// NewCompanyConfigRepository builds the adapter.
func NewCompanyConfigRepository(q Querier) *CompanyConfigRepo {
	return &CompanyConfigRepo{q: q}
}

const companyConfigQuery = `
	SELECT name, cif, address, bank, bank_account, warehouse_name, cash_account_code,
	       lot_number_current, COALESCE(lot_date::text, '')
	FROM company_config WHERE id = 1`

// Get loads the singleton record.
func (r *CompanyConfigRepo) Get(ctx context.Context) (*entity.CompanyConfig, error) {
	return r.get(ctx, companyConfigQuery)
}

// GetForUpdate loads the record holding a row lock until the caller's
// transaction ends. Must only be called on a tx-bound repo.
func (r *CompanyConfigRepo) GetForUpdate(ctx context.Context) (*entity.CompanyConfig, error) {
	return r.get(ctx, companyConfigQuery+` FOR UPDATE`)
}

func (r *CompanyConfigRepo) get(ctx context.Context, query string) (*entity.CompanyConfig, error) {
	var c entity.CompanyConfig
	err := r.q.QueryRow(ctx, query).Scan(
		&c.Name, &c.CIF, &c.Address, &c.Bank, &c.BankAccount,
		&c.WarehouseName, &c.CashAccountCode,
		&c.LotNumberCurrent, &c.LotDate,
	)
	if err != nil {
		return nil, fmt.Errorf("get company config: %w", err)
	}
	return &c, nil
}

// UpdateLot writes the bumped LOT counter and its date.
func (r *CompanyConfigRepo) UpdateLot(ctx context.Context, lotNumber int, lotDate string) error {
	query := `UPDATE company_config SET lot_number_current = $1, lot_date = $2::date WHERE id = 1`
	if _, err := r.q.Exec(ctx, query, lotNumber, lotDate); err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	return nil
}
