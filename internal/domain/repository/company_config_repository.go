package repository

import (
	"context"

	"github.com/adpopescu/panex-api/internal/domain/entity"
)

// CompanyConfigRepository is the persistence port for the singleton company
// record, which carries the LOT sequence.
type CompanyConfigRepository interface {
	Get(ctx context.Context) (*entity.CompanyConfig, error)

	// GetForUpdate locks the singleton row for the duration of the caller's
	// transaction. Used by the LOT bump so two first-orders of a new day
	// cannot both read the old counter.
	GetForUpdate(ctx context.Context) (*entity.CompanyConfig, error)

	// UpdateLot writes the incremented counter and the date it was bumped for.
	UpdateLot(ctx context.Context, lotNumber int, lotDate string) error
}
