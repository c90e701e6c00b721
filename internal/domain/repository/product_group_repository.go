package repository

import (
	"context"

	"github.com/adpopescu/panex-api/internal/domain/entity"
)

// ProductGroupRepository is the persistence port for product groups.
type ProductGroupRepository interface {
	Upsert(ctx context.Context, g *entity.ProductGroup) error
	GetByID(ctx context.Context, id string) (*entity.ProductGroup, error)
	List(ctx context.Context) ([]*entity.ProductGroup, error)
}
