package repository

import (
	"context"

	"github.com/adpopescu/panex-api/internal/domain/entity"
)

// ProductRepository is the read-only port into the product catalog.
// Product CRUD lives in the catalog service; this engine only consumes it.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error)
}

// ClientRepository is the read-only port into the client catalog.
type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Client, error)
}
