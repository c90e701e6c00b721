package orders

import (
	"context"

	"github.com/adpopescu/panex-api/internal/domain/repository"
)

// TxRunner executes fn with tx-bound repositories in one transaction.
// Order creation, the first-order-of-day LOT bump and the day-closed check
// must see the same consistent snapshot, so they run in a single tx.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		dayRepo repository.DayStatusRepository,
		companyRepo repository.CompanyConfigRepository,
	) error) error
}
