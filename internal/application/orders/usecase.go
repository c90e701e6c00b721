package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adpopescu/panex-api/internal/application/dto"
	"github.com/adpopescu/panex-api/internal/domain"
	"github.com/adpopescu/panex-api/internal/domain/entity"
	"github.com/adpopescu/panex-api/internal/domain/fiscal"
	"github.com/adpopescu/panex-api/internal/domain/repository"
	"github.com/adpopescu/panex-api/pkg/logger"
)

// UseCase is the order store: create/update/delete with day-status gating,
// export-flag freezing and the first-order-of-day LOT bump.
type UseCase struct {
	tx          TxRunner
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewUseCase builds the usecase. orderRepo is pool-bound for reads; mutations
// go through the TxRunner.
func NewUseCase(tx TxRunner, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, orderRepo: orderRepo, productRepo: productRepo, log: log}
}

// Save creates or updates the order for (client, date). Totals are recomputed
// server-side from the submitted lines and catalog VAT rates; the submitted
// unit prices are frozen into the lines.
//
// The whole mutation runs in one transaction together with the day-closed
// check and, for the first order of a brand-new date, the LOT increment. The
// day status is read under the per-date lock, so a day close that commits
// concurrently is either seen here or waits until this order commits.
func (uc *UseCase) Save(ctx context.Context, actor domain.Actor, in dto.SaveOrderRequest) (*dto.OrderResponse, error) {
	if err := validateSave(in); err != nil {
		return nil, err
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.OrderItem{
			ProductID: it.ProductID,
			Quantity:  fiscal.Qty3(it.Quantity),
			UnitPrice: fiscal.Price4(it.UnitPrice),
		})
		ids = append(ids, it.ProductID)
	}

	// Catalog lookup is read-only and can stay outside the tx.
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if products[it.ProductID] == nil {
			return nil, domain.Validationf("unknown product %s", it.ProductID)
		}
	}
	totals := fiscal.ComputeOrderTotals(items, products)

	now := time.Now()
	var saved *entity.Order
	err = uc.tx.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		dayRepo repository.DayStatusRepository,
		companyRepo repository.CompanyConfigRepository,
	) error {
		day, err := dayRepo.GetLocked(ctx, in.Date)
		if err != nil {
			return err
		}
		if day != nil && day.ProductionExported && !actor.CanOverrideClosedDay() {
			return domain.Conflictf("day %s is closed", in.Date)
		}

		existing, err := orderRepo.GetByClientAndDate(ctx, in.ClientID, in.Date)
		if err != nil {
			return err
		}
		if existing != nil {
			return uc.updateExisting(ctx, orderRepo, actor, existing, in, items, totals, now, &saved)
		}
		return uc.createNew(ctx, orderRepo, companyRepo, in, items, totals, now, &saved)
	})
	if err != nil {
		return nil, err
	}
	return dto.NewOrderResponse(saved), nil
}

func (uc *UseCase) updateExisting(
	ctx context.Context,
	orderRepo repository.OrderRepository,
	actor domain.Actor,
	existing *entity.Order,
	in dto.SaveOrderRequest,
	items []entity.OrderItem,
	totals fiscal.OrderTotals,
	now time.Time,
	saved **entity.Order,
) error {
	if existing.Frozen() {
		if !existing.SameItems(items) {
			return domain.Conflictf("order %s already invoice-exported, items are frozen", existing.ID)
		}
		// Metadata-only change on an exported order: admin override required.
		if !actor.CanOverrideClosedDay() {
			return domain.Conflictf("order %s already invoice-exported", existing.ID)
		}
	}
	existing.AgentID = in.AgentID
	existing.PaymentType = in.PaymentType
	existing.DueDate = in.DueDate
	existing.Validated = in.Validated
	existing.Items = items
	existing.Total = totals.Total
	existing.TotalVAT = totals.TotalVAT
	existing.TotalWithVAT = totals.TotalWithVAT
	existing.UpdatedAt = now
	if err := orderRepo.Update(ctx, existing); err != nil {
		return err
	}
	*saved = existing
	return nil
}

// createNew inserts the order; when it is the first order of a brand-new
// date it also bumps the LOT counter, inside the same transaction and under a
// row lock on the company record, so two racing first-orders cannot both
// increment.
func (uc *UseCase) createNew(
	ctx context.Context,
	orderRepo repository.OrderRepository,
	companyRepo repository.CompanyConfigRepository,
	in dto.SaveOrderRequest,
	items []entity.OrderItem,
	totals fiscal.OrderTotals,
	now time.Time,
	saved **entity.Order,
) error {
	count, err := orderRepo.CountByDate(ctx, in.Date)
	if err != nil {
		return err
	}
	if count == 0 {
		cfg, err := companyRepo.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		// ISO dates compare chronologically as strings. Only a date newer
		// than the last bump advances the LOT; re-creating orders for an old
		// or current date never does.
		if in.Date > cfg.LotDate {
			if err := companyRepo.UpdateLot(ctx, cfg.LotNumberCurrent+1, in.Date); err != nil {
				return err
			}
			uc.log.Info().Str("date", in.Date).Int("lot", cfg.LotNumberCurrent+1).Msg("lot incremented for new production day")
		}
	}

	order := &entity.Order{
		Date:         in.Date,
		ClientID:     in.ClientID,
		AgentID:      in.AgentID,
		PaymentType:  in.PaymentType,
		DueDate:      in.DueDate,
		Validated:    in.Validated,
		Items:        items,
		Total:        totals.Total,
		TotalVAT:     totals.TotalVAT,
		TotalWithVAT: totals.TotalWithVAT,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := orderRepo.Create(ctx, order); err != nil {
		return err
	}
	*saved = order
	return nil
}

// Delete removes an order. Blocked when the order is invoice-exported, or
// when its day is closed and the caller lacks the override. Receipt-exported
// orders stay deletable: receipts are a secondary export, the invoice is the
// fiscally binding document.
func (uc *UseCase) Delete(ctx context.Context, actor domain.Actor, orderID string) error {
	return uc.tx.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		dayRepo repository.DayStatusRepository,
		_ repository.CompanyConfigRepository,
	) error {
		order, err := orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.InvoiceExported {
			return domain.Conflictf("order %s already invoice-exported", orderID)
		}
		day, err := dayRepo.GetLocked(ctx, order.Date)
		if err != nil {
			return err
		}
		if day != nil && day.ProductionExported && !actor.CanOverrideClosedDay() {
			return domain.Conflictf("day %s is closed", order.Date)
		}
		return orderRepo.Delete(ctx, orderID)
	})
}

// MarkExported bulk-sets one export flag. Idempotent.
func (uc *UseCase) MarkExported(ctx context.Context, orderIDs []string, kind entity.ExportKind) error {
	return uc.orderRepo.SetExportFlag(ctx, orderIDs, kind)
}

// Get loads one order.
func (uc *UseCase) Get(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewOrderResponse(order), nil
}

// ListByDate returns every order of a date.
func (uc *UseCase) ListByDate(ctx context.Context, date string) ([]*dto.OrderResponse, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, domain.Validationf("malformed date %q", date)
	}
	list, err := uc.orderRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, dto.NewOrderResponse(o))
	}
	return out, nil
}

func validateSave(in dto.SaveOrderRequest) error {
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return domain.Validationf("malformed date %q", in.Date)
	}
	if in.ClientID == "" {
		return domain.Validationf("client_id is required")
	}
	if len(in.Items) == 0 {
		return domain.Validationf("order needs at least one item")
	}
	switch in.PaymentType {
	case entity.PaymentImmediate:
		// no due date needed
	case entity.PaymentCredit:
		if _, err := time.Parse("2006-01-02", in.DueDate); err != nil {
			return domain.Validationf("credit orders require a valid due_date")
		}
	default:
		return domain.Validationf("payment_type must be %q or %q", entity.PaymentImmediate, entity.PaymentCredit)
	}
	for i, it := range in.Items {
		if it.ProductID == "" {
			return domain.Validationf("item %d: product_id is required", i)
		}
		if !it.Quantity.GreaterThan(decimal.Zero) {
			return domain.Validationf("item %d: quantity must be positive", i)
		}
		if it.UnitPrice.LessThan(decimal.Zero) {
			return domain.Validationf("item %d: unit_price cannot be negative", i)
		}
	}
	return nil
}
