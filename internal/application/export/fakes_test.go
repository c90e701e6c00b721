package export_test

import (
	"context"
	"sync"
	"time"

	"github.com/adpopescu/panex-api/internal/domain/entity"
	"github.com/adpopescu/panex-api/internal/domain/repository"
	"github.com/adpopescu/panex-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ──────────────────────────────────────────────────────────────────────────────

type memOrderRepo struct {
	mu     sync.Mutex
	orders []*entity.Order
}

func (r *memOrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
	return nil
}

func (r *memOrderRepo) Update(_ context.Context, _ *entity.Order) error { return nil }
func (r *memOrderRepo) Delete(_ context.Context, _ string) error        { return nil }

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}

func (r *memOrderRepo) GetByClientAndDate(_ context.Context, clientID, date string) (*entity.Order, error) {
	return nil, nil
}

func (r *memOrderRepo) ListByDate(_ context.Context, date string) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.orders {
		if o.Date == date {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) CountByDate(_ context.Context, date string) (int, error) {
	list, _ := r.ListByDate(context.Background(), date)
	return len(list), nil
}

func (r *memOrderRepo) SetExportFlag(_ context.Context, ids []string, kind entity.ExportKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	for _, o := range r.orders {
		if !want[o.ID] {
			continue
		}
		switch kind {
		case entity.ExportInvoice:
			o.InvoiceExported = true
		case entity.ExportReceipt:
			o.ReceiptExported = true
		}
	}
	return nil
}

type memDayRepo struct {
	mu   sync.Mutex
	days map[string]*entity.DayStatus
}

func newMemDayRepo() *memDayRepo { return &memDayRepo{days: map[string]*entity.DayStatus{}} }

func (r *memDayRepo) Get(_ context.Context, date string) (*entity.DayStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.days[date]
	if d == nil {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *memDayRepo) GetLocked(ctx context.Context, date string) (*entity.DayStatus, error) {
	return r.Get(ctx, date)
}

func (r *memDayRepo) Close(_ context.Context, date, exportedBy string, lotNumber int, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := now
	r.days[date] = &entity.DayStatus{
		Date:               date,
		ProductionExported: true,
		ExportedAt:         &t,
		ExportedBy:         exportedBy,
		LotNumber:          lotNumber,
	}
	return nil
}

func (r *memDayRepo) Reopen(_ context.Context, date, unlockedBy string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.days[date]
	if d == nil {
		return nil
	}
	t := now
	d.ProductionExported = false
	d.UnlockedAt = &t
	d.UnlockedBy = unlockedBy
	return nil
}

// memCounterRepo mirrors the single-statement upsert-increment contract with a
// mutex.
type memCounterRepo struct {
	mu       sync.Mutex
	counters map[string]*entity.ExportCounter
}

func newMemCounterRepo() *memCounterRepo {
	return &memCounterRepo{counters: map[string]*entity.ExportCounter{}}
}

func (r *memCounterRepo) Get(_ context.Context, date string) (*entity.ExportCounter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.counters[date]
	if c == nil {
		return &entity.ExportCounter{Date: date}, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCounterRepo) Advance(_ context.Context, date string, t entity.DocumentType) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.counters[date]
	if c == nil {
		c = &entity.ExportCounter{Date: date}
		r.counters[date] = c
	}
	switch t {
	case entity.DocInvoice:
		c.InvoiceCount++
		return c.InvoiceCount, nil
	case entity.DocReceipt:
		c.ReceiptCount++
		return c.ReceiptCount, nil
	default:
		c.ProductionCount++
		return c.ProductionCount, nil
	}
}

type memCompanyRepo struct {
	cfg entity.CompanyConfig
}

func (r *memCompanyRepo) Get(_ context.Context) (*entity.CompanyConfig, error) {
	cp := r.cfg
	return &cp, nil
}

func (r *memCompanyRepo) GetForUpdate(ctx context.Context) (*entity.CompanyConfig, error) {
	return r.Get(ctx)
}

func (r *memCompanyRepo) UpdateLot(_ context.Context, lotNumber int, lotDate string) error {
	r.cfg.LotNumberCurrent = lotNumber
	r.cfg.LotDate = lotDate
	return nil
}

type memClientRepo struct {
	clients map[string]*entity.Client
}

func (r *memClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	return r.clients[id], nil
}

type memProductRepo struct {
	products map[string]*entity.Product
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *memProductRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	out := map[string]*entity.Product{}
	for _, id := range ids {
		if p := r.products[id]; p != nil {
			out[id] = p
		}
	}
	return out, nil
}

type memGroupRepo struct {
	groups []*entity.ProductGroup
}

func (r *memGroupRepo) Upsert(_ context.Context, g *entity.ProductGroup) error {
	r.groups = append(r.groups, g)
	return nil
}

func (r *memGroupRepo) GetByID(_ context.Context, id string) (*entity.ProductGroup, error) {
	for _, g := range r.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, nil
}

func (r *memGroupRepo) List(_ context.Context) ([]*entity.ProductGroup, error) {
	return r.groups, nil
}

type memInvoiceRepo struct {
	byOrder map[string]*entity.LocalInvoice
}

func (r *memInvoiceRepo) Create(_ context.Context, inv *entity.LocalInvoice) error {
	if r.byOrder == nil {
		r.byOrder = map[string]*entity.LocalInvoice{}
	}
	r.byOrder[inv.OrderID] = inv
	return nil
}

func (r *memInvoiceRepo) GetByOrderID(_ context.Context, orderID string) (*entity.LocalInvoice, error) {
	return r.byOrder[orderID], nil
}

func (r *memInvoiceRepo) MarkPDFGenerated(_ context.Context, _ string) error { return nil }

type fakeTx struct {
	orders *memOrderRepo
	days   *memDayRepo
}

func (f *fakeTx) RunExport(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	dayRepo repository.DayStatusRepository,
) error) error {
	return fn(f.orders, f.days)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "test", Level: "error"})
}
