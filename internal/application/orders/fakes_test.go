package orders_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/adpopescu/panex-api/internal/domain"
	"github.com/adpopescu/panex-api/internal/domain/entity"
	"github.com/adpopescu/panex-api/internal/domain/repository"
	"github.com/adpopescu/panex-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ──────────────────────────────────────────────────────────────────────────────

type memOrderRepo struct {
	mu     sync.Mutex
	seq    int
	orders map[string]*entity.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: map[string]*entity.Order{}}
}

func (r *memOrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cur := range r.orders {
		if cur.ClientID == o.ClientID && cur.Date == o.Date {
			return domain.Conflictf("duplicate order for client %s on %s", o.ClientID, o.Date)
		}
	}
	r.seq++
	o.ID = fmt.Sprintf("o%d", r.seq)
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) Update(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.orders[o.ID] == nil {
		return domain.ErrNotFound
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.orders[id]
	if o == nil {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) GetByClientAndDate(_ context.Context, clientID, date string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ClientID == clientID && o.Date == date {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memOrderRepo) ListByDate(_ context.Context, date string) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.orders {
		if o.Date == date {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memOrderRepo) CountByDate(_ context.Context, date string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.orders {
		if o.Date == date {
			n++
		}
	}
	return n, nil
}

func (r *memOrderRepo) SetExportFlag(_ context.Context, ids []string, kind entity.ExportKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if o := r.orders[id]; o != nil {
			switch kind {
			case entity.ExportInvoice:
				o.InvoiceExported = true
			case entity.ExportReceipt:
				o.ReceiptExported = true
			}
		}
	}
	return nil
}

type memDayRepo struct {
	mu   sync.Mutex
	days map[string]*entity.DayStatus

	// onGetLocked, when set, runs at the serialization point before the
	// status read. Lets a test land a racing day close exactly where a real
	// concurrent transaction would have committed it.
	onGetLocked func(date string)
}

func newMemDayRepo() *memDayRepo {
	return &memDayRepo{days: map[string]*entity.DayStatus{}}
}

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
	if r.onGetLocked != nil {
		r.onGetLocked(date)
	}
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

type memCompanyRepo struct {
	mu  sync.Mutex
	cfg entity.CompanyConfig
}

func (r *memCompanyRepo) Get(_ context.Context) (*entity.CompanyConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := r.cfg
	return &cp, nil
}

func (r *memCompanyRepo) GetForUpdate(ctx context.Context) (*entity.CompanyConfig, error) {
	return r.Get(ctx)
}

func (r *memCompanyRepo) UpdateLot(_ context.Context, lotNumber int, lotDate string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg.LotNumberCurrent = lotNumber
	r.cfg.LotDate = lotDate
	return nil
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

// fakeTx hands the fakes straight to the callback; there is no transaction to
// roll back, which is fine for behavior-level tests.
type fakeTx struct {
	orders  *memOrderRepo
	days    *memDayRepo
	company *memCompanyRepo
}

func (f *fakeTx) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	dayRepo repository.DayStatusRepository,
	companyRepo repository.CompanyConfigRepository,
) error) error {
	return fn(f.orders, f.days, f.company)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "test", Level: "error"})
}

func timeNow() time.Time { return time.Date(2026, 2, 9, 14, 0, 0, 0, time.UTC) }
