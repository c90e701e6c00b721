package orders_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adpopescu/panex-api/internal/application/dto"
	"github.com/adpopescu/panex-api/internal/application/orders"
	"github.com/adpopescu/panex-api/internal/domain"
	"github.com/adpopescu/panex-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

var (
	admin = domain.Actor{UserID: "u-admin", Role: "admin"}
	agent = domain.Actor{UserID: "u-agent", Role: "agent"}
)

type fixture struct {
	uc      *orders.UseCase
	orders  *memOrderRepo
	days    *memDayRepo
	company *memCompanyRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	orderRepo := newMemOrderRepo()
	dayRepo := newMemDayRepo()
	companyRepo := &memCompanyRepo{cfg: entity.CompanyConfig{
		Name: "Panificatie Test SRL", LotNumberCurrent: 5, LotDate: "2026-02-08",
	}}
	productRepo := &memProductRepo{products: map[string]*entity.Product{
		"p1": {ID: "p1", Code: "PF01", Description: "Paine alba", Unit: "buc",
			VATRate: dec("11"), PriceZone1: dec("2.50")},
		"p2": {ID: "p2", Code: "CV01", Description: "Covrig sarat", Unit: "buc",
			VATRate: dec("11"), PriceZone1: dec("1.20")},
	}}
	tx := &fakeTx{orders: orderRepo, days: dayRepo, company: companyRepo}
	return &fixture{
		uc:      orders.NewUseCase(tx, orderRepo, productRepo, testLogger()),
		orders:  orderRepo,
		days:    dayRepo,
		company: companyRepo,
	}
}

func saveReq(date, clientID string) dto.SaveOrderRequest {
	return dto.SaveOrderRequest{
		Date:        date,
		ClientID:    clientID,
		AgentID:     "u-agent",
		PaymentType: entity.PaymentImmediate,
		Validated:   true,
		Items: []dto.OrderItemPayload{
			{ProductID: "p1", Quantity: dec("3"), UnitPrice: dec("2.50")},
			{ProductID: "p2", Quantity: dec("10"), UnitPrice: dec("1.20")},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Save — totals and upsert
// ──────────────────────────────────────────────────────────────────────────────

func TestSave_RecomputesTotals(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Save(context.Background(), agent, saveReq("2026-02-09", "c1"))
	require.NoError(t, err)

	// 3*2.50 + 10*1.20 = 19.50; VAT 11% = 0.83 + 1.32 = 2.15
	assert.True(t, resp.Total.Equal(dec("19.5")), "got %s", resp.Total)
	assert.True(t, resp.TotalVAT.Equal(dec("2.15")), "got %s", resp.TotalVAT)
	assert.True(t, resp.TotalWithVAT.Equal(dec("21.65")))
	assert.NotEmpty(t, resp.ID)
}

func TestSave_SecondSaveUpdatesInPlace(t *testing.T) {
	f := newFixture(t)
	first, err := f.uc.Save(context.Background(), agent, saveReq("2026-02-09", "c1"))
	require.NoError(t, err)

	in := saveReq("2026-02-09", "c1")
	in.Items = in.Items[:1]
	second, err := f.uc.Save(context.Background(), agent, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same (client, date) is one order")
	assert.Len(t, second.Items, 1)
	n, _ := f.orders.CountByDate(context.Background(), "2026-02-09")
	assert.Equal(t, 1, n)
}

func TestSave_UnknownProductRejected(t *testing.T) {
	f := newFixture(t)
	in := saveReq("2026-02-09", "c1")
	in.Items[0].ProductID = "missing"
	_, err := f.uc.Save(context.Background(), agent, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSave_CreditRequiresDueDate(t *testing.T) {
	f := newFixture(t)
	in := saveReq("2026-02-09", "c1")
	in.PaymentType = entity.PaymentCredit
	_, err := f.uc.Save(context.Background(), agent, in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in.DueDate = "2026-02-23"
	_, err = f.uc.Save(context.Background(), agent, in)
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Save — LOT sequencing
// ──────────────────────────────────────────────────────────────────────────────

// The first order of a date newer than the last bump advances the LOT exactly
// once; later orders of the same date leave it alone.
func TestSave_FirstOrderOfNewDateBumpsLot(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Save(context.Background(), agent, saveReq("2026-02-09", "c1"))
	require.NoError(t, err)
	cfg, _ := f.company.Get(context.Background())
	assert.Equal(t, 6, cfg.LotNumberCurrent)
	assert.Equal(t, "2026-02-09", cfg.LotDate)

	_, err = f.uc.Save(context.Background(), agent, saveReq("2026-02-09", "c2"))
	require.NoError(t, err)
	cfg, _ = f.company.Get(context.Background())
	assert.Equal(t, 6, cfg.LotNumberCurrent, "second order of the same date must not bump")
}

// Creating an order for a date at or before the last bump never increments,
// even when that date currently has no orders.
func TestSave_BackdatedOrderDoesNotBumpLot(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Save(context.Background(), agent, saveReq("2026-02-07", "c1"))
	require.NoError(t, err)
	cfg, _ := f.company.Get(context.Background())
	assert.Equal(t, 5, cfg.LotNumberCurrent)
	assert.Equal(t, "2026-02-08", cfg.LotDate, "lot date unchanged")
}

// Delete all orders of the date, recreate: the LOT must stay where it is.
func TestSave_RecreateAfterDeleteKeepsLot(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Save(context.Background(), agent, saveReq("2026-02-09", "c1"))
	require.NoError(t, err)
	require.NoError(t, f.uc.Delete(context.Background(), agent, resp.ID))

	_, err = f.uc.Save(context.Background(), agent, saveReq("2026-02-09", "c2"))
	require.NoError(t, err)

	cfg, _ := f.company.Get(context.Background())
	assert.Equal(t, 6, cfg.LotNumberCurrent, "one bump for the date, not two")
}

// ──────────────────────────────────────────────────────────────────────────────
// Save / Delete — day-closed gating
// ──────────────────────────────────────────────────────────────────────────────

func TestSave_ClosedDayBlocksAgent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.days.Close(context.Background(), "2026-02-09", "u-admin", 6, timeNow()))

	_, err := f.uc.Save(context.Background(), agent, saveReq("2026-02-09", "c1"))
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestSave_ClosedDayAdminOverride(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.days.Close(context.Background(), "2026-02-09", "u-admin", 6, timeNow()))

	_, err := f.uc.Save(context.Background(), admin, saveReq("2026-02-09", "c1"))
	assert.NoError(t, err, "admin mutates a closed day")
}

func TestDelete_ClosedDayBlocksAgent(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Save(context.Background(), agent, saveReq("2026-02-09", "c1"))
	require.NoError(t, err)
	require.NoError(t, f.days.Close(context.Background(), "2026-02-09", "u-admin", 6, timeNow()))

	err = f.uc.Delete(context.Background(), agent, resp.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)

	assert.NoError(t, f.uc.Delete(context.Background(), admin, resp.ID))
}

// A day close racing a save commits first at the per-date lock; the save's
// locked read then sees the closed day and must reject instead of inserting
// an order into a day that just closed.
func TestSave_RacingDayCloseBlocksSave(t *testing.T) {
	f := newFixture(t)
	f.days.onGetLocked = func(date string) {
		require.NoError(t, f.days.Close(context.Background(), date, "u-admin", 6, timeNow()))
	}

	_, err := f.uc.Save(context.Background(), agent, saveReq("2026-02-09", "c1"))
	assert.ErrorIs(t, err, domain.ErrStateConflict)

	n, _ := f.orders.CountByDate(context.Background(), "2026-02-09")
	assert.Equal(t, 0, n, "no order lands on the freshly closed day")
}

func TestDelete_RacingDayCloseBlocksDelete(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Save(context.Background(), agent, saveReq("2026-02-09", "c1"))
	require.NoError(t, err)

	f.days.onGetLocked = func(date string) {
		require.NoError(t, f.days.Close(context.Background(), date, "u-admin", 6, timeNow()))
	}
	err = f.uc.Delete(context.Background(), agent, resp.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Export-flag freezing
// ──────────────────────────────────────────────────────────────────────────────

func TestSave_InvoiceExportedFreezesItems(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Save(context.Background(), agent, saveReq("2026-02-09", "c1"))
	require.NoError(t, err)
	require.NoError(t, f.uc.MarkExported(context.Background(), []string{resp.ID}, entity.ExportInvoice))

	in := saveReq("2026-02-09", "c1")
	in.Items[0].Quantity = dec("99")
	_, err = f.uc.Save(context.Background(), admin, in)
	assert.ErrorIs(t, err, domain.ErrStateConflict, "item change is frozen even for admin")
}

func TestSave_InvoiceExportedMetadataOnlyNeedsAdmin(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Save(context.Background(), agent, saveReq("2026-02-09", "c1"))
	require.NoError(t, err)
	require.NoError(t, f.uc.MarkExported(context.Background(), []string{resp.ID}, entity.ExportInvoice))

	in := saveReq("2026-02-09", "c1")
	in.AgentID = "u-other"

	_, err = f.uc.Save(context.Background(), agent, in)
	assert.ErrorIs(t, err, domain.ErrStateConflict)

	updated, err := f.uc.Save(context.Background(), admin, in)
	require.NoError(t, err)
	assert.Equal(t, "u-other", updated.AgentID)
}

// Invoice-exported orders cannot be deleted; receipt-exported ones can.
func TestDelete_ExportAsymmetry(t *testing.T) {
	f := newFixture(t)
	inv, err := f.uc.Save(context.Background(), agent, saveReq("2026-02-09", "c1"))
	require.NoError(t, err)
	rec, err := f.uc.Save(context.Background(), agent, saveReq("2026-02-09", "c2"))
	require.NoError(t, err)

	require.NoError(t, f.uc.MarkExported(context.Background(), []string{inv.ID}, entity.ExportInvoice))
	require.NoError(t, f.uc.MarkExported(context.Background(), []string{rec.ID}, entity.ExportReceipt))

	err = f.uc.Delete(context.Background(), admin, inv.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict, "invoice export blocks delete for everyone")

	assert.NoError(t, f.uc.Delete(context.Background(), agent, rec.ID))
}

func TestDelete_Missing(t *testing.T) {
	f := newFixture(t)
	err := f.uc.Delete(context.Background(), agent, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
