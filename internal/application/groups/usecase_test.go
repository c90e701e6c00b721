package groups_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adpopescu/panex-api/internal/application/dto"
	"github.com/adpopescu/panex-api/internal/application/groups"
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

// ──────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ──────────────────────────────────────────────────────────────────────────────

type memGroupRepo struct {
	groups map[string]*entity.ProductGroup
	order  []string
}

func newMemGroupRepo() *memGroupRepo { return &memGroupRepo{groups: map[string]*entity.ProductGroup{}} }

func (r *memGroupRepo) Upsert(_ context.Context, g *entity.ProductGroup) error {
	if g.ID == "" {
		g.ID = "g" + string(rune('1'+len(r.order)))
	}
	if r.groups[g.ID] == nil {
		r.order = append(r.order, g.ID)
	}
	r.groups[g.ID] = g
	return nil
}

func (r *memGroupRepo) GetByID(_ context.Context, id string) (*entity.ProductGroup, error) {
	return r.groups[id], nil
}

func (r *memGroupRepo) List(_ context.Context) ([]*entity.ProductGroup, error) {
	var out []*entity.ProductGroup
	for _, id := range r.order {
		out = append(out, r.groups[id])
	}
	return out, nil
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

func newUseCase() (*groups.UseCase, *memGroupRepo) {
	groupRepo := newMemGroupRepo()
	productRepo := &memProductRepo{products: map[string]*entity.Product{
		"p1": {ID: "p1", Code: "PF01", Description: "Paine alba felii", Unit: "buc",
			VATRate: dec("11"), PriceZone1: dec("2.50")},
		"p2": {ID: "p2", Code: "PF02", Description: "Paine alba rotunda", Unit: "buc",
			VATRate: dec("11"), PriceZone1: dec("2.50")},
		"p3": {ID: "p3", Code: "PF03", Description: "Paine neagra", Unit: "buc",
			VATRate: dec("11"), PriceZone1: dec("3.10")},
		"p4": {ID: "p4", Code: "PF04", Description: "Paine fara sare", Unit: "buc",
			VATRate: dec("9"), PriceZone1: dec("2.50")},
		"p5": {ID: "p5", Code: "PF05", Description: "Paine taraneasca", Unit: "buc",
			VATRate: dec("11"), PriceZone1: dec("2.5005")},
		"p6": {ID: "p6", Code: "PF06", Description: "Paine cu maia", Unit: "buc",
			VATRate: dec("11"), PriceZone1: dec("2.50"), PriceZone2: dec("9.99")},
	}}
	return groups.NewUseCase(groupRepo, productRepo), groupRepo
}

// ──────────────────────────────────────────────────────────────────────────────
// Save
// ──────────────────────────────────────────────────────────────────────────────

func TestSave_GroupTakesMasterNameAndCatalogPrice(t *testing.T) {
	uc, _ := newUseCase()
	resp, err := uc.Save(context.Background(), dto.SaveProductGroupRequest{
		MasterProductID:  "p1",
		MemberProductIDs: []string{"p1", "p2"},
		Position:         1,
	})
	require.NoError(t, err)

	assert.Equal(t, "Paine alba felii", resp.Name)
	assert.Equal(t, "PF01", resp.MasterProductCode)
	assert.True(t, resp.Price.Equal(dec("2.5")))
	assert.True(t, resp.VATRate.Equal(dec("11")))
	assert.ElementsMatch(t, []string{"p1", "p2"}, resp.MemberProductIDs)
}

// The master joins the member set implicitly when omitted.
func TestSave_MasterAutoIncluded(t *testing.T) {
	uc, _ := newUseCase()
	resp, err := uc.Save(context.Background(), dto.SaveProductGroupRequest{
		MasterProductID:  "p1",
		MemberProductIDs: []string{"p2", "p5"},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.MemberProductIDs, "p1")
}

// Price differences within 0.001 are tolerated.
func TestSave_EpsilonPriceTolerance(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Save(context.Background(), dto.SaveProductGroupRequest{
		MasterProductID:  "p1",
		MemberProductIDs: []string{"p1", "p5"},
	})
	assert.NoError(t, err, "2.50 vs 2.5005 is within tolerance")
}

// Only the reference zone is compared; a wild zone-2 price does not break
// the group.
func TestSave_ComparesReferenceZonePriceOnly(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Save(context.Background(), dto.SaveProductGroupRequest{
		MasterProductID:  "p1",
		MemberProductIDs: []string{"p1", "p6"},
	})
	assert.NoError(t, err, "zone 1 prices match, zone 2 divergence is irrelevant")
}

func TestSave_PriceMismatchNamesProduct(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Save(context.Background(), dto.SaveProductGroupRequest{
		MasterProductID:  "p1",
		MemberProductIDs: []string{"p1", "p3"},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "PF03", "the offending product is named")
	assert.Contains(t, err.Error(), "price")
}

func TestSave_VATMismatchNamesProduct(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Save(context.Background(), dto.SaveProductGroupRequest{
		MasterProductID:  "p1",
		MemberProductIDs: []string{"p1", "p4"},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "PF04")
	assert.Contains(t, err.Error(), "VAT")
}

func TestSave_NeedsTwoMembers(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Save(context.Background(), dto.SaveProductGroupRequest{
		MasterProductID:  "p1",
		MemberProductIDs: []string{"p1"},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSave_UnknownMember(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Save(context.Background(), dto.SaveProductGroupRequest{
		MasterProductID:  "p1",
		MemberProductIDs: []string{"p1", "ghost"},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// GroupFor
// ──────────────────────────────────────────────────────────────────────────────

func TestGroupFor(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Save(context.Background(), dto.SaveProductGroupRequest{
		MasterProductID:  "p1",
		MemberProductIDs: []string{"p1", "p2"},
	})
	require.NoError(t, err)

	g, err := uc.GroupFor(context.Background(), "p2")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, "Paine alba felii", g.Name)

	none, err := uc.GroupFor(context.Background(), "p3")
	require.NoError(t, err)
	assert.Nil(t, none, "ungrouped product resolves to nil")
}
