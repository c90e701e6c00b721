// Package groups manages product groups: sets of interchangeable catalog
// products collapsed into one line on exported invoices. A group is only
// fiscally sound when every member shares the same price and VAT rate, so
// that is enforced here at save time.
package groups

import (
	"context"

	"github.com/adpopescu/panex-api/internal/application/dto"
	"github.com/adpopescu/panex-api/internal/domain"
	"github.com/adpopescu/panex-api/internal/domain/entity"
	"github.com/adpopescu/panex-api/internal/domain/fiscal"
	"github.com/adpopescu/panex-api/internal/domain/repository"
)

// UseCase validates and stores product groups.
type UseCase struct {
	groupRepo   repository.ProductGroupRepository
	productRepo repository.ProductRepository
}

// NewUseCase builds the usecase.
func NewUseCase(groupRepo repository.ProductGroupRepository, productRepo repository.ProductRepository) *UseCase {
	return &UseCase{groupRepo: groupRepo, productRepo: productRepo}
}

// Group price uniformity is checked in one reference zone; zone 2/3 prices
// may differ between members without breaking the group.
const referencePriceZone = 1

// Save validates the member set against the catalog and upserts the group.
//
// The comparison basis is the first member's price in the reference zone and
// its VAT rate; any member whose price or VAT differs by more than 0.001
// rejects the whole group, naming the mismatch.
func (uc *UseCase) Save(ctx context.Context, in dto.SaveProductGroupRequest) (*dto.ProductGroupResponse, error) {
	if len(in.MemberProductIDs) < 2 {
		return nil, domain.Validationf("a product group needs at least 2 members")
	}
	if in.MasterProductID == "" {
		return nil, domain.Validationf("master_product_id is required")
	}

	members := in.MemberProductIDs
	if !contains(members, in.MasterProductID) {
		// The master names the group; it is always counted as a member.
		members = append([]string{in.MasterProductID}, members...)
	}

	products, err := uc.productRepo.GetByIDs(ctx, members)
	if err != nil {
		return nil, err
	}
	master := products[in.MasterProductID]
	if master == nil {
		return nil, domain.Validationf("unknown master product %s", in.MasterProductID)
	}

	first := products[members[0]]
	if first == nil {
		return nil, domain.Validationf("unknown product %s", members[0])
	}
	refPrice := first.PriceForZone(referencePriceZone)
	refVAT := first.VATRate
	for _, pid := range members[1:] {
		p := products[pid]
		if p == nil {
			return nil, domain.Validationf("unknown product %s", pid)
		}
		if price := p.PriceForZone(referencePriceZone); !fiscal.WithinEpsilon(price, refPrice) {
			return nil, domain.Validationf(
				"group price mismatch: product %s (%s) has price %s, expected %s",
				p.Code, p.Description, price.String(), refPrice.String())
		}
		if !fiscal.WithinEpsilon(p.VATRate, refVAT) {
			return nil, domain.Validationf(
				"group VAT mismatch: product %s (%s) has VAT %s%%, expected %s%%",
				p.Code, p.Description, p.VATRate.String(), refVAT.String())
		}
	}

	g := &entity.ProductGroup{
		ID:                in.ID,
		Name:              master.Description,
		MasterProductID:   master.ID,
		MasterProductCode: master.Code,
		MemberProductIDs:  members,
		Price:             refPrice,
		VATRate:           refVAT,
		Position:          in.Position,
	}
	if err := uc.groupRepo.Upsert(ctx, g); err != nil {
		return nil, err
	}
	return dto.NewProductGroupResponse(g), nil
}

// List returns every group in definition order.
func (uc *UseCase) List(ctx context.Context) ([]*dto.ProductGroupResponse, error) {
	list, err := uc.groupRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductGroupResponse, 0, len(list))
	for _, g := range list {
		out = append(out, dto.NewProductGroupResponse(g))
	}
	return out, nil
}

// GroupFor resolves the group a product belongs to, nil when ungrouped.
func (uc *UseCase) GroupFor(ctx context.Context, productID string) (*dto.ProductGroupResponse, error) {
	list, err := uc.groupRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range list {
		if g.Contains(productID) {
			return dto.NewProductGroupResponse(g), nil
		}
	}
	return nil, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
