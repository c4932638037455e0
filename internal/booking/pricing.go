package booking

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/sevahub/home-services/internal/model"
)

// DiscountSet is the exclusivity-resolved outcome of discount
// resolution.  At most one of Promo/Membership is non-zero; Referral
// may stack on the survivor but never pushes the sum past the payable
// amount.
type DiscountSet struct {
	Promo      int64
	Referral   int64
	Membership int64
}

// Total is the combined discount.
func (s DiscountSet) Total() int64 { return s.Promo + s.Referral + s.Membership }

// ResolveDiscounts applies the mutual-exclusivity policy to the three
// candidate discounts against the payable (pre-discount) amount.  It
// is a pure function so the policy is testable in isolation:
//
//   - promo and membership never both apply; the larger survives and
//     the other is zeroed (membership wins ties),
//   - referral stacks on whichever survived, capped by the remaining
//     payable amount,
//   - no candidate ever exceeds the payable amount on its own.
func ResolveDiscounts(payable, promo, referral, membership int64) DiscountSet {
	if payable < 0 {
		payable = 0
	}
	if promo < 0 {
		promo = 0
	}
	if referral < 0 {
		referral = 0
	}
	if membership < 0 {
		membership = 0
	}
	if promo > payable {
		promo = payable
	}
	if membership > payable {
		membership = payable
	}

	if promo > 0 && membership > 0 {
		if membership >= promo {
			promo = 0
		} else {
			membership = 0
		}
	}

	remaining := payable - promo - membership
	if referral > remaining {
		referral = remaining
	}
	return DiscountSet{Promo: promo, Referral: referral, Membership: membership}
}

// pricedRequest carries the pricing outcome through fraud evaluation,
// assignment and finalization.
type pricedRequest struct {
	breakdown    model.PriceBreakdown
	categoryID   uint64
	promoID      uint64
	promoCode    string
	referrerID   uint64
	referralCode string
	membership   *model.Membership
	set          DiscountSet
}

// price computes the full breakdown for the request: base pricing per
// the tagged mode, then the three discount candidates, then the pure
// exclusivity resolution.
func (o *Orchestrator) price(ctx context.Context, a *admission, now time.Time) (*pricedRequest, *AdmitError) {
	p := &pricedRequest{}
	p.breakdown.Currency = o.cfg.Currency

	switch m := a.mode.(type) {
	case CatalogPriced:
		svc, err := o.catalog.GetByID(ctx, m.ServiceID)
		if err != nil {
			return nil, o.internalErr(err)
		}
		if svc == nil {
			return nil, errInvalid("unknown service")
		}
		if !svc.IsActive {
			return nil, errBusinessRule("this service is not currently offered")
		}
		addons, err := o.catalog.AddonsByNames(ctx, svc.ID, a.req.Addons)
		if err != nil {
			return nil, o.internalErr(err)
		}
		if len(addons) != len(a.req.Addons) {
			return nil, errInvalid("one or more selected addons are unknown")
		}
		p.categoryID = svc.CategoryID
		p.breakdown.Base = svc.BasePrice
		p.breakdown.VisitFee = svc.VisitFee
		for _, ad := range addons {
			p.breakdown.Addons += ad.Price
		}
		p.breakdown.Tax = roundTax(p.breakdown.Base+p.breakdown.VisitFee+p.breakdown.Addons, svc.TaxPercent)

	case WorkerPriced:
		w, err := o.workers.GetByID(ctx, m.WorkerID)
		if err != nil {
			return nil, o.internalErr(err)
		}
		if w == nil {
			return nil, o.workerMissingErr(a)
		}
		extras, err := o.workers.ExtrasByNames(ctx, w.ID, a.req.Addons)
		if err != nil {
			return nil, o.internalErr(err)
		}
		if len(extras) != len(a.req.Addons) {
			return nil, errInvalid("one or more selected extra services are unknown")
		}
		p.breakdown.Base = w.BasePrice
		for _, ex := range extras {
			p.breakdown.Addons += ex.Price
		}
		p.breakdown.Tax = roundTax(p.breakdown.Base+p.breakdown.Addons, w.TaxPercent)
	}

	subtotal := p.breakdown.Base + p.breakdown.VisitFee + p.breakdown.Addons
	payable := subtotal + p.breakdown.Tax

	promoCandidate, aerr := o.promoCandidate(ctx, a, p, subtotal, now)
	if aerr != nil {
		return nil, aerr
	}
	referralCandidate, aerr := o.referralCandidate(ctx, a, p)
	if aerr != nil {
		return nil, aerr
	}
	membershipCandidate, aerr := o.membershipCandidate(ctx, a, p, payable, now)
	if aerr != nil {
		return nil, aerr
	}

	p.set = ResolveDiscounts(payable, promoCandidate, referralCandidate, membershipCandidate)
	// Candidates that lost exclusivity must not leave usage traces:
	// no promo counter bump, no membership usage row, no referral
	// state transition.  The zero discount amounts are still persisted
	// on the booking for audit.
	if p.set.Promo == 0 {
		p.promoID = 0
	}
	if p.set.Membership == 0 {
		p.membership = nil
	}
	if p.set.Referral == 0 {
		p.referrerID = 0
	}
	p.breakdown.Discount = p.set.Total()
	p.breakdown.Total = payable - p.breakdown.Discount
	if p.breakdown.Total < 0 {
		p.breakdown.Total = 0
	}
	return p, nil
}

// roundTax rounds the tax on a subtotal to the nearest whole currency
// unit.
func roundTax(subtotal int64, percent float64) int64 {
	return int64(math.Round(float64(subtotal) * percent / 100))
}

// promoCandidate validates a supplied promo code and returns its
// discount candidate.  Invalid codes are business-rule rejections
// rather than silent zeroes so the customer can correct the code.
func (o *Orchestrator) promoCandidate(ctx context.Context, a *admission, p *pricedRequest, subtotal int64, now time.Time) (int64, *AdmitError) {
	code := strings.ToUpper(strings.TrimSpace(a.req.PromoCode))
	if code == "" {
		return 0, nil
	}
	promo, err := o.promos.FindByCode(ctx, code)
	if err != nil {
		return 0, o.internalErr(err)
	}
	if promo == nil || !promo.IsActive {
		return 0, errBusinessRule("invalid or inactive promo code")
	}
	if promo.ValidFrom != nil && now.Before(*promo.ValidFrom) {
		return 0, errBusinessRule("promo code is not active yet")
	}
	if promo.ValidTo != nil && now.After(*promo.ValidTo) {
		return 0, errBusinessRule("promo code has expired")
	}
	if subtotal < promo.MinOrderAmount {
		return 0, errBusinessRule("order does not meet the promo minimum amount")
	}
	if promo.MaxUses > 0 && promo.UsedCount >= promo.MaxUses {
		return 0, errBusinessRule("promo code usage limit reached")
	}
	if promo.MaxUsesPerUser > 0 {
		used, err := o.promos.CountUserUsage(ctx, a.userID, promo.Code)
		if err != nil {
			return 0, o.internalErr(err)
		}
		if used >= promo.MaxUsesPerUser {
			return 0, errBusinessRule("you have already used this promo code")
		}
	}
	if len(promo.Categories) > 0 && !containsID(promo.Categories, p.categoryID) {
		return 0, errBusinessRule("promo code does not apply to this category")
	}
	if len(promo.Services) > 0 {
		if a.req.ServiceID == nil || !containsID(promo.Services, *a.req.ServiceID) {
			return 0, errBusinessRule("promo code does not apply to this service")
		}
	}

	var discount int64
	switch promo.DiscountType {
	case model.DiscountPercent:
		discount = subtotal * promo.DiscountValue / 100
		if promo.MaxDiscount > 0 && discount > promo.MaxDiscount {
			discount = promo.MaxDiscount
		}
	case model.DiscountFlat:
		discount = promo.DiscountValue
		if discount > subtotal {
			discount = subtotal
		}
	default:
		return 0, errBusinessRule("promo code is misconfigured")
	}
	p.promoID = promo.ID
	p.promoCode = promo.Code
	return discount, nil
}

// referralCandidate resolves the referral discount: once per
// requester, from an explicit code or a previously recorded referrer,
// never self-referred.  The amount is fixed by configuration; the
// exclusivity resolver caps it against the remaining payable amount.
func (o *Orchestrator) referralCandidate(ctx context.Context, a *admission, p *pricedRequest) (int64, *AdmitError) {
	code := strings.ToUpper(strings.TrimSpace(a.req.ReferralCode))

	used, err := o.bookings.HasReferralDiscount(ctx, a.userID)
	if err != nil {
		return 0, o.internalErr(err)
	}
	if used {
		if code != "" {
			return 0, errBusinessRule("referral discount was already used")
		}
		return 0, nil
	}

	if code != "" {
		referrer, err := o.users.FindByReferralCode(ctx, code)
		if err != nil {
			return 0, o.internalErr(err)
		}
		if referrer == nil {
			return 0, errBusinessRule("invalid referral code")
		}
		if referrer.ID == a.userID {
			return 0, errBusinessRule("you cannot refer yourself")
		}
		p.referrerID = referrer.ID
		p.referralCode = code
		return o.cfg.ReferralDiscount, nil
	}

	ref, err := o.referrals.FindByReferee(ctx, a.userID)
	if err != nil {
		return 0, o.internalErr(err)
	}
	if ref != nil && ref.Status == model.ReferralSignedUp {
		p.referrerID = ref.ReferrerID
		return o.cfg.ReferralDiscount, nil
	}
	return 0, nil
}

// membershipCandidate computes the discount from the requester's
// active membership, applied to the pre-discount total.
func (o *Orchestrator) membershipCandidate(ctx context.Context, a *admission, p *pricedRequest, payable int64, now time.Time) (int64, *AdmitError) {
	m, err := o.memberships.ActiveForUser(ctx, a.userID, now)
	if err != nil {
		return 0, o.internalErr(err)
	}
	if m == nil {
		return 0, nil
	}
	var discount int64
	switch m.DiscountType {
	case model.DiscountPercent:
		discount = payable * m.DiscountValue / 100
		if m.MaxDiscount > 0 && discount > m.MaxDiscount {
			discount = m.MaxDiscount
		}
	case model.DiscountFlat:
		discount = m.DiscountValue
		if discount > payable {
			discount = payable
		}
	}
	if discount > 0 {
		p.membership = m
	}
	return discount, nil
}

func containsID(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
