package domain

import (
	"time"

	"github.com/google/uuid"
)

// OfferCategory classifies what a merchant is selling.
type OfferCategory string

const (
	CategoryVoucher    OfferCategory = "VOUCHER"
	CategoryMembership OfferCategory = "MEMBERSHIP"
	CategoryService    OfferCategory = "SERVICE"
	CategoryProduct    OfferCategory = "PRODUCT"
	CategoryEvent      OfferCategory = "EVENT"
)

// SplitDenominator is the basis-point denominator: 10000 = 100%.
const SplitDenominator int64 = 10000

// RevenueSplit holds the seven fan-out weights in basis points.
// The sum of all seven must not exceed SplitDenominator; this is enforced
// when the split is attached to an offer, never at purchase time.
type RevenueSplit struct {
	MerchantShare         int64 `json:"merchant_share"`
	DirectCommissionShare int64 `json:"direct_commission_share"`
	TeamOverrideShare     int64 `json:"team_override_share"`
	IntroducerShare       int64 `json:"introducer_share"`
	TerritoryShare        int64 `json:"territory_share"`
	PlatformFeeShare      int64 `json:"platform_fee_share"`
	TokenBurnShare        int64 `json:"token_burn_share"`
}

// Sum returns the total of all seven weights.
func (s RevenueSplit) Sum() int64 {
	return s.MerchantShare + s.DirectCommissionShare + s.TeamOverrideShare +
		s.IntroducerShare + s.TerritoryShare + s.PlatformFeeShare + s.TokenBurnShare
}

// Valid reports whether every weight is non-negative and the sum fits
// within SplitDenominator.
func (s RevenueSplit) Valid() bool {
	for _, w := range []int64{
		s.MerchantShare, s.DirectCommissionShare, s.TeamOverrideShare,
		s.IntroducerShare, s.TerritoryShare, s.PlatformFeeShare, s.TokenBurnShare,
	} {
		if w < 0 {
			return false
		}
	}
	return s.Sum() <= SplitDenominator
}

// ShareAmount computes the basis-point share of total, floored.
func ShareAmount(total, bps int64) int64 {
	return total * bps / SplitDenominator
}

// Offer is a merchant-created sellable item with pricing and a revenue split.
type Offer struct {
	ID          uuid.UUID     `json:"id"`
	MerchantID  uuid.UUID     `json:"merchant_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    OfferCategory `json:"category"`
	NativePrice int64         `json:"native_price"` // 0 = native payment not accepted
	TokenPrice  int64         `json:"token_price"`  // 0 = token payment not accepted
	MaxSupply   int64         `json:"max_supply"`   // 0 = unlimited
	UnitsSold   int64         `json:"units_sold"`
	Active      bool          `json:"active"`
	Split       RevenueSplit  `json:"split"`
	MetadataRef string        `json:"metadata_ref,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	ExpiresAt   time.Time     `json:"expires_at"`
}

// IsExpired reports whether the offer can no longer accept purchases at now.
func (o *Offer) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// IsSoldOut reports whether the supply cap has been reached.
func (o *Offer) IsSoldOut() bool {
	return o.MaxSupply != 0 && o.UnitsSold >= o.MaxSupply
}

// PriceFor returns the price for the chosen settlement asset.
func (o *Offer) PriceFor(asset Asset) int64 {
	if asset == AssetToken {
		return o.TokenPrice
	}
	return o.NativePrice
}
