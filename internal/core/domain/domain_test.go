package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRevenueSplit_Sum(t *testing.T) {
	s := RevenueSplit{
		MerchantShare:         9200,
		DirectCommissionShare: 300,
		TeamOverrideShare:     100,
		IntroducerShare:       100,
		TerritoryShare:        100,
		PlatformFeeShare:      100,
		TokenBurnShare:        100,
	}
	assert.Equal(t, int64(10000), s.Sum())
	assert.True(t, s.Valid())
}

func TestRevenueSplit_Valid_RejectsOversum(t *testing.T) {
	s := RevenueSplit{MerchantShare: 9500, DirectCommissionShare: 600}
	assert.False(t, s.Valid())
}

func TestRevenueSplit_Valid_RejectsNegative(t *testing.T) {
	s := RevenueSplit{MerchantShare: 500, TokenBurnShare: -1}
	assert.False(t, s.Valid())
}

func TestRevenueSplit_Valid_AllowsUndersum(t *testing.T) {
	// A split may leave part of the pool undistributed.
	s := RevenueSplit{MerchantShare: 8000}
	assert.True(t, s.Valid())
}

func TestShareAmount_Floors(t *testing.T) {
	assert.Equal(t, int64(92), ShareAmount(100, 9200))
	assert.Equal(t, int64(3), ShareAmount(100, 300))
	assert.Equal(t, int64(0), ShareAmount(99, 1)) // 99*1/10000 floors to 0
}

func TestOffer_IsExpired(t *testing.T) {
	now := time.Now()
	o := &Offer{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, o.IsExpired(now))
	assert.True(t, o.IsExpired(now.Add(2*time.Hour)))
}

func TestOffer_IsSoldOut(t *testing.T) {
	o := &Offer{MaxSupply: 0, UnitsSold: 1_000_000}
	assert.False(t, o.IsSoldOut(), "zero max supply means unlimited")

	o = &Offer{MaxSupply: 5, UnitsSold: 4}
	assert.False(t, o.IsSoldOut())
	o.UnitsSold = 5
	assert.True(t, o.IsSoldOut())
}

func TestOffer_PriceFor(t *testing.T) {
	o := &Offer{NativePrice: 100, TokenPrice: 250}
	assert.Equal(t, int64(100), o.PriceFor(AssetNative))
	assert.Equal(t, int64(250), o.PriceFor(AssetToken))
}

func TestAccount_IsApprovedMerchant(t *testing.T) {
	m := &Account{Role: RoleMerchant, Status: AccountStatusPendingApproval}
	assert.False(t, m.IsApprovedMerchant())
	m.Status = AccountStatusActive
	assert.True(t, m.IsApprovedMerchant())

	buyer := &Account{Role: RoleMember, Status: AccountStatusActive}
	assert.False(t, buyer.IsApprovedMerchant())
}

func TestTerritory_PoolTotal(t *testing.T) {
	tr := &Territory{NativePool: 70, TokenPool: 30}
	assert.Equal(t, int64(100), tr.PoolTotal())
}

func TestBuildPurchaseIdempotencyKey(t *testing.T) {
	buyer := uuid.New()
	key := BuildPurchaseIdempotencyKey(buyer, "ORDER-1")
	assert.Equal(t, buyer.String()+":ORDER-1", key)
}
