package domain

import (
	"time"

	"github.com/google/uuid"
)

// CommissionBucket labels the payout category a ledger credit belongs to.
type CommissionBucket string

const (
	BucketDirect     CommissionBucket = "DIRECT"
	BucketOverride   CommissionBucket = "OVERRIDE"
	BucketIntroducer CommissionBucket = "INTRODUCER"
	BucketTerritory  CommissionBucket = "TERRITORY"
)

// CommissionLedgerEntry is the cumulative earnings record for one participant.
// Amounts are additive across both settlement assets, expressed in the
// smallest unit; the entry is never decremented.
type CommissionLedgerEntry struct {
	AccountID             uuid.UUID `json:"account_id"`
	TotalEarned           int64     `json:"total_earned"`
	DirectCommissions     int64     `json:"direct_commissions"`
	TeamOverrides         int64     `json:"team_overrides"`
	IntroducerCommissions int64     `json:"introducer_commissions"`
	TerritoryCommissions  int64     `json:"territory_commissions"`
	LastActivity          time.Time `json:"last_activity"`
}

// Territory is a geographically-scoped reward accumulator. Pools accrue per
// settlement asset and are drained to zero atomically when the assigned
// claimant withdraws.
type Territory struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ClaimantID   uuid.UUID `json:"claimant_id"`
	NativePool   int64     `json:"native_pool"`
	TokenPool    int64     `json:"token_pool"`
	TotalAccrued int64     `json:"total_accrued"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PoolTotal returns the combined claimable balance.
func (t *Territory) PoolTotal() int64 {
	return t.NativePool + t.TokenPool
}

// PlatformState is the single-row global state gating and counting purchases.
type PlatformState struct {
	Paused          bool      `json:"paused"`
	TotalRevenue    int64     `json:"total_revenue"`
	TotalPurchases  int64     `json:"total_purchases"`
	TotalBurned     int64     `json:"total_burned"`
	PlatformFees    int64     `json:"platform_fees"`
	TokenSupply     int64     `json:"token_supply"`
	UpdatedAt       time.Time `json:"updated_at"`
}
