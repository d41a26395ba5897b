package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountRole determines what an account is allowed to do.
type AccountRole string

const (
	RoleAdmin    AccountRole = "ADMIN"
	RoleMerchant AccountRole = "MERCHANT"
	RoleMember   AccountRole = "MEMBER"
)

// AccountStatus represents the state of an account.
type AccountStatus string

const (
	// AccountStatusPendingApproval applies to freshly registered merchants
	// until an administrator approves them.
	AccountStatusPendingApproval AccountStatus = "PENDING_APPROVAL"
	AccountStatusActive          AccountStatus = "ACTIVE"
	AccountStatusSuspended       AccountStatus = "SUSPENDED"
)

// Asset identifies a settlement currency.
type Asset string

const (
	AssetNative Asset = "NATIVE"
	AssetToken  Asset = "TOKEN"
)

// EscrowAccountID is the system account that holds undistributed proceeds,
// platform fees and unallocated remainders.
var EscrowAccountID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Account represents a registered identity: merchant, buyer or administrator.
type Account struct {
	ID           uuid.UUID     `json:"id"`
	Username     string        `json:"username"`
	PasswordHash string        `json:"-"` // Never expose
	DisplayName  string        `json:"display_name"`
	Role         AccountRole   `json:"role"`
	Status       AccountStatus `json:"status"`
	UplineID     *uuid.UUID    `json:"upline_id,omitempty"`    // referral-chain predecessor
	TerritoryID  *string       `json:"territory_id,omitempty"` // assigned geographic territory
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// IsActive returns true if the account may act.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// IsApprovedMerchant returns true if the account is an active, approved merchant.
func (a *Account) IsApprovedMerchant() bool {
	return a.Role == RoleMerchant && a.Status == AccountStatusActive
}

// IntroducerRecord is a historical introduction relationship. Introducer
// shares are split across a buyer's records proportionally by weight.
type IntroducerRecord struct {
	ID           uuid.UUID `json:"id"`
	AccountID    uuid.UUID `json:"account_id"`
	IntroducerID uuid.UUID `json:"introducer_id"`
	Weight       int64     `json:"weight"`
	CreatedAt    time.Time `json:"created_at"`
}
