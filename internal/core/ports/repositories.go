package ports

import (
	"context"
	"time"

	"revshare-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) error
}

// IntroducerRepository reads historical introduction relationships.
type IntroducerRepository interface {
	Create(ctx context.Context, record *domain.IntroducerRecord) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.IntroducerRecord, error)
}

// OfferRepository defines persistence operations for offers.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type OfferRepository interface {
	Create(ctx context.Context, offer *domain.Offer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Offer, error)
	IncrementUnitsSold(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]domain.Offer, error)
}

// PurchaseRepository defines persistence operations for purchases.
type PurchaseRepository interface {
	Create(ctx context.Context, tx pgx.Tx, purchase *domain.Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error)
	// SetFulfilled marks a purchase fulfilled exactly once.
	// Returns false if the purchase was already fulfilled.
	SetFulfilled(ctx context.Context, id uuid.UUID, payload string, at time.Time) (bool, error)
	GetReconciliation(ctx context.Context, offerID uuid.UUID) (*OfferReconciliation, error)
}

// OfferReconciliation aggregates distribution accounting across an offer's
// purchases so unallocated leakage is observable.
type OfferReconciliation struct {
	OfferID         uuid.UUID
	Purchases       int64
	TotalRevenue    int64
	CommissionsPaid int64
	Unallocated     int64
	Burned          int64
}

// LedgerRepository maintains cumulative per-participant earnings.
type LedgerRepository interface {
	GetByAccount(ctx context.Context, accountID uuid.UUID) (*domain.CommissionLedgerEntry, error)
	// Credit additively upserts a ledger entry bucket within a transaction.
	Credit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, bucket domain.CommissionBucket, amount int64, at time.Time) error
}

// TerritoryRepository defines persistence operations for territory pools.
type TerritoryRepository interface {
	Create(ctx context.Context, territory *domain.Territory) error
	GetByID(ctx context.Context, id string) (*domain.Territory, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Territory, error)
	CreditPool(ctx context.Context, tx pgx.Tx, id string, asset domain.Asset, amount int64) error
	// DrainPool zeroes both pools within a transaction.
	DrainPool(ctx context.Context, tx pgx.Tx, id string) error
}

// BalanceRepository tracks per-account balances in both settlement assets.
type BalanceRepository interface {
	Get(ctx context.Context, accountID uuid.UUID, asset domain.Asset) (int64, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, asset domain.Asset) (int64, error)
	// Add additively upserts a balance. Negative deltas debit; the system
	// escrow account is allowed to go negative.
	Add(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, asset domain.Asset, delta int64) error
}

// PlatformStateRepository manages the single-row global state.
type PlatformStateRepository interface {
	Get(ctx context.Context) (*domain.PlatformState, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.PlatformState, error)
	SetPaused(ctx context.Context, paused bool) error
	// RecordPurchase bumps the global counters within the purchase transaction.
	// burned reduces the token supply.
	RecordPurchase(ctx context.Context, tx pgx.Tx, revenue, burned, platformFee int64) error
	// AdjustTokenSupply changes the recorded supply (minting).
	AdjustTokenSupply(ctx context.Context, tx pgx.Tx, delta int64) error
}

// EventRepository persists distribution-completed events.
type EventRepository interface {
	Create(ctx context.Context, tx pgx.Tx, event *domain.DistributionEvent) error
	ListByOffer(ctx context.Context, offerID uuid.UUID) ([]domain.DistributionEvent, error)
}

// IdempotencyRepository defines persistence for idempotency logs (DB backup).
type IdempotencyRepository interface {
	Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error
	Get(ctx context.Context, key string) (*domain.IdempotencyLog, error)
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
