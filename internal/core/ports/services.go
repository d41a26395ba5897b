package ports

import (
	"context"
	"time"

	"revshare-engine/internal/core/domain"

	"github.com/google/uuid"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(accountID uuid.UUID, role domain.AccountRole) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	AccountID uuid.UUID
	Role      domain.AccountRole
}

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// --- Service Ports (Business Logic) ---

// AuthService defines registration and login.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for account registration.
type RegisterRequest struct {
	Username       string
	Password       string
	DisplayName    string
	Role           domain.AccountRole
	UplineUsername *string
	TerritoryID    *string
}

// OfferService defines offer registry business logic.
type OfferService interface {
	CreateOffer(ctx context.Context, req CreateOfferRequest) (*domain.Offer, error)
	DeactivateOffer(ctx context.Context, offerID, callerID uuid.UUID) error
	GetOffer(ctx context.Context, offerID uuid.UUID) (*domain.Offer, error)
	ListMerchantOffers(ctx context.Context, merchantID uuid.UUID) ([]domain.Offer, error)
}

// CreateOfferRequest holds validated input for offer creation.
type CreateOfferRequest struct {
	MerchantID  uuid.UUID
	Name        string
	Description string
	Category    domain.OfferCategory
	NativePrice int64
	TokenPrice  int64
	MaxSupply   int64
	ExpiresAt   time.Time
	MetadataRef string
	Split       domain.RevenueSplit
}

// PurchaseService defines the distribution engine.
type PurchaseService interface {
	Purchase(ctx context.Context, req PurchaseRequest) (*domain.Purchase, error)
	FulfillPurchase(ctx context.Context, req FulfillRequest) (*domain.Purchase, error)
	GetPurchase(ctx context.Context, purchaseID uuid.UUID) (*domain.Purchase, error)
}

// PurchaseRequest holds validated input for a purchase.
type PurchaseRequest struct {
	BuyerID     uuid.UUID
	OfferID     uuid.UUID
	ReferrerID  *uuid.UUID
	ReferenceID string
	PayInToken  bool
}

// FulfillRequest holds input for merchant fulfillment.
type FulfillRequest struct {
	PurchaseID uuid.UUID
	CallerID   uuid.UUID
	Payload    string
}

// LedgerService exposes cumulative earnings and territory claims.
type LedgerService interface {
	GetCommissionStats(ctx context.Context, accountID uuid.UUID) (*domain.CommissionLedgerEntry, error)
	// ClaimTerritoryRewards drains the pool and pays the caller.
	// Returns the claimed amount.
	ClaimTerritoryRewards(ctx context.Context, territoryID string, callerID uuid.UUID) (int64, error)
	GetOfferReconciliation(ctx context.Context, offerID uuid.UUID) (*OfferReconciliation, error)
}

// BalanceService exposes account funding operations.
type BalanceService interface {
	GetBalances(ctx context.Context, accountID uuid.UUID) (native int64, token int64, err error)
	TopupNative(ctx context.Context, accountID uuid.UUID, amount int64) (int64, error) // returns new balance
}

// AdminService is the administrative control plane.
type AdminService interface {
	SetPaused(ctx context.Context, callerID uuid.UUID, paused bool) error
	ApproveMerchant(ctx context.Context, callerID, merchantID uuid.UUID) error
	SuspendAccount(ctx context.Context, callerID, accountID uuid.UUID) error
	MintToken(ctx context.Context, callerID, accountID uuid.UUID, amount int64) error
	DeactivateOffer(ctx context.Context, callerID, offerID uuid.UUID) error
	CreateTerritory(ctx context.Context, callerID uuid.UUID, territoryID, name string, claimantID uuid.UUID) error
	AddIntroducer(ctx context.Context, callerID, accountID, introducerID uuid.UUID, weight int64) error
}

// AuditService records audited administrative actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
