package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"revshare-engine/internal/core/domain"
	"revshare-engine/internal/core/ports"
	"revshare-engine/internal/observability/metrics"
	"revshare-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// PurchaseServiceImpl implements ports.PurchaseService: the distribution
// engine. Every purchase debits the buyer, fans revenue out per the offer's
// split, and records whatever could not be allocated.
type PurchaseServiceImpl struct {
	accountRepo    ports.AccountRepository
	offerRepo      ports.OfferRepository
	purchaseRepo   ports.PurchaseRepository
	ledgerRepo     ports.LedgerRepository
	territoryRepo  ports.TerritoryRepository
	balanceRepo    ports.BalanceRepository
	introducerRepo ports.IntroducerRepository
	stateRepo      ports.PlatformStateRepository
	eventRepo      ports.EventRepository
	idempRepo      ports.IdempotencyRepository
	idempCache     ports.IdempotencyCache
	transactor     ports.DBTransactor
	metrics        *metrics.EngineMetrics
	burnBps        int64
	idempTTL       time.Duration
	log            zerolog.Logger
}

// PurchaseServiceDeps bundles the repositories the engine needs.
type PurchaseServiceDeps struct {
	AccountRepo    ports.AccountRepository
	OfferRepo      ports.OfferRepository
	PurchaseRepo   ports.PurchaseRepository
	LedgerRepo     ports.LedgerRepository
	TerritoryRepo  ports.TerritoryRepository
	BalanceRepo    ports.BalanceRepository
	IntroducerRepo ports.IntroducerRepository
	StateRepo      ports.PlatformStateRepository
	EventRepo      ports.EventRepository
	IdempRepo      ports.IdempotencyRepository
	IdempCache     ports.IdempotencyCache
	Transactor     ports.DBTransactor
	Metrics        *metrics.EngineMetrics
	BurnBps        int64
	IdempTTL       time.Duration
}

// NewPurchaseService creates a new PurchaseServiceImpl.
func NewPurchaseService(deps PurchaseServiceDeps, log zerolog.Logger) *PurchaseServiceImpl {
	ttl := deps.IdempTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &PurchaseServiceImpl{
		accountRepo:    deps.AccountRepo,
		offerRepo:      deps.OfferRepo,
		purchaseRepo:   deps.PurchaseRepo,
		ledgerRepo:     deps.LedgerRepo,
		territoryRepo:  deps.TerritoryRepo,
		balanceRepo:    deps.BalanceRepo,
		introducerRepo: deps.IntroducerRepo,
		stateRepo:      deps.StateRepo,
		eventRepo:      deps.EventRepo,
		idempRepo:      deps.IdempRepo,
		idempCache:     deps.IdempCache,
		transactor:     deps.Transactor,
		metrics:        deps.Metrics,
		burnBps:        deps.BurnBps,
		idempTTL:       ttl,
		log:            log,
	}
}

// Purchase implements the purchase algorithm with pessimistic locking.
//
// Preconditions are checked in a fixed order (inactive, expired, sold out,
// asset acceptance, funds) so a caller always receives the first applicable
// rejection. Distribution is best-effort: a share whose amount exceeds the
// undistributed remainder is skipped, never partially paid, and whatever is
// left after the fan-out stays in escrow as the purchase's unallocated
// amount.
func (s *PurchaseServiceImpl) Purchase(ctx context.Context, req ports.PurchaseRequest) (*domain.Purchase, error) {
	if req.ReferenceID == "" {
		return nil, apperror.Validation("reference_id is required")
	}

	buyer, err := s.accountRepo.GetByID(ctx, req.BuyerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load buyer: %w", err))
	}
	if buyer == nil {
		return nil, apperror.ErrNotFound("account")
	}
	if !buyer.IsActive() {
		return nil, apperror.ErrAccountSuspended()
	}

	idempKey := domain.BuildPurchaseIdempotencyKey(req.BuyerID, req.ReferenceID)

	// Layer 1: Redis idempotency check
	cached, err := s.idempCache.Get(ctx, idempKey)
	if err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		return s.unmarshalCachedPurchase(cached)
	}

	// Layer 2: DB idempotency check
	idempLog, err := s.idempRepo.Get(ctx, idempKey)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("db idempotency check: %w", err))
	}
	if idempLog != nil {
		return s.unmarshalCachedPurchase(idempLog.ResponseJSON)
	}

	// Begin database transaction
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock the global state row first: serializes the counters and makes the
	// pause switch effective for in-flight purchases.
	state, err := s.stateRepo.GetForUpdate(ctx, dbTx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock platform state: %w", err))
	}
	if state.Paused {
		return nil, apperror.ErrPlatformPaused()
	}

	// Lock & get offer
	offer, err := s.offerRepo.GetByIDForUpdate(ctx, dbTx, req.OfferID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock offer: %w", err))
	}
	if offer == nil {
		return nil, apperror.ErrNotFound("offer")
	}

	now := time.Now().UTC()
	if !offer.Active {
		return nil, apperror.ErrOfferInactive()
	}
	if offer.IsExpired(now) {
		return nil, apperror.ErrOfferExpired()
	}
	if offer.IsSoldOut() {
		return nil, apperror.ErrSoldOut()
	}

	asset := domain.AssetNative
	if req.PayInToken {
		asset = domain.AssetToken
	}
	totalAmount := offer.PriceFor(asset)
	if totalAmount == 0 {
		if req.PayInToken {
			return nil, apperror.ErrTokenPaymentNotAccepted()
		}
		return nil, apperror.ErrNativePaymentNotAccepted()
	}

	// Lock & check buyer funds
	balance, err := s.balanceRepo.GetForUpdate(ctx, dbTx, buyer.ID, asset)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock balance: %w", err))
	}
	if balance < totalAmount {
		return nil, apperror.ErrInsufficientPayment()
	}
	if err := s.balanceRepo.Add(ctx, dbTx, buyer.ID, asset, -totalAmount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("debit buyer: %w", err))
	}

	// Settle proceeds into escrow. Token payments lose the protocol burn at
	// the door; the remainder is what actually lands in escrow.
	totalBurned := int64(0)
	escrowIn := totalAmount
	if asset == domain.AssetToken {
		protocolBurn := domain.ShareAmount(totalAmount, s.burnBps)
		totalBurned += protocolBurn
		escrowIn -= protocolBurn
	}
	if err := s.balanceRepo.Add(ctx, dbTx, domain.EscrowAccountID, asset, escrowIn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit escrow: %w", err))
	}

	if err := s.offerRepo.IncrementUnitsSold(ctx, dbTx, offer.ID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("increment units sold: %w", err))
	}

	d := distribution{
		svc:       s,
		tx:        dbTx,
		asset:     asset,
		remaining: totalAmount,
		now:       now,
	}

	// 1. Merchant proceeds. Not a commission; paid whenever non-zero.
	merchantAmt := domain.ShareAmount(totalAmount, offer.Split.MerchantShare)
	if merchantAmt > 0 {
		if err := d.payout(ctx, offer.MerchantID, merchantAmt); err != nil {
			return nil, err
		}
		d.remaining -= merchantAmt
	}

	// 2. Direct referral commission.
	if req.ReferrerID != nil {
		if err := d.commission(ctx, *req.ReferrerID, domain.BucketDirect,
			domain.ShareAmount(totalAmount, offer.Split.DirectCommissionShare)); err != nil {
			return nil, err
		}
	}

	// 3. Team override to the buyer's upline.
	if buyer.UplineID != nil {
		if err := d.commission(ctx, *buyer.UplineID, domain.BucketOverride,
			domain.ShareAmount(totalAmount, offer.Split.TeamOverrideShare)); err != nil {
			return nil, err
		}
	}

	// 4. Introducer share, split across historical introducers by weight.
	// With no records the share is skipped and the amount stays in escrow.
	introducerAmt := domain.ShareAmount(totalAmount, offer.Split.IntroducerShare)
	if introducerAmt > 0 && introducerAmt <= d.remaining {
		records, err := s.introducerRepo.ListByAccount(ctx, buyer.ID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("list introducers: %w", err))
		}
		if len(records) > 0 {
			if err := d.payIntroducers(ctx, records, introducerAmt); err != nil {
				return nil, err
			}
		}
	}

	// 5. Territory accrual into the buyer's territory pool. Credited to the
	// claimant's ledger at claim time, not here.
	if buyer.TerritoryID != nil {
		territoryAmt := domain.ShareAmount(totalAmount, offer.Split.TerritoryShare)
		if territoryAmt > 0 && territoryAmt <= d.remaining {
			if err := s.territoryRepo.CreditPool(ctx, dbTx, *buyer.TerritoryID, asset, territoryAmt); err != nil {
				return nil, apperror.InternalError(fmt.Errorf("credit territory pool: %w", err))
			}
			d.remaining -= territoryAmt
			d.commissionsPaid += territoryAmt
			s.metrics.ObserveTerritoryAccrual(territoryAmt)
			s.metrics.ObserveCommission(string(domain.BucketTerritory), territoryAmt)
		}
	}

	// 6. Platform fee: stays in escrow, tracked on the global counters.
	platformFee := domain.ShareAmount(totalAmount, offer.Split.PlatformFeeShare)
	if platformFee > d.remaining {
		platformFee = 0
	}
	d.remaining -= platformFee

	// 7. Token burn share. Computed on the full amount and destroyed from
	// escrow, but never subtracted from the distributable remainder.
	if asset == domain.AssetToken {
		burnAmt := domain.ShareAmount(totalAmount, offer.Split.TokenBurnShare)
		if burnAmt > 0 {
			if err := s.balanceRepo.Add(ctx, dbTx, domain.EscrowAccountID, asset, -burnAmt); err != nil {
				return nil, apperror.InternalError(fmt.Errorf("burn from escrow: %w", err))
			}
			totalBurned += burnAmt
		}
	}

	purchase := &domain.Purchase{
		ID:                uuid.New(),
		OfferID:           offer.ID,
		BuyerID:           buyer.ID,
		ReferrerID:        req.ReferrerID,
		ReferenceID:       req.ReferenceID,
		Asset:             asset,
		AmountPaid:        totalAmount,
		BurnedAmount:      totalBurned,
		CommissionsPaid:   d.commissionsPaid,
		UnallocatedAmount: d.remaining,
		CreatedAt:         now,
	}

	if err := s.purchaseRepo.Create(ctx, dbTx, purchase); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create purchase: %w", err))
	}

	event := &domain.DistributionEvent{
		ID:                uuid.New(),
		PurchaseID:        purchase.ID,
		OfferID:           offer.ID,
		TotalAmount:       totalAmount,
		CommissionsPaid:   d.commissionsPaid,
		UnallocatedAmount: d.remaining,
		BurnedAmount:      totalBurned,
		CreatedAt:         now,
	}
	if err := s.eventRepo.Create(ctx, dbTx, event); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create distribution event: %w", err))
	}

	if err := s.stateRepo.RecordPurchase(ctx, dbTx, totalAmount, totalBurned, platformFee); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record purchase counters: %w", err))
	}

	respJSON, err := json.Marshal(purchase)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal response: %w", err))
	}
	idempLogEntry := &domain.IdempotencyLog{
		Key:          idempKey,
		PurchaseID:   purchase.ID,
		ResponseJSON: respJSON,
		CreatedAt:    now,
	}
	if err := s.idempRepo.Create(ctx, dbTx, idempLogEntry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save idempotency log: %w", err))
	}

	// Commit
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// Post-process: cache in Redis (best-effort)
	if err := s.idempCache.Set(ctx, idempKey, respJSON, s.idempTTL); err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotency in redis")
	}

	s.metrics.ObservePurchase(string(asset), totalAmount)
	s.metrics.ObserveUnallocated(d.remaining)
	s.metrics.ObserveBurned(totalBurned)

	s.log.Info().
		Str("purchase_id", purchase.ID.String()).
		Str("offer_id", offer.ID.String()).
		Str("buyer_id", buyer.ID.String()).
		Str("asset", string(asset)).
		Int64("amount", totalAmount).
		Int64("commissions", d.commissionsPaid).
		Int64("unallocated", d.remaining).
		Int64("burned", totalBurned).
		Msg("purchase settled")

	return purchase, nil
}

// distribution tracks the fan-out state within one purchase transaction.
type distribution struct {
	svc             *PurchaseServiceImpl
	tx              pgx.Tx
	asset           domain.Asset
	remaining       int64
	commissionsPaid int64
	now             time.Time
}

// payout moves amount from escrow to recipient.
func (d *distribution) payout(ctx context.Context, recipient uuid.UUID, amount int64) error {
	if err := d.svc.balanceRepo.Add(ctx, d.tx, domain.EscrowAccountID, d.asset, -amount); err != nil {
		return apperror.InternalError(fmt.Errorf("debit escrow: %w", err))
	}
	if err := d.svc.balanceRepo.Add(ctx, d.tx, recipient, d.asset, amount); err != nil {
		return apperror.InternalError(fmt.Errorf("credit recipient: %w", err))
	}
	return nil
}

// commission pays a commission share if it fits in the remainder, crediting
// the recipient's cumulative ledger. Oversized shares are skipped whole.
func (d *distribution) commission(ctx context.Context, recipient uuid.UUID, bucket domain.CommissionBucket, amount int64) error {
	if amount <= 0 || amount > d.remaining {
		return nil
	}
	if err := d.payout(ctx, recipient, amount); err != nil {
		return err
	}
	if err := d.svc.ledgerRepo.Credit(ctx, d.tx, recipient, bucket, amount, d.now); err != nil {
		return apperror.InternalError(fmt.Errorf("credit ledger: %w", err))
	}
	d.remaining -= amount
	d.commissionsPaid += amount
	d.svc.metrics.ObserveCommission(string(bucket), amount)
	return nil
}

// payIntroducers splits amount across records proportionally by weight,
// flooring each portion. Rounding dust stays in escrow.
func (d *distribution) payIntroducers(ctx context.Context, records []domain.IntroducerRecord, amount int64) error {
	var totalWeight int64
	for _, r := range records {
		totalWeight += r.Weight
	}
	if totalWeight <= 0 {
		return nil
	}
	for _, r := range records {
		portion := amount * r.Weight / totalWeight
		if portion <= 0 {
			continue
		}
		if err := d.payout(ctx, r.IntroducerID, portion); err != nil {
			return err
		}
		if err := d.svc.ledgerRepo.Credit(ctx, d.tx, r.IntroducerID, domain.BucketIntroducer, portion, d.now); err != nil {
			return apperror.InternalError(fmt.Errorf("credit introducer ledger: %w", err))
		}
		d.remaining -= portion
		d.commissionsPaid += portion
		d.svc.metrics.ObserveCommission(string(domain.BucketIntroducer), portion)
	}
	return nil
}

// FulfillPurchase marks a purchase delivered, exactly once, by the merchant
// that owns the offer.
func (s *PurchaseServiceImpl) FulfillPurchase(ctx context.Context, req ports.FulfillRequest) (*domain.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, req.PurchaseID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load purchase: %w", err))
	}
	if purchase == nil {
		return nil, apperror.ErrNotFound("purchase")
	}

	offer, err := s.offerRepo.GetByID(ctx, purchase.OfferID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load offer: %w", err))
	}
	if offer == nil {
		return nil, apperror.ErrNotFound("offer")
	}
	caller, err := s.accountRepo.GetByID(ctx, req.CallerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load caller: %w", err))
	}
	if err := authorize(caller, CapFulfillPurchase, offer.MerchantID); err != nil {
		return nil, err
	}
	if purchase.Fulfilled {
		return nil, apperror.ErrAlreadyFulfilled()
	}

	now := time.Now().UTC()
	// Guarded update; a concurrent fulfillment loses here even though the
	// read above saw an unfulfilled row.
	updated, err := s.purchaseRepo.SetFulfilled(ctx, purchase.ID, req.Payload, now)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("set fulfilled: %w", err))
	}
	if !updated {
		return nil, apperror.ErrAlreadyFulfilled()
	}

	purchase.Fulfilled = true
	purchase.FulfillmentPayload = &req.Payload
	purchase.FulfilledAt = &now

	s.metrics.IncFulfillment()
	s.log.Info().
		Str("purchase_id", purchase.ID.String()).
		Str("merchant_id", req.CallerID.String()).
		Msg("purchase fulfilled")

	return purchase, nil
}

// GetPurchase returns a purchase by ID.
func (s *PurchaseServiceImpl) GetPurchase(ctx context.Context, purchaseID uuid.UUID) (*domain.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load purchase: %w", err))
	}
	if purchase == nil {
		return nil, apperror.ErrNotFound("purchase")
	}
	return purchase, nil
}

// unmarshalCachedPurchase deserializes a cached purchase.
func (s *PurchaseServiceImpl) unmarshalCachedPurchase(data []byte) (*domain.Purchase, error) {
	purchase := &domain.Purchase{}
	if err := json.Unmarshal(data, purchase); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached purchase: %w", err))
	}
	return purchase, nil
}
