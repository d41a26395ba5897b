package service

import (
	"context"
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

// LedgerServiceImpl implements ports.LedgerService.
type LedgerServiceImpl struct {
	ledgerRepo    ports.LedgerRepository
	territoryRepo ports.TerritoryRepository
	balanceRepo   ports.BalanceRepository
	purchaseRepo  ports.PurchaseRepository
	transactor    ports.DBTransactor
	metrics       *metrics.EngineMetrics
	log           zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	ledgerRepo ports.LedgerRepository,
	territoryRepo ports.TerritoryRepository,
	balanceRepo ports.BalanceRepository,
	purchaseRepo ports.PurchaseRepository,
	transactor ports.DBTransactor,
	m *metrics.EngineMetrics,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		ledgerRepo:    ledgerRepo,
		territoryRepo: territoryRepo,
		balanceRepo:   balanceRepo,
		purchaseRepo:  purchaseRepo,
		transactor:    transactor,
		metrics:       m,
		log:           log,
	}
}

// GetCommissionStats returns the cumulative earnings record for an account.
// An account that never earned anything gets a zeroed entry, not an error.
func (s *LedgerServiceImpl) GetCommissionStats(ctx context.Context, accountID uuid.UUID) (*domain.CommissionLedgerEntry, error) {
	entry, err := s.ledgerRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load ledger entry: %w", err))
	}
	if entry == nil {
		return &domain.CommissionLedgerEntry{AccountID: accountID}, nil
	}
	return entry, nil
}

// ClaimTerritoryRewards drains the territory's pools into the claimant's
// balances and credits their cumulative ledger, atomically. Returns the
// combined claimed amount.
func (s *LedgerServiceImpl) ClaimTerritoryRewards(ctx context.Context, territoryID string, callerID uuid.UUID) (int64, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	territory, err := s.territoryRepo.GetByIDForUpdate(ctx, dbTx, territoryID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lock territory: %w", err))
	}
	if territory == nil {
		return 0, apperror.ErrNotFound("territory")
	}
	if territory.ClaimantID != callerID {
		return 0, apperror.ErrNotYourTerritory()
	}

	total := territory.PoolTotal()
	if total == 0 {
		return 0, apperror.ErrNoRewardsAvailable()
	}

	// Pay each pool out of escrow in its own asset.
	if territory.NativePool > 0 {
		if err := s.moveFromEscrow(ctx, dbTx, callerID, domain.AssetNative, territory.NativePool); err != nil {
			return 0, err
		}
	}
	if territory.TokenPool > 0 {
		if err := s.moveFromEscrow(ctx, dbTx, callerID, domain.AssetToken, territory.TokenPool); err != nil {
			return 0, err
		}
	}

	now := time.Now().UTC()
	if err := s.ledgerRepo.Credit(ctx, dbTx, callerID, domain.BucketTerritory, total, now); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("credit ledger: %w", err))
	}

	if err := s.territoryRepo.DrainPool(ctx, dbTx, territoryID); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("drain pool: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.metrics.IncTerritoryClaim()
	s.log.Info().
		Str("territory_id", territoryID).
		Str("claimant_id", callerID.String()).
		Int64("amount", total).
		Msg("territory rewards claimed")

	return total, nil
}

// GetOfferReconciliation aggregates distribution accounting across an
// offer's purchases, exposing the unallocated leakage.
func (s *LedgerServiceImpl) GetOfferReconciliation(ctx context.Context, offerID uuid.UUID) (*ports.OfferReconciliation, error) {
	rec, err := s.purchaseRepo.GetReconciliation(ctx, offerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load reconciliation: %w", err))
	}
	if rec == nil {
		return &ports.OfferReconciliation{OfferID: offerID}, nil
	}
	return rec, nil
}

func (s *LedgerServiceImpl) moveFromEscrow(ctx context.Context, dbTx pgx.Tx, recipient uuid.UUID, asset domain.Asset, amount int64) error {
	if err := s.balanceRepo.Add(ctx, dbTx, domain.EscrowAccountID, asset, -amount); err != nil {
		return apperror.InternalError(fmt.Errorf("debit escrow: %w", err))
	}
	if err := s.balanceRepo.Add(ctx, dbTx, recipient, asset, amount); err != nil {
		return apperror.InternalError(fmt.Errorf("credit claimant: %w", err))
	}
	return nil
}
