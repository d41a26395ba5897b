package service

import (
	"context"
	"testing"

	"revshare-engine/internal/core/domain"
	"revshare-engine/internal/core/ports"
	"revshare-engine/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type ledgerTestDeps struct {
	svc           *LedgerServiceImpl
	ledgerRepo    *mocks.MockLedgerRepository
	territoryRepo *mocks.MockTerritoryRepository
	balanceRepo   *mocks.MockBalanceRepository
	purchaseRepo  *mocks.MockPurchaseRepository
	transactor    *mocks.MockDBTransactor
	ctrl          *gomock.Controller
}

func setupLedgerService(t *testing.T) *ledgerTestDeps {
	ctrl := gomock.NewController(t)
	d := &ledgerTestDeps{
		ledgerRepo:    mocks.NewMockLedgerRepository(ctrl),
		territoryRepo: mocks.NewMockTerritoryRepository(ctrl),
		balanceRepo:   mocks.NewMockBalanceRepository(ctrl),
		purchaseRepo:  mocks.NewMockPurchaseRepository(ctrl),
		transactor:    mocks.NewMockDBTransactor(ctrl),
		ctrl:          ctrl,
	}
	d.svc = NewLedgerService(
		d.ledgerRepo, d.territoryRepo, d.balanceRepo, d.purchaseRepo,
		d.transactor, nil, zerolog.Nop(),
	)
	return d
}

func TestLedgerService_GetCommissionStats_ZeroEntryForUnknown(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	accountID := uuid.New()
	d.ledgerRepo.EXPECT().GetByAccount(ctx, accountID).Return(nil, nil)

	entry, err := d.svc.GetCommissionStats(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, accountID, entry.AccountID)
	assert.Equal(t, int64(0), entry.TotalEarned)
}

func TestLedgerService_ClaimTerritoryRewards_Success(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	claimantID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.territoryRepo.EXPECT().GetByIDForUpdate(ctx, tx, "T-NORTH").Return(&domain.Territory{
		ID:         "T-NORTH",
		ClaimantID: claimantID,
		NativePool: 7000,
		TokenPool:  500,
	}, nil)
	// Native pool paid in native, token pool in token
	d.balanceRepo.EXPECT().Add(ctx, tx, domain.EscrowAccountID, domain.AssetNative, int64(-7000)).Return(nil)
	d.balanceRepo.EXPECT().Add(ctx, tx, claimantID, domain.AssetNative, int64(7000)).Return(nil)
	d.balanceRepo.EXPECT().Add(ctx, tx, domain.EscrowAccountID, domain.AssetToken, int64(-500)).Return(nil)
	d.balanceRepo.EXPECT().Add(ctx, tx, claimantID, domain.AssetToken, int64(500)).Return(nil)
	d.ledgerRepo.EXPECT().Credit(ctx, tx, claimantID, domain.BucketTerritory, int64(7500), gomock.Any()).Return(nil)
	d.territoryRepo.EXPECT().DrainPool(ctx, tx, "T-NORTH").Return(nil)

	claimed, err := d.svc.ClaimTerritoryRewards(ctx, "T-NORTH", claimantID)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), claimed)
}

func TestLedgerService_ClaimTerritoryRewards_NotClaimant(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.territoryRepo.EXPECT().GetByIDForUpdate(ctx, tx, "T-NORTH").Return(&domain.Territory{
		ID:         "T-NORTH",
		ClaimantID: uuid.New(),
		NativePool: 7000,
	}, nil)

	claimed, err := d.svc.ClaimTerritoryRewards(ctx, "T-NORTH", uuid.New())
	assert.Equal(t, int64(0), claimed)
	assertAppError(t, err, "LED_001")
}

func TestLedgerService_ClaimTerritoryRewards_EmptyPool(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	claimantID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.territoryRepo.EXPECT().GetByIDForUpdate(ctx, tx, "T-SOUTH").Return(&domain.Territory{
		ID:         "T-SOUTH",
		ClaimantID: claimantID,
	}, nil)

	claimed, err := d.svc.ClaimTerritoryRewards(ctx, "T-SOUTH", claimantID)
	assert.Equal(t, int64(0), claimed)
	assertAppError(t, err, "LED_002")
}

func TestLedgerService_ClaimTerritoryRewards_UnknownTerritory(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.territoryRepo.EXPECT().GetByIDForUpdate(ctx, tx, "T-GHOST").Return(nil, nil)

	_, err := d.svc.ClaimTerritoryRewards(ctx, "T-GHOST", uuid.New())
	assertAppError(t, err, "SYS_002")
}

func TestLedgerService_GetOfferReconciliation(t *testing.T) {
	d := setupLedgerService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	offerID := uuid.New()

	d.purchaseRepo.EXPECT().GetReconciliation(ctx, offerID).Return(&ports.OfferReconciliation{
		OfferID:         offerID,
		Purchases:       3,
		TotalRevenue:    300000,
		CommissionsPaid: 39000,
		Unallocated:     36000,
		Burned:          0,
	}, nil)

	rec, err := d.svc.GetOfferReconciliation(ctx, offerID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.Purchases)
	assert.Equal(t, int64(36000), rec.Unallocated)
}
