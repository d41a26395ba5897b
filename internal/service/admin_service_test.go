package service

import (
	"context"
	"testing"

	"revshare-engine/internal/core/domain"
	"revshare-engine/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type adminTestDeps struct {
	svc            *AdminServiceImpl
	accountRepo    *mocks.MockAccountRepository
	offerRepo      *mocks.MockOfferRepository
	territoryRepo  *mocks.MockTerritoryRepository
	introducerRepo *mocks.MockIntroducerRepository
	balanceRepo    *mocks.MockBalanceRepository
	stateRepo      *mocks.MockPlatformStateRepository
	transactor     *mocks.MockDBTransactor
	auditSvc       *mocks.MockAuditService
	ctrl           *gomock.Controller
}

func setupAdminService(t *testing.T) *adminTestDeps {
	ctrl := gomock.NewController(t)
	d := &adminTestDeps{
		accountRepo:    mocks.NewMockAccountRepository(ctrl),
		offerRepo:      mocks.NewMockOfferRepository(ctrl),
		territoryRepo:  mocks.NewMockTerritoryRepository(ctrl),
		introducerRepo: mocks.NewMockIntroducerRepository(ctrl),
		balanceRepo:    mocks.NewMockBalanceRepository(ctrl),
		stateRepo:      mocks.NewMockPlatformStateRepository(ctrl),
		transactor:     mocks.NewMockDBTransactor(ctrl),
		auditSvc:       mocks.NewMockAuditService(ctrl),
		ctrl:           ctrl,
	}
	d.svc = NewAdminService(
		d.accountRepo, d.offerRepo, d.territoryRepo, d.introducerRepo,
		d.balanceRepo, d.stateRepo, d.transactor, d.auditSvc, zerolog.Nop(),
	)
	return d
}

func adminAccount(id uuid.UUID) *domain.Account {
	return &domain.Account{ID: id, Role: domain.RoleAdmin, Status: domain.AccountStatusActive}
}

func TestAdminService_SetPaused(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	adminID := uuid.New()

	d.accountRepo.EXPECT().GetByID(ctx, adminID).Return(adminAccount(adminID), nil)
	d.stateRepo.EXPECT().SetPaused(ctx, true).Return(nil)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any())

	require.NoError(t, d.svc.SetPaused(ctx, adminID, true))
}

func TestAdminService_SetPaused_NonAdmin(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	callerID := uuid.New()

	d.accountRepo.EXPECT().GetByID(ctx, callerID).Return(&domain.Account{
		ID: callerID, Role: domain.RoleMerchant, Status: domain.AccountStatusActive,
	}, nil)

	err := d.svc.SetPaused(ctx, callerID, true)
	assertAppError(t, err, "AUTH_004")
}

func TestAdminService_ApproveMerchant(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	adminID := uuid.New()
	merchantID := uuid.New()

	d.accountRepo.EXPECT().GetByID(ctx, adminID).Return(adminAccount(adminID), nil)
	d.accountRepo.EXPECT().GetByID(ctx, merchantID).Return(&domain.Account{
		ID: merchantID, Role: domain.RoleMerchant, Status: domain.AccountStatusPendingApproval,
	}, nil)
	d.accountRepo.EXPECT().UpdateStatus(ctx, merchantID, domain.AccountStatusActive).Return(nil)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any())

	require.NoError(t, d.svc.ApproveMerchant(ctx, adminID, merchantID))
}

func TestAdminService_ApproveMerchant_NotAMerchant(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	adminID := uuid.New()
	memberID := uuid.New()

	d.accountRepo.EXPECT().GetByID(ctx, adminID).Return(adminAccount(adminID), nil)
	d.accountRepo.EXPECT().GetByID(ctx, memberID).Return(&domain.Account{
		ID: memberID, Role: domain.RoleMember, Status: domain.AccountStatusActive,
	}, nil)

	err := d.svc.ApproveMerchant(ctx, adminID, memberID)
	assertAppError(t, err, "VAL_001")
}

func TestAdminService_SuspendAccount_SelfSuspendRejected(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	adminID := uuid.New()

	d.accountRepo.EXPECT().GetByID(ctx, adminID).Return(adminAccount(adminID), nil)

	err := d.svc.SuspendAccount(ctx, adminID, adminID)
	assertAppError(t, err, "VAL_001")
}

func TestAdminService_MintToken(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	adminID := uuid.New()
	accountID := uuid.New()
	tx := &mockTx{}

	d.accountRepo.EXPECT().GetByID(ctx, adminID).Return(adminAccount(adminID), nil)
	d.accountRepo.EXPECT().GetByID(ctx, accountID).Return(&domain.Account{
		ID: accountID, Role: domain.RoleMember, Status: domain.AccountStatusActive,
	}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.balanceRepo.EXPECT().Add(ctx, tx, accountID, domain.AssetToken, int64(100000)).Return(nil)
	d.stateRepo.EXPECT().AdjustTokenSupply(ctx, tx, int64(100000)).Return(nil)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any())

	require.NoError(t, d.svc.MintToken(ctx, adminID, accountID, 100000))
}

func TestAdminService_MintToken_NonPositiveAmount(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	adminID := uuid.New()

	d.accountRepo.EXPECT().GetByID(ctx, adminID).Return(adminAccount(adminID), nil)

	err := d.svc.MintToken(ctx, adminID, uuid.New(), 0)
	assertAppError(t, err, "VAL_001")
}

func TestAdminService_CreateTerritory(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	adminID := uuid.New()
	claimantID := uuid.New()

	d.accountRepo.EXPECT().GetByID(ctx, adminID).Return(adminAccount(adminID), nil)
	d.accountRepo.EXPECT().GetByID(ctx, claimantID).Return(&domain.Account{
		ID: claimantID, Role: domain.RoleMember, Status: domain.AccountStatusActive,
	}, nil)
	d.territoryRepo.EXPECT().GetByID(ctx, "T-WEST").Return(nil, nil)
	d.territoryRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any())

	require.NoError(t, d.svc.CreateTerritory(ctx, adminID, "T-WEST", "Western Region", claimantID))
}

func TestAdminService_CreateTerritory_Duplicate(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	adminID := uuid.New()
	claimantID := uuid.New()

	d.accountRepo.EXPECT().GetByID(ctx, adminID).Return(adminAccount(adminID), nil)
	d.accountRepo.EXPECT().GetByID(ctx, claimantID).Return(&domain.Account{
		ID: claimantID, Status: domain.AccountStatusActive,
	}, nil)
	d.territoryRepo.EXPECT().GetByID(ctx, "T-WEST").Return(&domain.Territory{ID: "T-WEST"}, nil)

	err := d.svc.CreateTerritory(ctx, adminID, "T-WEST", "Western Region", claimantID)
	assertAppError(t, err, "VAL_001")
}

func TestAdminService_AddIntroducer(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	adminID := uuid.New()
	accountID := uuid.New()
	introducerID := uuid.New()

	d.accountRepo.EXPECT().GetByID(ctx, adminID).Return(adminAccount(adminID), nil)
	d.accountRepo.EXPECT().GetByID(ctx, accountID).Return(&domain.Account{ID: accountID}, nil)
	d.accountRepo.EXPECT().GetByID(ctx, introducerID).Return(&domain.Account{ID: introducerID}, nil)
	d.introducerRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any())

	require.NoError(t, d.svc.AddIntroducer(ctx, adminID, accountID, introducerID, 2))
}

func TestAdminService_AddIntroducer_SelfIntroduction(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	adminID := uuid.New()
	accountID := uuid.New()

	d.accountRepo.EXPECT().GetByID(ctx, adminID).Return(adminAccount(adminID), nil)

	err := d.svc.AddIntroducer(ctx, adminID, accountID, accountID, 1)
	assertAppError(t, err, "VAL_001")
}

func TestAdminService_DeactivateOffer(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	adminID := uuid.New()
	offerID := uuid.New()

	d.accountRepo.EXPECT().GetByID(ctx, adminID).Return(adminAccount(adminID), nil)
	d.offerRepo.EXPECT().GetByID(ctx, offerID).Return(&domain.Offer{
		ID: offerID, MerchantID: uuid.New(), Active: true,
	}, nil)
	d.offerRepo.EXPECT().SetActive(ctx, offerID, false).Return(nil)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any())

	require.NoError(t, d.svc.DeactivateOffer(ctx, adminID, offerID))
}

func TestAdminService_SuspendedAdminRejected(t *testing.T) {
	d := setupAdminService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	adminID := uuid.New()

	d.accountRepo.EXPECT().GetByID(ctx, adminID).Return(&domain.Account{
		ID: adminID, Role: domain.RoleAdmin, Status: domain.AccountStatusSuspended,
	}, nil)

	err := d.svc.SetPaused(ctx, adminID, true)
	assertAppError(t, err, "AUTH_004")
}
