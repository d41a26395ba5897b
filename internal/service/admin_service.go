package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"revshare-engine/internal/core/domain"
	"revshare-engine/internal/core/ports"
	"revshare-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminServiceImpl implements ports.AdminService: the administrative control
// plane. Every mutation is audited.
type AdminServiceImpl struct {
	accountRepo    ports.AccountRepository
	offerRepo      ports.OfferRepository
	territoryRepo  ports.TerritoryRepository
	introducerRepo ports.IntroducerRepository
	balanceRepo    ports.BalanceRepository
	stateRepo      ports.PlatformStateRepository
	transactor     ports.DBTransactor
	auditSvc       ports.AuditService
	log            zerolog.Logger
}

// NewAdminService creates a new AdminServiceImpl.
func NewAdminService(
	accountRepo ports.AccountRepository,
	offerRepo ports.OfferRepository,
	territoryRepo ports.TerritoryRepository,
	introducerRepo ports.IntroducerRepository,
	balanceRepo ports.BalanceRepository,
	stateRepo ports.PlatformStateRepository,
	transactor ports.DBTransactor,
	auditSvc ports.AuditService,
	log zerolog.Logger,
) *AdminServiceImpl {
	return &AdminServiceImpl{
		accountRepo:    accountRepo,
		offerRepo:      offerRepo,
		territoryRepo:  territoryRepo,
		introducerRepo: introducerRepo,
		balanceRepo:    balanceRepo,
		stateRepo:      stateRepo,
		transactor:     transactor,
		auditSvc:       auditSvc,
		log:            log,
	}
}

// requireAdmin loads the caller and verifies the admin role.
func (s *AdminServiceImpl) requireAdmin(ctx context.Context, callerID uuid.UUID) (*domain.Account, error) {
	caller, err := s.accountRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load caller: %w", err))
	}
	if err := authorize(caller, CapAdmin, uuid.Nil); err != nil {
		return nil, err
	}
	return caller, nil
}

// SetPaused flips the global purchase gate.
func (s *AdminServiceImpl) SetPaused(ctx context.Context, callerID uuid.UUID, paused bool) error {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}

	if err := s.stateRepo.SetPaused(ctx, paused); err != nil {
		return apperror.InternalError(fmt.Errorf("set paused: %w", err))
	}

	action := domain.AuditActionPause
	if !paused {
		action = domain.AuditActionUnpause
	}
	s.audit(ctx, callerID, action, "platform", "", "")
	s.log.Info().Bool("paused", paused).Msg("platform pause state changed")
	return nil
}

// ApproveMerchant activates a pending merchant account.
func (s *AdminServiceImpl) ApproveMerchant(ctx context.Context, callerID, merchantID uuid.UUID) error {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}

	merchant, err := s.accountRepo.GetByID(ctx, merchantID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load merchant: %w", err))
	}
	if merchant == nil {
		return apperror.ErrNotFound("account")
	}
	if merchant.Role != domain.RoleMerchant {
		return apperror.Validation("account is not a merchant")
	}
	if merchant.Status == domain.AccountStatusActive {
		return nil // already approved, idempotent
	}

	if err := s.accountRepo.UpdateStatus(ctx, merchantID, domain.AccountStatusActive); err != nil {
		return apperror.InternalError(fmt.Errorf("approve merchant: %w", err))
	}

	s.audit(ctx, callerID, domain.AuditActionApproveMerchant, "account", merchantID.String(), "")
	return nil
}

// SuspendAccount blocks an account from all authenticated operations.
func (s *AdminServiceImpl) SuspendAccount(ctx context.Context, callerID, accountID uuid.UUID) error {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}
	if callerID == accountID {
		return apperror.Validation("cannot suspend yourself")
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load account: %w", err))
	}
	if account == nil {
		return apperror.ErrNotFound("account")
	}

	if err := s.accountRepo.UpdateStatus(ctx, accountID, domain.AccountStatusSuspended); err != nil {
		return apperror.InternalError(fmt.Errorf("suspend account: %w", err))
	}

	s.audit(ctx, callerID, domain.AuditActionSuspendAccount, "account", accountID.String(), "")
	return nil
}

// MintToken creates new token supply and credits it to an account.
func (s *AdminServiceImpl) MintToken(ctx context.Context, callerID, accountID uuid.UUID, amount int64) error {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}
	if amount <= 0 {
		return apperror.Validation("amount must be positive")
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load account: %w", err))
	}
	if account == nil {
		return apperror.ErrNotFound("account")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.balanceRepo.Add(ctx, dbTx, accountID, domain.AssetToken, amount); err != nil {
		return apperror.InternalError(fmt.Errorf("credit token balance: %w", err))
	}
	if err := s.stateRepo.AdjustTokenSupply(ctx, dbTx, amount); err != nil {
		return apperror.InternalError(fmt.Errorf("adjust token supply: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.audit(ctx, callerID, domain.AuditActionMintToken, "account", accountID.String(), strconv.FormatInt(amount, 10))
	s.log.Info().
		Str("account_id", accountID.String()).
		Int64("amount", amount).
		Msg("token minted")
	return nil
}

// DeactivateOffer allows an administrator to take down any offer.
func (s *AdminServiceImpl) DeactivateOffer(ctx context.Context, callerID, offerID uuid.UUID) error {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}

	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load offer: %w", err))
	}
	if offer == nil {
		return apperror.ErrNotFound("offer")
	}
	if !offer.Active {
		return nil
	}

	if err := s.offerRepo.SetActive(ctx, offerID, false); err != nil {
		return apperror.InternalError(fmt.Errorf("deactivate offer: %w", err))
	}

	s.audit(ctx, callerID, domain.AuditActionDeactivateOffer, "offer", offerID.String(), "")
	return nil
}

// CreateTerritory registers a territory and assigns its claimant.
func (s *AdminServiceImpl) CreateTerritory(ctx context.Context, callerID uuid.UUID, territoryID, name string, claimantID uuid.UUID) error {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}
	if territoryID == "" {
		return apperror.Validation("territory id is required")
	}

	claimant, err := s.accountRepo.GetByID(ctx, claimantID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load claimant: %w", err))
	}
	if claimant == nil {
		return apperror.ErrNotFound("claimant account")
	}

	existing, err := s.territoryRepo.GetByID(ctx, territoryID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("check territory: %w", err))
	}
	if existing != nil {
		return apperror.Validation("territory already exists")
	}

	territory := &domain.Territory{
		ID:         territoryID,
		Name:       name,
		ClaimantID: claimantID,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.territoryRepo.Create(ctx, territory); err != nil {
		return apperror.InternalError(fmt.Errorf("create territory: %w", err))
	}

	s.audit(ctx, callerID, domain.AuditActionTerritoryCreated, "territory", territoryID, "")
	return nil
}

// AddIntroducer records a historical introduction relationship for an
// account with the given proportional weight.
func (s *AdminServiceImpl) AddIntroducer(ctx context.Context, callerID, accountID, introducerID uuid.UUID, weight int64) error {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}
	if weight <= 0 {
		return apperror.Validation("weight must be positive")
	}
	if accountID == introducerID {
		return apperror.Validation("account cannot introduce itself")
	}

	for _, id := range []uuid.UUID{accountID, introducerID} {
		account, err := s.accountRepo.GetByID(ctx, id)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("load account: %w", err))
		}
		if account == nil {
			return apperror.ErrNotFound("account")
		}
	}

	record := &domain.IntroducerRecord{
		ID:           uuid.New(),
		AccountID:    accountID,
		IntroducerID: introducerID,
		Weight:       weight,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.introducerRepo.Create(ctx, record); err != nil {
		return apperror.InternalError(fmt.Errorf("create introducer record: %w", err))
	}

	s.audit(ctx, callerID, domain.AuditActionIntroducerAdded, "account", accountID.String(), "")
	return nil
}

func (s *AdminServiceImpl) audit(ctx context.Context, actorID uuid.UUID, action domain.AuditAction, resourceType, resourceID, details string) {
	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		ActorID:      &actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		CreatedAt:    time.Now().UTC(),
	})
}
