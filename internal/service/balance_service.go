package service

import (
	"context"
	"fmt"

	"revshare-engine/internal/core/domain"
	"revshare-engine/internal/core/ports"
	"revshare-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BalanceServiceImpl implements ports.BalanceService.
type BalanceServiceImpl struct {
	balanceRepo ports.BalanceRepository
	accountRepo ports.AccountRepository
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewBalanceService creates a new BalanceServiceImpl.
func NewBalanceService(
	balanceRepo ports.BalanceRepository,
	accountRepo ports.AccountRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *BalanceServiceImpl {
	return &BalanceServiceImpl{
		balanceRepo: balanceRepo,
		accountRepo: accountRepo,
		transactor:  transactor,
		log:         log,
	}
}

// GetBalances returns the native and token balances for an account.
func (s *BalanceServiceImpl) GetBalances(ctx context.Context, accountID uuid.UUID) (int64, int64, error) {
	native, err := s.balanceRepo.Get(ctx, accountID, domain.AssetNative)
	if err != nil {
		return 0, 0, apperror.InternalError(fmt.Errorf("load native balance: %w", err))
	}
	token, err := s.balanceRepo.Get(ctx, accountID, domain.AssetToken)
	if err != nil {
		return 0, 0, apperror.InternalError(fmt.Errorf("load token balance: %w", err))
	}
	return native, token, nil
}

// TopupNative credits native funds to an account and returns the new balance.
func (s *BalanceServiceImpl) TopupNative(ctx context.Context, accountID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, apperror.Validation("amount must be positive")
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("load account: %w", err))
	}
	if account == nil {
		return 0, apperror.ErrNotFound("account")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	current, err := s.balanceRepo.GetForUpdate(ctx, dbTx, accountID, domain.AssetNative)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lock balance: %w", err))
	}
	if err := s.balanceRepo.Add(ctx, dbTx, accountID, domain.AssetNative, amount); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("credit balance: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	newBalance := current + amount
	s.log.Info().
		Str("account_id", accountID.String()).
		Int64("amount", amount).
		Int64("new_balance", newBalance).
		Msg("native topup processed")

	return newBalance, nil
}
