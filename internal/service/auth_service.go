package service

import (
	"context"
	"fmt"
	"time"

	"revshare-engine/internal/core/domain"
	"revshare-engine/internal/core/ports"
	"revshare-engine/pkg/apperror"

	"github.com/google/uuid"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	accountRepo   ports.AccountRepository
	territoryRepo ports.TerritoryRepository
	hashSvc       ports.HashService
	tokenSvc      ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	accountRepo ports.AccountRepository,
	territoryRepo ports.TerritoryRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		accountRepo:   accountRepo,
		territoryRepo: territoryRepo,
		hashSvc:       hashSvc,
		tokenSvc:      tokenSvc,
	}
}

// Register creates a new account. Merchants start in PENDING_APPROVAL and
// cannot sell until an administrator approves them; members are active
// immediately. The upline, resolved at registration, is permanent.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.Account, error) {
	if req.Role != domain.RoleMerchant && req.Role != domain.RoleMember {
		return nil, apperror.Validation("role must be MERCHANT or MEMBER")
	}

	existing, err := s.accountRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check username: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrUsernameExists()
	}

	var uplineID *uuid.UUID
	if req.UplineUsername != nil && *req.UplineUsername != "" {
		upline, err := s.accountRepo.GetByUsername(ctx, *req.UplineUsername)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("resolve upline: %w", err))
		}
		if upline == nil {
			return nil, apperror.ErrNotFound("upline account")
		}
		uplineID = &upline.ID
	}

	if req.TerritoryID != nil && *req.TerritoryID != "" {
		territory, err := s.territoryRepo.GetByID(ctx, *req.TerritoryID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("resolve territory: %w", err))
		}
		if territory == nil {
			return nil, apperror.ErrNotFound("territory")
		}
	} else {
		req.TerritoryID = nil
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	status := domain.AccountStatusActive
	if req.Role == domain.RoleMerchant {
		status = domain.AccountStatusPendingApproval
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
		Role:         req.Role,
		Status:       status,
		UplineID:     uplineID,
		TerritoryID:  req.TerritoryID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}

	return account, nil
}

// Login validates credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	account, err := s.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find account: %w", err))
	}
	if account == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, account.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	if account.Status == domain.AccountStatusSuspended {
		return "", time.Time{}, apperror.ErrAccountSuspended()
	}

	token, expiry, err := s.tokenSvc.Generate(account.ID, account.Role)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}
