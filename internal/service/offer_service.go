package service

import (
	"context"
	"fmt"
	"time"

	"revshare-engine/internal/core/domain"
	"revshare-engine/internal/core/ports"
	"revshare-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OfferServiceImpl implements ports.OfferService.
type OfferServiceImpl struct {
	offerRepo   ports.OfferRepository
	accountRepo ports.AccountRepository
	log         zerolog.Logger
}

// NewOfferService creates a new OfferServiceImpl.
func NewOfferService(offerRepo ports.OfferRepository, accountRepo ports.AccountRepository, log zerolog.Logger) *OfferServiceImpl {
	return &OfferServiceImpl{
		offerRepo:   offerRepo,
		accountRepo: accountRepo,
		log:         log,
	}
}

// CreateOffer validates and registers a new offer for an approved merchant.
// Validation order: price, expiry, split.
func (s *OfferServiceImpl) CreateOffer(ctx context.Context, req ports.CreateOfferRequest) (*domain.Offer, error) {
	merchant, err := s.accountRepo.GetByID(ctx, req.MerchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load merchant: %w", err))
	}
	if merchant == nil {
		return nil, apperror.ErrNotFound("account")
	}
	if !merchant.IsApprovedMerchant() {
		return nil, apperror.ErrMerchantNotApproved()
	}

	// At least one price must be positive; an asset priced at zero simply
	// does not accept that asset.
	if req.NativePrice < 0 || req.TokenPrice < 0 || (req.NativePrice == 0 && req.TokenPrice == 0) {
		return nil, apperror.ErrInvalidPrice()
	}
	if req.MaxSupply < 0 {
		return nil, apperror.Validation("max_supply must not be negative")
	}
	if !req.ExpiresAt.After(time.Now().UTC()) {
		return nil, apperror.ErrInvalidExpiry()
	}
	if !req.Split.Valid() {
		return nil, apperror.ErrInvalidSplit()
	}

	now := time.Now().UTC()
	offer := &domain.Offer{
		ID:          uuid.New(),
		MerchantID:  req.MerchantID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		NativePrice: req.NativePrice,
		TokenPrice:  req.TokenPrice,
		MaxSupply:   req.MaxSupply,
		Active:      true,
		Split:       req.Split,
		MetadataRef: req.MetadataRef,
		CreatedAt:   now,
		ExpiresAt:   req.ExpiresAt,
	}

	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create offer: %w", err))
	}

	s.log.Info().
		Str("offer_id", offer.ID.String()).
		Str("merchant_id", req.MerchantID.String()).
		Str("category", string(offer.Category)).
		Msg("offer created")

	return offer, nil
}

// DeactivateOffer permanently deactivates an offer. Allowed for the owning
// merchant and for administrators.
func (s *OfferServiceImpl) DeactivateOffer(ctx context.Context, offerID, callerID uuid.UUID) error {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load offer: %w", err))
	}
	if offer == nil {
		return apperror.ErrNotFound("offer")
	}
	caller, err := s.accountRepo.GetByID(ctx, callerID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("load caller: %w", err))
	}
	if err := authorize(caller, CapManageOffer, offer.MerchantID); err != nil {
		return err
	}
	if !offer.Active {
		return nil // already deactivated, idempotent
	}

	if err := s.offerRepo.SetActive(ctx, offerID, false); err != nil {
		return apperror.InternalError(fmt.Errorf("deactivate offer: %w", err))
	}

	s.log.Info().Str("offer_id", offerID.String()).Msg("offer deactivated")
	return nil
}

// GetOffer returns an offer by ID.
func (s *OfferServiceImpl) GetOffer(ctx context.Context, offerID uuid.UUID) (*domain.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load offer: %w", err))
	}
	if offer == nil {
		return nil, apperror.ErrNotFound("offer")
	}
	return offer, nil
}

// ListMerchantOffers returns all offers owned by a merchant.
func (s *OfferServiceImpl) ListMerchantOffers(ctx context.Context, merchantID uuid.UUID) ([]domain.Offer, error) {
	offers, err := s.offerRepo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list offers: %w", err))
	}
	return offers, nil
}
