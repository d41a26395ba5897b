package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"revshare-engine/internal/adapter/http/dto"
	"revshare-engine/internal/adapter/http/middleware"
	"revshare-engine/internal/core/domain"
	"revshare-engine/internal/core/ports"
	"revshare-engine/internal/core/ports/mocks"
	"revshare-engine/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func authedContext(t *testing.T, w *httptest.ResponseRecorder, accountID uuid.UUID) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.CtxAccountID, accountID)
	return c
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	accountID := uuid.New()
	mockAuth.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		Username:    "alice",
		Password:    "password123",
		DisplayName: "Alice",
		Role:        domain.RoleMember,
	}).Return(&domain.Account{
		ID:          accountID,
		Username:    "alice",
		DisplayName: "Alice",
		Role:        domain.RoleMember,
		Status:      domain.AccountStatusActive,
		CreatedAt:   time.Now().UTC(),
	}, nil)

	body := jsonBody(t, dto.RegisterRequest{
		Username:    "alice",
		Password:    "password123",
		DisplayName: "Alice",
		Role:        "MEMBER",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, accountID.String(), data["id"])
	assert.Equal(t, "MEMBER", data["role"])
	assert.Equal(t, "ACTIVE", data["status"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAuthHandler(mocks.NewMockAuthService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VAL_001")
}

func TestRegister_UsernameTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrUsernameExists())

	body := jsonBody(t, dto.RegisterRequest{
		Username:    "taken",
		Password:    "password123",
		DisplayName: "Taken",
		Role:        "MERCHANT",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", body)
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_002")
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(time.Hour)
	mockAuth.EXPECT().Login(gomock.Any(), "alice", "password123").Return("jwt-token", expiry, nil)

	body := jsonBody(t, dto.LoginRequest{Username: "alice", Password: "password123"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", body)
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "jwt-token", data["token"])
	assert.Equal(t, float64(expiry.Unix()), data["expiry"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "alice", "wrong").Return("", time.Time{}, apperror.ErrInvalidCredentials())

	body := jsonBody(t, dto.LoginRequest{Username: "alice", Password: "wrong"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", body)
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_001")
}

// --- Offer Handler Tests ---

func validOfferBody(t *testing.T) *bytes.Reader {
	return jsonBody(t, dto.CreateOfferRequest{
		Name:        "Spa day pass",
		Category:    "VOUCHER",
		NativePrice: 100000,
		ExpiresAt:   time.Now().Add(72 * time.Hour).Unix(),
		Split: dto.SplitRequest{
			MerchantShare:         7000,
			DirectCommissionShare: 500,
			PlatformFeeShare:      500,
		},
	})
}

func TestCreateOffer_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOffer := mocks.NewMockOfferService(ctrl)
	h := NewOfferHandler(mockOffer)

	merchantID := uuid.New()
	offerID := uuid.New()
	mockOffer.EXPECT().CreateOffer(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req ports.CreateOfferRequest) (*domain.Offer, error) {
			assert.Equal(t, merchantID, req.MerchantID)
			assert.Equal(t, int64(100000), req.NativePrice)
			return &domain.Offer{
				ID:          offerID,
				MerchantID:  merchantID,
				Name:        req.Name,
				Category:    req.Category,
				NativePrice: req.NativePrice,
				Active:      true,
				Split:       req.Split,
				CreatedAt:   time.Now().UTC(),
				ExpiresAt:   req.ExpiresAt,
			}, nil
		})

	w := httptest.NewRecorder()
	c := authedContext(t, w, merchantID)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/offers", validOfferBody(t))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CreateOffer(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, offerID.String(), data["id"])
	assert.Equal(t, true, data["active"])
}

func TestCreateOffer_NotApproved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOffer := mocks.NewMockOfferService(ctrl)
	h := NewOfferHandler(mockOffer)

	mockOffer.EXPECT().CreateOffer(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrMerchantNotApproved())

	w := httptest.NewRecorder()
	c := authedContext(t, w, uuid.New())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/offers", validOfferBody(t))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CreateOffer(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_006")
}

func TestGetOffer_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewOfferHandler(mocks.NewMockOfferService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/offers/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.GetOffer(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Purchase Handler Tests ---

func TestPurchase_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPurchase := mocks.NewMockPurchaseService(ctrl)
	h := NewPurchaseHandler(mockPurchase)

	buyerID := uuid.New()
	offerID := uuid.New()
	purchaseID := uuid.New()

	mockPurchase.EXPECT().Purchase(gomock.Any(), ports.PurchaseRequest{
		BuyerID:     buyerID,
		OfferID:     offerID,
		ReferenceID: "ORDER-001",
		PayInToken:  false,
	}).Return(&domain.Purchase{
		ID:                purchaseID,
		OfferID:           offerID,
		BuyerID:           buyerID,
		ReferenceID:       "ORDER-001",
		Asset:             domain.AssetNative,
		AmountPaid:        100000,
		CommissionsPaid:   12999,
		UnallocatedAmount: 12001,
		CreatedAt:         time.Now().UTC(),
	}, nil)

	body := jsonBody(t, dto.PurchaseRequest{
		OfferID:     offerID.String(),
		ReferenceID: "ORDER-001",
	})

	w := httptest.NewRecorder()
	c := authedContext(t, w, buyerID)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/purchases", body)
	c.Request.Header.Set("Content-Type", "application/json")

	h.Purchase(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, purchaseID.String(), data["id"])
	assert.Equal(t, float64(12999), data["commissions_paid"])
	assert.Equal(t, float64(12001), data["unallocated_amount"])
}

func TestPurchase_SoldOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPurchase := mocks.NewMockPurchaseService(ctrl)
	h := NewPurchaseHandler(mockPurchase)

	mockPurchase.EXPECT().Purchase(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrSoldOut())

	body := jsonBody(t, dto.PurchaseRequest{
		OfferID:     uuid.New().String(),
		ReferenceID: "ORDER-002",
	})

	w := httptest.NewRecorder()
	c := authedContext(t, w, uuid.New())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/purchases", body)
	c.Request.Header.Set("Content-Type", "application/json")

	h.Purchase(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "OFFER_006")
}

func TestPurchase_InvalidReferrer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPurchaseHandler(mocks.NewMockPurchaseService(ctrl))

	bad := "not-a-uuid"
	// The referrer fails uuid validation at binding time.
	body := jsonBody(t, map[string]interface{}{
		"offer_id":     uuid.New().String(),
		"reference_id": "ORDER-003",
		"referrer_id":  bad,
	})

	w := httptest.NewRecorder()
	c := authedContext(t, w, uuid.New())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/purchases", body)
	c.Request.Header.Set("Content-Type", "application/json")

	h.Purchase(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFulfill_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPurchase := mocks.NewMockPurchaseService(ctrl)
	h := NewPurchaseHandler(mockPurchase)

	merchantID := uuid.New()
	purchaseID := uuid.New()
	payload := "CODE-XYZ"

	mockPurchase.EXPECT().FulfillPurchase(gomock.Any(), ports.FulfillRequest{
		PurchaseID: purchaseID,
		CallerID:   merchantID,
		Payload:    payload,
	}).Return(&domain.Purchase{
		ID:                 purchaseID,
		Fulfilled:          true,
		FulfillmentPayload: &payload,
		CreatedAt:          time.Now().UTC(),
	}, nil)

	body := jsonBody(t, dto.FulfillRequest{Payload: payload})

	w := httptest.NewRecorder()
	c := authedContext(t, w, merchantID)
	c.Request = httptest.NewRequest(http.MethodPost, "/", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: purchaseID.String()}}

	h.Fulfill(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, true, data["fulfilled"])
	assert.Equal(t, payload, data["fulfillment_payload"])
}

func TestFulfill_AlreadyFulfilled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPurchase := mocks.NewMockPurchaseService(ctrl)
	h := NewPurchaseHandler(mockPurchase)

	mockPurchase.EXPECT().FulfillPurchase(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrAlreadyFulfilled())

	body := jsonBody(t, dto.FulfillRequest{Payload: "CODE"})

	w := httptest.NewRecorder()
	c := authedContext(t, w, uuid.New())
	c.Request = httptest.NewRequest(http.MethodPost, "/", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

	h.Fulfill(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "PUR_005")
}

// --- Ledger Handler Tests ---

func TestGetMyStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	accountID := uuid.New()
	mockLedger.EXPECT().GetCommissionStats(gomock.Any(), accountID).Return(&domain.CommissionLedgerEntry{
		AccountID:         accountID,
		TotalEarned:       7500,
		DirectCommissions: 5000,
		TeamOverrides:     2500,
	}, nil)

	w := httptest.NewRecorder()
	c := authedContext(t, w, accountID)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/ledger/me", nil)

	h.GetMyStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, float64(7500), data["total_earned"])
	assert.Equal(t, float64(5000), data["direct_commissions"])
}

func TestClaimTerritory_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	accountID := uuid.New()
	mockLedger.EXPECT().ClaimTerritoryRewards(gomock.Any(), "VN-SGN", accountID).Return(int64(7500), nil)

	w := httptest.NewRecorder()
	c := authedContext(t, w, accountID)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "VN-SGN"}}

	h.ClaimTerritory(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, float64(7500), data["claimed"])
}

func TestClaimTerritory_NotClaimant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	mockLedger.EXPECT().ClaimTerritoryRewards(gomock.Any(), "VN-SGN", gomock.Any()).
		Return(int64(0), apperror.ErrNotYourTerritory())

	w := httptest.NewRecorder()
	c := authedContext(t, w, uuid.New())
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "VN-SGN"}}

	h.ClaimTerritory(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "LED_001")
}

// --- Balance Handler Tests ---

func TestGetBalances(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBalance := mocks.NewMockBalanceService(ctrl)
	h := NewBalanceHandler(mockBalance)

	accountID := uuid.New()
	mockBalance.EXPECT().GetBalances(gomock.Any(), accountID).Return(int64(250000), int64(5000), nil)

	w := httptest.NewRecorder()
	c := authedContext(t, w, accountID)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/balances", nil)

	h.GetBalances(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, float64(250000), data["native"])
	assert.Equal(t, float64(5000), data["token"])
}

func TestTopup_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBalance := mocks.NewMockBalanceService(ctrl)
	h := NewBalanceHandler(mockBalance)

	accountID := uuid.New()
	mockBalance.EXPECT().TopupNative(gomock.Any(), accountID, int64(50000)).Return(int64(300000), nil)

	body := jsonBody(t, dto.TopupRequest{Amount: 50000})

	w := httptest.NewRecorder()
	c := authedContext(t, w, accountID)
	c.Request = httptest.NewRequest(http.MethodPost, "/", body)
	c.Request.Header.Set("Content-Type", "application/json")

	h.Topup(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, float64(300000), data["native"])
}

func TestTopup_NegativeAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewBalanceHandler(mocks.NewMockBalanceService(ctrl))

	body := jsonBody(t, dto.TopupRequest{Amount: -5})

	w := httptest.NewRecorder()
	c := authedContext(t, w, uuid.New())
	c.Request = httptest.NewRequest(http.MethodPost, "/", body)
	c.Request.Header.Set("Content-Type", "application/json")

	h.Topup(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Admin Handler Tests ---

func TestSetPaused(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	h := NewAdminHandler(mockAdmin)

	adminID := uuid.New()
	mockAdmin.EXPECT().SetPaused(gomock.Any(), adminID, true).Return(nil)

	paused := true
	body := jsonBody(t, dto.PauseRequest{Paused: &paused})

	w := httptest.NewRecorder()
	c := authedContext(t, w, adminID)
	c.Request = httptest.NewRequest(http.MethodPost, "/", body)
	c.Request.Header.Set("Content-Type", "application/json")

	h.SetPaused(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, true, data["paused"])
}

func TestApproveMerchant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	h := NewAdminHandler(mockAdmin)

	adminID := uuid.New()
	merchantID := uuid.New()
	mockAdmin.EXPECT().ApproveMerchant(gomock.Any(), adminID, merchantID).Return(nil)

	w := httptest.NewRecorder()
	c := authedContext(t, w, adminID)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: merchantID.String()}}

	h.ApproveMerchant(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "ACTIVE", data["status"])
}

func TestMintToken_NotAuthorized(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdmin := mocks.NewMockAdminService(ctrl)
	h := NewAdminHandler(mockAdmin)

	mockAdmin.EXPECT().MintToken(gomock.Any(), gomock.Any(), gomock.Any(), int64(1000)).
		Return(apperror.ErrNotAuthorized())

	body := jsonBody(t, dto.MintRequest{AccountID: uuid.New().String(), Amount: 1000})

	w := httptest.NewRecorder()
	c := authedContext(t, w, uuid.New())
	c.Request = httptest.NewRequest(http.MethodPost, "/", body)
	c.Request.Header.Set("Content-Type", "application/json")

	h.MintToken(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_004")
}
