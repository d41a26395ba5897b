package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error_WithoutWrapped(t *testing.T) {
	err := ErrInvalidSplit()
	assert.Equal(t, "[OFFER_003] Revenue split shares exceed 10000 basis points", err.Error())
}

func TestAppError_Error_WithWrapped(t *testing.T) {
	inner := errors.New("connection refused")
	err := InternalError(inner)
	assert.Contains(t, err.Error(), "SYS_001")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("db down")
	err := InternalError(fmt.Errorf("begin tx: %w", inner))
	assert.True(t, errors.Is(err, inner))
}

func TestErrorCodes_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"invalid price", ErrInvalidPrice(), "OFFER_001", http.StatusBadRequest},
		{"invalid expiry", ErrInvalidExpiry(), "OFFER_002", http.StatusBadRequest},
		{"invalid split", ErrInvalidSplit(), "OFFER_003", http.StatusBadRequest},
		{"offer inactive", ErrOfferInactive(), "OFFER_004", http.StatusUnprocessableEntity},
		{"offer expired", ErrOfferExpired(), "OFFER_005", http.StatusUnprocessableEntity},
		{"sold out", ErrSoldOut(), "OFFER_006", http.StatusConflict},
		{"token payment not accepted", ErrTokenPaymentNotAccepted(), "PUR_001", http.StatusBadRequest},
		{"native payment not accepted", ErrNativePaymentNotAccepted(), "PUR_002", http.StatusBadRequest},
		{"insufficient payment", ErrInsufficientPayment(), "PUR_003", http.StatusPaymentRequired},
		{"platform paused", ErrPlatformPaused(), "PUR_004", http.StatusServiceUnavailable},
		{"already fulfilled", ErrAlreadyFulfilled(), "PUR_005", http.StatusConflict},
		{"not your territory", ErrNotYourTerritory(), "LED_001", http.StatusForbidden},
		{"no rewards", ErrNoRewardsAvailable(), "LED_002", http.StatusUnprocessableEntity},
		{"not authorized", ErrNotAuthorized(), "AUTH_004", http.StatusForbidden},
		{"merchant not approved", ErrMerchantNotApproved(), "AUTH_006", http.StatusForbidden},
		{"rate limited", ErrRateLimitExceeded(), "RATE_001", http.StatusTooManyRequests},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.Code)
			assert.Equal(t, tc.status, tc.err.HTTPStatus)
		})
	}
}

func TestErrNotFound_Formats(t *testing.T) {
	err := ErrNotFound("offer")
	assert.Equal(t, "offer not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
}
