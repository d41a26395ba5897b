package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Offer Configuration (OFFER) ----
// Raised at offer-creation time, never at purchase time.

func ErrInvalidPrice() *AppError {
	return New("OFFER_001", "Offer must have a native price or a token price", http.StatusBadRequest)
}

func ErrInvalidExpiry() *AppError {
	return New("OFFER_002", "Offer expiry must be in the future", http.StatusBadRequest)
}

func ErrInvalidSplit() *AppError {
	return New("OFFER_003", "Revenue split shares exceed 10000 basis points", http.StatusBadRequest)
}

// ---- Purchase Eligibility (OFFER/PUR) ----
// Raised before any state mutation; a rejected purchase leaves no partial state.

func ErrOfferInactive() *AppError {
	return New("OFFER_004", "Offer is not active", http.StatusUnprocessableEntity)
}

func ErrOfferExpired() *AppError {
	return New("OFFER_005", "Offer has expired", http.StatusUnprocessableEntity)
}

func ErrSoldOut() *AppError {
	return New("OFFER_006", "Offer is sold out", http.StatusConflict)
}

func ErrTokenPaymentNotAccepted() *AppError {
	return New("PUR_001", "Offer does not accept token payment", http.StatusBadRequest)
}

func ErrNativePaymentNotAccepted() *AppError {
	return New("PUR_002", "Offer does not accept native payment", http.StatusBadRequest)
}

func ErrInsufficientPayment() *AppError {
	return New("PUR_003", "Payment does not cover the offer price", http.StatusPaymentRequired)
}

func ErrPlatformPaused() *AppError {
	return New("PUR_004", "Purchases are paused by the administrator", http.StatusServiceUnavailable)
}

func ErrAlreadyFulfilled() *AppError {
	return New("PUR_005", "Purchase has already been fulfilled", http.StatusConflict)
}

// ---- Ledger & Territory (LED) ----

func ErrNotYourTerritory() *AppError {
	return New("LED_001", "Caller is not the claimant for this territory", http.StatusForbidden)
}

func ErrNoRewardsAvailable() *AppError {
	return New("LED_002", "Territory pool is empty", http.StatusUnprocessableEntity)
}

// ---- Authentication & Authorization (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrNotAuthorized() *AppError {
	return New("AUTH_004", "Caller is not authorized for this operation", http.StatusForbidden)
}

func ErrAccountSuspended() *AppError {
	return New("AUTH_005", "Account is suspended", http.StatusForbidden)
}

func ErrMerchantNotApproved() *AppError {
	return New("AUTH_006", "Merchant account has not been approved", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrNotFound(entity string) *AppError {
	return New("SYS_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
