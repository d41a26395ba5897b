package dto

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username       string  `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password       string  `json:"password" binding:"required,min=8,max=128"`
	DisplayName    string  `json:"display_name" binding:"required,min=1,max=100"`
	Role           string  `json:"role" binding:"required,oneof=MERCHANT MEMBER"`
	UplineUsername *string `json:"upline_username,omitempty"`
	TerritoryID    *string `json:"territory_id,omitempty"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"`
	Status      string  `json:"status"`
	UplineID    *string `json:"upline_id,omitempty"`
	TerritoryID *string `json:"territory_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// SplitRequest carries the seven fan-out weights in basis points.
type SplitRequest struct {
	MerchantShare         int64 `json:"merchant_share" binding:"min=0"`
	DirectCommissionShare int64 `json:"direct_commission_share" binding:"min=0"`
	TeamOverrideShare     int64 `json:"team_override_share" binding:"min=0"`
	IntroducerShare       int64 `json:"introducer_share" binding:"min=0"`
	TerritoryShare        int64 `json:"territory_share" binding:"min=0"`
	PlatformFeeShare      int64 `json:"platform_fee_share" binding:"min=0"`
	TokenBurnShare        int64 `json:"token_burn_share" binding:"min=0"`
}

// CreateOfferRequest is the request body for offer creation.
type CreateOfferRequest struct {
	Name        string       `json:"name" binding:"required,min=1,max=200"`
	Description string       `json:"description" binding:"max=2000"`
	Category    string       `json:"category" binding:"required,oneof=VOUCHER MEMBERSHIP SERVICE PRODUCT EVENT"`
	NativePrice int64        `json:"native_price" binding:"min=0"`
	TokenPrice  int64        `json:"token_price" binding:"min=0"`
	MaxSupply   int64        `json:"max_supply" binding:"min=0"`
	ExpiresAt   int64        `json:"expires_at" binding:"required"` // Unix timestamp
	MetadataRef string       `json:"metadata_ref,omitempty" binding:"max=500"`
	Split       SplitRequest `json:"split" binding:"required"`
}

// OfferResponse is the public view of an offer.
type OfferResponse struct {
	ID          string       `json:"id"`
	MerchantID  string       `json:"merchant_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	NativePrice int64        `json:"native_price"`
	TokenPrice  int64        `json:"token_price"`
	MaxSupply   int64        `json:"max_supply"`
	UnitsSold   int64        `json:"units_sold"`
	Active      bool         `json:"active"`
	Split       SplitRequest `json:"split"`
	MetadataRef string       `json:"metadata_ref,omitempty"`
	CreatedAt   string       `json:"created_at"`
	ExpiresAt   string       `json:"expires_at"`
}

// PurchaseRequest is the request body for a purchase.
type PurchaseRequest struct {
	OfferID     string  `json:"offer_id" binding:"required,uuid"`
	ReferenceID string  `json:"reference_id" binding:"required,max=100,safe_id"`
	ReferrerID  *string `json:"referrer_id,omitempty" binding:"omitempty,uuid"`
	PayInToken  bool    `json:"pay_in_token"`
}

// FulfillRequest is the request body for merchant fulfillment.
type FulfillRequest struct {
	Payload string `json:"payload" binding:"required,max=2000"`
}

// PurchaseResponse is the response body for purchase results.
type PurchaseResponse struct {
	ID                 string  `json:"id"`
	OfferID            string  `json:"offer_id"`
	BuyerID            string  `json:"buyer_id"`
	ReferenceID        string  `json:"reference_id"`
	Asset              string  `json:"asset"`
	AmountPaid         int64   `json:"amount_paid"`
	BurnedAmount       int64   `json:"burned_amount"`
	CommissionsPaid    int64   `json:"commissions_paid"`
	UnallocatedAmount  int64   `json:"unallocated_amount"`
	Fulfilled          bool    `json:"fulfilled"`
	FulfillmentPayload *string `json:"fulfillment_payload,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

// TopupRequest is the request body for a native balance topup.
type TopupRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// BalancesResponse is the response for a balance query.
type BalancesResponse struct {
	Native int64 `json:"native"`
	Token  int64 `json:"token"`
}

// LedgerResponse is the cumulative earnings view for one participant.
type LedgerResponse struct {
	AccountID             string `json:"account_id"`
	TotalEarned           int64  `json:"total_earned"`
	DirectCommissions     int64  `json:"direct_commissions"`
	TeamOverrides         int64  `json:"team_overrides"`
	IntroducerCommissions int64  `json:"introducer_commissions"`
	TerritoryCommissions  int64  `json:"territory_commissions"`
}

// ClaimResponse is the response for a territory rewards claim.
type ClaimResponse struct {
	TerritoryID string `json:"territory_id"`
	Claimed     int64  `json:"claimed"`
}

// ReconciliationResponse aggregates distribution accounting for an offer.
type ReconciliationResponse struct {
	OfferID         string `json:"offer_id"`
	Purchases       int64  `json:"purchases"`
	TotalRevenue    int64  `json:"total_revenue"`
	CommissionsPaid int64  `json:"commissions_paid"`
	Unallocated     int64  `json:"unallocated"`
	Burned          int64  `json:"burned"`
}

// PauseRequest is the request body for pausing or resuming purchases.
type PauseRequest struct {
	Paused *bool `json:"paused" binding:"required"`
}

// MintRequest is the request body for minting tokens to an account.
type MintRequest struct {
	AccountID string `json:"account_id" binding:"required,uuid"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
}

// CreateTerritoryRequest is the request body for territory creation.
type CreateTerritoryRequest struct {
	ID         string `json:"id" binding:"required,min=2,max=30,safe_id"`
	Name       string `json:"name" binding:"required,min=1,max=100"`
	ClaimantID string `json:"claimant_id" binding:"required,uuid"`
}

// AddIntroducerRequest is the request body for recording an introduction.
type AddIntroducerRequest struct {
	AccountID    string `json:"account_id" binding:"required,uuid"`
	IntroducerID string `json:"introducer_id" binding:"required,uuid"`
	Weight       int64  `json:"weight" binding:"required,gt=0"`
}
