package integration

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"revshare-engine/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentPurchases_ExactBalance fires 50 concurrent purchases against
// a buyer funded with exactly enough for all of them. Pessimistic locking
// must serialize the debits: every purchase succeeds, the buyer ends at
// zero, and no money is created or destroyed anywhere in the system.
func TestConcurrentPurchases_ExactBalance(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	_, adminTok := app.adminToken(t)
	merchantID := app.register(t, "merchant", "MERCHANT", nil, nil)
	code, _ := app.do(t, http.MethodPost, "/api/v1/admin/merchants/"+merchantID+"/approve", adminTok, nil)
	require.Equal(t, http.StatusOK, code)

	app.register(t, "buyer", "MEMBER", nil, nil)
	merchantTok := app.login(t, "merchant")
	buyerTok := app.login(t, "buyer")

	concurrency := 50
	price := int64(10000)
	offerID := app.createOffer(t, merchantTok, price, 0, 0)

	funded := price * int64(concurrency)
	app.topup(t, buyerTok, funded)

	var wg sync.WaitGroup
	var successCount, failCount atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			code, _ := app.do(t, http.MethodPost, "/api/v1/purchases", buyerTok, map[string]interface{}{
				"offer_id":     offerID,
				"reference_id": fmt.Sprintf("CONCURRENT-%d", idx),
			})
			if code == http.StatusCreated {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(concurrency), successCount.Load())
	assert.Equal(t, int64(0), failCount.Load())

	// Buyer spent everything.
	code, body := app.do(t, http.MethodGet, "/api/v1/balances", buyerTok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), data(t, body)["native"])

	// Conservation: the topup is the only money that ever entered, and
	// native purchases only move it around.
	assert.Equal(t, funded, app.balanceRepo.totalOf(domain.AssetNative))

	// The merchant's share landed in full for every purchase.
	code, body = app.do(t, http.MethodGet, "/api/v1/balances", merchantTok, nil)
	require.Equal(t, http.StatusOK, code)
	merchantShare := domain.ShareAmount(price, testSplit["merchant_share"])
	assert.Equal(t, float64(merchantShare*int64(concurrency)), data(t, body)["native"])
}

// TestConcurrentPurchases_LimitedSupply races 20 buyers over an offer with a
// single unit. Exactly one purchase may settle; the rest must see the
// sold-out rejection and keep their money.
func TestConcurrentPurchases_LimitedSupply(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	_, adminTok := app.adminToken(t)
	merchantID := app.register(t, "merchant", "MERCHANT", nil, nil)
	code, _ := app.do(t, http.MethodPost, "/api/v1/admin/merchants/"+merchantID+"/approve", adminTok, nil)
	require.Equal(t, http.StatusOK, code)

	merchantTok := app.login(t, "merchant")

	price := int64(5000)
	offerID := app.createOffer(t, merchantTok, price, 0, 1)

	buyers := 20
	tokens := make([]string, buyers)
	for i := 0; i < buyers; i++ {
		username := fmt.Sprintf("racer%d", i)
		app.register(t, username, "MEMBER", nil, nil)
		tokens[i] = app.login(t, username)
		app.topup(t, tokens[i], price)
	}

	var wg sync.WaitGroup
	var successCount, soldOutCount atomic.Int64

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			code, body := app.do(t, http.MethodPost, "/api/v1/purchases", tokens[idx], map[string]interface{}{
				"offer_id":     offerID,
				"reference_id": fmt.Sprintf("RACE-%d", idx),
			})
			switch {
			case code == http.StatusCreated:
				successCount.Add(1)
			case code == http.StatusConflict && body["error_code"] == "OFFER_006":
				soldOutCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), successCount.Load(), "exactly one purchase may win the last unit")
	assert.Equal(t, int64(buyers-1), soldOutCount.Load())

	// The losers were never charged.
	var refunded int
	for i := 0; i < buyers; i++ {
		code, body := app.do(t, http.MethodGet, "/api/v1/balances", tokens[i], nil)
		require.Equal(t, http.StatusOK, code)
		if data(t, body)["native"] == float64(price) {
			refunded++
		}
	}
	assert.Equal(t, buyers-1, refunded)
}

// TestConcurrentTerritoryClaims lets the claimant race itself over one
// accrued pool. The drain must pay out exactly once.
func TestConcurrentTerritoryClaims(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	_, adminTok := app.adminToken(t)
	merchantID := app.register(t, "merchant", "MERCHANT", nil, nil)
	code, _ := app.do(t, http.MethodPost, "/api/v1/admin/merchants/"+merchantID+"/approve", adminTok, nil)
	require.Equal(t, http.StatusOK, code)

	claimantID := app.register(t, "claimant", "MEMBER", nil, nil)
	code, body := app.do(t, http.MethodPost, "/api/v1/admin/territories", adminTok, map[string]interface{}{
		"id":          "VN-HAN",
		"name":        "Hanoi",
		"claimant_id": claimantID,
	})
	require.Equal(t, http.StatusCreated, code, "create territory: %v", body)

	territory := "VN-HAN"
	app.register(t, "buyer", "MEMBER", nil, &territory)

	merchantTok := app.login(t, "merchant")
	buyerTok := app.login(t, "buyer")
	claimantTok := app.login(t, "claimant")

	price := int64(100000)
	offerID := app.createOffer(t, merchantTok, price, 0, 0)
	app.topup(t, buyerTok, price)

	code, body = app.do(t, http.MethodPost, "/api/v1/purchases", buyerTok, map[string]interface{}{
		"offer_id":     offerID,
		"reference_id": "POOL-1",
	})
	require.Equal(t, http.StatusCreated, code, "purchase: %v", body)

	accrued := domain.ShareAmount(price, testSplit["territory_share"])

	var wg sync.WaitGroup
	var claimed atomic.Int64
	var emptyCount atomic.Int64

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, body := app.do(t, http.MethodPost, "/api/v1/territories/VN-HAN/claim", claimantTok, nil)
			switch code {
			case http.StatusOK:
				if d, ok := body["data"].(map[string]interface{}); ok {
					claimed.Add(int64(d["claimed"].(float64)))
				}
			case http.StatusUnprocessableEntity:
				emptyCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, accrued, claimed.Load(), "the pool pays out exactly once")
	assert.Equal(t, int64(9), emptyCount.Load())

	code, body = app.do(t, http.MethodGet, "/api/v1/balances", claimantTok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(accrued), data(t, body)["native"])
}
