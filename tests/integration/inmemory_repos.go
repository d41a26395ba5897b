package integration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"revshare-engine/internal/core/domain"
	"revshare-engine/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Account Repo ---

type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[uuid.UUID]*domain.Account)}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Username == a.Username {
			return fmt.Errorf("username already exists")
		}
	}
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

func (r *inMemoryAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryAccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryAccountRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("account not found")
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// --- In-Memory Introducer Repo ---

type inMemoryIntroducerRepo struct {
	mu      sync.RWMutex
	records map[uuid.UUID][]domain.IntroducerRecord
}

func newInMemoryIntroducerRepo() *inMemoryIntroducerRepo {
	return &inMemoryIntroducerRepo{records: make(map[uuid.UUID][]domain.IntroducerRecord)}
}

func (r *inMemoryIntroducerRepo) Create(ctx context.Context, rec *domain.IntroducerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.AccountID] = append(r.records[rec.AccountID], *rec)
	return nil
}

func (r *inMemoryIntroducerRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.IntroducerRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.IntroducerRecord, len(r.records[accountID]))
	copy(out, r.records[accountID])
	return out, nil
}

// --- In-Memory Offer Repo ---

type inMemoryOfferRepo struct {
	mu     sync.RWMutex
	offers map[uuid.UUID]*domain.Offer
}

func newInMemoryOfferRepo() *inMemoryOfferRepo {
	return &inMemoryOfferRepo{offers: make(map[uuid.UUID]*domain.Offer)}
}

func (r *inMemoryOfferRepo) Create(ctx context.Context, o *domain.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.offers[o.ID] = &cp
	return nil
}

func (r *inMemoryOfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.offers[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *inMemoryOfferRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Offer, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryOfferRepo) IncrementUnitsSold(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return fmt.Errorf("offer not found")
	}
	o.UnitsSold++
	return nil
}

func (r *inMemoryOfferRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return fmt.Errorf("offer not found")
	}
	o.Active = active
	return nil
}

func (r *inMemoryOfferRepo) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]domain.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Offer
	for _, o := range r.offers {
		if o.MerchantID == merchantID {
			out = append(out, *o)
		}
	}
	return out, nil
}

// --- In-Memory Purchase Repo ---

type inMemoryPurchaseRepo struct {
	mu        sync.RWMutex
	purchases map[uuid.UUID]*domain.Purchase
}

func newInMemoryPurchaseRepo() *inMemoryPurchaseRepo {
	return &inMemoryPurchaseRepo{purchases: make(map[uuid.UUID]*domain.Purchase)}
}

func (r *inMemoryPurchaseRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.purchases[p.ID] = &cp
	return nil
}

func (r *inMemoryPurchaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.purchases[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *inMemoryPurchaseRepo) SetFulfilled(ctx context.Context, id uuid.UUID, payload string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[id]
	if !ok {
		return false, fmt.Errorf("purchase not found")
	}
	if p.Fulfilled {
		return false, nil
	}
	p.Fulfilled = true
	p.FulfillmentPayload = &payload
	p.FulfilledAt = &at
	return true, nil
}

func (r *inMemoryPurchaseRepo) GetReconciliation(ctx context.Context, offerID uuid.UUID) (*ports.OfferReconciliation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec := &ports.OfferReconciliation{OfferID: offerID}
	for _, p := range r.purchases {
		if p.OfferID != offerID {
			continue
		}
		rec.Purchases++
		rec.TotalRevenue += p.AmountPaid
		rec.CommissionsPaid += p.CommissionsPaid
		rec.Unallocated += p.UnallocatedAmount
		rec.Burned += p.BurnedAmount
	}
	return rec, nil
}

// --- In-Memory Ledger Repo ---

type inMemoryLedgerRepo struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*domain.CommissionLedgerEntry
}

func newInMemoryLedgerRepo() *inMemoryLedgerRepo {
	return &inMemoryLedgerRepo{entries: make(map[uuid.UUID]*domain.CommissionLedgerEntry)}
}

func (r *inMemoryLedgerRepo) GetByAccount(ctx context.Context, accountID uuid.UUID) (*domain.CommissionLedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[accountID]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *inMemoryLedgerRepo) Credit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, bucket domain.CommissionBucket, amount int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[accountID]
	if !ok {
		e = &domain.CommissionLedgerEntry{AccountID: accountID}
		r.entries[accountID] = e
	}
	e.TotalEarned += amount
	e.LastActivity = at
	switch bucket {
	case domain.BucketDirect:
		e.DirectCommissions += amount
	case domain.BucketOverride:
		e.TeamOverrides += amount
	case domain.BucketIntroducer:
		e.IntroducerCommissions += amount
	case domain.BucketTerritory:
		e.TerritoryCommissions += amount
	default:
		return fmt.Errorf("unknown commission bucket %q", bucket)
	}
	return nil
}

// --- In-Memory Territory Repo ---

type inMemoryTerritoryRepo struct {
	mu          sync.RWMutex
	territories map[string]*domain.Territory
}

func newInMemoryTerritoryRepo() *inMemoryTerritoryRepo {
	return &inMemoryTerritoryRepo{territories: make(map[string]*domain.Territory)}
}

func (r *inMemoryTerritoryRepo) Create(ctx context.Context, t *domain.Territory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.territories[t.ID]; ok {
		return fmt.Errorf("territory already exists")
	}
	cp := *t
	r.territories[t.ID] = &cp
	return nil
}

func (r *inMemoryTerritoryRepo) GetByID(ctx context.Context, id string) (*domain.Territory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.territories[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *inMemoryTerritoryRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Territory, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryTerritoryRepo) CreditPool(ctx context.Context, tx pgx.Tx, id string, asset domain.Asset, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.territories[id]
	if !ok {
		return fmt.Errorf("territory not found")
	}
	if asset == domain.AssetToken {
		t.TokenPool += amount
	} else {
		t.NativePool += amount
	}
	t.TotalAccrued += amount
	return nil
}

func (r *inMemoryTerritoryRepo) DrainPool(ctx context.Context, tx pgx.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.territories[id]
	if !ok {
		return fmt.Errorf("territory not found")
	}
	t.NativePool = 0
	t.TokenPool = 0
	return nil
}

// --- In-Memory Balance Repo ---

type balanceKey struct {
	accountID uuid.UUID
	asset     domain.Asset
}

type inMemoryBalanceRepo struct {
	mu       sync.RWMutex
	balances map[balanceKey]int64
}

func newInMemoryBalanceRepo() *inMemoryBalanceRepo {
	return &inMemoryBalanceRepo{balances: make(map[balanceKey]int64)}
}

func (r *inMemoryBalanceRepo) Get(ctx context.Context, accountID uuid.UUID, asset domain.Asset) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.balances[balanceKey{accountID, asset}], nil
}

func (r *inMemoryBalanceRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, asset domain.Asset) (int64, error) {
	return r.Get(ctx, accountID, asset)
}

func (r *inMemoryBalanceRepo) Add(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, asset domain.Asset, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[balanceKey{accountID, asset}] += delta
	return nil
}

// totalOf sums every balance held in one asset, the escrow account included.
func (r *inMemoryBalanceRepo) totalOf(asset domain.Asset) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total int64
	for k, v := range r.balances {
		if k.asset == asset {
			total += v
		}
	}
	return total
}

// --- In-Memory Platform State Repo ---

type inMemoryStateRepo struct {
	mu    sync.RWMutex
	state domain.PlatformState
}

func newInMemoryStateRepo() *inMemoryStateRepo {
	return &inMemoryStateRepo{}
}

func (r *inMemoryStateRepo) Get(ctx context.Context) (*domain.PlatformState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := r.state
	return &cp, nil
}

func (r *inMemoryStateRepo) GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.PlatformState, error) {
	return r.Get(ctx)
}

func (r *inMemoryStateRepo) SetPaused(ctx context.Context, paused bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Paused = paused
	r.state.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryStateRepo) RecordPurchase(ctx context.Context, tx pgx.Tx, revenue, burned, platformFee int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.TotalRevenue += revenue
	r.state.TotalPurchases++
	r.state.TotalBurned += burned
	r.state.PlatformFees += platformFee
	r.state.TokenSupply -= burned
	r.state.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryStateRepo) AdjustTokenSupply(ctx context.Context, tx pgx.Tx, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.TokenSupply += delta
	r.state.UpdatedAt = time.Now().UTC()
	return nil
}

// --- In-Memory Event Repo ---

type inMemoryEventRepo struct {
	mu     sync.RWMutex
	events []domain.DistributionEvent
}

func newInMemoryEventRepo() *inMemoryEventRepo {
	return &inMemoryEventRepo{}
}

func (r *inMemoryEventRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.DistributionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

func (r *inMemoryEventRepo) ListByOffer(ctx context.Context, offerID uuid.UUID) ([]domain.DistributionEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.DistributionEvent
	for _, e := range r.events {
		if e.OfferID == offerID {
			out = append(out, e)
		}
	}
	return out, nil
}

// --- In-Memory Idempotency Repo ---

type inMemoryIdempotencyRepo struct {
	mu   sync.RWMutex
	logs map[string]*domain.IdempotencyLog
}

func newInMemoryIdempotencyRepo() *inMemoryIdempotencyRepo {
	return &inMemoryIdempotencyRepo{logs: make(map[string]*domain.IdempotencyLog)}
}

func (r *inMemoryIdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[log.Key] = log
	return nil
}

func (r *inMemoryIdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.logs[key]
	if !ok {
		return nil, nil
	}
	return l, nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu   sync.Mutex
	logs []domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *log)
	return nil
}

// --- In-Memory Transactor ---

// inMemoryTransactor serializes transaction blocks with a single mutex,
// standing in for the row locks the SQL repos take via FOR UPDATE.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &lockTx{release: &t.mu}, nil
}

// lockTx holds the transactor mutex until Commit or Rollback, whichever
// comes first. Rollback after Commit is a no-op, matching pgx.
type lockTx struct {
	noopTx
	once    sync.Once
	release *sync.Mutex
}

func (t *lockTx) Commit(ctx context.Context) error {
	t.once.Do(t.release.Unlock)
	return nil
}

func (t *lockTx) Rollback(ctx context.Context) error {
	t.once.Do(t.release.Unlock)
	return nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
