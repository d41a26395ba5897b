package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"revshare-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LedgerRepo implements ports.LedgerRepository.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// bucketColumn maps a commission bucket to its ledger column. The column
// name is interpolated into SQL, so it must come from this closed set.
func bucketColumn(bucket domain.CommissionBucket) (string, error) {
	switch bucket {
	case domain.BucketDirect:
		return "direct_commissions", nil
	case domain.BucketOverride:
		return "team_overrides", nil
	case domain.BucketIntroducer:
		return "introducer_commissions", nil
	case domain.BucketTerritory:
		return "territory_commissions", nil
	default:
		return "", fmt.Errorf("unknown commission bucket: %s", bucket)
	}
}

// GetByAccount fetches the cumulative earnings entry for one participant.
func (r *LedgerRepo) GetByAccount(ctx context.Context, accountID uuid.UUID) (*domain.CommissionLedgerEntry, error) {
	query := `SELECT account_id, total_earned, direct_commissions, team_overrides,
		introducer_commissions, territory_commissions, last_activity
		FROM commission_ledger WHERE account_id = $1`

	e := &domain.CommissionLedgerEntry{}
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&e.AccountID, &e.TotalEarned, &e.DirectCommissions, &e.TeamOverrides,
		&e.IntroducerCommissions, &e.TerritoryCommissions, &e.LastActivity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return e, nil
}

// Credit additively upserts a ledger entry, bumping the bucket column and the
// running total. Entries are never decremented.
func (r *LedgerRepo) Credit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, bucket domain.CommissionBucket, amount int64, at time.Time) error {
	col, err := bucketColumn(bucket)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO commission_ledger (account_id, total_earned, %s, last_activity)
		VALUES ($1, $2, $2, $3)
		ON CONFLICT (account_id) DO UPDATE SET
			total_earned = commission_ledger.total_earned + $2,
			%s = commission_ledger.%s + $2,
			last_activity = $3`, col, col, col)

	_, err = tx.Exec(ctx, query, accountID, amount, at)
	if err != nil {
		return fmt.Errorf("credit ledger: %w", err)
	}
	return nil
}
