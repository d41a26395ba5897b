package postgres

import (
	"context"
	"testing"
	"time"

	"revshare-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepo_GetByAccount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	accountID := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("SELECT .+ FROM commission_ledger WHERE account_id").
		WithArgs(accountID).
		WillReturnRows(pgxmock.NewRows([]string{
			"account_id", "total_earned", "direct_commissions", "team_overrides",
			"introducer_commissions", "territory_commissions", "last_activity",
		}).AddRow(accountID, int64(7500), int64(5000), int64(2000), int64(500), int64(0), now))

	entry, err := repo.GetByAccount(context.Background(), accountID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, int64(7500), entry.TotalEarned)
	assert.Equal(t, int64(5000), entry.DirectCommissions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_GetByAccount_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM commission_ledger WHERE account_id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	entry, err := repo.GetByAccount(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, entry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_Credit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	accountID := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO commission_ledger .+ ON CONFLICT").
		WithArgs(accountID, int64(5000), now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Credit(context.Background(), tx, accountID, domain.BucketDirect, 5000, now)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_Credit_UnknownBucket(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Credit(context.Background(), tx, uuid.New(), domain.CommissionBucket("BOGUS"), 100, time.Now())
	assert.Error(t, err)
}

func TestBucketColumn(t *testing.T) {
	cases := map[domain.CommissionBucket]string{
		domain.BucketDirect:     "direct_commissions",
		domain.BucketOverride:   "team_overrides",
		domain.BucketIntroducer: "introducer_commissions",
		domain.BucketTerritory:  "territory_commissions",
	}
	for bucket, want := range cases {
		col, err := bucketColumn(bucket)
		require.NoError(t, err)
		assert.Equal(t, want, col)
	}
}
