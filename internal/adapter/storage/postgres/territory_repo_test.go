package postgres

import (
	"context"
	"testing"
	"time"

	"revshare-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerritory() *domain.Territory {
	return &domain.Territory{
		ID:           "VN-SGN",
		Name:         "Ho Chi Minh City",
		ClaimantID:   uuid.New(),
		NativePool:   7000,
		TokenPool:    500,
		TotalAccrued: 12000,
		UpdatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func territoryRow(tr *domain.Territory) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "claimant_id", "native_pool", "token_pool", "total_accrued", "updated_at",
	}).AddRow(tr.ID, tr.Name, tr.ClaimantID, tr.NativePool, tr.TokenPool, tr.TotalAccrued, tr.UpdatedAt)
}

func TestTerritoryRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTerritoryRepo(mock)
	tr := newTestTerritory()

	mock.ExpectExec("INSERT INTO territories").
		WithArgs(tr.ID, tr.Name, tr.ClaimantID, tr.NativePool, tr.TokenPool,
			tr.TotalAccrued, tr.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), tr)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTerritoryRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTerritoryRepo(mock)
	tr := newTestTerritory()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM territories WHERE id .+ FOR UPDATE").
		WithArgs(tr.ID).
		WillReturnRows(territoryRow(tr))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), tx, tr.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, tr.NativePool, result.NativePool)
	assert.Equal(t, tr.TokenPool, result.TokenPool)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTerritoryRepo_CreditPool_Native(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTerritoryRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE territories SET native_pool").
		WithArgs(int64(3000), "VN-SGN").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.CreditPool(context.Background(), tx, "VN-SGN", domain.AssetNative, 3000)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTerritoryRepo_CreditPool_Token(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTerritoryRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE territories SET token_pool").
		WithArgs(int64(500), "VN-SGN").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.CreditPool(context.Background(), tx, "VN-SGN", domain.AssetToken, 500)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTerritoryRepo_DrainPool(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTerritoryRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE territories SET native_pool = 0, token_pool = 0").
		WithArgs("VN-SGN").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.DrainPool(context.Background(), tx, "VN-SGN")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTerritoryRepo_CreditPool_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTerritoryRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE territories SET native_pool").
		WithArgs(int64(100), "XX-NOPE").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.CreditPool(context.Background(), tx, "XX-NOPE", domain.AssetNative, 100)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
