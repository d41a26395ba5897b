package postgres

import (
	"context"
	"fmt"

	"revshare-engine/internal/core/domain"

	"github.com/google/uuid"
)

// IntroducerRepo implements ports.IntroducerRepository.
type IntroducerRepo struct {
	pool Pool
}

// NewIntroducerRepo creates a new IntroducerRepo.
func NewIntroducerRepo(pool Pool) *IntroducerRepo {
	return &IntroducerRepo{pool: pool}
}

// Create inserts a new introduction relationship.
func (r *IntroducerRepo) Create(ctx context.Context, rec *domain.IntroducerRecord) error {
	query := `INSERT INTO introducers (id, account_id, introducer_id, weight, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.AccountID, rec.IntroducerID, rec.Weight, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert introducer record: %w", err)
	}
	return nil
}

// ListByAccount returns all introduction records for an account, oldest first.
func (r *IntroducerRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.IntroducerRecord, error) {
	query := `SELECT id, account_id, introducer_id, weight, created_at
		FROM introducers WHERE account_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list introducers: %w", err)
	}
	defer rows.Close()

	var records []domain.IntroducerRecord
	for rows.Next() {
		var rec domain.IntroducerRecord
		if err := rows.Scan(&rec.ID, &rec.AccountID, &rec.IntroducerID, &rec.Weight, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan introducer record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate introducers: %w", err)
	}
	return records, nil
}
