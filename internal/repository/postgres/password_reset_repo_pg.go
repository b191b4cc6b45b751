package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/repository/ports"
)

type PasswordResetRepository struct {
	db DBTX
}

func NewPasswordResetRepo(db DBTX) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) InvalidateByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const query = `
        UPDATE password_reset_token
        SET used = TRUE,
            updated_at = NOW()
        WHERE user_id = $1 AND used = FALSE
    `
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PasswordResetRepository) Create(ctx context.Context, userID uuid.UUID, tokenHash []byte, expiresAt time.Time) (*domain.PasswordReset, error) {
	const query = `
        INSERT INTO password_reset_token (user_id, token_hash, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, user_id, token_hash, expires_at, used, created_at
    `
	var reset domain.PasswordReset
	if err := r.db.QueryRowxContext(ctx, query, userID, tokenHash, expiresAt).StructScan(&reset); err != nil {
		return nil, err
	}
	return &reset, nil
}

const findConsumableQuery = `
        SELECT id, user_id, token_hash, expires_at, used, created_at
        FROM password_reset_token
        WHERE token_hash = $1 AND used = FALSE AND expires_at > $2
    `

func (r *PasswordResetRepository) FindConsumable(ctx context.Context, tokenHash []byte, now time.Time) (*domain.PasswordReset, error) {
	var reset domain.PasswordReset
	if err := r.db.GetContext(ctx, &reset, findConsumableQuery, tokenHash, now); err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *PasswordResetRepository) LockConsumable(ctx context.Context, tokenHash []byte, now time.Time) (*domain.PasswordReset, error) {
	var reset domain.PasswordReset
	if err := r.db.GetContext(ctx, &reset, findConsumableQuery+" FOR UPDATE", tokenHash, now); err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id int64) error {
	const query = `
        UPDATE password_reset_token
        SET used = TRUE,
            updated_at = NOW()
        WHERE id = $1 AND used = FALSE
    `
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(result)
}

var _ ports.PasswordResetRepository = (*PasswordResetRepository)(nil)
