package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hireradar/hireradar-api/internal/domain"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, userID uuid.UUID, tokenHash []byte, expiresAt time.Time) (*domain.PasswordReset, error)
	// InvalidateByUser marks every unused token of the user as used and
	// returns how many rows were superseded.
	InvalidateByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	FindConsumable(ctx context.Context, tokenHash []byte, now time.Time) (*domain.PasswordReset, error)
	// LockConsumable is FindConsumable with a row lock, for use inside a
	// transaction that is about to consume the token.
	LockConsumable(ctx context.Context, tokenHash []byte, now time.Time) (*domain.PasswordReset, error)
	MarkUsed(ctx context.Context, id int64) error
}
