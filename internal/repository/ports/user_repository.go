package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/hireradar/hireradar-api/internal/domain"
)

type UserRepository interface {
	CreateEmailUser(ctx context.Context, fullName, email string, passwordHash, passwordSalt []byte, role domain.Role) (*domain.User, error)
	UpsertGoogleUser(ctx context.Context, email, fullName string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// LockByID takes a row lock on the account for the rest of the transaction.
	LockByID(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) error
	UpdateImage(ctx context.Context, id uuid.UUID, imageURL string) (*domain.User, error)
	RequestDeletion(ctx context.Context, id uuid.UUID) error
	// List excludes admin accounts.
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
