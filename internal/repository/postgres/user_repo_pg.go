package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/repository/ports"
)

const userColumns = `id, full_name, email, password_hash, password_salt, role, image_url, location, phone, headline, deletion_requested_at, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateEmailUser(ctx context.Context, fullName, email string, passwordHash, passwordSalt []byte, role domain.Role) (*domain.User, error) {
	const query = `
        INSERT INTO user_account (full_name, email, password_hash, password_salt, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + userColumns

	var user domain.User
	if err := r.db.QueryRowxContext(ctx, query, fullName, email, passwordHash, passwordSalt, role).StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertGoogleUser returns the account registered under email, creating a
// candidate account without a password on first sign-in.
func (r *UserRepository) UpsertGoogleUser(ctx context.Context, email, fullName string) (*domain.User, error) {
	const query = `
        INSERT INTO user_account (full_name, email, role)
        VALUES ($1, $2, 'candidate')
        ON CONFLICT (email) DO UPDATE
        SET updated_at = user_account.updated_at
        RETURNING ` + userColumns

	var user domain.User
	if err := r.db.QueryRowxContext(ctx, query, fullName, email).StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM user_account
        WHERE email = $1
    `
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM user_account
        WHERE id = $1
    `
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) LockByID(ctx context.Context, id uuid.UUID) error {
	const query = `SELECT id FROM user_account WHERE id = $1 FOR UPDATE`
	var locked uuid.UUID
	return r.db.GetContext(ctx, &locked, query, id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) error {
	const query = `
        UPDATE user_account
        SET password_hash = $2,
            password_salt = $3,
            updated_at = NOW()
        WHERE id = $1
    `
	result, err := r.db.ExecContext(ctx, query, id, passwordHash, passwordSalt)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(result)
}

func (r *UserRepository) UpdateImage(ctx context.Context, id uuid.UUID, imageURL string) (*domain.User, error) {
	const query = `
        UPDATE user_account
        SET image_url = $2,
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + userColumns

	var user domain.User
	if err := r.db.QueryRowxContext(ctx, query, id, imageURL).StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) RequestDeletion(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE user_account
        SET deletion_requested_at = COALESCE(deletion_requested_at, NOW()),
            updated_at = NOW()
        WHERE id = $1
    `
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(result)
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM user_account
        WHERE role <> 'admin'
        ORDER BY created_at DESC, id
        LIMIT $1 OFFSET $2
    `
	users := make([]domain.User, 0)
	if err := r.db.SelectContext(ctx, &users, query, limit, offset); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM user_account WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(result)
}

var _ ports.UserRepository = (*UserRepository)(nil)
