package domain

import (
	"time"

	"github.com/google/uuid"
)

// PasswordReset is a single-use credential that allows one password change.
// Only the SHA-256 digest of the token handed to the user is stored.
type PasswordReset struct {
	ID        int64     `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	TokenHash []byte    `db:"token_hash" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Used      bool      `db:"used" json:"used"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Consumable reports whether the token may still be used at the given instant.
// Expiry is never persisted; it is evaluated on every read.
func (r *PasswordReset) Consumable(now time.Time) bool {
	return !r.Used && r.ExpiresAt.After(now)
}
