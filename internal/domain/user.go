package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	FullName            string     `db:"full_name" json:"full_name"`
	Email               string     `db:"email" json:"email"`
	PasswordHash        []byte     `db:"password_hash" json:"-"`
	PasswordSalt        []byte     `db:"password_salt" json:"-"`
	Role                Role       `db:"role" json:"role"`
	ImageURL            *string    `db:"image_url" json:"image,omitempty"`
	Location            *string    `db:"location" json:"location,omitempty"`
	Phone               *string    `db:"phone" json:"phone,omitempty"`
	Headline            *string    `db:"headline" json:"headline,omitempty"`
	DeletionRequestedAt *time.Time `db:"deletion_requested_at" json:"deletion_requested_at,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// HasPassword reports whether the account can sign in with a password.
// Accounts created through Google have no local credential.
func (u *User) HasPassword() bool {
	return len(u.PasswordHash) > 0 && len(u.PasswordSalt) > 0
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
