package domain

import (
	"time"

	"github.com/google/uuid"
)

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

type ConnectionRequest struct {
	ID         int64            `db:"id" json:"id"`
	SenderID   uuid.UUID        `db:"sender_id" json:"sender_id"`
	ReceiverID uuid.UUID        `db:"receiver_id" json:"receiver_id"`
	Status     ConnectionStatus `db:"status" json:"status"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// Involves reports whether the user is either side of the request.
func (r *ConnectionRequest) Involves(userID uuid.UUID) bool {
	return r.SenderID == userID || r.ReceiverID == userID
}

// ConnectionView pairs a request with the profile of the other party, as seen
// by the user listing it.
type ConnectionView struct {
	ID        int64            `db:"id" json:"id"`
	Status    ConnectionStatus `db:"status" json:"status"`
	UserID    uuid.UUID        `db:"user_id" json:"user_id"`
	FullName  string           `db:"full_name" json:"full_name"`
	Email     string           `db:"email" json:"email"`
	Role      Role             `db:"role" json:"role"`
	ImageURL  *string          `db:"image_url" json:"image,omitempty"`
	Headline  *string          `db:"headline" json:"headline,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
