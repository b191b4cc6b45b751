package ports

import "context"

// TxRepositories are repositories bound to one open transaction.
type TxRepositories struct {
	Users          UserRepository
	PasswordResets PasswordResetRepository
	Jobs           JobRepository
	Connections    ConnectionRepository
	Notifications  NotificationRepository
}

// Transactor runs fn inside a single transaction. The transaction is committed
// when fn returns nil and rolled back on any error or panic.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
