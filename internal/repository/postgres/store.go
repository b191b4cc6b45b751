package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hireradar/hireradar-api/internal/repository/ports"
)

// Store hands out transaction-scoped repositories.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepositories) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	if err = fn(ctx, repositoriesFor(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func repositoriesFor(tx DBTX) ports.TxRepositories {
	return ports.TxRepositories{
		Users:          NewUserRepo(tx),
		PasswordResets: NewPasswordResetRepo(tx),
		Jobs:           NewJobRepo(tx),
		Connections:    NewConnectionRepo(tx),
		Notifications:  NewNotificationRepo(tx),
	}
}

var _ ports.Transactor = (*Store)(nil)
