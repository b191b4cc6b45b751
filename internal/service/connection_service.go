package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/repository/ports"
)

var (
	ErrSelfConnection       = errors.New("cannot connect with yourself")
	ErrConnectionExists     = errors.New("connection already exists or is pending")
	ErrConnectionNotFound   = errors.New("connection request not found")
	ErrNotConnectionTarget  = errors.New("only the receiver can respond to this request")
	ErrConnectionNotPending = errors.New("connection request already handled")
)

type ConnectionService struct {
	connections ports.ConnectionRepository
	tx          ports.Transactor
}

func NewConnectionService(connections ports.ConnectionRepository, tx ports.Transactor) *ConnectionService {
	return &ConnectionService{connections: connections, tx: tx}
}

// Request opens a pending request and notifies the receiver in the same
// transaction.
func (s *ConnectionService) Request(ctx context.Context, senderID, receiverID uuid.UUID) (*domain.ConnectionRequest, error) {
	if senderID == receiverID {
		return nil, ErrSelfConnection
	}

	var created *domain.ConnectionRequest
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos ports.TxRepositories) error {
		sender, err := repos.Users.FindByID(ctx, senderID)
		if err != nil {
			return err
		}
		if _, err := repos.Users.FindByID(ctx, receiverID); err != nil {
			if isNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}

		if _, err := repos.Connections.FindOpenBetween(ctx, senderID, receiverID); err == nil {
			return ErrConnectionExists
		} else if !isNotFound(err) {
			return err
		}

		req, err := repos.Connections.Create(ctx, senderID, receiverID)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrConnectionExists
			}
			return err
		}
		message := fmt.Sprintf("%s sent you a connection request", sender.FullName)
		if _, err := repos.Notifications.Create(ctx, receiverID, domain.NotificationConnectionRequest, message); err != nil {
			return err
		}
		created = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ConnectionService) ListPending(ctx context.Context, userID uuid.UUID) ([]domain.ConnectionView, error) {
	return s.connections.ListPendingForReceiver(ctx, userID)
}

func (s *ConnectionService) ListAccepted(ctx context.Context, userID uuid.UUID) ([]domain.ConnectionView, error) {
	return s.connections.ListAccepted(ctx, userID)
}

func (s *ConnectionService) Accept(ctx context.Context, userID uuid.UUID, requestID int64) (*domain.ConnectionRequest, error) {
	return s.respond(ctx, userID, requestID, domain.ConnectionAccepted)
}

func (s *ConnectionService) Reject(ctx context.Context, userID uuid.UUID, requestID int64) (*domain.ConnectionRequest, error) {
	return s.respond(ctx, userID, requestID, domain.ConnectionRejected)
}

func (s *ConnectionService) respond(ctx context.Context, userID uuid.UUID, requestID int64, status domain.ConnectionStatus) (*domain.ConnectionRequest, error) {
	var updated *domain.ConnectionRequest
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos ports.TxRepositories) error {
		req, err := repos.Connections.FindByID(ctx, requestID)
		if err != nil {
			if isNotFound(err) {
				return ErrConnectionNotFound
			}
			return err
		}
		if req.ReceiverID != userID {
			return ErrNotConnectionTarget
		}
		if req.Status != domain.ConnectionPending {
			return ErrConnectionNotPending
		}

		updated, err = repos.Connections.UpdateStatus(ctx, requestID, status)
		if err != nil {
			if isNotFound(err) {
				return ErrConnectionNotPending
			}
			return err
		}
		if status != domain.ConnectionAccepted {
			return nil
		}

		receiver, err := repos.Users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		message := fmt.Sprintf("%s accepted your connection request", receiver.FullName)
		_, err = repos.Notifications.Create(ctx, req.SenderID, domain.NotificationConnectionAccepted, message)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove deletes an accepted connection. Either side may remove it; anything
// else looks like a missing connection.
func (s *ConnectionService) Remove(ctx context.Context, userID uuid.UUID, connectionID int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context, repos ports.TxRepositories) error {
		req, err := repos.Connections.FindByID(ctx, connectionID)
		if err != nil {
			if isNotFound(err) {
				return ErrConnectionNotFound
			}
			return err
		}
		if !req.Involves(userID) || req.Status != domain.ConnectionAccepted {
			return ErrConnectionNotFound
		}
		return repos.Connections.Delete(ctx, connectionID)
	})
}
