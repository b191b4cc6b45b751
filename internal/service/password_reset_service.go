package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/repository/ports"
	"github.com/hireradar/hireradar-api/internal/util"
)

var (
	ErrEmailRequired       = errors.New("email is required")
	ErrTokenRequired       = errors.New("token is required")
	ErrResetFieldsRequired = errors.New("token and new password are required")
	// ErrResetTokenInvalid covers unknown, used and expired tokens alike.
	ErrResetTokenInvalid = errors.New("invalid or expired token")
	ErrPasswordTooShort  = util.ErrPasswordTooShort
	ErrAccountNotFound   = errors.New("user not found")
)

type PasswordResetSender interface {
	SendPasswordReset(ctx context.Context, email, name, resetURL string) error
}

type PasswordResetService struct {
	tx          ports.Transactor
	resets      ports.PasswordResetRepository
	mailer      PasswordResetSender
	logger      *zerolog.Logger
	frontendURL string
	ttl         time.Duration

	now      func() time.Time
	newToken func() (string, error)
}

func NewPasswordResetService(
	tx ports.Transactor,
	resets ports.PasswordResetRepository,
	mailer PasswordResetSender,
	logger *zerolog.Logger,
	frontendURL string,
	ttl time.Duration,
) *PasswordResetService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &PasswordResetService{
		tx:          tx,
		resets:      resets,
		mailer:      mailer,
		logger:      logger,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		ttl:         ttl,
		now:         time.Now,
		newToken:    util.GenerateResetToken,
	}
}

// dispatchDecision is the anti-enumeration policy applied to the account
// lookup: a missing account is indistinguishable from a successful request,
// only store failures surface.
func dispatchDecision(user *domain.User, lookupErr error) (bool, error) {
	switch {
	case lookupErr == nil && user != nil:
		return true, nil
	case lookupErr == nil, isNotFound(lookupErr):
		return false, nil
	default:
		return false, lookupErr
	}
}

type issuedReset struct {
	user  *domain.User
	token string
}

// RequestReset issues a fresh token for the account registered under email
// and mails the link. It returns nil whether or not the account exists.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}

	var issued *issuedReset
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos ports.TxRepositories) error {
		user, lookupErr := repos.Users.FindByEmail(ctx, email)
		dispatch, err := dispatchDecision(user, lookupErr)
		if err != nil || !dispatch {
			return err
		}

		if err := repos.Users.LockByID(ctx, user.ID); err != nil {
			return err
		}
		token, err := s.newToken()
		if err != nil {
			return fmt.Errorf("generate reset token: %w", err)
		}
		if _, err := repos.PasswordResets.InvalidateByUser(ctx, user.ID); err != nil {
			return err
		}
		if _, err := repos.PasswordResets.Create(ctx, user.ID, util.HashToken(token), s.now().Add(s.ttl)); err != nil {
			return err
		}
		issued = &issuedReset{user: user, token: token}
		return nil
	})
	if err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	if issued == nil {
		return nil
	}

	// The token is already committed; a delivery failure is logged and the
	// user can simply ask again.
	if err := s.mailer.SendPasswordReset(ctx, issued.user.Email, issued.user.FullName, s.resetURL(issued.token)); err != nil {
		s.logger.Error().Err(err).Str("user_id", issued.user.ID.String()).Msg("failed to send password reset email")
	}
	return nil
}

func (s *PasswordResetService) resetURL(token string) string {
	return s.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
}

// VerifyToken reports whether token can still be consumed. It never mutates.
func (s *PasswordResetService) VerifyToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrTokenRequired
	}
	now := s.now()
	reset, err := s.resets.FindConsumable(ctx, util.HashToken(token), now)
	if err != nil {
		if isNotFound(err) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("verify reset token: %w", err)
	}
	if !reset.Consumable(now) {
		return ErrResetTokenInvalid
	}
	return nil
}

// ConsumeAndReset replaces the account password and burns the token in one
// transaction.
func (s *PasswordResetService) ConsumeAndReset(ctx context.Context, token, password string) error {
	if token == "" || password == "" {
		return ErrResetFieldsRequired
	}
	if err := util.ValidatePassword(password); err != nil {
		return ErrPasswordTooShort
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context, repos ports.TxRepositories) error {
		now := s.now()
		reset, err := repos.PasswordResets.LockConsumable(ctx, util.HashToken(token), now)
		if err != nil {
			if isNotFound(err) {
				return ErrResetTokenInvalid
			}
			return err
		}
		if !reset.Consumable(now) {
			return ErrResetTokenInvalid
		}

		user, err := repos.Users.FindByID(ctx, reset.UserID)
		if err != nil {
			if isNotFound(err) {
				return ErrAccountNotFound
			}
			return err
		}

		hash, salt, err := util.DerivePassword(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		if err := repos.Users.UpdatePassword(ctx, user.ID, hash, salt); err != nil {
			return err
		}
		if err := repos.PasswordResets.MarkUsed(ctx, reset.ID); err != nil {
			if isNotFound(err) {
				return ErrResetTokenInvalid
			}
			return err
		}
		return nil
	})
}
