package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/identity"
	"github.com/hireradar/hireradar-api/internal/media"
	"github.com/hireradar/hireradar-api/internal/repository/ports"
	"github.com/hireradar/hireradar-api/internal/util"
)

var (
	ErrMissingFields      = errors.New("missing fields")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidRole        = errors.New("role must be employer or candidate")
	ErrEmailAlreadyUsed   = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("current password is incorrect")
	ErrUnauthorized       = errors.New("invalid or expired session")
	ErrGoogleDisabled     = errors.New("google sign-in is not configured")
	ErrGoogleLogin        = errors.New("google sign-in failed")
	ErrStorageDisabled    = errors.New("avatar storage is not configured")
	ErrInvalidImage       = errors.New("invalid image")
)

// GoogleIdentity is the subset of identity.GoogleProvider the service needs.
type GoogleIdentity interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*identity.Profile, error)
	VerifyIDToken(ctx context.Context, raw string) (*identity.Profile, error)
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type SignupInput struct {
	FullName string
	Email    string
	Password string
	Role     string
}

type AuthService struct {
	users        ports.UserRepository
	sessions     ports.SessionRepository
	storage      ports.ObjectStorage
	images       media.Processor
	google       GoogleIdentity
	jwt          *util.JWTManager
	logger       *zerolog.Logger
	avatarBucket string
	maxAvatarDim int
}

type AuthServiceOption func(*AuthService)

func WithGoogle(google GoogleIdentity) AuthServiceOption {
	return func(s *AuthService) { s.google = google }
}

func WithAvatarStorage(storage ports.ObjectStorage, images media.Processor, bucket string) AuthServiceOption {
	return func(s *AuthService) {
		s.storage = storage
		s.images = images
		s.avatarBucket = bucket
	}
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionRepository, jwt *util.JWTManager, logger *zerolog.Logger, opts ...AuthServiceOption) *AuthService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	s := &AuthService{
		users:        users,
		sessions:     sessions,
		jwt:          jwt,
		logger:       logger,
		maxAvatarDim: media.DefaultMaxDimension,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(input.Email)
	if fullName == "" || email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}
	if err := validation.Validate(email, is.Email); err != nil {
		return nil, ErrInvalidEmail
	}
	role, ok := domain.ParseSignupRole(input.Role)
	if !ok {
		return nil, ErrInvalidRole
	}
	if err := util.ValidatePassword(input.Password); err != nil {
		return nil, ErrPasswordTooShort
	}

	hash, salt, err := util.DerivePassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.CreateEmailUser(ctx, fullName, email, hash, salt, role)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyUsed
		}
		return nil, err
	}
	return s.issueSession(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.HasPassword() || !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issueSession(ctx, user)
}

func (s *AuthService) GoogleEnabled() bool {
	return s.google != nil
}

func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil {
		return "", ErrGoogleDisabled
	}
	return s.google.AuthCodeURL(state), nil
}

func (s *AuthService) LoginWithGoogleCode(ctx context.Context, code string) (*AuthResult, error) {
	if s.google == nil {
		return nil, ErrGoogleDisabled
	}
	profile, err := s.google.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Warn().Err(err).Msg("google code exchange failed")
		return nil, ErrGoogleLogin
	}
	return s.loginGoogleProfile(ctx, profile)
}

func (s *AuthService) LoginWithGoogleIDToken(ctx context.Context, idToken string) (*AuthResult, error) {
	if s.google == nil {
		return nil, ErrGoogleDisabled
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, ErrMissingFields
	}
	profile, err := s.google.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, ErrGoogleLogin
	}
	return s.loginGoogleProfile(ctx, profile)
}

func (s *AuthService) loginGoogleProfile(ctx context.Context, profile *identity.Profile) (*AuthResult, error) {
	user, err := s.users.UpsertGoogleUser(ctx, profile.Email, profile.Name)
	if err != nil {
		return nil, err
	}
	return s.issueSession(ctx, user)
}

func (s *AuthService) issueSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.jwt.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	if _, err := s.sessions.CreateSession(ctx, user.ID, token, expiresAt); err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate resolves a bearer token to its account. The token must verify
// and still have an active session row.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	session, err := s.sessions.FindActiveSession(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if session.UserID != claims.UserID || !session.Valid(time.Now()) {
		return nil, ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeactivateSession(ctx, token)
}

// ChangePassword lets accounts without a local password (Google sign-ups) set
// one without supplying the current password.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if err := util.ValidatePassword(next); err != nil {
		return ErrPasswordTooShort
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return ErrAccountNotFound
		}
		return err
	}
	if user.HasPassword() && !util.VerifyPassword(current, user.PasswordSalt, user.PasswordHash) {
		return ErrPasswordMismatch
	}

	hash, salt, err := util.DerivePassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, user.ID, hash, salt)
}

func (s *AuthService) RequestDeletion(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.RequestDeletion(ctx, userID); err != nil {
		if isNotFound(err) {
			return ErrAccountNotFound
		}
		return err
	}
	s.logger.Info().Str("user_id", userID.String()).Msg("account deletion requested")
	return nil
}

func (s *AuthService) UploadAvatar(ctx context.Context, userID uuid.UUID, upload media.Upload) (*domain.User, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	reader, size, contentType, ext, err := prepareImageForUpload(ctx, s.images, upload, s.maxAvatarDim)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	objectName := fmt.Sprintf("users/%s/%s%s", userID, uuid.NewString(), ext)
	url, err := s.storage.Upload(ctx, s.avatarBucket, objectName, contentType, reader, size)
	if err != nil {
		return nil, err
	}
	user, err := s.users.UpdateImage(ctx, userID, url)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) IsAdmin(_ context.Context, user *domain.User) bool {
	return user != nil && user.IsAdmin()
}
