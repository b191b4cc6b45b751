package http

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/hireradar/hireradar-api/internal/domain"
)

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid email or password"`
}

// MessageResponse is returned by endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message" example:"Password has been reset successfully"`
}

// AuthUser is the public view of an account.
type AuthUser struct {
	ID       string  `json:"id" example:"9fd13fd2-63c5-4f29-a210-4a1a8e285f74"`
	FullName string  `json:"full_name" example:"Ada Lovelace"`
	Email    string  `json:"email" example:"ada@example.com"`
	Role     string  `json:"role" example:"candidate"`
	Image    *string `json:"image" example:"https://cdn.example.com/avatar.png"`
}

// AuthTokenResponse is returned by endpoints that issue JWT tokens.
type AuthTokenResponse struct {
	Token     string   `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt string   `json:"expires_at" example:"2024-01-02T09:30:00Z"`
	User      AuthUser `json:"user"`
}

type SignupRequest struct {
	FullName string `json:"full_name" example:"Ada Lovelace"`
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"StrongPass!23"`
	Role     string `json:"role" example:"candidate"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// invalidEmailOnly reports whether err is a validation result whose only
// complaint is a present but malformed email.
func invalidEmailOnly(err error, email string) bool {
	errs, ok := err.(validation.Errors)
	return ok && len(errs) == 1 && errs["email"] != nil && email != ""
}

type LoginRequest struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"StrongPass!23"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" example:"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" example:"OldPass!23"`
	NewPassword     string `json:"new_password" example:"NewPass!45"`
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NewPassword, validation.Required),
	)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" example:"ada@example.com"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" example:"vL1x2..."`
	Password string `json:"password" example:"NewPass!45"`
}

// VerifyTokenResponse is returned for a consumable reset token.
type VerifyTokenResponse struct {
	Valid   bool   `json:"valid" example:"true"`
	Message string `json:"message" example:"Token is valid"`
}

func toAuthUser(user *domain.User) AuthUser {
	return AuthUser{
		ID:       user.ID.String(),
		FullName: user.FullName,
		Email:    user.Email,
		Role:     string(user.Role),
		Image:    user.ImageURL,
	}
}

func toAuthTokenResponse(token string, expiresAt time.Time, user *domain.User) AuthTokenResponse {
	return AuthTokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		User:      toAuthUser(user),
	}
}
