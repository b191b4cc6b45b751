package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hireradar/hireradar-api/internal/service"
	"github.com/hireradar/hireradar-api/internal/util"
)

const forgotPasswordMessage = "If an account exists with this email, a reset link has been sent."

type PasswordResetHandler struct {
	resets *service.PasswordResetService
	logger *zerolog.Logger
}

// RegisterPasswordReset mounts the reset flow. Extra middleware (rate
// limiting) applies to the forgot-password request only.
func RegisterPasswordReset(e *echo.Echo, resets *service.PasswordResetService, logger *zerolog.Logger, forgotMiddleware ...echo.MiddlewareFunc) {
	h := &PasswordResetHandler{resets: resets, logger: logger}

	e.POST("/auth/forgot-password", h.forgotPassword, forgotMiddleware...)
	e.GET("/auth/verify-reset-token", h.verifyResetToken)
	e.POST("/auth/reset-password", h.resetPassword)
}

// forgotPassword godoc
// @Summary Request a password reset link
// @Description Always answers with the same message whether or not the email is registered.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body ForgotPasswordRequest true "Account email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/forgot-password [post]
func (h *PasswordResetHandler) forgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Email is required"))
	}

	if err := h.resets.RequestReset(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrEmailRequired) {
			return c.JSON(http.StatusBadRequest, util.Error("Email is required"))
		}
		h.logger.Error().Err(err).Msg("forgot password failed")
		return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: forgotPasswordMessage})
}

// verifyResetToken godoc
// @Summary Check whether a reset token can still be used
// @Tags auth
// @Produce json
// @Param token query string true "Reset token"
// @Success 200 {object} VerifyTokenResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/verify-reset-token [get]
func (h *PasswordResetHandler) verifyResetToken(c echo.Context) error {
	token := strings.TrimSpace(c.QueryParam("token"))

	if err := h.resets.VerifyToken(c.Request().Context(), token); err != nil {
		switch {
		case errors.Is(err, service.ErrTokenRequired):
			return c.JSON(http.StatusBadRequest, util.Error("Token is required"))
		case errors.Is(err, service.ErrResetTokenInvalid):
			return c.JSON(http.StatusBadRequest, util.Error("Invalid or expired token"))
		default:
			h.logger.Error().Err(err).Msg("verify reset token failed")
			return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
		}
	}
	return c.JSON(http.StatusOK, VerifyTokenResponse{Valid: true, Message: "Token is valid"})
}

// resetPassword godoc
// @Summary Set a new password with a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body ResetPasswordRequest true "Token and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/reset-password [post]
func (h *PasswordResetHandler) resetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Token and new password are required"))
	}

	err := h.resets.ConsumeAndReset(c.Request().Context(), strings.TrimSpace(req.Token), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResetFieldsRequired):
			return c.JSON(http.StatusBadRequest, util.Error("Token and new password are required"))
		case errors.Is(err, service.ErrPasswordTooShort):
			return c.JSON(http.StatusBadRequest, util.Error("Password must be at least 8 characters"))
		case errors.Is(err, service.ErrResetTokenInvalid):
			return c.JSON(http.StatusBadRequest, util.Error("Invalid or expired token"))
		case errors.Is(err, service.ErrAccountNotFound):
			return c.JSON(http.StatusNotFound, util.Error("User not found"))
		default:
			h.logger.Error().Err(err).Msg("reset password failed")
			return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
		}
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Password has been reset successfully"})
}
