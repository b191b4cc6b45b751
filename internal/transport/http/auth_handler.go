package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hireradar/hireradar-api/internal/media"
	"github.com/hireradar/hireradar-api/internal/service"
	"github.com/hireradar/hireradar-api/internal/util"
)

const (
	googleStateCookie = "oauth_state"
	googleStateTTL    = 10 * time.Minute
)

type AuthHandler struct {
	auth   *service.AuthService
	logger *zerolog.Logger
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService, logger *zerolog.Logger) {
	h := &AuthHandler{auth: auth, logger: logger}

	g := e.Group("/auth")
	g.POST("/signup", h.signup)
	g.POST("/login", h.login)
	g.GET("/google", h.googleRedirect)
	g.GET("/google/callback", h.googleCallback)
	g.POST("/google", h.googleIDToken)

	protected := e.Group("/auth", RequireAuth(auth))
	protected.GET("/me", h.me)
	protected.POST("/logout", h.logout)
	protected.PUT("/update-password", h.updatePassword)
	protected.POST("/delete-account", h.deleteAccount)
	protected.PUT("/me/avatar", h.uploadAvatar)
}

// signup godoc
// @Summary Register with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body SignupRequest true "Account details"
// @Success 201 {object} AuthTokenResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		if invalidEmailOnly(err, req.Email) {
			return c.JSON(http.StatusBadRequest, util.Error("Invalid email address"))
		}
		return c.JSON(http.StatusBadRequest, util.Error("Missing fields"))
	}

	result, err := h.auth.Signup(c.Request().Context(), service.SignupInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			return c.JSON(http.StatusBadRequest, util.Error("Missing fields"))
		case errors.Is(err, service.ErrInvalidEmail):
			return c.JSON(http.StatusBadRequest, util.Error("Invalid email address"))
		case errors.Is(err, service.ErrEmailAlreadyUsed):
			return c.JSON(http.StatusBadRequest, util.Error("Email already exists"))
		case errors.Is(err, service.ErrInvalidRole):
			return c.JSON(http.StatusBadRequest, util.Error("Role must be employer or candidate"))
		case errors.Is(err, service.ErrPasswordTooShort):
			return c.JSON(http.StatusBadRequest, util.Error("Password must be at least 8 characters"))
		default:
			h.logger.Error().Err(err).Msg("signup failed")
			return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
		}
	}
	return c.JSON(http.StatusCreated, toAuthTokenResponse(result.Token, result.ExpiresAt, result.User))
}

// login godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body LoginRequest true "Credentials"
// @Success 200 {object} AuthTokenResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid email or password"))
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrMissingFields) {
			return c.JSON(http.StatusBadRequest, util.Error("Invalid email or password"))
		}
		h.logger.Error().Err(err).Msg("login failed")
		return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
	}
	return c.JSON(http.StatusOK, toAuthTokenResponse(result.Token, result.ExpiresAt, result.User))
}

func (h *AuthHandler) googleRedirect(c echo.Context) error {
	state, err := util.RandomToken(16)
	if err != nil {
		h.logger.Error().Err(err).Msg("generate oauth state")
		return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
	}
	url, err := h.auth.GoogleAuthURL(state)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, util.Error("Google sign-in is not configured"))
	}
	c.SetCookie(&http.Cookie{
		Name:     googleStateCookie,
		Value:    state,
		Path:     "/auth/google",
		Expires:  time.Now().Add(googleStateTTL),
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, url)
}

func (h *AuthHandler) googleCallback(c echo.Context) error {
	cookie, err := c.Cookie(googleStateCookie)
	state := c.QueryParam("state")
	if err != nil || state == "" || cookie.Value != state {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid OAuth state"))
	}
	code := strings.TrimSpace(c.QueryParam("code"))
	if code == "" {
		return c.JSON(http.StatusBadRequest, util.Error("Missing authorization code"))
	}
	c.SetCookie(&http.Cookie{Name: googleStateCookie, Path: "/auth/google", MaxAge: -1})

	result, err := h.auth.LoginWithGoogleCode(c.Request().Context(), code)
	return h.writeGoogleResult(c, result, err)
}

// googleIDToken godoc
// @Summary Sign in with a Google ID token
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body GoogleLoginRequest true "Google ID token"
// @Success 200 {object} AuthTokenResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/google [post]
func (h *AuthHandler) googleIDToken(c echo.Context) error {
	var req GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body"))
	}
	result, err := h.auth.LoginWithGoogleIDToken(c.Request().Context(), req.IDToken)
	return h.writeGoogleResult(c, result, err)
}

func (h *AuthHandler) writeGoogleResult(c echo.Context, result *service.AuthResult, err error) error {
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGoogleDisabled):
			return c.JSON(http.StatusServiceUnavailable, util.Error("Google sign-in is not configured"))
		case errors.Is(err, service.ErrMissingFields):
			return c.JSON(http.StatusBadRequest, util.Error("id_token is required"))
		case errors.Is(err, service.ErrGoogleLogin):
			return c.JSON(http.StatusUnauthorized, util.Error("Google authentication failed"))
		default:
			h.logger.Error().Err(err).Msg("google login failed")
			return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
		}
	}
	return c.JSON(http.StatusOK, toAuthTokenResponse(result.Token, result.ExpiresAt, result.User))
}

func (h *AuthHandler) me(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required"))
	}
	return c.JSON(http.StatusOK, toAuthUser(user))
}

func (h *AuthHandler) logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), CurrentToken(c)); err != nil {
		h.logger.Error().Err(err).Msg("logout failed")
		return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "Logged out successfully"})
}

func (h *AuthHandler) updatePassword(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required"))
	}
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("New password is required"))
	}

	err := h.auth.ChangePassword(c.Request().Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordTooShort):
			return c.JSON(http.StatusBadRequest, util.Error("Password must be at least 8 characters"))
		case errors.Is(err, service.ErrPasswordMismatch):
			return c.JSON(http.StatusBadRequest, util.Error("Current password is incorrect"))
		case errors.Is(err, service.ErrAccountNotFound):
			return c.JSON(http.StatusNotFound, util.Error("User not found"))
		default:
			h.logger.Error().Err(err).Msg("update password failed")
			return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
		}
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "Password updated successfully"})
}

func (h *AuthHandler) deleteAccount(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required"))
	}
	if err := h.auth.RequestDeletion(c.Request().Context(), user.ID); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, util.Error("User not found"))
		}
		h.logger.Error().Err(err).Msg("delete account request failed")
		return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"message": "Account deletion request submitted"})
}

func (h *AuthHandler) uploadAvatar(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("Authentication required"))
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Image upload required"))
	}
	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("Unable to read upload"))
	}
	defer src.Close()

	updated, err := h.auth.UploadAvatar(c.Request().Context(), user.ID, media.Upload{
		Reader:      src,
		Size:        fileHeader.Size,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStorageDisabled):
			return c.JSON(http.StatusServiceUnavailable, util.Error("Avatar storage is not configured"))
		case errors.Is(err, service.ErrInvalidImage):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		case errors.Is(err, service.ErrAccountNotFound):
			return c.JSON(http.StatusNotFound, util.Error("User not found"))
		default:
			h.logger.Error().Err(err).Msg("avatar upload failed")
			return c.JSON(http.StatusInternalServerError, util.Error("An error occurred"))
		}
	}
	return c.JSON(http.StatusOK, toAuthUser(updated))
}
