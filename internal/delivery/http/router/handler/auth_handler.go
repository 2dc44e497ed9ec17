// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"remu/config"
	"remu/internal/delivery/http/middleware"
	"remu/internal/delivery/http/response"
	domainerrors "remu/internal/domain/errors"
	"remu/internal/domain/service"
	"remu/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	tokens service.TokenService
	cfg    *config.Config
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, tokens service.TokenService, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		tokens: tokens,
		cfg:    cfg,
		logger: logger,
	}
}

type joinRequest struct {
	Nickname string `json:"nickname" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// Join handles the registration request.
func (h *AuthHandler) Join(c echo.Context) error {
	var req joinRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	input := usecase.RegisterInput{
		Nickname: req.Nickname,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := h.uc.Register(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, nil, "Account created")
}

// Login handles the login request. On success both tokens are set as cookies
// and the access token is also returned in the body.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	secure := h.cfg.IsProduction()
	c.SetCookie(middleware.NewAuthCookie(middleware.CookieAccessToken, output.AccessToken, h.tokens.AccessTokenTTL(), secure))
	c.SetCookie(middleware.NewAuthCookie(middleware.CookieRefreshToken, output.RefreshToken, h.tokens.RefreshTokenTTL(), secure))

	return response.Success(c, http.StatusOK, map[string]string{
		"accessToken": output.AccessToken,
	}, "Login successful")
}

// Logout clears the stored refresh token and removes both cookies.
func (h *AuthHandler) Logout(c echo.Context) error {
	_, email, err := identityFromContext(c)
	if err != nil {
		return err
	}

	if err := h.uc.Logout(c.Request().Context(), email); err != nil {
		return errors.WithStack(err)
	}

	middleware.ClearSessionCookies(c, h.cfg.IsProduction())

	return response.Success(c, http.StatusOK, nil, "Logged out")
}

// ChangePassword handles the password change request for the authenticated
// account.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	_, email, err := identityFromContext(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	input := usecase.ChangePasswordInput{
		Email:           email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	}
	if err := h.uc.ChangePassword(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password changed")
}

// DeleteAccount removes the authenticated account. The refresh token cookie
// must be present as an extra precondition on top of the session middleware.
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	if _, err := c.Cookie(middleware.CookieRefreshToken); err != nil {
		return errors.WithStack(domainerrors.ErrRefreshTokenMissing)
	}

	_, email, err := identityFromContext(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteAccount(c.Request().Context(), email); err != nil {
		return errors.WithStack(err)
	}

	middleware.ClearSessionCookies(c, h.cfg.IsProduction())

	return response.Success(c, http.StatusOK, nil, "Account deleted")
}

// identityFromContext reads the identity the session middleware attached.
// Absence here means a protected route was registered without the middleware,
// which is a wiring bug, not a client error.
func identityFromContext(c echo.Context) (int64, string, error) {
	userID, ok := c.Get(middleware.ContextKeyUserID).(int64)
	if !ok {
		return 0, "", errors.WithStack(domainerrors.ErrInternalError.WithDetails("missing authenticated identity"))
	}

	email, ok := c.Get(middleware.ContextKeyEmail).(string)
	if !ok {
		return 0, "", errors.WithStack(domainerrors.ErrInternalError.WithDetails("missing authenticated identity"))
	}

	return userID, email, nil
}
