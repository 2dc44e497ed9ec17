package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"remu/config"
	deliverymw "remu/internal/delivery/http/middleware"
	"remu/internal/delivery/http/validator"
	"remu/internal/domain/entity"
	domainerrors "remu/internal/domain/errors"
	"remu/internal/infra/auth"
	"remu/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"
)

// fakeAuthUsecase records calls and returns scripted results.
type fakeAuthUsecase struct {
	registerErr error
	loginOut    *usecase.LoginOutput
	loginErr    error

	loggedOut      []string
	deleted        []string
	passwordInputs []usecase.ChangePasswordInput
}

func (f *fakeAuthUsecase) Register(_ context.Context, input usecase.RegisterInput) error {
	return f.registerErr
}

func (f *fakeAuthUsecase) Login(_ context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}

	return f.loginOut, nil
}

func (f *fakeAuthUsecase) Logout(_ context.Context, email string) error {
	f.loggedOut = append(f.loggedOut, email)
	return nil
}

func (f *fakeAuthUsecase) ChangePassword(_ context.Context, input usecase.ChangePasswordInput) error {
	f.passwordInputs = append(f.passwordInputs, input)
	return nil
}

func (f *fakeAuthUsecase) DeleteAccount(_ context.Context, email string) error {
	f.deleted = append(f.deleted, email)
	return nil
}

// attachIdentity simulates the session middleware for protected routes.
func attachIdentity(userID int64, email string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(deliverymw.ContextKeyUserID, userID)
			c.Set(deliverymw.ContextKeyEmail, email)
			return next(c)
		}
	}
}

func newAuthTestServer(t *testing.T, uc *fakeAuthUsecase) *echo.Echo {
	t.Helper()

	cfg := &config.Config{}
	cfg.Auth = config.AuthConfig{
		SecretKey:       "auth-handler-test-key",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	h := NewAuthHandler(uc, tokens, cfg, logger)

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = deliverymw.NewErrorMiddleware(logger).HandleHTTPError
	e.POST("/auth/join", h.Join)
	e.POST("/auth/login", h.Login)
	e.POST("/auth/logout", h.Logout, attachIdentity(7, "alice@example.com"))
	e.PUT("/auth/password", h.ChangePassword, attachIdentity(7, "alice@example.com"))
	e.DELETE("/auth/account", h.DeleteAccount, attachIdentity(7, "alice@example.com"))

	return e
}

func TestAuthHandler_Join(t *testing.T) {
	e := newAuthTestServer(t, &fakeAuthUsecase{})

	apitest.New().
		Handler(e).
		Post("/auth/join").
		JSON(`{"nickname":"alice","email":"alice@example.com","password":"pw1"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal("$.success", true)).
		End()
}

func TestAuthHandler_Join_MissingFields(t *testing.T) {
	uc := &fakeAuthUsecase{}
	e := newAuthTestServer(t, uc)

	apitest.New().
		Handler(e).
		Post("/auth/join").
		JSON(`{"nickname":"alice","password":"pw1"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.error.code", "VALIDATION_ERROR")).
		End()
}

func TestAuthHandler_Join_MalformedEmail(t *testing.T) {
	e := newAuthTestServer(t, &fakeAuthUsecase{})

	apitest.New().
		Handler(e).
		Post("/auth/join").
		JSON(`{"nickname":"alice","email":"not-an-email","password":"pw1"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.error.code", "VALIDATION_ERROR")).
		End()
}

func TestAuthHandler_ChangePassword_MissingConfirm(t *testing.T) {
	uc := &fakeAuthUsecase{}
	e := newAuthTestServer(t, uc)

	apitest.New().
		Handler(e).
		Put("/auth/password").
		JSON(`{"currentPassword":"old","newPassword":"new"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.error.code", "VALIDATION_ERROR")).
		End()

	require.Empty(t, uc.passwordInputs)
}

func TestAuthHandler_Join_EmailConflict(t *testing.T) {
	e := newAuthTestServer(t, &fakeAuthUsecase{registerErr: domainerrors.ErrEmailTaken})

	apitest.New().
		Handler(e).
		Post("/auth/join").
		JSON(`{"nickname":"bob","email":"alice@example.com","password":"pw2"}`).
		Expect(t).
		Status(http.StatusConflict).
		Assert(jsonpath.Equal("$.error.code", "EMAIL_TAKEN")).
		End()
}

func TestAuthHandler_Login_SetsBothCookies(t *testing.T) {
	uc := &fakeAuthUsecase{
		loginOut: &usecase.LoginOutput{
			AccessToken:  "access-token-value",
			RefreshToken: "refresh-token-value",
			User:         &entity.User{ID: 7, Email: "alice@example.com"},
		},
	}
	e := newAuthTestServer(t, uc)

	result := apitest.New().
		Handler(e).
		Post("/auth/login").
		JSON(`{"email":"alice@example.com","password":"pw1"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.data.accessToken", "access-token-value")).
		End()

	cookies := make(map[string]*http.Cookie)
	for _, cookie := range result.Response.Cookies() {
		cookies[cookie.Name] = cookie
	}

	access := cookies[deliverymw.CookieAccessToken]
	require.NotNil(t, access)
	require.Equal(t, "access-token-value", access.Value)
	require.True(t, access.HttpOnly)
	require.Equal(t, int(time.Hour.Seconds()), access.MaxAge)

	refresh := cookies[deliverymw.CookieRefreshToken]
	require.NotNil(t, refresh)
	require.Equal(t, "refresh-token-value", refresh.Value)
	require.Equal(t, int((7 * 24 * time.Hour).Seconds()), refresh.MaxAge)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	e := newAuthTestServer(t, &fakeAuthUsecase{loginErr: domainerrors.ErrWrongPassword})

	apitest.New().
		Handler(e).
		Post("/auth/login").
		JSON(`{"email":"alice@example.com","password":"nope"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error.code", "WRONG_PASSWORD")).
		End()
}

func TestAuthHandler_Logout_ClearsCookies(t *testing.T) {
	uc := &fakeAuthUsecase{}
	e := newAuthTestServer(t, uc)

	result := apitest.New().
		Handler(e).
		Post("/auth/logout").
		Expect(t).
		Status(http.StatusOK).
		End()

	require.Equal(t, []string{"alice@example.com"}, uc.loggedOut)

	for _, cookie := range result.Response.Cookies() {
		require.Equal(t, -1, cookie.MaxAge, "cookie %s should be expired", cookie.Name)
	}
	require.Len(t, result.Response.Cookies(), 2)
}

func TestAuthHandler_ChangePassword_UsesIdentityEmail(t *testing.T) {
	uc := &fakeAuthUsecase{}
	e := newAuthTestServer(t, uc)

	apitest.New().
		Handler(e).
		Put("/auth/password").
		JSON(`{"currentPassword":"old","newPassword":"new","confirmPassword":"new"}`).
		Expect(t).
		Status(http.StatusOK).
		End()

	require.Len(t, uc.passwordInputs, 1)
	require.Equal(t, "alice@example.com", uc.passwordInputs[0].Email)
	require.Equal(t, "old", uc.passwordInputs[0].CurrentPassword)
}

// Account deletion demands the refresh token cookie even when the session
// middleware already authenticated the caller.
func TestAuthHandler_DeleteAccount_RequiresRefreshCookie(t *testing.T) {
	uc := &fakeAuthUsecase{}
	e := newAuthTestServer(t, uc)

	apitest.New().
		Handler(e).
		Delete("/auth/account").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.error.code", "REFRESH_TOKEN_MISSING")).
		End()

	require.Empty(t, uc.deleted)
}

func TestAuthHandler_DeleteAccount(t *testing.T) {
	uc := &fakeAuthUsecase{}
	e := newAuthTestServer(t, uc)

	apitest.New().
		Handler(e).
		Delete("/auth/account").
		Cookie(deliverymw.CookieRefreshToken, "refresh-token-value").
		Expect(t).
		Status(http.StatusOK).
		End()

	require.Equal(t, []string{"alice@example.com"}, uc.deleted)
}
