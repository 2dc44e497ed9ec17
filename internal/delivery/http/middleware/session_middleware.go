package middleware

import (
	"context"
	"log/slog"

	"remu/config"
	domainerrors "remu/internal/domain/errors"
	"remu/internal/domain/repository"
	"remu/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Context keys under which the middleware exposes the authenticated identity.
const (
	ContextKeyUserID = "userID"
	ContextKeyEmail  = "email"
)

// RenewalState enumerates every terminal branch of the session resolution.
// Exactly one state is reached per request passing through the middleware.
type RenewalState int

const (
	// NoAccessToken means the access token cookie was absent.
	NoAccessToken RenewalState = iota
	// AccessValid means the access token verified; the request proceeds as-is.
	AccessValid
	// AccessInvalid means the access token failed verification for a reason
	// other than expiry. Renewal is never attempted for a tampered token.
	AccessInvalid
	// AccessExpiredNoRefresh means the access token expired and no refresh
	// token cookie was present.
	AccessExpiredNoRefresh
	// AccessExpiredRefreshInvalid means the refresh token failed verification
	// (bad signature or itself expired).
	AccessExpiredRefreshInvalid
	// AccessExpiredRefreshValidUserMissing means the refresh token verified
	// but no account exists for its email. Covers deleted or renamed accounts
	// still holding a cryptographically valid refresh token.
	AccessExpiredRefreshValidUserMissing
	// AccessExpiredRenewed means a new access token was issued from the
	// stored account record; the request proceeds with the renewed identity.
	AccessExpiredRenewed
)

// String returns the state name for logging.
func (s RenewalState) String() string {
	switch s {
	case NoAccessToken:
		return "NoAccessToken"
	case AccessValid:
		return "AccessValid"
	case AccessInvalid:
		return "AccessInvalid"
	case AccessExpiredNoRefresh:
		return "AccessExpiredNoRefresh"
	case AccessExpiredRefreshInvalid:
		return "AccessExpiredRefreshInvalid"
	case AccessExpiredRefreshValidUserMissing:
		return "AccessExpiredRefreshValidUserMissing"
	case AccessExpiredRenewed:
		return "AccessExpiredRenewed"
	default:
		return "Unknown"
	}
}

// sessionResolution is the tagged outcome of resolving one request's cookies.
type sessionResolution struct {
	State RenewalState

	// Claims carries the identity attached to the request. Set for
	// AccessValid (the access token's claims) and AccessExpiredRenewed (the
	// renewed token's claims, read from the stored account record).
	Claims *service.Claims

	// RenewedAccessToken is the freshly issued token, set only for
	// AccessExpiredRenewed.
	RenewedAccessToken string

	// Err is a store or signing failure that aborted resolution. When set,
	// State is meaningless and the request fails as an internal error.
	Err error
}

// SessionMiddleware validates the access token cookie on protected routes and
// transparently renews an expired one from the refresh token. Renewal trusts
// the refresh token's signature and expiry plus the existence of the account;
// the stored refresh token value is not consulted, so an issued refresh token
// stays usable until its natural expiry even after logout.
type SessionMiddleware struct {
	tokens service.TokenService
	users  repository.UserRepository
	cfg    *config.Config
	logger *slog.Logger
}

// NewSessionMiddleware is the constructor for SessionMiddleware.
func NewSessionMiddleware(tokens service.TokenService, users repository.UserRepository, cfg *config.Config, logger *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		tokens: tokens,
		users:  users,
		cfg:    cfg,
		logger: logger,
	}
}

// Authenticate resolves the session cookies, then either attaches the
// identity and proceeds or rejects with the 401 matching the reached state.
func (m *SessionMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var access, refresh string
		hasAccess, hasRefresh := false, false

		if cookie, err := c.Cookie(CookieAccessToken); err == nil {
			access, hasAccess = cookie.Value, true
		}
		if cookie, err := c.Cookie(CookieRefreshToken); err == nil {
			refresh, hasRefresh = cookie.Value, true
		}

		res := m.resolve(c.Request().Context(), access, refresh, hasAccess, hasRefresh)
		if res.Err != nil {
			return errors.WithStack(res.Err)
		}

		switch res.State {
		case AccessValid:
			attachIdentity(c, res.Claims)
			return next(c)

		case AccessExpiredRenewed:
			c.SetCookie(NewAuthCookie(CookieAccessToken, res.RenewedAccessToken, m.tokens.AccessTokenTTL(), m.cfg.IsProduction()))
			attachIdentity(c, res.Claims)
			return next(c)

		case NoAccessToken:
			return errors.WithStack(domainerrors.ErrAccessTokenMissing)
		case AccessInvalid:
			return errors.WithStack(domainerrors.ErrAccessTokenInvalid)
		case AccessExpiredNoRefresh:
			return errors.WithStack(domainerrors.ErrRefreshTokenMissing)
		case AccessExpiredRefreshInvalid:
			return errors.WithStack(domainerrors.ErrRefreshTokenInvalid)
		case AccessExpiredRefreshValidUserMissing:
			return errors.WithStack(domainerrors.ErrAccountNotFound)
		default:
			return errors.WithStack(domainerrors.ErrInternalError)
		}
	}
}

// resolve walks the renewal decision tree and returns exactly one terminal
// state. An expired access token is the only verification failure that may
// continue into the refresh branch.
func (m *SessionMiddleware) resolve(ctx context.Context, access, refresh string, hasAccess, hasRefresh bool) sessionResolution {
	if !hasAccess {
		return sessionResolution{State: NoAccessToken}
	}

	claims, err := m.tokens.VerifyToken(access)
	if err == nil {
		return sessionResolution{State: AccessValid, Claims: claims}
	}
	if !errors.Is(err, service.ErrTokenExpired) {
		return sessionResolution{State: AccessInvalid}
	}

	if !hasRefresh {
		return sessionResolution{State: AccessExpiredNoRefresh}
	}

	refreshClaims, err := m.tokens.VerifyToken(refresh)
	if err != nil {
		return sessionResolution{State: AccessExpiredRefreshInvalid}
	}

	// Renewal issues the new token from the stored record, not from the
	// refresh claims, so a renamed account renews with its current identity.
	user, err := m.users.FindByEmail(ctx, refreshClaims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return sessionResolution{State: AccessExpiredRefreshValidUserMissing}
		}
		return sessionResolution{Err: errors.Wrap(err, "failed to load account during session renewal")}
	}

	renewed, err := m.tokens.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return sessionResolution{Err: errors.Wrap(err, "failed to issue renewed access token")}
	}

	m.logger.Debug("session renewed", slog.Int64("user_id", user.ID))

	return sessionResolution{
		State:              AccessExpiredRenewed,
		Claims:             &service.Claims{UserID: user.ID, Email: user.Email},
		RenewedAccessToken: renewed,
	}
}

func attachIdentity(c echo.Context, claims *service.Claims) {
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyEmail, claims.Email)
}
