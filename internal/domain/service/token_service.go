package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification outcomes the session-renewal middleware branches on.
// A missing token never reaches VerifyToken; absence is the caller's concern.
var (
	// ErrTokenExpired means the signature verified but the expiry has passed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid means the token is malformed, carries a bad signature,
	// or failed verification for any reason other than expiry.
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims defines the custom claims embedded in both token kinds.
type Claims struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and verifying the signed
// access/refresh token pair. Issuance is deterministic given inputs plus the
// current time; only an absent signing key makes construction fail.
type TokenService interface {
	// IssueAccessToken creates a short-lived signed access token.
	IssueAccessToken(userID int64, email string) (string, error)

	// IssueRefreshToken creates a long-lived signed refresh token.
	IssueRefreshToken(userID int64, email string) (string, error)

	// VerifyToken checks signature integrity before trusting any claim, then
	// expiry. Failures are ErrTokenExpired or ErrTokenInvalid.
	VerifyToken(token string) (*Claims, error)

	// AccessTokenTTL returns the configured access token lifetime.
	AccessTokenTTL() time.Duration

	// RefreshTokenTTL returns the configured refresh token lifetime.
	RefreshTokenTTL() time.Duration
}
