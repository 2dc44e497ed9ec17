// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"remu/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Nickname string
	Email    string
	Password string
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string
	Password string
}

// ChangePasswordInput defines the data required to change a password.
// Email identifies the caller and comes from the verified access token,
// never from the request body.
type ChangePasswordInput struct {
	Email           string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// --- Output DTOs ---

// LoginOutput returns the issued tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer depends on.
type AuthUsecase interface {
	// Register creates a new account. Conflicting email wins over a
	// conflicting nickname when both are taken.
	Register(ctx context.Context, input RegisterInput) error

	// Login verifies credentials, issues both tokens and stores the
	// refresh token on the user record.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// Logout clears the stored refresh token.
	Logout(ctx context.Context, email string) error

	// ChangePassword re-verifies the current password and re-derives the
	// digest under a fresh salt.
	ChangePassword(ctx context.Context, input ChangePasswordInput) error

	// DeleteAccount clears the stored refresh token and removes the
	// account and its reviews in one transaction.
	DeleteAccount(ctx context.Context, email string) error
}
