package usecase

import (
	"context"

	"remu/internal/domain/entity"
)

// ProfileOutput is the caller's own account summary.
type ProfileOutput struct {
	Email    string
	Nickname string
}

// UpdateProfileInput defines the data required to update a profile.
type UpdateProfileInput struct {
	UserID   int64
	Email    string
	Nickname string
}

// UserUsecase defines the interface for account self-service operations.
type UserUsecase interface {
	// Profile returns the caller's email and nickname.
	Profile(ctx context.Context, userID int64) (*ProfileOutput, error)

	// Reviews returns every review the caller has written.
	Reviews(ctx context.Context, userID int64) ([]*entity.Review, error)

	// UpdateProfile replaces the caller's email and nickname, rejecting
	// values already owned by another account.
	UpdateProfile(ctx context.Context, input UpdateProfileInput) error
}
