// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"remu/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository is the credential store: one record per registered identity,
// holding the password digest, the per-user salt and the currently valid
// refresh token. Every mutation is a single atomic statement; callers that
// need multi-statement atomicity go through the TransactionManager.
type UserRepository interface {
	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID retrieves a single user by their numeric identifier.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// ExistsByEmail reports whether another user (excluding excludeID, 0 for
	// none) already owns this email.
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)

	// ExistsByNickname reports whether another user (excluding excludeID, 0
	// for none) already owns this nickname.
	ExistsByNickname(ctx context.Context, nickname string, excludeID int64) (bool, error)

	// Create persists a new user record.
	Create(ctx context.Context, user *entity.User) error

	// UpdateRefreshToken replaces the stored refresh token for the given
	// email. A nil token clears it (logout / account deletion).
	UpdateRefreshToken(ctx context.Context, email string, token *string) error

	// UpdatePassword replaces digest and salt together in one statement.
	UpdatePassword(ctx context.Context, email, digest, salt string) error

	// UpdateProfile changes email and nickname for the given user.
	UpdateProfile(ctx context.Context, id int64, email, nickname string) error

	// DeleteByEmail destroys the user record.
	DeleteByEmail(ctx context.Context, email string) error
}
