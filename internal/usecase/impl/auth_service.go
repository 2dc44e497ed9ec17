// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "remu/internal/delivery/context"
	"remu/internal/domain/entity"
	domainerrors "remu/internal/domain/errors"
	"remu/internal/domain/repository"
	"remu/internal/domain/service"
	"remu/internal/usecase"

	"github.com/pkg/errors"
)

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo  repository.UserRepository
	txManager repository.TransactionManager
	hasher    service.PasswordHasher
	tokens    service.TokenService
	logger    *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(
	userRepo repository.UserRepository,
	txManager repository.TransactionManager,
	hasher service.PasswordHasher,
	tokens service.TokenService,
	logger *slog.Logger,
) usecase.AuthUsecase {
	return &authService{
		userRepo:  userRepo,
		txManager: txManager,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account after uniqueness checks.
// The email check runs before the nickname check, so a request conflicting
// on both reports the email conflict.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) error {
	if input.Nickname == "" || input.Email == "" || input.Password == "" {
		return domainerrors.ErrEmptyFields
	}

	emailTaken, err := srv.userRepo.ExistsByEmail(ctx, input.Email, 0)
	if err != nil {
		return errors.Wrap(err, "failed to check email")
	}
	if emailTaken {
		return domainerrors.ErrEmailTaken
	}

	nicknameTaken, err := srv.userRepo.ExistsByNickname(ctx, input.Nickname, 0)
	if err != nil {
		return errors.Wrap(err, "failed to check nickname")
	}
	if nicknameTaken {
		return domainerrors.ErrNicknameTaken
	}

	salt, err := srv.hasher.GenerateSalt()
	if err != nil {
		return errors.Wrap(err, "failed to generate salt")
	}

	user := &entity.User{
		Nickname:       input.Nickname,
		Email:          input.Email,
		PasswordDigest: srv.hasher.Hash(input.Password, salt),
		Salt:           salt,
	}
	if err := srv.userRepo.Create(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to create user", slog.Any("error", err))

		return err
	}
	srv.log(ctx).Info("User registered", slog.Int64("user_id", user.ID))

	return nil
}

// Login verifies credentials and issues both tokens. The refresh token is
// stored on the user record so logout and account deletion can revoke it.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domainerrors.ErrEmptyFields
	}

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrEmailNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	if !srv.hasher.Verify(input.Password, user.Salt, user.PasswordDigest) {
		return nil, domainerrors.ErrWrongPassword
	}

	accessToken, err := srv.tokens.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}
	refreshToken, err := srv.tokens.IssueRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue refresh token")
	}

	if err := srv.userRepo.UpdateRefreshToken(ctx, user.Email, &refreshToken); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}
	srv.log(ctx).Info("User logged in", slog.Int64("user_id", user.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Logout clears the stored refresh token so it can no longer be compared
// against, even though renewal does not consult it today.
func (srv *authService) Logout(ctx context.Context, email string) error {
	if err := srv.userRepo.UpdateRefreshToken(ctx, email, nil); err != nil {
		srv.log(ctx).Error("Failed to clear refresh token", slog.Any("error", err))

		return errors.Wrap(err, "failed to clear refresh token")
	}
	srv.log(ctx).Info("User logged out", slog.String("email", email))

	return nil
}

// ChangePassword re-verifies the current password, then replaces digest and
// salt together. Tokens previously issued stay valid until they expire.
func (srv *authService) ChangePassword(ctx context.Context, input usecase.ChangePasswordInput) error {
	if input.CurrentPassword == "" || input.NewPassword == "" || input.ConfirmPassword == "" {
		return domainerrors.ErrEmptyFields
	}
	if input.NewPassword == input.CurrentPassword {
		return domainerrors.ErrSamePassword
	}
	if input.NewPassword != input.ConfirmPassword {
		return domainerrors.ErrPasswordConfirmMismatch
	}

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrAccountNotFound
		}

		return errors.Wrap(err, "failed to find user")
	}

	if !srv.hasher.Verify(input.CurrentPassword, user.Salt, user.PasswordDigest) {
		return domainerrors.ErrWrongPassword
	}

	salt, err := srv.hasher.GenerateSalt()
	if err != nil {
		return errors.Wrap(err, "failed to generate salt")
	}
	digest := srv.hasher.Hash(input.NewPassword, salt)

	if err := srv.userRepo.UpdatePassword(ctx, input.Email, digest, salt); err != nil {
		srv.log(ctx).Error("Failed to update password", slog.Any("error", err))

		return errors.Wrap(err, "failed to update password")
	}
	srv.log(ctx).Info("Password changed", slog.Int64("user_id", user.ID))

	return nil
}

// DeleteAccount revokes the stored refresh token, removes the user's
// reviews and deletes the account, all in one transaction.
func (srv *authService) DeleteAccount(ctx context.Context, email string) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		reviewRepo := repoFactory.ReviewRepo()

		user, err := userRepo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrAccountNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if err := userRepo.UpdateRefreshToken(ctx, email, nil); err != nil {
			return errors.Wrap(err, "failed to clear refresh token")
		}

		reviews, err := reviewRepo.FindByUserID(ctx, user.ID)
		if err != nil {
			return errors.Wrap(err, "failed to list user reviews")
		}
		for _, review := range reviews {
			if err := reviewRepo.Delete(ctx, review.ID); err != nil {
				return errors.Wrap(err, "failed to delete review")
			}
		}

		if err := userRepo.DeleteByEmail(ctx, email); err != nil {
			return errors.Wrap(err, "failed to delete user")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete account", slog.Any("error", err), slog.String("email", email))

		return err
	}
	srv.log(ctx).Info("Account deleted", slog.String("email", email))

	return nil
}
