package impl

import (
	"context"
	"log/slog"

	deliverycontext "remu/internal/delivery/context"
	"remu/internal/domain/entity"
	domainerrors "remu/internal/domain/errors"
	"remu/internal/domain/repository"
	"remu/internal/usecase"

	"github.com/pkg/errors"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo   repository.UserRepository
	reviewRepo repository.ReviewRepository
	logger     *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	logger *slog.Logger,
) usecase.UserUsecase {
	return &userService{
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		logger:     logger,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Profile returns the caller's email and nickname. The account can vanish
// between token verification and this lookup, hence the 404 mapping.
func (srv *userService) Profile(ctx context.Context, userID int64) (*usecase.ProfileOutput, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return &usecase.ProfileOutput{
		Email:    user.Email,
		Nickname: user.Nickname,
	}, nil
}

// Reviews returns every review the caller has written. No reviews is not
// an error; the result is an empty list.
func (srv *userService) Reviews(ctx context.Context, userID int64) ([]*entity.Review, error) {
	reviews, err := srv.reviewRepo.FindByUserID(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to list reviews", slog.Any("error", err), slog.Int64("user_id", userID))

		return nil, errors.Wrap(err, "failed to list reviews")
	}
	if reviews == nil {
		reviews = []*entity.Review{}
	}

	return reviews, nil
}

// UpdateProfile replaces the caller's email and nickname. Each field is
// checked against other accounts; the caller's own row is excluded.
func (srv *userService) UpdateProfile(ctx context.Context, input usecase.UpdateProfileInput) error {
	if input.Email == "" || input.Nickname == "" {
		return domainerrors.ErrEmptyFields
	}

	emailTaken, err := srv.userRepo.ExistsByEmail(ctx, input.Email, input.UserID)
	if err != nil {
		return errors.Wrap(err, "failed to check email")
	}
	if emailTaken {
		return domainerrors.ErrEmailTaken
	}

	nicknameTaken, err := srv.userRepo.ExistsByNickname(ctx, input.Nickname, input.UserID)
	if err != nil {
		return errors.Wrap(err, "failed to check nickname")
	}
	if nicknameTaken {
		return domainerrors.ErrNicknameTaken
	}

	if err := srv.userRepo.UpdateProfile(ctx, input.UserID, input.Email, input.Nickname); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}
		srv.log(ctx).Error("Failed to update profile", slog.Any("error", err), slog.Int64("user_id", input.UserID))

		return errors.Wrap(err, "failed to update profile")
	}
	srv.log(ctx).Info("Profile updated", slog.Int64("user_id", input.UserID))

	return nil
}
