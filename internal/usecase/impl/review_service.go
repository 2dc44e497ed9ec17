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

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	reviewRepo repository.ReviewRepository
	logger     *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	logger *slog.Logger,
) usecase.ReviewUsecase {
	return &reviewService{
		reviewRepo: reviewRepo,
		logger:     logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create persists a new review. Every field is required.
func (srv *reviewService) Create(ctx context.Context, input usecase.CreateReviewInput) error {
	if input.Title == "" || input.Content == "" || input.Rating == 0 ||
		input.PerformanceName == "" || input.PerformanceID == "" {
		return domainerrors.ErrEmptyFields
	}

	review := &entity.Review{
		UserID:          input.UserID,
		PerformanceID:   input.PerformanceID,
		PerformanceName: input.PerformanceName,
		Title:           input.Title,
		Content:         input.Content,
		Rating:          input.Rating,
	}
	if err := srv.reviewRepo.Create(ctx, review); err != nil {
		srv.log(ctx).Error("Failed to create review", slog.Any("error", err))

		return err
	}
	srv.log(ctx).Info("Review created", slog.Int64("review_id", review.ID), slog.Int64("user_id", input.UserID))

	return nil
}

// Update applies a partial edit to a review the caller owns.
// Absence beats ownership: a missing review is 404 even for non-owners.
func (srv *reviewService) Update(ctx context.Context, input usecase.UpdateReviewInput) error {
	review, err := srv.findOwned(ctx, input.UserID, input.ReviewID)
	if err != nil {
		return err
	}

	changed := false
	if input.Title != nil && *input.Title != "" {
		review.Title = *input.Title
		changed = true
	}
	if input.Content != nil && *input.Content != "" {
		review.Content = *input.Content
		changed = true
	}
	if input.Rating != nil {
		review.Rating = *input.Rating
		changed = true
	}
	if !changed {
		return domainerrors.ErrNoUpdatableFields
	}

	if err := srv.reviewRepo.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return domainerrors.ErrReviewNotFound
		}
		srv.log(ctx).Error("Failed to update review", slog.Any("error", err), slog.Int64("review_id", input.ReviewID))

		return errors.Wrap(err, "failed to update review")
	}
	srv.log(ctx).Info("Review updated", slog.Int64("review_id", input.ReviewID))

	return nil
}

// Delete removes a review the caller owns.
func (srv *reviewService) Delete(ctx context.Context, userID, reviewID int64) error {
	if _, err := srv.findOwned(ctx, userID, reviewID); err != nil {
		return err
	}

	if err := srv.reviewRepo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return domainerrors.ErrReviewNotFound
		}
		srv.log(ctx).Error("Failed to delete review", slog.Any("error", err), slog.Int64("review_id", reviewID))

		return errors.Wrap(err, "failed to delete review")
	}
	srv.log(ctx).Info("Review deleted", slog.Int64("review_id", reviewID))

	return nil
}

// findOwned loads a review and verifies the caller wrote it.
func (srv *reviewService) findOwned(ctx context.Context, userID, reviewID int64) (*entity.Review, error) {
	review, err := srv.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, domainerrors.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review")
	}
	if review.UserID != userID {
		return nil, domainerrors.ErrReviewOwnership
	}

	return review, nil
}
