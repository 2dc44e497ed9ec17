package impl

import (
	"context"
	"testing"

	"remu/internal/domain/entity"
	domainerrors "remu/internal/domain/errors"
	"remu/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestReviewService(t *testing.T) (usecase.ReviewUsecase, *fakeReviewRepo) {
	t.Helper()

	reviewRepo := newFakeReviewRepo()
	service := NewReviewService(reviewRepo, discardLogger())

	return service, reviewRepo
}

func TestReviewService_Create_Success(t *testing.T) {
	service, reviewRepo := createTestReviewService(t)

	err := service.Create(context.Background(), usecase.CreateReviewInput{
		UserID:          1,
		PerformanceID:   "PF100001",
		PerformanceName: "Hamlet",
		Title:           "Stunning",
		Content:         "Saw it twice.",
		Rating:          4.5,
	})

	require.NoError(t, err)

	reviews, err := reviewRepo.FindByUserID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Stunning", reviews[0].Title)
	assert.False(t, reviews[0].CreatedAt.IsZero())
}

func TestReviewService_Create_MissingField(t *testing.T) {
	service, _ := createTestReviewService(t)

	err := service.Create(context.Background(), usecase.CreateReviewInput{
		UserID:          1,
		PerformanceID:   "PF100001",
		PerformanceName: "Hamlet",
		Title:           "Stunning",
		// Content missing.
		Rating: 4.5,
	})
	assert.ErrorIs(t, err, domainerrors.ErrEmptyFields)
}

func TestReviewService_Update_PartialFields(t *testing.T) {
	service, reviewRepo := createTestReviewService(t)
	seeded := reviewRepo.seed(&entity.Review{
		UserID: 1, PerformanceID: "PF1", PerformanceName: "Hamlet",
		Title: "old title", Content: "old content", Rating: 3,
	})

	newRating := 5.0
	err := service.Update(context.Background(), usecase.UpdateReviewInput{
		UserID:   1,
		ReviewID: seeded.ID,
		Rating:   &newRating,
	})
	require.NoError(t, err)

	updated, err := reviewRepo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, updated.Rating)
	// Untouched fields survive a partial update.
	assert.Equal(t, "old title", updated.Title)
	assert.Equal(t, "old content", updated.Content)
}

func TestReviewService_Update_NoUpdatableFields(t *testing.T) {
	service, reviewRepo := createTestReviewService(t)
	seeded := reviewRepo.seed(&entity.Review{UserID: 1, PerformanceID: "PF1", PerformanceName: "Hamlet", Title: "t", Content: "c", Rating: 3})

	err := service.Update(context.Background(), usecase.UpdateReviewInput{
		UserID:   1,
		ReviewID: seeded.ID,
	})
	assert.ErrorIs(t, err, domainerrors.ErrNoUpdatableFields)
}

func TestReviewService_Update_NotFoundBeatsOwnership(t *testing.T) {
	service, _ := createTestReviewService(t)

	title := "anything"
	err := service.Update(context.Background(), usecase.UpdateReviewInput{
		UserID:   99,
		ReviewID: 12345,
		Title:    &title,
	})
	// A missing review is 404 regardless of who asks.
	assert.ErrorIs(t, err, domainerrors.ErrReviewNotFound)
}

func TestReviewService_Update_Forbidden(t *testing.T) {
	service, reviewRepo := createTestReviewService(t)
	seeded := reviewRepo.seed(&entity.Review{UserID: 1, PerformanceID: "PF1", PerformanceName: "Hamlet", Title: "t", Content: "c", Rating: 3})

	title := "hijacked"
	err := service.Update(context.Background(), usecase.UpdateReviewInput{
		UserID:   2,
		ReviewID: seeded.ID,
		Title:    &title,
	})
	assert.ErrorIs(t, err, domainerrors.ErrReviewOwnership)
}

func TestReviewService_Delete(t *testing.T) {
	service, reviewRepo := createTestReviewService(t)
	seeded := reviewRepo.seed(&entity.Review{UserID: 1, PerformanceID: "PF1", PerformanceName: "Hamlet", Title: "t", Content: "c", Rating: 3})

	assert.ErrorIs(t, service.Delete(context.Background(), 2, seeded.ID), domainerrors.ErrReviewOwnership)
	assert.ErrorIs(t, service.Delete(context.Background(), 1, 999), domainerrors.ErrReviewNotFound)

	require.NoError(t, service.Delete(context.Background(), 1, seeded.ID))
	_, err := reviewRepo.FindByID(context.Background(), seeded.ID)
	assert.Error(t, err)
}
