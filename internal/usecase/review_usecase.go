package usecase

import "context"

// CreateReviewInput defines the data required to write a review.
// All fields are mandatory.
type CreateReviewInput struct {
	UserID          int64
	PerformanceID   string
	PerformanceName string
	Title           string
	Content         string
	Rating          float64
}

// UpdateReviewInput defines a partial review update. Nil fields are left
// untouched; at least one must be set.
type UpdateReviewInput struct {
	UserID   int64
	ReviewID int64
	Title    *string
	Content  *string
	Rating   *float64
}

// ReviewUsecase defines the interface for review business operations.
// Mutations are owner-only: a review that exists but belongs to someone
// else is rejected, not hidden.
type ReviewUsecase interface {
	Create(ctx context.Context, input CreateReviewInput) error
	Update(ctx context.Context, input UpdateReviewInput) error
	Delete(ctx context.Context, userID, reviewID int64) error
}
