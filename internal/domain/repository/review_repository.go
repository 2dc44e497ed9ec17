package repository

import (
	"context"
	"errors"

	"remu/internal/domain/entity"
)

// ErrReviewNotFound is returned when a review does not exist.
var ErrReviewNotFound = errors.New("review not found")

// ReviewWithAuthor pairs a review with its author's nickname for detail pages.
type ReviewWithAuthor struct {
	entity.Review
	AuthorNickname string
}

// PerformanceReviewCount is an aggregation row: review count per performance name.
type PerformanceReviewCount struct {
	PerformanceName string
	ReviewCount     int64
}

// PerformanceRating is an aggregation row: average rating per performance name.
type PerformanceRating struct {
	PerformanceName string
	AverageRating   float64
}

// ReviewRepository defines the standard operations for review persistence,
// including the aggregations the catalog listing endpoints rely on.
type ReviewRepository interface {
	// Create persists a new review.
	Create(ctx context.Context, review *entity.Review) error

	// FindByID retrieves a single review.
	FindByID(ctx context.Context, id int64) (*entity.Review, error)

	// FindByUserID retrieves all reviews written by a user.
	FindByUserID(ctx context.Context, userID int64) ([]*entity.Review, error)

	// FindByPerformanceID retrieves one page of reviews for a performance,
	// joined with the author's nickname.
	FindByPerformanceID(ctx context.Context, performanceID string, limit, offset int) ([]*ReviewWithAuthor, error)

	// CountByPerformanceID returns the total number of reviews for a performance.
	CountByPerformanceID(ctx context.Context, performanceID string) (int64, error)

	// Update modifies an existing review.
	Update(ctx context.Context, review *entity.Review) error

	// Delete removes a review.
	Delete(ctx context.Context, id int64) error

	// AverageRatingByPerformanceID returns the average rating for one
	// performance, or ok=false when it has no reviews.
	AverageRatingByPerformanceID(ctx context.Context, performanceID string) (float64, bool, error)

	// AverageRatingsByPerformanceIDs maps catalog performance ids to their
	// average rating. Performances without reviews are absent from the map.
	AverageRatingsByPerformanceIDs(ctx context.Context, performanceIDs []string) (map[string]float64, error)

	// AverageRatingsByNames maps performance names to their average rating.
	AverageRatingsByNames(ctx context.Context, names []string) (map[string]float64, error)

	// MostReviewed returns performance names ordered by review count desc.
	MostReviewed(ctx context.Context, limit, offset int) ([]*PerformanceReviewCount, error)

	// TopRated returns performance names ordered by average rating desc.
	TopRated(ctx context.Context, limit, offset int) ([]*PerformanceRating, error)
}
