package postgres

import (
	"context"

	"remu/internal/domain/entity"
	domainerrors "remu/internal/domain/errors"
	"remu/internal/domain/repository"
	"remu/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// reviewRepository implements the repository.ReviewRepository interface using GORM.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

// Create persists a new review and writes the generated ID and timestamp back.
func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := model.ReviewModelFromEntity(review)

	if err := repo.db.WithContext(ctx).Create(reviewM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrAccountNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}

	review.ID = reviewM.ReviewID
	review.CreatedAt = reviewM.CreatedAt

	return nil
}

// FindByID retrieves a single review by its primary key.
func (repo *reviewRepository) FindByID(ctx context.Context, id int64) (*entity.Review, error) {
	var reviewM model.ReviewModel
	if err := repo.db.WithContext(ctx).Where("review_id = ?", id).First(&reviewM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by id")
	}

	return reviewM.ToEntity(), nil
}

// FindByUserID retrieves all reviews written by a user, newest first.
func (repo *reviewRepository) FindByUserID(ctx context.Context, userID int64) ([]*entity.Review, error) {
	var reviewMs []model.ReviewModel
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviewMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find reviews by user")
	}

	reviews := make([]*entity.Review, 0, len(reviewMs))
	for i := range reviewMs {
		reviews = append(reviews, reviewMs[i].ToEntity())
	}

	return reviews, nil
}

// reviewWithAuthorRow is the scan target for the reviews-with-nickname join.
type reviewWithAuthorRow struct {
	model.ReviewModel
	Nickname string
}

// FindByPerformanceID retrieves one page of reviews for a performance,
// joined with the author's nickname, newest first.
func (repo *reviewRepository) FindByPerformanceID(ctx context.Context, performanceID string, limit, offset int) ([]*repository.ReviewWithAuthor, error) {
	var rows []reviewWithAuthorRow
	if err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("reviews.*, users.nickname").
		Joins("JOIN users ON users.user_id = reviews.user_id").
		Where("reviews.pf_id = ?", performanceID).
		Order("reviews.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find reviews by performance")
	}

	results := make([]*repository.ReviewWithAuthor, 0, len(rows))
	for i := range rows {
		results = append(results, &repository.ReviewWithAuthor{
			Review:         *rows[i].ToEntity(),
			AuthorNickname: rows[i].Nickname,
		})
	}

	return results, nil
}

// CountByPerformanceID returns the total number of reviews for a performance.
func (repo *reviewRepository) CountByPerformanceID(ctx context.Context, performanceID string) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("pf_id = ?", performanceID).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count reviews")
	}

	return count, nil
}

// Update rewrites the mutable fields of a review.
func (repo *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	result := repo.db.WithContext(ctx).Model(&model.ReviewModel{}).
		Where("review_id = ?", review.ID).
		Updates(map[string]any{
			"title":   review.Title,
			"content": review.Content,
			"rating":  review.Rating,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update review")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// Delete removes a review by its primary key.
func (repo *reviewRepository) Delete(ctx context.Context, id int64) error {
	result := repo.db.WithContext(ctx).Where("review_id = ?", id).Delete(&model.ReviewModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete review")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// AverageRatingByPerformanceID returns the average rating for one performance.
// ok is false when the performance has no reviews yet.
func (repo *reviewRepository) AverageRatingByPerformanceID(ctx context.Context, performanceID string) (float64, bool, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	if err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("pf_id = ?", performanceID).
		Scan(&row).Error; err != nil {
		return 0, false, errors.Wrap(err, "failed to average ratings")
	}

	return row.Avg, row.Count > 0, nil
}

type ratingByKeyRow struct {
	Key string
	Avg float64
}

// AverageRatingsByPerformanceIDs maps performance ids to their average rating.
func (repo *reviewRepository) AverageRatingsByPerformanceIDs(ctx context.Context, performanceIDs []string) (map[string]float64, error) {
	if len(performanceIDs) == 0 {
		return map[string]float64{}, nil
	}

	var rows []ratingByKeyRow
	if err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("pf_id AS key, AVG(rating) AS avg").
		Where("pf_id IN ?", performanceIDs).
		Group("pf_id").
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to average ratings by performance ids")
	}

	return ratingsToMap(rows), nil
}

// AverageRatingsByNames maps performance names to their average rating.
func (repo *reviewRepository) AverageRatingsByNames(ctx context.Context, names []string) (map[string]float64, error) {
	if len(names) == 0 {
		return map[string]float64{}, nil
	}

	var rows []ratingByKeyRow
	if err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("prfnm AS key, AVG(rating) AS avg").
		Where("prfnm IN ?", names).
		Group("prfnm").
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to average ratings by names")
	}

	return ratingsToMap(rows), nil
}

// MostReviewed returns performance names ordered by review count desc.
func (repo *reviewRepository) MostReviewed(ctx context.Context, limit, offset int) ([]*repository.PerformanceReviewCount, error) {
	var rows []struct {
		Prfnm string
		Count int64
	}
	if err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("prfnm, COUNT(*) AS count").
		Group("prfnm").
		Order("count DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to rank by review count")
	}

	results := make([]*repository.PerformanceReviewCount, 0, len(rows))
	for _, row := range rows {
		results = append(results, &repository.PerformanceReviewCount{
			PerformanceName: row.Prfnm,
			ReviewCount:     row.Count,
		})
	}

	return results, nil
}

// TopRated returns performance names ordered by average rating desc.
func (repo *reviewRepository) TopRated(ctx context.Context, limit, offset int) ([]*repository.PerformanceRating, error) {
	var rows []struct {
		Prfnm string
		Avg   float64
	}
	if err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("prfnm, AVG(rating) AS avg").
		Group("prfnm").
		Order("avg DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to rank by rating")
	}

	results := make([]*repository.PerformanceRating, 0, len(rows))
	for _, row := range rows {
		results = append(results, &repository.PerformanceRating{
			PerformanceName: row.Prfnm,
			AverageRating:   row.Avg,
		})
	}

	return results, nil
}

func ratingsToMap(rows []ratingByKeyRow) map[string]float64 {
	ratings := make(map[string]float64, len(rows))
	for _, row := range rows {
		ratings[row.Key] = row.Avg
	}

	return ratings
}
