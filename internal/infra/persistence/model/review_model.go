package model

import (
	"time"

	"remu/internal/domain/entity"
)

// ReviewModel mirrors the 'reviews' table. Column names follow the
// upstream catalog API fields (pf_id, prfnm) so rows line up with the
// performance records they describe.
type ReviewModel struct {
	ReviewID        int64   `gorm:"column:review_id;primaryKey;autoIncrement"`
	UserID          int64   `gorm:"column:user_id;not null;index"`
	PerformanceID   string  `gorm:"column:pf_id;type:varchar(32);not null;index"`
	PerformanceName string  `gorm:"column:prfnm;type:varchar(255);not null"`
	Title           string  `gorm:"type:varchar(255);not null"`
	Content         string  `gorm:"type:text;not null"`
	Rating          float64 `gorm:"not null"`
	CreatedAt       time.Time

	User *UserModel `gorm:"foreignKey:UserID;references:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}

// ToEntity converts the persistence model to a domain entity.
func (m *ReviewModel) ToEntity() *entity.Review {
	return &entity.Review{
		ID:              m.ReviewID,
		UserID:          m.UserID,
		PerformanceID:   m.PerformanceID,
		PerformanceName: m.PerformanceName,
		Title:           m.Title,
		Content:         m.Content,
		Rating:          m.Rating,
		CreatedAt:       m.CreatedAt,
	}
}

// ReviewModelFromEntity converts a domain entity to its persistence model.
func ReviewModelFromEntity(review *entity.Review) *ReviewModel {
	return &ReviewModel{
		ReviewID:        review.ID,
		UserID:          review.UserID,
		PerformanceID:   review.PerformanceID,
		PerformanceName: review.PerformanceName,
		Title:           review.Title,
		Content:         review.Content,
		Rating:          review.Rating,
		CreatedAt:       review.CreatedAt,
	}
}
