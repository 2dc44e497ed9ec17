package entity

import "time"

// Review is a user-submitted review of a catalog performance.
// PerformanceID refers to the external catalog's identifier; PerformanceName
// is denormalized so listing aggregations don't need catalog round trips.
type Review struct {
	ID              int64
	UserID          int64
	PerformanceID   string
	PerformanceName string
	Title           string
	Content         string
	Rating          float64
	CreatedAt       time.Time
}
