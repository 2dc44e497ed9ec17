package usecase

import (
	"context"
	"time"
)

// Sort orders for the main listing.
const (
	SortDefault  = "default"
	SortLatest   = "latest"
	SortPopular  = "popular"
	SortTopRated = "topRated"
)

// ListedPerformance is one row of the main listing: catalog data annotated
// with review aggregates.
type ListedPerformance struct {
	Poster      string  `json:"poster"`
	Name        string  `json:"prfnm"`
	Rating      float64 `json:"rating"`
	ReviewCount *int64  `json:"reviewCount,omitempty"`
	StartDate   string  `json:"stdate,omitempty"`
}

// SearchResult is one row of the search listing.
type SearchResult struct {
	Poster        string  `json:"poster"`
	PerformanceID string  `json:"pf_id"`
	Name          string  `json:"prfnm"`
	Rating        float64 `json:"rating"`
}

// SearchOutput carries one page of search results plus the echo of the
// query and a next-page hint.
type SearchOutput struct {
	Text       string
	Category   string
	Page       int
	TotalPages int
	LastPage   bool
	Results    []*SearchResult
}

// PerformanceDetail is the detail view of one performance.
type PerformanceDetail struct {
	Name      string   `json:"prfnm"`
	Genre     string   `json:"genrenm"`
	StartDate string   `json:"prfpdfrom"`
	EndDate   string   `json:"prfpdto"`
	Poster    string   `json:"poster"`
	State     string   `json:"prfstate"`
	RatingAvg *float64 `json:"rating_avg"`
}

// ReviewView is one review row on the detail page.
type ReviewView struct {
	ReviewID       int64     `json:"review_id"`
	AuthorNickname string    `json:"user_nickname"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Rating         float64   `json:"rating"`
	CreatedAt      time.Time `json:"created_at"`
}

// DetailOutput pairs the performance record with one page of its reviews.
type DetailOutput struct {
	Performance *PerformanceDetail
	Page        int
	TotalPages  int
	Reviews     []*ReviewView
}

// CatalogUsecase defines the read-only catalog surface: listing, search
// and detail, each annotated with review aggregates.
type CatalogUsecase interface {
	// List returns one page of the main listing in the given sort order.
	// Unknown sort values fall back to the default order.
	List(ctx context.Context, sortBy string, page, rows int) ([]*ListedPerformance, error)

	// Search queries the catalog by name fragment and category label.
	Search(ctx context.Context, text, category string, page int) (*SearchOutput, error)

	// Detail returns one performance with a page of its reviews.
	Detail(ctx context.Context, performanceID string, page int) (*DetailOutput, error)
}
