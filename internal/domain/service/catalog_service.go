package service

import "context"

// Performance is the catalog's view of a show, reshaped from the upstream
// XML document.
type Performance struct {
	ID        string // Upstream performance identifier (mt20id).
	Name      string // Performance title (prfnm).
	Genre     string // Genre name (genrenm).
	StartDate string // Run start date, upstream format YYYY.MM.DD (prfpdfrom).
	EndDate   string // Run end date (prfpdto).
	Poster    string // Poster image URL.
	State     string // Run state label (prfstate).
}

// CatalogService is the outbound client for the third-party performance
// catalog. Implementations translate the upstream XML into Performance
// values; no retries, a failed upstream call fails the request.
type CatalogService interface {
	// ListRunning fetches one page of currently running performances.
	ListRunning(ctx context.Context, page, rows int) ([]*Performance, error)

	// ListAllRunning walks every page of currently running performances that
	// started within the recent window. Results may be served from cache.
	ListAllRunning(ctx context.Context, rows int) ([]*Performance, error)

	// Search fetches one page of performances matching a name fragment and
	// an optional upstream category code.
	Search(ctx context.Context, name, categoryCode string, page, rows int) ([]*Performance, error)

	// FindByName resolves a performance by exact name, first match wins.
	// Returns nil when the catalog has no match.
	FindByName(ctx context.Context, name string) (*Performance, error)

	// Detail fetches the full record for a single performance id.
	Detail(ctx context.Context, id string) (*Performance, error)
}
