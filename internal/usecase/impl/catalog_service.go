package impl

import (
	"context"
	"log/slog"
	"math"
	"sort"

	deliverycontext "remu/internal/delivery/context"
	domainerrors "remu/internal/domain/errors"
	"remu/internal/domain/repository"
	"remu/internal/domain/service"
	"remu/internal/usecase"

	"github.com/pkg/errors"
)

const (
	searchRowsPerPage    = 10
	detailReviewsPerPage = 5

	// Rows fetched per upstream page during a full listing walk.
	listWalkRows = 100
)

// categoryCodes maps user-facing category labels to upstream genre codes.
// The empty code means no category filter.
var categoryCodes = map[string]string{
	"전체":     "",
	"연극":     "AAAA",
	"무용":     "BBBC",
	"대중무용":   "BBBE",
	"서양음악":   "CCCA",
	"한국음악":   "CCCC",
	"대중음악":   "CCCD",
	"복합":     "EEEA",
	"서커스/마술": "EEEB",
	"뮤지컬":    "GGGA",
}

// catalogService implements the CatalogUsecase interface. It merges the
// upstream catalog with review aggregates from the local store.
type catalogService struct {
	catalog    service.CatalogService
	reviewRepo repository.ReviewRepository
	logger     *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(
	catalog service.CatalogService,
	reviewRepo repository.ReviewRepository,
	logger *slog.Logger,
) usecase.CatalogUsecase {
	return &catalogService{
		catalog:    catalog,
		reviewRepo: reviewRepo,
		logger:     logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List returns one page of the main listing in the given sort order.
func (srv *catalogService) List(ctx context.Context, sortBy string, page, rows int) ([]*usecase.ListedPerformance, error) {
	switch sortBy {
	case usecase.SortLatest:
		return srv.listLatest(ctx, page, rows)
	case usecase.SortPopular:
		return srv.listPopular(ctx, page, rows)
	case usecase.SortTopRated:
		return srv.listTopRated(ctx, page, rows)
	default:
		return srv.listDefault(ctx, page, rows)
	}
}

// listDefault serves the upstream's own page order, annotated with average
// ratings keyed by performance name.
func (srv *catalogService) listDefault(ctx context.Context, page, rows int) ([]*usecase.ListedPerformance, error) {
	performances, err := srv.catalog.ListRunning(ctx, page, rows)
	if err != nil {
		srv.log(ctx).Error("Catalog listing failed", slog.Any("error", err))

		return nil, domainerrors.ErrCatalogUnavailable
	}

	names := make([]string, 0, len(performances))
	for _, p := range performances {
		names = append(names, p.Name)
	}
	ratings, err := srv.reviewRepo.AverageRatingsByNames(ctx, names)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load ratings")
	}

	listed := make([]*usecase.ListedPerformance, 0, len(performances))
	for _, p := range performances {
		listed = append(listed, &usecase.ListedPerformance{
			Poster:    p.Poster,
			Name:      p.Name,
			Rating:    roundRating(ratings[p.Name]),
			StartDate: p.StartDate,
		})
	}

	return listed, nil
}

// listLatest fetches the full running listing, sorts by start date desc and
// paginates locally; the upstream cannot sort by recency itself.
func (srv *catalogService) listLatest(ctx context.Context, page, rows int) ([]*usecase.ListedPerformance, error) {
	all, err := srv.catalog.ListAllRunning(ctx, listWalkRows)
	if err != nil {
		srv.log(ctx).Error("Catalog walk failed", slog.Any("error", err))

		return nil, domainerrors.ErrCatalogUnavailable
	}

	sorted := make([]*service.Performance, len(all))
	copy(sorted, all)
	// Upstream dates are YYYY.MM.DD, so lexicographic order is date order.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate > sorted[j].StartDate
	})

	start := (page - 1) * rows
	if start >= len(sorted) {
		return []*usecase.ListedPerformance{}, nil
	}
	end := start + rows
	if end > len(sorted) {
		end = len(sorted)
	}
	pageItems := sorted[start:end]

	names := make([]string, 0, len(pageItems))
	for _, p := range pageItems {
		names = append(names, p.Name)
	}
	ratings, err := srv.reviewRepo.AverageRatingsByNames(ctx, names)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load ratings")
	}

	listed := make([]*usecase.ListedPerformance, 0, len(pageItems))
	for _, p := range pageItems {
		listed = append(listed, &usecase.ListedPerformance{
			Poster:    p.Poster,
			Name:      p.Name,
			Rating:    roundRating(ratings[p.Name]),
			StartDate: p.StartDate,
		})
	}

	return listed, nil
}

// listPopular pages the review store by review count and resolves catalog
// details per performance name.
func (srv *catalogService) listPopular(ctx context.Context, page, rows int) ([]*usecase.ListedPerformance, error) {
	counts, err := srv.reviewRepo.MostReviewed(ctx, rows, (page-1)*rows)
	if err != nil {
		return nil, errors.Wrap(err, "failed to rank performances")
	}
	if len(counts) == 0 {
		return []*usecase.ListedPerformance{}, nil
	}

	names := make([]string, 0, len(counts))
	countByName := make(map[string]int64, len(counts))
	for _, row := range counts {
		names = append(names, row.PerformanceName)
		countByName[row.PerformanceName] = row.ReviewCount
	}

	ratings, err := srv.reviewRepo.AverageRatingsByNames(ctx, names)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load ratings")
	}

	listed := make([]*usecase.ListedPerformance, 0, len(names))
	for _, name := range names {
		performance, err := srv.catalog.FindByName(ctx, name)
		if err != nil {
			srv.log(ctx).Error("Catalog lookup failed", slog.Any("error", err), slog.String("name", name))

			return nil, domainerrors.ErrCatalogUnavailable
		}
		if performance == nil {
			// Reviewed show no longer running upstream; skip it.
			continue
		}

		count := countByName[name]
		listed = append(listed, &usecase.ListedPerformance{
			Poster:      performance.Poster,
			Name:        performance.Name,
			Rating:      roundRating(ratings[name]),
			ReviewCount: &count,
		})
	}

	return listed, nil
}

// listTopRated pages the review store by average rating.
func (srv *catalogService) listTopRated(ctx context.Context, page, rows int) ([]*usecase.ListedPerformance, error) {
	rated, err := srv.reviewRepo.TopRated(ctx, rows, (page-1)*rows)
	if err != nil {
		return nil, errors.Wrap(err, "failed to rank performances")
	}
	if len(rated) == 0 {
		return []*usecase.ListedPerformance{}, nil
	}

	listed := make([]*usecase.ListedPerformance, 0, len(rated))
	for _, row := range rated {
		performance, err := srv.catalog.FindByName(ctx, row.PerformanceName)
		if err != nil {
			srv.log(ctx).Error("Catalog lookup failed", slog.Any("error", err), slog.String("name", row.PerformanceName))

			return nil, domainerrors.ErrCatalogUnavailable
		}
		if performance == nil {
			continue
		}

		listed = append(listed, &usecase.ListedPerformance{
			Poster: performance.Poster,
			Name:   performance.Name,
			Rating: roundRating(row.AverageRating),
		})
	}

	return listed, nil
}

// Search queries the catalog by name fragment and category label.
// The upstream does not report a total count, so a full page implies a
// possible next page and a short page is the last one.
func (srv *catalogService) Search(ctx context.Context, text, category string, page int) (*usecase.SearchOutput, error) {
	if category == "" {
		category = "전체"
	}
	code, ok := categoryCodes[category]
	if !ok {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown category")
	}

	performances, err := srv.catalog.Search(ctx, text, code, page, searchRowsPerPage)
	if err != nil {
		srv.log(ctx).Error("Catalog search failed", slog.Any("error", err))

		return nil, domainerrors.ErrCatalogUnavailable
	}

	output := &usecase.SearchOutput{
		Text:     text,
		Category: category,
		Page:     page,
		Results:  []*usecase.SearchResult{},
	}
	if len(performances) == 0 {
		output.LastPage = true

		return output, nil
	}

	ids := make([]string, 0, len(performances))
	for _, p := range performances {
		ids = append(ids, p.ID)
	}
	ratings, err := srv.reviewRepo.AverageRatingsByPerformanceIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load ratings")
	}

	for _, p := range performances {
		output.Results = append(output.Results, &usecase.SearchResult{
			Poster:        p.Poster,
			PerformanceID: p.ID,
			Name:          p.Name,
			Rating:        roundRating(ratings[p.ID]),
		})
	}

	if len(performances) < searchRowsPerPage {
		output.TotalPages = page
		output.LastPage = true
	} else {
		output.TotalPages = page + 1
	}

	return output, nil
}

// Detail returns one performance with a page of its reviews.
func (srv *catalogService) Detail(ctx context.Context, performanceID string, page int) (*usecase.DetailOutput, error) {
	performance, err := srv.catalog.Detail(ctx, performanceID)
	if err != nil {
		srv.log(ctx).Error("Catalog detail failed", slog.Any("error", err), slog.String("performance_id", performanceID))

		return nil, domainerrors.ErrCatalogUnavailable
	}
	if performance == nil {
		return nil, domainerrors.ErrCatalogUnavailable.WithDetails("performance not found upstream")
	}

	detail := &usecase.PerformanceDetail{
		Name:      performance.Name,
		Genre:     performance.Genre,
		StartDate: performance.StartDate,
		EndDate:   performance.EndDate,
		Poster:    performance.Poster,
		State:     performance.State,
	}

	if avg, ok, err := srv.reviewRepo.AverageRatingByPerformanceID(ctx, performanceID); err != nil {
		return nil, errors.Wrap(err, "failed to average ratings")
	} else if ok {
		rounded := roundRating(avg)
		detail.RatingAvg = &rounded
	}

	offset := (page - 1) * detailReviewsPerPage
	rows, err := srv.reviewRepo.FindByPerformanceID(ctx, performanceID, detailReviewsPerPage, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load reviews")
	}

	total, err := srv.reviewRepo.CountByPerformanceID(ctx, performanceID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count reviews")
	}

	reviews := make([]*usecase.ReviewView, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, &usecase.ReviewView{
			ReviewID:       row.ID,
			AuthorNickname: row.AuthorNickname,
			Title:          row.Title,
			Content:        row.Content,
			Rating:         row.Rating,
			CreatedAt:      row.CreatedAt,
		})
	}

	return &usecase.DetailOutput{
		Performance: detail,
		Page:        page,
		TotalPages:  int(math.Ceil(float64(total) / float64(detailReviewsPerPage))),
		Reviews:     reviews,
	}, nil
}

// roundRating keeps one decimal place, matching how ratings are displayed.
func roundRating(rating float64) float64 {
	return math.Round(rating*10) / 10
}
