package impl

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"remu/internal/domain/entity"
	"remu/internal/domain/repository"
	"remu/internal/domain/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// --- user repository fake ---

type fakeUserRepo struct {
	users  map[int64]*entity.User
	nextID int64

	failWith error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entity.User), nextID: 1}
}

func (f *fakeUserRepo) seed(user *entity.User) *entity.User {
	if user.ID == 0 {
		user.ID = f.nextID
		f.nextID++
	}
	f.users[user.ID] = user

	return user
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, user := range f.users {
		if user.Email == email {
			clone := *user

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*entity.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if user, ok := f.users[id]; ok {
		clone := *user

		return &clone, nil
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	for _, user := range f.users {
		if user.Email == email && user.ID != excludeID {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeUserRepo) ExistsByNickname(_ context.Context, nickname string, excludeID int64) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	for _, user := range f.users {
		if user.Nickname == nickname && user.ID != excludeID {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	clone := *user
	f.users[user.ID] = &clone

	return nil
}

func (f *fakeUserRepo) UpdateRefreshToken(_ context.Context, email string, token *string) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, user := range f.users {
		if user.Email == email {
			user.RefreshToken = token

			return nil
		}
	}

	return repository.ErrUserNotFound
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, email, digest, salt string) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, user := range f.users {
		if user.Email == email {
			user.PasswordDigest = digest
			user.Salt = salt

			return nil
		}
	}

	return repository.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id int64, email, nickname string) error {
	if f.failWith != nil {
		return f.failWith
	}
	if user, ok := f.users[id]; ok {
		user.Email = email
		user.Nickname = nickname

		return nil
	}

	return repository.ErrUserNotFound
}

func (f *fakeUserRepo) DeleteByEmail(_ context.Context, email string) error {
	if f.failWith != nil {
		return f.failWith
	}
	for id, user := range f.users {
		if user.Email == email {
			delete(f.users, id)

			return nil
		}
	}

	return repository.ErrUserNotFound
}

// --- review repository fake ---

type fakeReviewRepo struct {
	reviews   map[int64]*entity.Review
	nicknames map[int64]string
	nextID    int64

	failWith error
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews:   make(map[int64]*entity.Review),
		nicknames: make(map[int64]string),
		nextID:    1,
	}
}

func (f *fakeReviewRepo) seed(review *entity.Review) *entity.Review {
	if review.ID == 0 {
		review.ID = f.nextID
		f.nextID++
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	f.reviews[review.ID] = review

	return review
}

func (f *fakeReviewRepo) sorted() []*entity.Review {
	ids := make([]int64, 0, len(f.reviews))
	for id := range f.reviews {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	reviews := make([]*entity.Review, 0, len(ids))
	for _, id := range ids {
		reviews = append(reviews, f.reviews[id])
	}

	return reviews
}

func (f *fakeReviewRepo) Create(_ context.Context, review *entity.Review) error {
	if f.failWith != nil {
		return f.failWith
	}
	review.ID = f.nextID
	f.nextID++
	review.CreatedAt = time.Now()
	clone := *review
	f.reviews[review.ID] = &clone

	return nil
}

func (f *fakeReviewRepo) FindByID(_ context.Context, id int64) (*entity.Review, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if review, ok := f.reviews[id]; ok {
		clone := *review

		return &clone, nil
	}

	return nil, repository.ErrReviewNotFound
}

func (f *fakeReviewRepo) FindByUserID(_ context.Context, userID int64) ([]*entity.Review, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var reviews []*entity.Review
	for _, review := range f.sorted() {
		if review.UserID == userID {
			clone := *review
			reviews = append(reviews, &clone)
		}
	}

	return reviews, nil
}

func (f *fakeReviewRepo) FindByPerformanceID(_ context.Context, performanceID string, limit, offset int) ([]*repository.ReviewWithAuthor, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var matched []*repository.ReviewWithAuthor
	for _, review := range f.sorted() {
		if review.PerformanceID == performanceID {
			matched = append(matched, &repository.ReviewWithAuthor{
				Review:         *review,
				AuthorNickname: f.nicknames[review.UserID],
			})
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[offset:end], nil
}

func (f *fakeReviewRepo) CountByPerformanceID(_ context.Context, performanceID string) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	var count int64
	for _, review := range f.reviews {
		if review.PerformanceID == performanceID {
			count++
		}
	}

	return count, nil
}

func (f *fakeReviewRepo) Update(_ context.Context, review *entity.Review) error {
	if f.failWith != nil {
		return f.failWith
	}
	existing, ok := f.reviews[review.ID]
	if !ok {
		return repository.ErrReviewNotFound
	}
	existing.Title = review.Title
	existing.Content = review.Content
	existing.Rating = review.Rating

	return nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.reviews[id]; !ok {
		return repository.ErrReviewNotFound
	}
	delete(f.reviews, id)

	return nil
}

func (f *fakeReviewRepo) AverageRatingByPerformanceID(_ context.Context, performanceID string) (float64, bool, error) {
	if f.failWith != nil {
		return 0, false, f.failWith
	}
	var sum float64
	var count int64
	for _, review := range f.reviews {
		if review.PerformanceID == performanceID {
			sum += review.Rating
			count++
		}
	}
	if count == 0 {
		return 0, false, nil
	}

	return sum / float64(count), true, nil
}

func (f *fakeReviewRepo) AverageRatingsByPerformanceIDs(ctx context.Context, performanceIDs []string) (map[string]float64, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	ratings := make(map[string]float64)
	for _, id := range performanceIDs {
		if avg, ok, _ := f.AverageRatingByPerformanceID(ctx, id); ok {
			ratings[id] = avg
		}
	}

	return ratings, nil
}

func (f *fakeReviewRepo) AverageRatingsByNames(_ context.Context, names []string) (map[string]float64, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	ratings := make(map[string]float64)
	for _, name := range names {
		var sum float64
		var count int64
		for _, review := range f.reviews {
			if review.PerformanceName == name {
				sum += review.Rating
				count++
			}
		}
		if count > 0 {
			ratings[name] = sum / float64(count)
		}
	}

	return ratings, nil
}

func (f *fakeReviewRepo) MostReviewed(_ context.Context, limit, offset int) ([]*repository.PerformanceReviewCount, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	counts := make(map[string]int64)
	for _, review := range f.reviews {
		counts[review.PerformanceName]++
	}
	rows := make([]*repository.PerformanceReviewCount, 0, len(counts))
	for name, count := range counts {
		rows = append(rows, &repository.PerformanceReviewCount{PerformanceName: name, ReviewCount: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ReviewCount != rows[j].ReviewCount {
			return rows[i].ReviewCount > rows[j].ReviewCount
		}

		return rows[i].PerformanceName < rows[j].PerformanceName
	})

	return paginate(rows, limit, offset), nil
}

func (f *fakeReviewRepo) TopRated(ctx context.Context, limit, offset int) ([]*repository.PerformanceRating, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	names := make(map[string]struct{})
	for _, review := range f.reviews {
		names[review.PerformanceName] = struct{}{}
	}
	nameList := make([]string, 0, len(names))
	for name := range names {
		nameList = append(nameList, name)
	}
	ratings, _ := f.AverageRatingsByNames(ctx, nameList)

	rows := make([]*repository.PerformanceRating, 0, len(ratings))
	for name, avg := range ratings {
		rows = append(rows, &repository.PerformanceRating{PerformanceName: name, AverageRating: avg})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AverageRating != rows[j].AverageRating {
			return rows[i].AverageRating > rows[j].AverageRating
		}

		return rows[i].PerformanceName < rows[j].PerformanceName
	})

	return paginate(rows, limit, offset), nil
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}

	return rows[offset:end]
}

// --- transaction manager fake ---

type fakeFactory struct {
	userRepo   *fakeUserRepo
	reviewRepo *fakeReviewRepo
}

func (f *fakeFactory) UserRepo() repository.UserRepository     { return f.userRepo }
func (f *fakeFactory) ReviewRepo() repository.ReviewRepository { return f.reviewRepo }

// fakeTxManager runs the callback against the shared fakes; there is no
// rollback, which the tests account for.
type fakeTxManager struct {
	factory *fakeFactory
}

func (f *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(f.factory)
}

// --- password hasher fake ---

// fakeHasher derives digests by concatenation, deterministic and cheap.
type fakeHasher struct {
	saltSeq int
}

func (f *fakeHasher) GenerateSalt() (string, error) {
	f.saltSeq++

	return fmt.Sprintf("salt-%d", f.saltSeq), nil
}

func (f *fakeHasher) Hash(password, salt string) string {
	return password + "|" + salt
}

func (f *fakeHasher) Verify(password, salt, digest string) bool {
	return f.Hash(password, salt) == digest
}

// --- token service fake ---

type fakeTokens struct {
	issueErr error
}

func (f *fakeTokens) IssueAccessToken(userID int64, email string) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}

	return fmt.Sprintf("access-%d-%s", userID, email), nil
}

func (f *fakeTokens) IssueRefreshToken(userID int64, email string) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}

	return fmt.Sprintf("refresh-%d-%s", userID, email), nil
}

func (f *fakeTokens) VerifyToken(string) (*service.Claims, error) {
	return nil, service.ErrTokenInvalid
}

func (f *fakeTokens) AccessTokenTTL() time.Duration  { return time.Hour }
func (f *fakeTokens) RefreshTokenTTL() time.Duration { return 7 * 24 * time.Hour }

// --- catalog fake ---

type fakeCatalog struct {
	pages      map[int][]*service.Performance
	all        []*service.Performance
	searchHits []*service.Performance
	byName     map[string]*service.Performance
	byID       map[string]*service.Performance

	failWith error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		pages:  make(map[int][]*service.Performance),
		byName: make(map[string]*service.Performance),
		byID:   make(map[string]*service.Performance),
	}
}

func (f *fakeCatalog) ListRunning(_ context.Context, page, _ int) ([]*service.Performance, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}

	return f.pages[page], nil
}

func (f *fakeCatalog) ListAllRunning(_ context.Context, _ int) ([]*service.Performance, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}

	return f.all, nil
}

func (f *fakeCatalog) Search(_ context.Context, _, _ string, _, _ int) ([]*service.Performance, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}

	return f.searchHits, nil
}

func (f *fakeCatalog) FindByName(_ context.Context, name string) (*service.Performance, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}

	return f.byName[name], nil
}

func (f *fakeCatalog) Detail(_ context.Context, id string) (*service.Performance, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}

	return f.byID[id], nil
}
