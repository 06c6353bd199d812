package services

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/hirewire/hirewire/internal/models"
	pgrepo "github.com/hirewire/hirewire/internal/repositories/postgres"
	"github.com/hirewire/hirewire/internal/utils"
	"gorm.io/gorm"
)

func TestScoreMatchesWeighting(t *testing.T) {
	t.Parallel()

	// user tags [(A,0),(B,1)], vacancy tags [(A,0),(B,1),(C,2)]:
	// (1/1+1/1) + (1/2+1/2) = 3 under 1-based ranks
	rows := []pgrepo.MatchRow{
		{VacancyID: 7, UserPosition: 0, VacancyPosition: 0},
		{VacancyID: 7, UserPosition: 1, VacancyPosition: 1},
	}

	got := scoreMatches(rows)
	if len(got) != 1 {
		t.Fatalf("expected 1 scored vacancy, got %d", len(got))
	}
	if got[0].VacancyID != 7 {
		t.Fatalf("expected vacancy 7, got %d", got[0].VacancyID)
	}
	if math.Abs(got[0].Score-3.0) > 1e-9 {
		t.Fatalf("expected score 3.0, got %f", got[0].Score)
	}
}

func TestScoreMatchesTopRankDoesNotDivideByZero(t *testing.T) {
	t.Parallel()

	rows := []pgrepo.MatchRow{
		{VacancyID: 1, UserPosition: 0, VacancyPosition: 0},
	}

	got := scoreMatches(rows)
	if math.IsInf(got[0].Score, 0) || math.IsNaN(got[0].Score) {
		t.Fatalf("rank-0 produced a non-finite score: %f", got[0].Score)
	}
	if math.Abs(got[0].Score-2.0) > 1e-9 {
		t.Fatalf("expected score 2.0 for two top ranks, got %f", got[0].Score)
	}
}

func TestScoreMatchesOrderingAndTieBreak(t *testing.T) {
	t.Parallel()

	rows := []pgrepo.MatchRow{
		// vacancy 5: 1/1 + 1/1 = 2
		{VacancyID: 5, UserPosition: 0, VacancyPosition: 0},
		// vacancy 9: 1/2 + 1/2 = 1
		{VacancyID: 9, UserPosition: 1, VacancyPosition: 1},
		// vacancy 3: 1/2 + 1/2 = 1 -> ties with 9, lower id first
		{VacancyID: 3, UserPosition: 1, VacancyPosition: 1},
	}

	got := scoreMatches(rows)
	if len(got) != 3 {
		t.Fatalf("expected 3 scored vacancies, got %d", len(got))
	}
	wantOrder := []uint{5, 3, 9}
	for i, entry := range got {
		if entry.VacancyID != wantOrder[i] {
			t.Fatalf("expected vacancy %d at rank %d, got %d", wantOrder[i], i, entry.VacancyID)
		}
	}
}

func TestScoreMatchesEmpty(t *testing.T) {
	t.Parallel()

	if got := scoreMatches(nil); len(got) != 0 {
		t.Fatalf("expected no scores for no overlap, got %+v", got)
	}
}

type fakeVacancyRepo struct {
	vacancies map[uint]*models.Vacancy
	matchRows []pgrepo.MatchRow
}

func newFakeVacancyRepo() *fakeVacancyRepo {
	return &fakeVacancyRepo{vacancies: make(map[uint]*models.Vacancy)}
}

func (r *fakeVacancyRepo) Create(ctx context.Context, v *models.Vacancy) error {
	v.ID = uint(len(r.vacancies) + 1)
	r.vacancies[v.ID] = v
	return nil
}

func (r *fakeVacancyRepo) GetByID(ctx context.Context, id uint) (*models.Vacancy, error) {
	v, ok := r.vacancies[id]
	if !ok || v.DeletedAt.Valid {
		return nil, utils.ErrNotFound
	}
	return v, nil
}

func (r *fakeVacancyRepo) GetAnyByID(ctx context.Context, id uint) (*models.Vacancy, error) {
	v, ok := r.vacancies[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return v, nil
}

func (r *fakeVacancyRepo) GetByIDs(ctx context.Context, ids []uint) ([]models.Vacancy, error) {
	var out []models.Vacancy
	for _, id := range ids {
		if v, ok := r.vacancies[id]; ok && !v.DeletedAt.Valid {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeVacancyRepo) List(ctx context.Context) ([]models.Vacancy, error) {
	var out []models.Vacancy
	for _, v := range r.vacancies {
		if !v.DeletedAt.Valid {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeVacancyRepo) ListByCreator(ctx context.Context, userID string) ([]models.Vacancy, error) {
	var out []models.Vacancy
	for _, v := range r.vacancies {
		if v.CreatedBy == userID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeVacancyRepo) SoftDelete(ctx context.Context, id uint) error { return nil }
func (r *fakeVacancyRepo) Restore(ctx context.Context, id uint) error    { return nil }

func (r *fakeVacancyRepo) MatchRows(ctx context.Context, userID string) ([]pgrepo.MatchRow, error) {
	return r.matchRows, nil
}

// fakeFeedCache stores JSON blobs in memory, ignoring TTLs.
type fakeFeedCache struct {
	entries map[string][]byte
	sets    int
}

func newFakeFeedCache() *fakeFeedCache {
	return &fakeFeedCache{entries: map[string][]byte{}}
}

func (c *fakeFeedCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeFeedCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.entries[key] = b
	c.sets++
	return nil
}

func (c *fakeFeedCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func TestPersonalizedFeedOrdersVacancies(t *testing.T) {
	t.Parallel()

	repo := newFakeVacancyRepo()
	repo.vacancies[1] = &models.Vacancy{ID: 1, Name: "weak match"}
	repo.vacancies[2] = &models.Vacancy{ID: 2, Name: "strong match"}
	repo.matchRows = []pgrepo.MatchRow{
		{VacancyID: 1, UserPosition: 2, VacancyPosition: 2},
		{VacancyID: 2, UserPosition: 0, VacancyPosition: 0},
	}

	svc := NewVacancyService(repo, nil, nil)
	feed, err := svc.PersonalizedFeed(context.Background(), "user-1", FeedQuery{})
	if err != nil {
		t.Fatalf("PersonalizedFeed error: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(feed))
	}
	if feed[0].Vacancy.ID != 2 || feed[1].Vacancy.ID != 1 {
		t.Fatalf("feed not ordered by match score: %+v", feed)
	}
	if feed[0].MatchScore <= feed[1].MatchScore {
		t.Fatalf("scores not descending: %f <= %f", feed[0].MatchScore, feed[1].MatchScore)
	}
}

func TestPersonalizedFeedExcludesNonMatching(t *testing.T) {
	t.Parallel()

	repo := newFakeVacancyRepo()
	repo.vacancies[1] = &models.Vacancy{ID: 1, Name: "no overlap"}
	// no match rows at all

	svc := NewVacancyService(repo, nil, nil)
	feed, err := svc.PersonalizedFeed(context.Background(), "user-1", FeedQuery{})
	if err != nil {
		t.Fatalf("PersonalizedFeed error: %v", err)
	}
	if len(feed) != 0 {
		t.Fatalf("expected empty feed, got %+v", feed)
	}
}

func TestPersonalizedFeedDropsVacancyDeletedAfterCaching(t *testing.T) {
	t.Parallel()

	repo := newFakeVacancyRepo()
	repo.vacancies[1] = &models.Vacancy{ID: 1, Name: "short lived"}
	repo.matchRows = []pgrepo.MatchRow{
		{VacancyID: 1, UserPosition: 0, VacancyPosition: 0},
	}
	feeds := newFakeFeedCache()

	svc := NewVacancyService(repo, nil, feeds)
	ctx := context.Background()

	feed, err := svc.PersonalizedFeed(ctx, "user-1", FeedQuery{})
	if err != nil {
		t.Fatalf("PersonalizedFeed error: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("expected 1 entry before delete, got %d", len(feed))
	}
	if feeds.sets != 1 {
		t.Fatalf("expected the ranking to be cached, got %d sets", feeds.sets)
	}

	repo.vacancies[1].DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}

	feed, err = svc.PersonalizedFeed(ctx, "user-1", FeedQuery{})
	if err != nil {
		t.Fatalf("PersonalizedFeed error: %v", err)
	}
	if len(feed) != 0 {
		t.Fatalf("soft-deleted vacancy still served from the cached feed: %+v", feed)
	}
	// the ranking itself stays cached; only the vacancy resolution changed
	if feeds.sets != 1 {
		t.Fatalf("expected the cached ranking to be reused, got %d sets", feeds.sets)
	}
}

func TestPersonalizedFeedQueryNarrowing(t *testing.T) {
	t.Parallel()

	repo := newFakeVacancyRepo()
	repo.vacancies[1] = &models.Vacancy{ID: 1, Name: "Backend Engineer", Description: "Go services", WorkFormat: models.WorkFormatRemote}
	repo.vacancies[2] = &models.Vacancy{ID: 2, Name: "Data Analyst", Description: "SQL all day", WorkFormat: models.WorkFormatOffice}
	repo.matchRows = []pgrepo.MatchRow{
		{VacancyID: 1, UserPosition: 0, VacancyPosition: 0},
		{VacancyID: 2, UserPosition: 1, VacancyPosition: 1},
	}

	svc := NewVacancyService(repo, nil, nil)
	ctx := context.Background()

	feed, err := svc.PersonalizedFeed(ctx, "user-1", FeedQuery{Text: "backend"})
	if err != nil {
		t.Fatalf("PersonalizedFeed error: %v", err)
	}
	if len(feed) != 1 || feed[0].Vacancy.ID != 1 {
		t.Fatalf("text narrowing failed: %+v", feed)
	}

	feed, err = svc.PersonalizedFeed(ctx, "user-1", FeedQuery{Text: "sql"})
	if err != nil {
		t.Fatalf("PersonalizedFeed error: %v", err)
	}
	if len(feed) != 1 || feed[0].Vacancy.ID != 2 {
		t.Fatalf("description narrowing failed: %+v", feed)
	}

	feed, err = svc.PersonalizedFeed(ctx, "user-1", FeedQuery{WorkFormat: models.WorkFormatOffice})
	if err != nil {
		t.Fatalf("PersonalizedFeed error: %v", err)
	}
	if len(feed) != 1 || feed[0].Vacancy.ID != 2 {
		t.Fatalf("work-format narrowing failed: %+v", feed)
	}

	if _, err := svc.PersonalizedFeed(ctx, "user-1", FeedQuery{WorkFormat: "ONSITE"}); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT for unknown work format, got %v", err)
	}
}
