package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hirewire/hirewire/internal/cache"
	"github.com/hirewire/hirewire/internal/models"
	pgrepo "github.com/hirewire/hirewire/internal/repositories/postgres"
	"github.com/hirewire/hirewire/internal/utils"
)

const feedCacheTTL = time.Minute

func feedCacheKey(userID string) string {
	return fmt.Sprintf("feed:user:%s", userID)
}

// ScoredVacancy is a feed entry; MatchScore drives the ordering.
type ScoredVacancy struct {
	Vacancy    models.Vacancy `json:"vacancy"`
	MatchScore float64        `json:"match_score"`
}

// FeedQuery narrows the personalized feed by free text over name and
// description and by work format. Zero values mean no narrowing.
type FeedQuery struct {
	Text       string
	WorkFormat models.WorkFormat
}

func (q FeedQuery) matches(v models.Vacancy) bool {
	if q.WorkFormat != "" && v.WorkFormat != q.WorkFormat {
		return false
	}
	if q.Text != "" {
		needle := strings.ToLower(q.Text)
		if !strings.Contains(strings.ToLower(v.Name), needle) &&
			!strings.Contains(strings.ToLower(v.Description), needle) {
			return false
		}
	}
	return true
}

type VacancyService interface {
	Create(ctx context.Context, userID string, v *models.Vacancy) (*models.Vacancy, error)
	Get(ctx context.Context, id uint) (*models.Vacancy, error)
	List(ctx context.Context) ([]models.Vacancy, error)
	ListMine(ctx context.Context, userID string) ([]models.Vacancy, error)
	SoftDelete(ctx context.Context, userID string, id uint) error
	Restore(ctx context.Context, userID string, id uint) error
	// PersonalizedFeed ranks vacancies whose tags overlap the user's
	// ranked preferences, best match first.
	PersonalizedFeed(ctx context.Context, userID string, q FeedQuery) ([]ScoredVacancy, error)
}

type vacancyService struct {
	vacancies pgrepo.VacancyRepository
	templates pgrepo.TemplateRepository
	feeds     cache.Cache
}

func NewVacancyService(vacancies pgrepo.VacancyRepository, templates pgrepo.TemplateRepository, feeds cache.Cache) VacancyService {
	return &vacancyService{vacancies: vacancies, templates: templates, feeds: feeds}
}

func (s *vacancyService) Create(ctx context.Context, userID string, v *models.Vacancy) (*models.Vacancy, error) {
	const op = "VacancyService.Create"

	if v == nil || v.Name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name is required", nil)
	}
	if !v.WorkFormat.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "work_format must be one of OFFICE, REMOTE, HYBRID", nil)
	}
	if _, err := s.templates.GetByID(ctx, v.TemplateID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application template not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve template", err)
	}

	v.CreatedBy = userID
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	if err := s.vacancies.Create(ctx, v); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create vacancy", err)
	}
	return v, nil
}

func (s *vacancyService) Get(ctx context.Context, id uint) (*models.Vacancy, error) {
	const op = "VacancyService.Get"

	v, err := s.vacancies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "vacancy not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get vacancy", err)
	}
	return v, nil
}

func (s *vacancyService) List(ctx context.Context) ([]models.Vacancy, error) {
	const op = "VacancyService.List"

	out, err := s.vacancies.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list vacancies", err)
	}
	return out, nil
}

func (s *vacancyService) ListMine(ctx context.Context, userID string) ([]models.Vacancy, error) {
	const op = "VacancyService.ListMine"

	out, err := s.vacancies.ListByCreator(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list vacancies", err)
	}
	return out, nil
}

func (s *vacancyService) SoftDelete(ctx context.Context, userID string, id uint) error {
	const op = "VacancyService.SoftDelete"

	if err := s.requireOwner(ctx, op, userID, id); err != nil {
		return err
	}
	if err := s.vacancies.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "vacancy not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete vacancy", err)
	}
	return nil
}

func (s *vacancyService) Restore(ctx context.Context, userID string, id uint) error {
	const op = "VacancyService.Restore"

	if err := s.requireOwner(ctx, op, userID, id); err != nil {
		return err
	}
	if err := s.vacancies.Restore(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "vacancy not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to restore vacancy", err)
	}
	return nil
}

// PersonalizedFeed caches only (vacancy id, score) pairs and resolves the
// vacancies through the default scope on every serve, so a vacancy
// soft-deleted after the cache was warmed drops out immediately.
func (s *vacancyService) PersonalizedFeed(ctx context.Context, userID string, q FeedQuery) ([]ScoredVacancy, error) {
	const op = "VacancyService.PersonalizedFeed"

	if q.WorkFormat != "" && !q.WorkFormat.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "work_format must be one of OFFICE, REMOTE, HYBRID", nil)
	}

	var ranking []vacancyScore
	hit := false
	if s.feeds != nil {
		if ok, err := s.feeds.GetJSON(ctx, feedCacheKey(userID), &ranking); err == nil && ok {
			hit = true
		}
	}
	if !hit {
		rows, err := s.vacancies.MatchRows(ctx, userID)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to query tag matches", err)
		}
		ranking = scoreMatches(rows)
		if s.feeds != nil {
			_ = s.feeds.SetJSON(ctx, feedCacheKey(userID), ranking, feedCacheTTL)
		}
	}
	if len(ranking) == 0 {
		return []ScoredVacancy{}, nil
	}

	ids := make([]uint, len(ranking))
	for i, entry := range ranking {
		ids[i] = entry.VacancyID
	}
	vacancies, err := s.vacancies.GetByIDs(ctx, ids)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load vacancies", err)
	}
	byID := make(map[uint]models.Vacancy, len(vacancies))
	for _, v := range vacancies {
		byID[v.ID] = v
	}

	feed := make([]ScoredVacancy, 0, len(ranking))
	for _, entry := range ranking {
		v, ok := byID[entry.VacancyID]
		if !ok || !q.matches(v) {
			continue
		}
		feed = append(feed, ScoredVacancy{Vacancy: v, MatchScore: entry.Score})
	}
	return feed, nil
}

func (s *vacancyService) requireOwner(ctx context.Context, op, userID string, id uint) error {
	v, err := s.vacancies.GetAnyByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "vacancy not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to resolve vacancy", err)
	}
	if v.CreatedBy != userID {
		return utils.E(utils.CodeForbidden, op, "vacancy belongs to another user", nil)
	}
	return nil
}

type vacancyScore struct {
	VacancyID uint    `json:"vacancy_id"`
	Score     float64 `json:"score"`
}

// scoreMatches aggregates pairwise tag weights per vacancy. Stored
// positions are 0-based; ranks are converted to 1-based here so the top
// preference weighs 1/1, the next 1/2, and so on. Vacancies without any
// overlapping tag never appear. Ties order by ascending vacancy id.
func scoreMatches(rows []pgrepo.MatchRow) []vacancyScore {
	totals := make(map[uint]float64, len(rows))
	for _, row := range rows {
		weight := 1.0/float64(row.UserPosition+1) + 1.0/float64(row.VacancyPosition+1)
		totals[row.VacancyID] += weight
	}

	out := make([]vacancyScore, 0, len(totals))
	for id, score := range totals {
		out = append(out, vacancyScore{VacancyID: id, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].VacancyID < out[j].VacancyID
	})
	return out
}
