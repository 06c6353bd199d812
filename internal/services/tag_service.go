package services

import (
	"context"
	"errors"

	"github.com/hirewire/hirewire/internal/cache"
	"github.com/hirewire/hirewire/internal/models"
	pgrepo "github.com/hirewire/hirewire/internal/repositories/postgres"
	"github.com/hirewire/hirewire/internal/utils"
)

// TagService manages the tag dictionary and the ordered tag links of both
// owner kinds. Vacancy tag mutations are restricted to the vacancy creator.
type TagService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)

	ListUserTags(ctx context.Context, userID string) ([]models.UserTag, error)
	LinkUserTag(ctx context.Context, userID string, tagID uint, position int) (*models.UserTag, error)
	MoveUserTag(ctx context.Context, userID string, linkID uint, position int) (*models.UserTag, error)
	UnlinkUserTag(ctx context.Context, userID string, linkID uint) error

	ListVacancyTags(ctx context.Context, vacancyID uint) ([]models.VacancyTag, error)
	LinkVacancyTag(ctx context.Context, userID string, vacancyID, tagID uint, position int) (*models.VacancyTag, error)
	MoveVacancyTag(ctx context.Context, userID string, vacancyID, linkID uint, position int) (*models.VacancyTag, error)
	UnlinkVacancyTag(ctx context.Context, userID string, vacancyID, linkID uint) error
}

type tagService struct {
	tags      pgrepo.TagRepository
	links     pgrepo.TagLinkRepository
	vacancies pgrepo.VacancyRepository
	feeds     cache.Cache
}

func NewTagService(tags pgrepo.TagRepository, links pgrepo.TagLinkRepository, vacancies pgrepo.VacancyRepository, feeds cache.Cache) TagService {
	return &tagService{tags: tags, links: links, vacancies: vacancies, feeds: feeds}
}

func (s *tagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	const op = "TagService.ListTags"

	out, err := s.tags.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list tags", err)
	}
	return out, nil
}

func (s *tagService) ListUserTags(ctx context.Context, userID string) ([]models.UserTag, error) {
	const op = "TagService.ListUserTags"

	links, err := s.links.ListUserTags(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list user tags", err)
	}
	return links, nil
}

func (s *tagService) LinkUserTag(ctx context.Context, userID string, tagID uint, position int) (*models.UserTag, error) {
	const op = "TagService.LinkUserTag"

	if position < 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "position must be non-negative", nil)
	}
	if _, err := s.tags.GetByID(ctx, tagID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "tag not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve tag", err)
	}

	link := &models.UserTag{UserID: userID, TagID: tagID, Position: position}
	if err := s.links.CreateUserTag(ctx, link); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "tag already linked", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to link tag", err)
	}

	s.invalidateFeed(ctx, userID)
	return link, nil
}

func (s *tagService) MoveUserTag(ctx context.Context, userID string, linkID uint, position int) (*models.UserTag, error) {
	const op = "TagService.MoveUserTag"

	if position < 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "position must be non-negative", nil)
	}
	link, err := s.links.MoveUserTag(ctx, userID, linkID, position)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "tag link not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to move tag", err)
	}

	s.invalidateFeed(ctx, userID)
	return link, nil
}

func (s *tagService) UnlinkUserTag(ctx context.Context, userID string, linkID uint) error {
	const op = "TagService.UnlinkUserTag"

	if err := s.links.DeleteUserTag(ctx, userID, linkID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "tag link not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to unlink tag", err)
	}

	s.invalidateFeed(ctx, userID)
	return nil
}

func (s *tagService) ListVacancyTags(ctx context.Context, vacancyID uint) ([]models.VacancyTag, error) {
	const op = "TagService.ListVacancyTags"

	links, err := s.links.ListVacancyTags(ctx, vacancyID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list vacancy tags", err)
	}
	return links, nil
}

func (s *tagService) LinkVacancyTag(ctx context.Context, userID string, vacancyID, tagID uint, position int) (*models.VacancyTag, error) {
	const op = "TagService.LinkVacancyTag"

	if position < 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "position must be non-negative", nil)
	}
	if err := s.requireVacancyOwner(ctx, op, userID, vacancyID); err != nil {
		return nil, err
	}
	if _, err := s.tags.GetByID(ctx, tagID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "tag not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve tag", err)
	}

	link := &models.VacancyTag{VacancyID: vacancyID, TagID: tagID, Position: position}
	if err := s.links.CreateVacancyTag(ctx, link); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "tag already linked", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to link tag", err)
	}
	return link, nil
}

func (s *tagService) MoveVacancyTag(ctx context.Context, userID string, vacancyID, linkID uint, position int) (*models.VacancyTag, error) {
	const op = "TagService.MoveVacancyTag"

	if position < 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "position must be non-negative", nil)
	}
	if err := s.requireVacancyOwner(ctx, op, userID, vacancyID); err != nil {
		return nil, err
	}

	link, err := s.links.MoveVacancyTag(ctx, vacancyID, linkID, position)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "tag link not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to move tag", err)
	}
	return link, nil
}

func (s *tagService) UnlinkVacancyTag(ctx context.Context, userID string, vacancyID, linkID uint) error {
	const op = "TagService.UnlinkVacancyTag"

	if err := s.requireVacancyOwner(ctx, op, userID, vacancyID); err != nil {
		return err
	}
	if err := s.links.DeleteVacancyTag(ctx, vacancyID, linkID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "tag link not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to unlink tag", err)
	}
	return nil
}

func (s *tagService) requireVacancyOwner(ctx context.Context, op, userID string, vacancyID uint) error {
	v, err := s.vacancies.GetAnyByID(ctx, vacancyID)
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

// invalidateFeed drops the cached personalized feed after a preference
// change. Best effort; the TTL covers cache failures.
func (s *tagService) invalidateFeed(ctx context.Context, userID string) {
	if s.feeds == nil {
		return
	}
	_ = s.feeds.Del(ctx, feedCacheKey(userID))
}
