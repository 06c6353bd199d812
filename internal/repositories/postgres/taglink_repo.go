package postgres

import (
	"context"
	"errors"

	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/utils"
	"gorm.io/gorm"
)

// TagLinkRepository maintains the per-owner ordered tag associations for
// users and vacancies. Positions are caller-supplied, 0-based, and kept
// dense by shifting neighbours inside a single transaction; unlinking
// intentionally leaves a gap (no auto-compaction).
type TagLinkRepository interface {
	CreateUserTag(ctx context.Context, link *models.UserTag) error
	MoveUserTag(ctx context.Context, userID string, linkID uint, newPos int) (*models.UserTag, error)
	DeleteUserTag(ctx context.Context, userID string, linkID uint) error
	ListUserTags(ctx context.Context, userID string) ([]models.UserTag, error)

	CreateVacancyTag(ctx context.Context, link *models.VacancyTag) error
	MoveVacancyTag(ctx context.Context, vacancyID uint, linkID uint, newPos int) (*models.VacancyTag, error)
	DeleteVacancyTag(ctx context.Context, vacancyID uint, linkID uint) error
	ListVacancyTags(ctx context.Context, vacancyID uint) ([]models.VacancyTag, error)
}

type tagLinkRepo struct {
	db *gorm.DB
}

func NewTagLinkRepo(db *gorm.DB) TagLinkRepository {
	return &tagLinkRepo{db: db}
}

// createLink inserts a link at its requested position. If the slot is
// occupied, every link of the same owner at position >= requested is
// shifted up by one first. The whole sequence runs in one transaction so
// readers never observe duplicate positions.
func createLink(tx *gorm.DB, model any, ownerCol string, owner any, tagID uint, position int, link any) error {
	var linked int64
	if err := tx.Model(model).
		Where(ownerCol+" = ? AND tag_id = ?", owner, tagID).
		Count(&linked).Error; err != nil {
		return err
	}
	if linked > 0 {
		return utils.ErrConflict
	}

	var occupied int64
	if err := tx.Model(model).
		Where(ownerCol+" = ? AND position = ?", owner, position).
		Count(&occupied).Error; err != nil {
		return err
	}
	if occupied > 0 {
		if err := tx.Model(model).
			Where(ownerCol+" = ? AND position >= ?", owner, position).
			Update("position", gorm.Expr("position + 1")).Error; err != nil {
			return err
		}
	}

	return tx.Create(link).Error
}

// shiftRange closes the gap between oldPos and newPos: forward moves pull
// the in-between links down by one, backward moves push them up by one.
func shiftRange(tx *gorm.DB, model any, ownerCol string, owner any, oldPos, newPos int) error {
	if newPos > oldPos {
		return tx.Model(model).
			Where(ownerCol+" = ? AND position > ? AND position <= ?", owner, oldPos, newPos).
			Update("position", gorm.Expr("position - 1")).Error
	}
	return tx.Model(model).
		Where(ownerCol+" = ? AND position >= ? AND position < ?", owner, newPos, oldPos).
		Update("position", gorm.Expr("position + 1")).Error
}

func (r *tagLinkRepo) CreateUserTag(ctx context.Context, link *models.UserTag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createLink(tx, &models.UserTag{}, "user_id", link.UserID, link.TagID, link.Position, link)
	})
}

func (r *tagLinkRepo) MoveUserTag(ctx context.Context, userID string, linkID uint, newPos int) (*models.UserTag, error) {
	var link models.UserTag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", linkID, userID).Take(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrNotFound
			}
			return err
		}
		if link.Position == newPos {
			return nil
		}
		if err := shiftRange(tx, &models.UserTag{}, "user_id", userID, link.Position, newPos); err != nil {
			return err
		}
		link.Position = newPos
		return tx.Model(&models.UserTag{}).
			Where("id = ?", link.ID).
			Update("position", newPos).Error
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *tagLinkRepo) DeleteUserTag(ctx context.Context, userID string, linkID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", linkID, userID).
		Delete(&models.UserTag{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *tagLinkRepo) ListUserTags(ctx context.Context, userID string) ([]models.UserTag, error) {
	var links []models.UserTag
	err := r.db.WithContext(ctx).
		Preload("Tag").
		Where("user_id = ?", userID).
		Order("position ASC").
		Find(&links).Error
	return links, err
}

func (r *tagLinkRepo) CreateVacancyTag(ctx context.Context, link *models.VacancyTag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createLink(tx, &models.VacancyTag{}, "vacancy_id", link.VacancyID, link.TagID, link.Position, link)
	})
}

func (r *tagLinkRepo) MoveVacancyTag(ctx context.Context, vacancyID uint, linkID uint, newPos int) (*models.VacancyTag, error) {
	var link models.VacancyTag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND vacancy_id = ?", linkID, vacancyID).Take(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrNotFound
			}
			return err
		}
		if link.Position == newPos {
			return nil
		}
		if err := shiftRange(tx, &models.VacancyTag{}, "vacancy_id", vacancyID, link.Position, newPos); err != nil {
			return err
		}
		link.Position = newPos
		return tx.Model(&models.VacancyTag{}).
			Where("id = ?", link.ID).
			Update("position", newPos).Error
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *tagLinkRepo) DeleteVacancyTag(ctx context.Context, vacancyID uint, linkID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND vacancy_id = ?", linkID, vacancyID).
		Delete(&models.VacancyTag{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *tagLinkRepo) ListVacancyTags(ctx context.Context, vacancyID uint) ([]models.VacancyTag, error) {
	var links []models.VacancyTag
	err := r.db.WithContext(ctx).
		Preload("Tag").
		Where("vacancy_id = ?", vacancyID).
		Order("position ASC").
		Find(&links).Error
	return links, err
}
