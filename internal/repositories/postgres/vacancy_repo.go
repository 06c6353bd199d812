package postgres

import (
	"context"
	"errors"

	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/utils"
	"gorm.io/gorm"
)

// MatchRow pairs a vacancy tag position with the requesting user's
// position for the same tag; the scorer aggregates these per vacancy.
type MatchRow struct {
	VacancyID       uint
	VacancyPosition int
	UserPosition    int
}

type VacancyRepository interface {
	Create(ctx context.Context, v *models.Vacancy) error
	GetByID(ctx context.Context, id uint) (*models.Vacancy, error)
	GetAnyByID(ctx context.Context, id uint) (*models.Vacancy, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Vacancy, error)
	List(ctx context.Context) ([]models.Vacancy, error)
	ListByCreator(ctx context.Context, userID string) ([]models.Vacancy, error)
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error
	MatchRows(ctx context.Context, userID string) ([]MatchRow, error)
}

type vacancyRepo struct {
	db *gorm.DB
}

func NewVacancyRepo(db *gorm.DB) VacancyRepository {
	return &vacancyRepo{db: db}
}

// Create persists the vacancy together with its tag links in one
// transaction; positions come from the caller.
func (r *vacancyRepo) Create(ctx context.Context, v *models.Vacancy) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags := v.Tags
		v.Tags = nil
		if err := tx.Create(v).Error; err != nil {
			return err
		}
		for i := range tags {
			tags[i].VacancyID = v.ID
		}
		if len(tags) > 0 {
			if err := tx.Create(&tags).Error; err != nil {
				return err
			}
		}
		v.Tags = tags
		return nil
	})
}

func (r *vacancyRepo) GetByID(ctx context.Context, id uint) (*models.Vacancy, error) {
	var v models.Vacancy
	err := r.db.WithContext(ctx).
		Preload("Tags", orderByPosition).
		Preload("Tags.Tag").
		Take(&v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &v, err
}

// GetAnyByID resolves the vacancy even when it is soft-deleted; used for
// relations that must survive tombstoning (applications) and for restore.
func (r *vacancyRepo) GetAnyByID(ctx context.Context, id uint) (*models.Vacancy, error) {
	var v models.Vacancy
	err := r.db.WithContext(ctx).
		Unscoped().
		Preload("Tags", orderByPosition).
		Preload("Tags.Tag").
		Take(&v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &v, err
}

func (r *vacancyRepo) GetByIDs(ctx context.Context, ids []uint) ([]models.Vacancy, error) {
	var out []models.Vacancy
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Tags", orderByPosition).
		Preload("Tags.Tag").
		Where("id IN ?", ids).
		Find(&out).Error
	return out, err
}

func (r *vacancyRepo) List(ctx context.Context) ([]models.Vacancy, error) {
	var out []models.Vacancy
	err := r.db.WithContext(ctx).
		Preload("Tags", orderByPosition).
		Preload("Tags.Tag").
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *vacancyRepo) ListByCreator(ctx context.Context, userID string) ([]models.Vacancy, error) {
	var out []models.Vacancy
	err := r.db.WithContext(ctx).
		Preload("Tags", orderByPosition).
		Preload("Tags.Tag").
		Where("created_by = ?", userID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *vacancyRepo) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Vacancy{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *vacancyRepo) Restore(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.Vacancy{}).
		Where("id = ?", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// MatchRows joins the user's tag preferences against vacancy tags,
// skipping soft-deleted vacancies. One row per overlapping (vacancy, tag).
func (r *vacancyRepo) MatchRows(ctx context.Context, userID string) ([]MatchRow, error) {
	var rows []MatchRow
	err := r.db.WithContext(ctx).
		Table("vacancy_tags").
		Select("vacancy_tags.vacancy_id AS vacancy_id, vacancy_tags.position AS vacancy_position, user_tags.position AS user_position").
		Joins("JOIN user_tags ON user_tags.tag_id = vacancy_tags.tag_id AND user_tags.user_id = ?", userID).
		Joins("JOIN vacancies ON vacancies.id = vacancy_tags.vacancy_id AND vacancies.deleted_at IS NULL").
		Scan(&rows).Error
	return rows, err
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
