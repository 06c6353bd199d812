package postgres

import (
	"context"
	"errors"

	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/utils"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	Create(ctx context.Context, t *models.ApplicationTemplate) error
	GetByID(ctx context.Context, id uint) (*models.ApplicationTemplate, error)
	GetAnyByID(ctx context.Context, id uint) (*models.ApplicationTemplate, error)
	List(ctx context.Context, userID string) ([]models.ApplicationTemplate, error)
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error
	QuestionsByTemplate(ctx context.Context, templateID uint) ([]models.Question, error)
}

type templateRepo struct {
	db *gorm.DB
}

func NewTemplateRepo(db *gorm.DB) TemplateRepository {
	return &templateRepo{db: db}
}

// Create persists the template with its questions and their pre-seeded
// choice answers in a single transaction.
func (r *templateRepo) Create(ctx context.Context, t *models.ApplicationTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questions := t.Questions
		t.Questions = nil
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].TemplateID = t.ID
			answers := questions[i].Answers
			questions[i].Answers = nil
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
			for j := range answers {
				answers[j].QuestionID = questions[i].ID
				answers[j].ApplicationCreated = false
			}
			if len(answers) > 0 {
				if err := tx.Create(&answers).Error; err != nil {
					return err
				}
			}
			questions[i].Answers = answers
		}
		t.Questions = questions
		return nil
	})
}

func (r *templateRepo) GetByID(ctx context.Context, id uint) (*models.ApplicationTemplate, error) {
	var t models.ApplicationTemplate
	err := r.db.WithContext(ctx).
		Preload("Questions", orderByID).
		Preload("Questions.Answers", seededOnly).
		Take(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &t, err
}

// GetAnyByID resolves the template even when soft-deleted; restore and
// existing vacancies need it.
func (r *templateRepo) GetAnyByID(ctx context.Context, id uint) (*models.ApplicationTemplate, error) {
	var t models.ApplicationTemplate
	err := r.db.WithContext(ctx).
		Unscoped().
		Preload("Questions", orderByID).
		Preload("Questions.Answers", seededOnly).
		Take(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &t, err
}

// List returns global templates plus the caller's own, tombstones excluded.
func (r *templateRepo) List(ctx context.Context, userID string) ([]models.ApplicationTemplate, error) {
	var out []models.ApplicationTemplate
	err := r.db.WithContext(ctx).
		Preload("Questions", orderByID).
		Preload("Questions.Answers", seededOnly).
		Where("is_global = ? OR created_by = ?", true, userID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *templateRepo) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.ApplicationTemplate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *templateRepo) Restore(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.ApplicationTemplate{}).
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

// QuestionsByTemplate loads the questions of a template regardless of the
// template's tombstone state, so existing vacancies keep working after
// their template is soft-deleted.
func (r *templateRepo) QuestionsByTemplate(ctx context.Context, templateID uint) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Preload("Answers", seededOnly).
		Where("template_id = ?", templateID).
		Order("id ASC").
		Find(&questions).Error
	return questions, err
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func seededOnly(db *gorm.DB) *gorm.DB {
	return db.Where("application_created = ?", false).Order("id ASC")
}
