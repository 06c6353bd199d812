package postgres

import (
	"context"
	"errors"

	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/utils"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	// Create persists the application, its new answers and the answer
	// links atomically. seededAnswerIDs reference pre-existing choice
	// answers and are linked without creating rows.
	Create(ctx context.Context, app *models.Application, newAnswers []models.Answer, seededAnswerIDs []uint) error
	Exists(ctx context.Context, vacancyID uint, userID string) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	ListByUser(ctx context.Context, userID string) ([]models.Application, error)
	ListByVacancy(ctx context.Context, vacancyID uint) ([]models.Application, error)
	CountByVacancyAndUser(ctx context.Context, vacancyID uint, userID string) (int64, error)
	CreateNote(ctx context.Context, note *models.ApplicationNote) error
	ListNotes(ctx context.Context, applicationID uint) ([]models.ApplicationNote, error)
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *models.Application, newAnswers []models.Answer, seededAnswerIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// re-check inside the transaction; the unique index is the
		// final arbiter under concurrent submissions
		var dup int64
		if err := tx.Model(&models.Application{}).
			Where("vacancy_id = ? AND created_by = ?", app.VacancyID, app.CreatedBy).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return utils.ErrConflict
		}

		if err := tx.Create(app).Error; err != nil {
			return err
		}

		for i := range newAnswers {
			newAnswers[i].ApplicationCreated = true
		}
		if len(newAnswers) > 0 {
			if err := tx.Create(&newAnswers).Error; err != nil {
				return err
			}
		}

		links := make([]models.ApplicationAnswer, 0, len(newAnswers)+len(seededAnswerIDs))
		for i := range newAnswers {
			links = append(links, models.ApplicationAnswer{ApplicationID: app.ID, AnswerID: newAnswers[i].ID})
		}
		for _, id := range seededAnswerIDs {
			links = append(links, models.ApplicationAnswer{ApplicationID: app.ID, AnswerID: id})
		}
		if len(links) > 0 {
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}

		app.Answers = newAnswers
		return nil
	})
}

func (r *applicationRepo) Exists(ctx context.Context, vacancyID uint, userID string) (bool, error) {
	count, err := r.CountByVacancyAndUser(ctx, vacancyID, userID)
	return count > 0, err
}

func (r *applicationRepo) CountByVacancyAndUser(ctx context.Context, vacancyID uint, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("vacancy_id = ? AND created_by = ?", vacancyID, userID).
		Count(&count).Error
	return count, err
}

func (r *applicationRepo) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Status").
		Preload("Vacancy", includeDeleted).
		Take(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.attachAnswers(ctx, []*models.Application{&app}); err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) ListByUser(ctx context.Context, userID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Preload("Status").
		Preload("Vacancy", includeDeleted).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	refs := make([]*models.Application, len(apps))
	for i := range apps {
		refs[i] = &apps[i]
	}
	if err := r.attachAnswers(ctx, refs); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepo) ListByVacancy(ctx context.Context, vacancyID uint) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Preload("Status").
		Where("vacancy_id = ?", vacancyID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	refs := make([]*models.Application, len(apps))
	for i := range apps {
		refs[i] = &apps[i]
	}
	if err := r.attachAnswers(ctx, refs); err != nil {
		return nil, err
	}
	return apps, nil
}

// attachAnswers populates Answers through the application_answers join.
func (r *applicationRepo) attachAnswers(ctx context.Context, apps []*models.Application) error {
	if len(apps) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(apps))
	byID := make(map[uint]*models.Application, len(apps))
	for _, app := range apps {
		ids = append(ids, app.ID)
		byID[app.ID] = app
		app.Answers = []models.Answer{}
	}

	type answerRow struct {
		models.Answer
		ApplicationID uint
	}
	var rows []answerRow
	err := r.db.WithContext(ctx).
		Table("template_answers").
		Select("template_answers.*, application_answers.application_id AS application_id").
		Joins("JOIN application_answers ON application_answers.answer_id = template_answers.id").
		Where("application_answers.application_id IN ?", ids).
		Order("template_answers.id ASC").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, row := range rows {
		if app, ok := byID[row.ApplicationID]; ok {
			app.Answers = append(app.Answers, row.Answer)
		}
	}
	return nil
}

func (r *applicationRepo) CreateNote(ctx context.Context, note *models.ApplicationNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *applicationRepo) ListNotes(ctx context.Context, applicationID uint) ([]models.ApplicationNote, error) {
	var notes []models.ApplicationNote
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&notes).Error
	return notes, err
}

// includeDeleted resolves relations to soft-deleted rows; an application
// must keep pointing at its vacancy after the vacancy is tombstoned.
func includeDeleted(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}
