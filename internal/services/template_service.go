package services

import (
	"context"
	"errors"
	"time"

	"github.com/hirewire/hirewire/internal/models"
	pgrepo "github.com/hirewire/hirewire/internal/repositories/postgres"
	"github.com/hirewire/hirewire/internal/utils"
)

type TemplateService interface {
	Create(ctx context.Context, userID string, t *models.ApplicationTemplate) (*models.ApplicationTemplate, error)
	Get(ctx context.Context, id uint) (*models.ApplicationTemplate, error)
	List(ctx context.Context, userID string) ([]models.ApplicationTemplate, error)
	SoftDelete(ctx context.Context, userID string, id uint) error
	Restore(ctx context.Context, userID string, id uint) error
}

type templateService struct {
	templates pgrepo.TemplateRepository
}

func NewTemplateService(templates pgrepo.TemplateRepository) TemplateService {
	return &templateService{templates: templates}
}

func (s *templateService) Create(ctx context.Context, userID string, t *models.ApplicationTemplate) (*models.ApplicationTemplate, error) {
	const op = "TemplateService.Create"

	if t == nil || t.Name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name is required", nil)
	}
	if len(t.Questions) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "at least one question is required", nil)
	}
	var fields []utils.FieldError
	for i := range t.Questions {
		q := &t.Questions[i]
		if !q.Type.Valid() {
			fields = append(fields, utils.FieldError{Field: q.Name, Message: "unknown question type"})
			continue
		}
		if q.Type == models.QuestionSingleAnswer && len(q.Answers) == 0 {
			fields = append(fields, utils.FieldError{Field: q.Name, Message: "SINGLE_ANSWER questions need at least one choice"})
		}
		if q.Type != models.QuestionSingleAnswer && len(q.Answers) > 0 {
			fields = append(fields, utils.FieldError{Field: q.Name, Message: "only SINGLE_ANSWER questions may carry choices"})
		}
	}
	if len(fields) > 0 {
		return nil, utils.EFields(op, "invalid questions", fields)
	}

	t.CreatedBy = userID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if err := s.templates.Create(ctx, t); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create template", err)
	}
	return t, nil
}

func (s *templateService) Get(ctx context.Context, id uint) (*models.ApplicationTemplate, error) {
	const op = "TemplateService.Get"

	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "template not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get template", err)
	}
	return t, nil
}

func (s *templateService) List(ctx context.Context, userID string) ([]models.ApplicationTemplate, error) {
	const op = "TemplateService.List"

	out, err := s.templates.List(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list templates", err)
	}
	return out, nil
}

func (s *templateService) SoftDelete(ctx context.Context, userID string, id uint) error {
	const op = "TemplateService.SoftDelete"

	if err := s.requireOwner(ctx, op, userID, id); err != nil {
		return err
	}
	if err := s.templates.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "template not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete template", err)
	}
	return nil
}

func (s *templateService) Restore(ctx context.Context, userID string, id uint) error {
	const op = "TemplateService.Restore"

	if err := s.requireOwner(ctx, op, userID, id); err != nil {
		return err
	}
	if err := s.templates.Restore(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "template not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to restore template", err)
	}
	return nil
}

func (s *templateService) requireOwner(ctx context.Context, op, userID string, id uint) error {
	t, err := s.templates.GetAnyByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "template not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to resolve template", err)
	}
	if t.IsGlobal || t.CreatedBy != userID {
		return utils.E(utils.CodeForbidden, op, "template belongs to another user", nil)
	}
	return nil
}
