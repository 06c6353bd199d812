package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/hirewire/hirewire/internal/models"
	pgrepo "github.com/hirewire/hirewire/internal/repositories/postgres"
	"github.com/hirewire/hirewire/internal/utils"
)

// AnswerInput is one submitted answer; Value is narrowed per question type
// during validation (string, file-id list or choice id).
type AnswerInput struct {
	QuestionID uint            `json:"question_id"`
	Value      json.RawMessage `json:"value"`
}

type ApplicationService interface {
	Create(ctx context.Context, userID string, vacancyID uint, answers []AnswerInput) (*models.Application, error)
	Get(ctx context.Context, userID string, id uint) (*models.Application, error)
	ListMine(ctx context.Context, userID string) ([]models.Application, error)
	ListForVacancy(ctx context.Context, userID string, vacancyID uint) ([]models.Application, error)
	ListStatuses(ctx context.Context) ([]models.ApplicationStatus, error)
	AddNote(ctx context.Context, userID string, applicationID uint, text string) (*models.ApplicationNote, error)
	ListNotes(ctx context.Context, userID string, applicationID uint) ([]models.ApplicationNote, error)
}

type applicationService struct {
	applications pgrepo.ApplicationRepository
	vacancies    pgrepo.VacancyRepository
	templates    pgrepo.TemplateRepository
	files        pgrepo.FileRepository
	statuses     pgrepo.StatusRepository
}

func NewApplicationService(
	applications pgrepo.ApplicationRepository,
	vacancies pgrepo.VacancyRepository,
	templates pgrepo.TemplateRepository,
	files pgrepo.FileRepository,
	statuses pgrepo.StatusRepository,
) ApplicationService {
	return &applicationService{
		applications: applications,
		vacancies:    vacancies,
		templates:    templates,
		files:        files,
		statuses:     statuses,
	}
}

func (s *applicationService) Create(ctx context.Context, userID string, vacancyID uint, answers []AnswerInput) (*models.Application, error) {
	const op = "ApplicationService.Create"

	vacancy, err := s.vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "vacancy not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve vacancy", err)
	}

	if exists, err := s.applications.Exists(ctx, vacancyID, userID); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing application", err)
	} else if exists {
		return nil, utils.E(utils.CodeConflict, op, "you already applied", nil)
	}

	questions, err := s.templates.QuestionsByTemplate(ctx, vacancy.TemplateID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load template questions", err)
	}

	newAnswers, seededIDs, fields := s.validateAnswers(ctx, questions, answers)
	if len(fields) > 0 {
		return nil, utils.EFields(op, "invalid answers", fields)
	}

	statusID, err := s.statuses.DefaultID(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve default status", err)
	}

	app := &models.Application{
		VacancyID: vacancyID,
		StatusID:  statusID,
		CreatedBy: userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.applications.Create(ctx, app, newAnswers, seededIDs); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "you already applied", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create application", err)
	}
	return app, nil
}

// validateAnswers narrows every submitted value against its question's
// type rules and checks the required-question gate. Failures accumulate
// per field; nothing is persisted while any remain.
func (s *applicationService) validateAnswers(ctx context.Context, questions []models.Question, inputs []AnswerInput) ([]models.Answer, []uint, []utils.FieldError) {
	byID := make(map[uint]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	var (
		newAnswers []models.Answer
		seededIDs  []uint
		fields     []utils.FieldError
		answered   = make(map[uint]bool, len(inputs))
	)

	fail := func(questionID uint, msg string) {
		fields = append(fields, utils.FieldError{
			Field:   fmt.Sprintf("question_%d", questionID),
			Message: msg,
		})
	}

	for _, input := range inputs {
		q, ok := byID[input.QuestionID]
		if !ok {
			fail(input.QuestionID, "question does not belong to the vacancy's template")
			continue
		}
		answered[q.ID] = true

		switch q.Type {
		case models.QuestionShortText, models.QuestionLongText:
			var text string
			if err := json.Unmarshal(input.Value, &text); err != nil {
				fail(q.ID, "value must be a string")
				continue
			}
			if q.MaxLength != nil && utf8.RuneCountInString(text) > *q.MaxLength {
				fail(q.ID, fmt.Sprintf("value cannot be longer than %d characters", *q.MaxLength))
				continue
			}
			newAnswers = append(newAnswers, models.Answer{QuestionID: q.ID, Text: text})

		case models.QuestionFile:
			var fileIDs []int64
			if err := json.Unmarshal(input.Value, &fileIDs); err != nil || len(fileIDs) == 0 {
				fail(q.ID, "value must be a non-empty list of file ids")
				continue
			}
			if q.MaxLength != nil && len(fileIDs) > *q.MaxLength {
				fail(q.ID, fmt.Sprintf("no more than %d files allowed", *q.MaxLength))
				continue
			}
			req, err := q.Requirements()
			if err != nil {
				fail(q.ID, "question has malformed file requirements")
				continue
			}
			if len(req.Types) > 0 {
				fileTypes, err := s.files.TypesByIDs(ctx, fileIDs)
				if err != nil || !equalStringSets(req.Types, fileTypes) {
					fail(q.ID, "files do not match the required types")
					continue
				}
			}
			newAnswers = append(newAnswers, models.Answer{QuestionID: q.ID, FileIDs: fileIDs})

		case models.QuestionSingleAnswer:
			var choiceID int64
			if err := json.Unmarshal(input.Value, &choiceID); err != nil {
				fail(q.ID, "value must be an integer choice id")
				continue
			}
			seeded := false
			for _, a := range q.Answers {
				if a.ID == uint(choiceID) {
					seeded = true
					break
				}
			}
			if !seeded {
				fail(q.ID, "choice does not belong to this question")
				continue
			}
			seededIDs = append(seededIDs, uint(choiceID))

		default:
			fail(q.ID, "unsupported question type")
		}
	}

	for i := range questions {
		if questions[i].IsRequired && !answered[questions[i].ID] {
			fail(questions[i].ID, "required question not answered")
		}
	}

	return newAnswers, seededIDs, fields
}

func (s *applicationService) Get(ctx context.Context, userID string, id uint) (*models.Application, error) {
	const op = "ApplicationService.Get"

	app, err := s.loadApplication(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if app.CreatedBy != userID && app.Vacancy.CreatedBy != userID {
		return nil, utils.E(utils.CodeForbidden, op, "application belongs to another user", nil)
	}
	return app, nil
}

func (s *applicationService) ListMine(ctx context.Context, userID string) ([]models.Application, error) {
	const op = "ApplicationService.ListMine"

	apps, err := s.applications.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return apps, nil
}

func (s *applicationService) ListForVacancy(ctx context.Context, userID string, vacancyID uint) ([]models.Application, error) {
	const op = "ApplicationService.ListForVacancy"

	vacancy, err := s.vacancies.GetAnyByID(ctx, vacancyID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "vacancy not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve vacancy", err)
	}
	if vacancy.CreatedBy != userID {
		return nil, utils.E(utils.CodeForbidden, op, "vacancy belongs to another user", nil)
	}

	apps, err := s.applications.ListByVacancy(ctx, vacancyID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return apps, nil
}

func (s *applicationService) ListStatuses(ctx context.Context) ([]models.ApplicationStatus, error) {
	const op = "ApplicationService.ListStatuses"

	out, err := s.statuses.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list statuses", err)
	}
	return out, nil
}

// AddNote is restricted to the creator of the application's vacancy.
func (s *applicationService) AddNote(ctx context.Context, userID string, applicationID uint, text string) (*models.ApplicationNote, error) {
	const op = "ApplicationService.AddNote"

	if text == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "text is required", nil)
	}
	app, err := s.loadApplication(ctx, op, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Vacancy.CreatedBy != userID {
		return nil, utils.E(utils.CodeForbidden, op, "application belongs to another recruiter's vacancy", nil)
	}

	note := &models.ApplicationNote{
		ApplicationID: applicationID,
		Text:          text,
		CreatedBy:     userID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.applications.CreateNote(ctx, note); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create note", err)
	}
	return note, nil
}

func (s *applicationService) ListNotes(ctx context.Context, userID string, applicationID uint) ([]models.ApplicationNote, error) {
	const op = "ApplicationService.ListNotes"

	app, err := s.loadApplication(ctx, op, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Vacancy.CreatedBy != userID {
		return nil, utils.E(utils.CodeForbidden, op, "application belongs to another recruiter's vacancy", nil)
	}

	notes, err := s.applications.ListNotes(ctx, applicationID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list notes", err)
	}
	return notes, nil
}

func (s *applicationService) loadApplication(ctx context.Context, op string, id uint) (*models.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get application", err)
	}
	return app, nil
}

func equalStringSets(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	other := make(map[string]struct{}, len(b))
	for _, s := range b {
		other[s] = struct{}{}
	}
	if len(set) != len(other) {
		return false
	}
	for s := range set {
		if _, ok := other[s]; !ok {
			return false
		}
	}
	return true
}
