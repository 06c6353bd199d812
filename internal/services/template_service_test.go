package services

import (
	"context"
	"testing"

	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/utils"
)

func newTemplateFixture() (TemplateService, *fakeTemplateRepo) {
	repo := &fakeTemplateRepo{templates: map[uint]*models.ApplicationTemplate{}}
	return NewTemplateService(repo), repo
}

func TestTemplateCreateValid(t *testing.T) {
	t.Parallel()

	svc, repo := newTemplateFixture()

	tmpl, err := svc.Create(context.Background(), recruiter, &models.ApplicationTemplate{
		Name: "engineering",
		Questions: []models.Question{
			{Name: "Summary", Type: models.QuestionShortText, IsRequired: true},
			{Name: "Notice period", Type: models.QuestionSingleAnswer, Answers: []models.Answer{{Text: "Two weeks"}}},
		},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if tmpl.CreatedBy != recruiter {
		t.Fatalf("template not attributed to creator: %+v", tmpl)
	}
	if _, ok := repo.templates[tmpl.ID]; !ok {
		t.Fatalf("template not persisted")
	}
}

func TestTemplateCreateQuestionValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		question models.Question
	}{
		{
			name:     "unknown type",
			question: models.Question{Name: "q", Type: "ESSAY"},
		},
		{
			name:     "single answer without choices",
			question: models.Question{Name: "q", Type: models.QuestionSingleAnswer},
		},
		{
			name: "text question with choices",
			question: models.Question{
				Name:    "q",
				Type:    models.QuestionShortText,
				Answers: []models.Answer{{Text: "stray"}},
			},
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, _ := newTemplateFixture()
			_, err := svc.Create(context.Background(), recruiter, &models.ApplicationTemplate{
				Name:      "broken",
				Questions: []models.Question{tc.question},
			})
			if !utils.IsCode(err, utils.CodeInvalidArgument) {
				t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
			}
		})
	}
}

func TestTemplateCreateRequiresQuestions(t *testing.T) {
	t.Parallel()

	svc, _ := newTemplateFixture()
	_, err := svc.Create(context.Background(), recruiter, &models.ApplicationTemplate{Name: "empty"})
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestTemplateDeletePermissions(t *testing.T) {
	t.Parallel()

	svc, repo := newTemplateFixture()
	ctx := context.Background()

	repo.templates[1] = &models.ApplicationTemplate{ID: 1, Name: "mine", CreatedBy: recruiter}
	repo.templates[2] = &models.ApplicationTemplate{ID: 2, Name: "shared", IsGlobal: true}

	if err := svc.SoftDelete(ctx, applicant, 1); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for non-owner, got %v", err)
	}
	if err := svc.SoftDelete(ctx, recruiter, 2); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("global templates must not be deletable, got %v", err)
	}
	if err := svc.SoftDelete(ctx, recruiter, 1); err != nil {
		t.Fatalf("owner delete error: %v", err)
	}
	if err := svc.Restore(ctx, applicant, 1); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for non-owner restore, got %v", err)
	}
	if err := svc.Restore(ctx, recruiter, 1); err != nil {
		t.Fatalf("owner restore error: %v", err)
	}
}
