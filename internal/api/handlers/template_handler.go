package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/services"
	"github.com/hirewire/hirewire/internal/utils"
	"gorm.io/datatypes"
)

type TemplateHandler struct {
	svc services.TemplateService
}

func NewTemplateHandler(svc services.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

type CreateTemplateRequest struct {
	Name      string                  `json:"name" binding:"required"`
	IsGlobal  bool                    `json:"is_global"`
	Questions []CreateQuestionRequest `json:"questions" binding:"required"`
}

type CreateQuestionRequest struct {
	Name               string           `json:"name" binding:"required"`
	Type               string           `json:"type" binding:"required"`
	MaxLength          *int             `json:"max_length"`
	CustomRequirements *json.RawMessage `json:"custom_requirements"`
	IsRequired         bool             `json:"is_required"`
	Answers            []string         `json:"answers"`
}

func (h *TemplateHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TemplateHandler.Create", "invalid request body", err))
		return
	}

	t := &models.ApplicationTemplate{
		Name:     req.Name,
		IsGlobal: req.IsGlobal,
	}
	for _, q := range req.Questions {
		question := models.Question{
			Name:       q.Name,
			Type:       models.QuestionType(q.Type),
			MaxLength:  q.MaxLength,
			IsRequired: q.IsRequired,
		}
		if q.CustomRequirements != nil {
			question.CustomRequirements = datatypes.JSON(*q.CustomRequirements)
		}
		for _, choice := range q.Answers {
			question.Answers = append(question.Answers, models.Answer{Text: choice})
		}
		t.Questions = append(t.Questions, question)
	}

	created, err := h.svc.Create(c.Request.Context(), userID, t)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *TemplateHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	t, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TemplateHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.SoftDelete(c.Request.Context(), userID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TemplateHandler) Restore(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Restore(c.Request.Context(), userID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
