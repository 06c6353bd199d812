package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/services"
	"github.com/hirewire/hirewire/internal/utils"
)

type VacancyHandler struct {
	svc services.VacancyService
}

func NewVacancyHandler(svc services.VacancyService) *VacancyHandler {
	return &VacancyHandler{svc: svc}
}

type CreateVacancyRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	WorkFormat  string            `json:"work_format" binding:"required"`
	TemplateID  uint              `json:"template_id" binding:"required"`
	Tags        []VacancyTagInput `json:"tags"`
}

type VacancyTagInput struct {
	TagID    uint `json:"tag_id" binding:"required"`
	Position int  `json:"position"`
}

func (h *VacancyHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateVacancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "VacancyHandler.Create", "invalid request body", err))
		return
	}

	v := &models.Vacancy{
		Name:        req.Name,
		Description: req.Description,
		WorkFormat:  models.WorkFormat(req.WorkFormat),
		TemplateID:  req.TemplateID,
	}
	for _, t := range req.Tags {
		v.Tags = append(v.Tags, models.VacancyTag{TagID: t.TagID, Position: t.Position})
	}

	created, err := h.svc.Create(c.Request.Context(), userID, v)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *VacancyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	v, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *VacancyHandler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *VacancyHandler) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.ListMine(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *VacancyHandler) Delete(c *gin.Context) {
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

func (h *VacancyHandler) Restore(c *gin.Context) {
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

// Search is the personalized feed: vacancies sharing tags with the caller,
// best match first. Optional ?q= matches name and description, optional
// ?work_format= narrows by format.
func (h *VacancyHandler) Search(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	query := services.FeedQuery{
		Text:       c.Query("q"),
		WorkFormat: models.WorkFormat(c.Query("work_format")),
	}

	feed, err := h.svc.PersonalizedFeed(c.Request.Context(), userID, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}
