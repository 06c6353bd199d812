package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirewire/hirewire/internal/services"
	"github.com/hirewire/hirewire/internal/utils"
)

type ApplicationHandler struct {
	svc services.ApplicationService
}

func NewApplicationHandler(svc services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

type CreateApplicationRequest struct {
	VacancyID uint                   `json:"vacancy_id" binding:"required"`
	Answers   []services.AnswerInput `json:"answers"`
}

func (h *ApplicationHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.Create", "invalid request body", err))
		return
	}

	app, err := h.svc.Create(c.Request.Context(), userID, req.VacancyID, req.Answers)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	app, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	apps, err := h.svc.ListMine(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) ListForVacancy(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	vacancyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	apps, err := h.svc.ListForVacancy(c.Request.Context(), userID, vacancyID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) ListStatuses(c *gin.Context) {
	statuses, err := h.svc.ListStatuses(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

type CreateNoteRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *ApplicationHandler) CreateNote(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.CreateNote", "invalid request body", err))
		return
	}

	note, err := h.svc.AddNote(c.Request.Context(), userID, id, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *ApplicationHandler) ListNotes(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	notes, err := h.svc.ListNotes(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}
