package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirewire/hirewire/internal/services"
	"github.com/hirewire/hirewire/internal/utils"
)

type TagHandler struct {
	svc services.TagService
}

func NewTagHandler(svc services.TagService) *TagHandler {
	return &TagHandler{svc: svc}
}

func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.svc.ListTags(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

type LinkTagRequest struct {
	TagID    uint `json:"tag_id" binding:"required"`
	Position *int `json:"position" binding:"required"`
}

type MoveTagRequest struct {
	Position *int `json:"position" binding:"required"`
}

func (h *TagHandler) ListUserTags(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	links, err := h.svc.ListUserTags(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

func (h *TagHandler) LinkUserTag(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req LinkTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TagHandler.LinkUserTag", "invalid request body", err))
		return
	}

	link, err := h.svc.LinkUserTag(c.Request.Context(), userID, req.TagID, *req.Position)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *TagHandler) MoveUserTag(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	linkID, ok := pathID(c, "link_id")
	if !ok {
		return
	}

	var req MoveTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TagHandler.MoveUserTag", "invalid request body", err))
		return
	}

	link, err := h.svc.MoveUserTag(c.Request.Context(), userID, linkID, *req.Position)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *TagHandler) UnlinkUserTag(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	linkID, ok := pathID(c, "link_id")
	if !ok {
		return
	}

	if err := h.svc.UnlinkUserTag(c.Request.Context(), userID, linkID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TagHandler) ListVacancyTags(c *gin.Context) {
	vacancyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	links, err := h.svc.ListVacancyTags(c.Request.Context(), vacancyID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

func (h *TagHandler) LinkVacancyTag(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	vacancyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req LinkTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TagHandler.LinkVacancyTag", "invalid request body", err))
		return
	}

	link, err := h.svc.LinkVacancyTag(c.Request.Context(), userID, vacancyID, req.TagID, *req.Position)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *TagHandler) MoveVacancyTag(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	vacancyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	linkID, ok := pathID(c, "link_id")
	if !ok {
		return
	}

	var req MoveTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TagHandler.MoveVacancyTag", "invalid request body", err))
		return
	}

	link, err := h.svc.MoveVacancyTag(c.Request.Context(), userID, vacancyID, linkID, *req.Position)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *TagHandler) UnlinkVacancyTag(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	vacancyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	linkID, ok := pathID(c, "link_id")
	if !ok {
		return
	}

	if err := h.svc.UnlinkVacancyTag(c.Request.Context(), userID, vacancyID, linkID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
