package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirewire/hirewire/internal/services"
	"github.com/hirewire/hirewire/internal/utils"
)

type FileHandler struct {
	svc services.FileService
}

func NewFileHandler(svc services.FileService) *FileHandler {
	return &FileHandler{svc: svc}
}

// Upload takes a multipart form with a "file" part and a "type" field
// (RESUME, COVER_LETTER, ...).
func (h *FileHandler) Upload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "FileHandler.Upload", "file part is required", err))
		return
	}
	fileType := c.PostForm("type")

	f, err := header.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "FileHandler.Upload", "failed to read upload", err))
		return
	}
	defer f.Close()

	row, err := h.svc.Upload(
		c.Request.Context(),
		userID,
		header.Filename,
		fileType,
		header.Header.Get("Content-Type"),
		int(header.Size),
		f,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *FileHandler) ListMine(c *gin.Context) {
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
