package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hirewire/hirewire/internal/models"
	pgrepo "github.com/hirewire/hirewire/internal/repositories/postgres"
	"github.com/hirewire/hirewire/internal/storage"
	"github.com/hirewire/hirewire/internal/utils"
)

type FileService interface {
	Upload(ctx context.Context, ownerID, fileName, fileType, mimeType string, fileSize int, r io.Reader) (*models.File, error)
	ListMine(ctx context.Context, ownerID string) ([]models.File, error)
}

type fileService struct {
	files    pgrepo.FileRepository
	uploader storage.Uploader
}

func NewFileService(files pgrepo.FileRepository, uploader storage.Uploader) FileService {
	return &fileService{files: files, uploader: uploader}
}

func (s *fileService) Upload(ctx context.Context, ownerID, fileName, fileType, mimeType string, fileSize int, r io.Reader) (*models.File, error) {
	const op = "FileService.Upload"

	if ownerID == "" || fileName == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner_id and file_name are required", nil)
	}
	if fileType == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file type is required", nil)
	}
	if s.uploader == nil {
		return nil, utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
	}

	objectName := ownerID + "/" + uuid.NewString()
	storedPath, err := s.uploader.Upload(ctx, objectName, mimeType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload file", err)
	}

	row := &models.File{
		OwnerID:    ownerID,
		FileName:   fileName,
		FilePath:   storedPath,
		Type:       fileType,
		FileSize:   fileSize,
		MimeType:   mimeType,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.files.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist file metadata", err)
	}
	return row, nil
}

func (s *fileService) ListMine(ctx context.Context, ownerID string) ([]models.File, error) {
	const op = "FileService.ListMine"

	out, err := s.files.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list files", err)
	}
	return out, nil
}
