package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/hirewire/hirewire/internal/utils"
)

type fakeUploader struct {
	objects map[string]string
}

func (u *fakeUploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.objects[objectName] = string(b)
	return objectName, nil
}

func TestFileUploadPersistsMetadata(t *testing.T) {
	t.Parallel()

	files := &fakeFileRepo{}
	uploader := &fakeUploader{objects: map[string]string{}}
	svc := NewFileService(files, uploader)
	ctx := context.Background()

	row, err := svc.Upload(ctx, applicant, "cv.pdf", "RESUME", "application/pdf", 11, strings.NewReader("pdf content"))
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if row.OwnerID != applicant || row.Type != "RESUME" {
		t.Fatalf("metadata not persisted: %+v", row)
	}
	if !strings.HasPrefix(row.FilePath, applicant+"/") {
		t.Fatalf("stored path not namespaced by owner: %q", row.FilePath)
	}
	if got := uploader.objects[row.FilePath]; got != "pdf content" {
		t.Fatalf("object body not uploaded: %q", got)
	}

	mine, err := svc.ListMine(ctx, applicant)
	if err != nil {
		t.Fatalf("ListMine error: %v", err)
	}
	if len(mine) != 1 || mine[0].FileName != "cv.pdf" {
		t.Fatalf("unexpected listing: %+v", mine)
	}
}

func TestFileUploadRequiresType(t *testing.T) {
	t.Parallel()

	svc := NewFileService(&fakeFileRepo{}, &fakeUploader{objects: map[string]string{}})

	_, err := svc.Upload(context.Background(), applicant, "cv.pdf", "", "application/pdf", 3, strings.NewReader("pdf"))
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT for missing type, got %v", err)
	}
}
