package postgres

import (
	"context"

	"github.com/hirewire/hirewire/internal/models"
	"gorm.io/gorm"
)

type FileRepository interface {
	Insert(ctx context.Context, f *models.File) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.File, error)
	// TypesByIDs returns the distinct types of the referenced files;
	// missing or soft-deleted ids simply contribute nothing, which makes
	// the FILE answer type-set comparison fail downstream.
	TypesByIDs(ctx context.Context, ids []int64) ([]string, error)
}

type fileRepo struct {
	db *gorm.DB
}

func NewFileRepo(db *gorm.DB) FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) Insert(ctx context.Context, f *models.File) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *fileRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.File, error) {
	var out []models.File
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("uploaded_at DESC").
		Find(&out).Error
	return out, err
}

func (r *fileRepo) TypesByIDs(ctx context.Context, ids []int64) ([]string, error) {
	var types []string
	if len(ids) == 0 {
		return types, nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.File{}).
		Distinct("type").
		Where("id IN ?", ids).
		Pluck("type", &types).Error
	return types, err
}
