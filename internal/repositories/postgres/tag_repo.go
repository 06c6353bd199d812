package postgres

import (
	"context"
	"errors"

	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/utils"
	"gorm.io/gorm"
)

type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
}

type tagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) TagRepository {
	return &tagRepo{db: db}
}

func (r *tagRepo) List(ctx context.Context) ([]models.Tag, error) {
	var out []models.Tag
	err := r.db.WithContext(ctx).Preload("Group").Order("id ASC").Find(&out).Error
	return out, err
}

func (r *tagRepo) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Preload("Group").Take(&tag, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &tag, err
}
