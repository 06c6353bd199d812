package postgres

import (
	"context"
	"errors"

	"github.com/hirewire/hirewire/internal/models"
	"github.com/hirewire/hirewire/internal/utils"
	"gorm.io/gorm"
)

type StatusRepository interface {
	List(ctx context.Context) ([]models.ApplicationStatus, error)
	// DefaultID is the seeded status every new application starts in.
	DefaultID(ctx context.Context) (uint, error)
}

type statusRepo struct {
	db *gorm.DB
}

func NewStatusRepo(db *gorm.DB) StatusRepository {
	return &statusRepo{db: db}
}

func (r *statusRepo) List(ctx context.Context) ([]models.ApplicationStatus, error) {
	var out []models.ApplicationStatus
	err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *statusRepo) DefaultID(ctx context.Context) (uint, error) {
	var status models.ApplicationStatus
	err := r.db.WithContext(ctx).Order("id ASC").Take(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, utils.ErrNotFound
	}
	return status.ID, err
}
