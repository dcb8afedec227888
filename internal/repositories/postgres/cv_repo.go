package postgres

import (
	"context"
	"errors"

	"github.com/careerai/backend/internal/models"
	"github.com/careerai/backend/internal/utils"
	"gorm.io/gorm"
)

type CVRepository interface {
	Insert(ctx context.Context, cv *models.CV) error
	GetByID(ctx context.Context, id string) (*models.CV, error)
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.CV, error)
}

type cvRepo struct {
	db *gorm.DB
}

func NewCVRepo(db *gorm.DB) CVRepository {
	return &cvRepo{db: db}
}

func (r *cvRepo) Insert(ctx context.Context, cv *models.CV) error {
	return r.db.WithContext(ctx).Create(cv).Error
}

func (r *cvRepo) GetByID(ctx context.Context, id string) (*models.CV, error) {
	var row models.CV
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *cvRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.CV, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []models.CV
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("upload_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
