package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/careerai/backend/internal/models"
	"github.com/careerai/backend/internal/utils"
	"gorm.io/gorm"
)

type InterviewRepository interface {
	Insert(ctx context.Context, iv *models.Interview) error
	GetByID(ctx context.Context, id string) (*models.Interview, error)
	End(ctx context.Context, id string, endedAt time.Time) error
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.Interview, error)
}

type interviewRepo struct {
	db *gorm.DB
}

func NewInterviewRepo(db *gorm.DB) InterviewRepository {
	return &interviewRepo{db: db}
}

func (r *interviewRepo) Insert(ctx context.Context, iv *models.Interview) error {
	return r.db.WithContext(ctx).Create(iv).Error
}

func (r *interviewRepo) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	var row models.Interview
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *interviewRepo) End(ctx context.Context, id string, endedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Interview{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":   models.InterviewEnded,
			"ended_at": endedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *interviewRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.Interview, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []models.Interview
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
