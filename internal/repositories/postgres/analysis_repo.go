package postgres

import (
	"context"

	"github.com/careerai/backend/internal/models"
	"gorm.io/gorm"
)

type AnalysisRepository interface {
	Insert(ctx context.Context, a *models.CVAnalysis) error
	// ListRecentByUser returns analyses whose owning CV belongs to the user.
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.CVAnalysis, error)
}

type analysisRepo struct {
	db *gorm.DB
}

func NewAnalysisRepo(db *gorm.DB) AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Insert(ctx context.Context, a *models.CVAnalysis) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *analysisRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]models.CVAnalysis, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []models.CVAnalysis
	err := r.db.WithContext(ctx).
		Joins("JOIN cvs ON cvs.id = cv_analyses.cv_id").
		Where("cvs.user_id = ?", userID).
		Order("cv_analyses.created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
