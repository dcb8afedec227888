package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/careerai/backend/internal/models"
	"github.com/careerai/backend/internal/utils"
	"gorm.io/gorm"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateName(ctx context.Context, email, name string) (*models.User, error)
	SetApproval(ctx context.Context, userID string, approved bool, approvedAt *time.Time, approvedBy *string) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

// Emails are compared case-insensitively; the auth provider is the source of
// truth for casing and we never rewrite it.
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Where("lower(email) = lower(?)", email).
		Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &u, err
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &u, err
}

// UpdateName writes only the name column and returns the fresh row.
func (r *userRepo) UpdateName(ctx context.Context, email, name string) (*models.User, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("lower(email) = lower(?)", email).
		Update("name", name)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.ErrNotFound
	}
	return r.GetByEmail(ctx, email)
}

func (r *userRepo) SetApproval(ctx context.Context, userID string, approved bool, approvedAt *time.Time, approvedBy *string) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"approved":    approved,
			"approved_at": approvedAt,
			"approved_by": approvedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
