package services

import (
	"context"
	"errors"
	"time"

	"github.com/careerai/backend/internal/models"
	pgrepo "github.com/careerai/backend/internal/repositories/postgres"
	"github.com/careerai/backend/internal/utils"
	"github.com/sirupsen/logrus"
)

type ApprovalService interface {
	// SetApproval toggles the target user's approval flag. Approving stamps
	// approved_at/approved_by with the current time and the caller's email,
	// even if the user was already approved; revoking clears both.
	SetApproval(ctx context.Context, targetUserID string, approve bool, approverEmail string) (*models.User, error)
}

type approvalService struct {
	users pgrepo.UserRepository
	log   *logrus.Logger
}

func NewApprovalService(users pgrepo.UserRepository, log *logrus.Logger) ApprovalService {
	if log == nil {
		log = logrus.New()
	}
	return &approvalService{users: users, log: log}
}

func (s *approvalService) SetApproval(ctx context.Context, targetUserID string, approve bool, approverEmail string) (*models.User, error) {
	const op = "ApprovalService.SetApproval"

	if approverEmail == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}
	if targetUserID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "userId is required", nil)
	}

	var approvedAt *time.Time
	var approvedBy *string
	if approve {
		now := time.Now().UTC()
		approvedAt = &now
		approvedBy = &approverEmail
	}

	if err := s.users.SetApproval(ctx, targetUserID, approve, approvedAt, approvedBy); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		s.log.WithError(err).WithField("target_user_id", targetUserID).Error("approval update failed")
		return nil, utils.E(utils.CodeInternal, op, "failed to update approval", err)
	}

	user, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		s.log.WithError(err).WithField("target_user_id", targetUserID).Error("approval reload failed")
		return nil, utils.E(utils.CodeInternal, op, "failed to update approval", err)
	}
	return user, nil
}
