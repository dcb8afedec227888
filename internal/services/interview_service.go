package services

import (
	"context"
	"errors"
	"time"

	"github.com/careerai/backend/internal/cache"
	"github.com/careerai/backend/internal/models"
	mongorepo "github.com/careerai/backend/internal/repositories/mongo"
	pgrepo "github.com/careerai/backend/internal/repositories/postgres"
	"github.com/careerai/backend/internal/utils"
	"github.com/google/uuid"
)

type InterviewService interface {
	Start(ctx context.Context, userID, position string) (*models.Interview, error)
	Get(ctx context.Context, interviewID string) (*models.Interview, error)
	End(ctx context.Context, interviewID string) (*models.Interview, error)
	AppendMessage(ctx context.Context, interviewID, userID, role, content string) (*models.InterviewMessage, error)
	ListMessages(ctx context.Context, interviewID string, limit int64) ([]models.InterviewMessage, error)
	RecentContext(ctx context.Context, interviewID string, n int64) ([]models.InterviewMessage, error)
}

type interviewService struct {
	interviews pgrepo.InterviewRepository
	messages   mongorepo.MessageRepository
	cache      cache.Cache
}

func NewInterviewService(interviews pgrepo.InterviewRepository, messages mongorepo.MessageRepository, c cache.Cache) InterviewService {
	return &interviewService{interviews: interviews, messages: messages, cache: c}
}

func (s *interviewService) Start(ctx context.Context, userID, position string) (*models.Interview, error) {
	const op = "InterviewService.Start"

	if userID == "" || position == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and position are required", nil)
	}

	row := &models.Interview{
		ID:       uuid.NewString(),
		UserID:   userID,
		Position: position,
		Status:   models.InterviewActive,
		Date:     time.Now().UTC(),
	}

	if err := s.interviews.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create interview", err)
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, cache.HistoryKey(userID))
	}

	return row, nil
}

func (s *interviewService) Get(ctx context.Context, interviewID string) (*models.Interview, error) {
	const op = "InterviewService.Get"

	if interviewID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview_id is required", nil)
	}

	out, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}
	return out, nil
}

func (s *interviewService) End(ctx context.Context, interviewID string) (*models.Interview, error) {
	const op = "InterviewService.End"

	iv, err := s.Get(ctx, interviewID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.interviews.End(ctx, interviewID, now); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to end interview", err)
	}

	iv.Status = models.InterviewEnded
	iv.EndedAt = &now
	return iv, nil
}

func (s *interviewService) AppendMessage(ctx context.Context, interviewID, userID, role, content string) (*models.InterviewMessage, error) {
	const op = "InterviewService.AppendMessage"

	if interviewID == "" || userID == "" || content == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview_id, user_id, and content are required", nil)
	}
	if role != "user" && role != "assistant" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "role must be user or assistant", nil)
	}

	msg := &models.InterviewMessage{
		InterviewID: interviewID,
		UserID:      userID,
		Role:        role,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.messages.Insert(ctx, msg); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to append message", err)
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, cache.HistoryKey(userID))
	}

	return msg, nil
}

func (s *interviewService) ListMessages(ctx context.Context, interviewID string, limit int64) ([]models.InterviewMessage, error) {
	const op = "InterviewService.ListMessages"

	if interviewID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview_id is required", nil)
	}
	out, err := s.messages.ListByInterview(ctx, interviewID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list messages", err)
	}
	return out, nil
}

func (s *interviewService) RecentContext(ctx context.Context, interviewID string, n int64) ([]models.InterviewMessage, error) {
	const op = "InterviewService.RecentContext"

	if interviewID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview_id is required", nil)
	}
	out, err := s.messages.LatestN(ctx, interviewID, n)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load context", err)
	}
	return out, nil
}
