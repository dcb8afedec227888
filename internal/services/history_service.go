package services

import (
	"context"
	"errors"
	"time"

	"github.com/careerai/backend/internal/cache"
	mongorepo "github.com/careerai/backend/internal/repositories/mongo"
	pgrepo "github.com/careerai/backend/internal/repositories/postgres"
	"github.com/careerai/backend/internal/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	historyLimit = 10
	historyTTL   = time.Minute
)

type CVSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	UploadDate time.Time `json:"uploadDate"`
}

type AnalysisSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Keywords  []string  `json:"keywords"`
	CreatedAt time.Time `json:"createdAt"`
	CVID      string    `json:"cvId"`
}

type InterviewSummary struct {
	ID           string    `json:"id"`
	Position     string    `json:"position"`
	Date         time.Time `json:"date"`
	MessageCount int64     `json:"messageCount"`
}

type HistorySnapshot struct {
	CVs        []CVSummary        `json:"cvs"`
	Analyses   []AnalysisSummary  `json:"analyses"`
	Interviews []InterviewSummary `json:"interviews"`
}

type HistoryService interface {
	// Fetch assembles the caller's recent activity: up to 10 CVs, analyses,
	// and interviews, each most-recent-first. All-or-nothing: any lookup
	// failure fails the whole call.
	Fetch(ctx context.Context, email string) (*HistorySnapshot, error)
}

type historyService struct {
	users      pgrepo.UserRepository
	cvs        pgrepo.CVRepository
	analyses   pgrepo.AnalysisRepository
	interviews pgrepo.InterviewRepository
	messages   mongorepo.MessageRepository
	cache      cache.Cache
	log        *logrus.Logger
}

func NewHistoryService(
	users pgrepo.UserRepository,
	cvs pgrepo.CVRepository,
	analyses pgrepo.AnalysisRepository,
	interviews pgrepo.InterviewRepository,
	messages mongorepo.MessageRepository,
	c cache.Cache,
	log *logrus.Logger,
) HistoryService {
	if log == nil {
		log = logrus.New()
	}
	return &historyService{
		users:      users,
		cvs:        cvs,
		analyses:   analyses,
		interviews: interviews,
		messages:   messages,
		cache:      c,
		log:        log,
	}
}

func (s *historyService) Fetch(ctx context.Context, email string) (*HistorySnapshot, error) {
	const op = "HistoryService.Fetch"

	if email == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		s.log.WithError(err).WithField("email", email).Error("history user lookup failed")
		return nil, utils.E(utils.CodeInternal, op, "failed to load history", err)
	}

	if s.cache != nil {
		var cached HistorySnapshot
		if hit, _ := s.cache.GetJSON(ctx, cache.HistoryKey(user.ID), &cached); hit {
			return &cached, nil
		}
	}

	snap := &HistorySnapshot{
		CVs:        []CVSummary{},
		Analyses:   []AnalysisSummary{},
		Interviews: []InterviewSummary{},
	}

	// Fan-out over the three lookups; the first failure cancels the rest.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.cvs.ListRecentByUser(gctx, user.ID, historyLimit)
		if err != nil {
			return err
		}
		out := make([]CVSummary, 0, len(rows))
		for _, cv := range rows {
			out = append(out, CVSummary{ID: cv.ID, Title: cv.Title, UploadDate: cv.UploadAt})
		}
		snap.CVs = out
		return nil
	})

	g.Go(func() error {
		rows, err := s.analyses.ListRecentByUser(gctx, user.ID, historyLimit)
		if err != nil {
			return err
		}
		out := make([]AnalysisSummary, 0, len(rows))
		for _, a := range rows {
			out = append(out, AnalysisSummary{
				ID:        a.ID,
				Title:     a.Title,
				Keywords:  []string(a.Keywords),
				CreatedAt: a.CreatedAt,
				CVID:      a.CVID,
			})
		}
		snap.Analyses = out
		return nil
	})

	g.Go(func() error {
		rows, err := s.interviews.ListRecentByUser(gctx, user.ID, historyLimit)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(rows))
		for _, iv := range rows {
			ids = append(ids, iv.ID)
		}
		counts, err := s.messages.CountByInterviews(gctx, ids)
		if err != nil {
			return err
		}
		out := make([]InterviewSummary, 0, len(rows))
		for _, iv := range rows {
			out = append(out, InterviewSummary{
				ID:           iv.ID,
				Position:     iv.Position,
				Date:         iv.Date,
				MessageCount: counts[iv.ID],
			})
		}
		snap.Interviews = out
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Error("history aggregation failed")
		return nil, utils.E(utils.CodeInternal, op, "failed to load history", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cache.HistoryKey(user.ID), snap, historyTTL); err != nil {
			s.log.WithError(err).Debug("history cache set failed")
		}
	}

	return snap, nil
}
