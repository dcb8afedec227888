package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/careerai/backend/internal/cache"
	"github.com/careerai/backend/internal/models"
	"github.com/careerai/backend/internal/providers/llm"
	pgrepo "github.com/careerai/backend/internal/repositories/postgres"
	"github.com/careerai/backend/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type AnalysisService interface {
	// Analyze runs the model over an owned CV's extracted text and persists
	// the resulting title, keyword set, and structured details.
	Analyze(ctx context.Context, userID, cvID string) (*models.CVAnalysis, error)
}

type analysisService struct {
	cvs      pgrepo.CVRepository
	analyses pgrepo.AnalysisRepository
	llm      llm.Provider
	cache    cache.Cache
	log      *logrus.Logger
}

func NewAnalysisService(cvs pgrepo.CVRepository, analyses pgrepo.AnalysisRepository, provider llm.Provider, c cache.Cache, log *logrus.Logger) AnalysisService {
	if log == nil {
		log = logrus.New()
	}
	return &analysisService{cvs: cvs, analyses: analyses, llm: provider, cache: c, log: log}
}

type analysisResult struct {
	Title       string   `json:"title"`
	Keywords    []string `json:"keywords"`
	Summary     string   `json:"summary"`
	Strengths   []string `json:"strengths"`
	Suggestions []string `json:"suggestions"`
}

const analysisPrompt = `You are a résumé reviewer. Analyze the CV below and respond with JSON only,
matching this shape exactly:
{"title": string, "keywords": [string], "summary": string, "strengths": [string], "suggestions": [string]}

CV:
`

func (s *analysisService) Analyze(ctx context.Context, userID, cvID string) (*models.CVAnalysis, error) {
	const op = "AnalysisService.Analyze"

	if userID == "" || cvID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and cv_id are required", nil)
	}

	cv, err := s.cvs.GetByID(ctx, cvID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "cv not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load cv", err)
	}
	if cv.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}
	if strings.TrimSpace(cv.CVText) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "cv has no extracted text", nil)
	}

	raw, err := s.llm.Generate(ctx, analysisPrompt+cv.CVText)
	if err != nil {
		s.log.WithError(err).WithField("cv_id", cvID).Error("analysis generation failed")
		return nil, utils.E(utils.CodeUnavailable, op, "analysis is temporarily unavailable", err)
	}

	cleaned := stripCodeFence(raw)
	var parsed analysisResult
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		s.log.WithError(err).WithField("cv_id", cvID).Error("analysis response parse failed")
		return nil, utils.E(utils.CodeInternal, op, "failed to parse analysis result", err)
	}

	title := parsed.Title
	if title == "" {
		title = cv.Title
	}

	row := &models.CVAnalysis{
		ID:        uuid.NewString(),
		CVID:      cv.ID,
		Title:     title,
		Keywords:  pq.StringArray(parsed.Keywords),
		Details:   datatypes.JSON(cleaned),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.analyses.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist analysis", err)
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, cache.HistoryKey(userID))
	}

	return row, nil
}

// stripCodeFence unwraps ```json ... ``` blocks the model sometimes emits.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
