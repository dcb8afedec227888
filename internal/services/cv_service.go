package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/careerai/backend/internal/cache"
	"github.com/careerai/backend/internal/models"
	pgrepo "github.com/careerai/backend/internal/repositories/postgres"
	"github.com/careerai/backend/internal/storage"
	"github.com/careerai/backend/internal/utils"
	"github.com/google/uuid"
)

type CVService interface {
	Upload(ctx context.Context, userID, title, fileName string, fileSize int, mimeType, objectName, cvText string, r io.Reader) (*models.CV, error)
	// DownloadURL returns a short-lived signed URL for an owned CV's file.
	DownloadURL(ctx context.Context, userID, cvID string) (string, error)
}

type cvService struct {
	repo     pgrepo.CVRepository
	uploader storage.Uploader
	signer   storage.Signer
	cache    cache.Cache
}

func NewCVService(repo pgrepo.CVRepository, uploader storage.Uploader, signer storage.Signer, c cache.Cache) CVService {
	return &cvService{repo: repo, uploader: uploader, signer: signer, cache: c}
}

func (s *cvService) Upload(ctx context.Context, userID, title, fileName string, fileSize int, mimeType, objectName, cvText string, r io.Reader) (*models.CV, error) {
	const op = "CVService.Upload"

	if userID == "" || objectName == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and object_name are required", nil)
	}
	if s.uploader == nil {
		return nil, utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
	}

	storedPath, err := s.uploader.Upload(ctx, objectName, mimeType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload file", err)
	}

	if title == "" {
		title = fileName
	}

	row := &models.CV{
		ID:       uuid.NewString(),
		UserID:   userID,
		Title:    title,
		FileName: fileName,
		FilePath: storedPath,
		FileSize: fileSize,
		MimeType: mimeType,
		CVText:   cvText,
		UploadAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist cv metadata", err)
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, cache.HistoryKey(userID))
	}

	return row, nil
}

func (s *cvService) DownloadURL(ctx context.Context, userID, cvID string) (string, error) {
	const op = "CVService.DownloadURL"

	if userID == "" || cvID == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "user_id and cv_id are required", nil)
	}
	if s.signer == nil {
		return "", utils.E(utils.CodeInternal, op, "signer is not configured", nil)
	}

	cv, err := s.repo.GetByID(ctx, cvID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", utils.E(utils.CodeNotFound, op, "cv not found", err)
		}
		return "", utils.E(utils.CodeInternal, op, "failed to load cv", err)
	}
	if cv.UserID != userID {
		return "", utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}

	url, err := s.signer.SignedGetURL(ctx, cv.FilePath, 15*time.Minute)
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to sign download url", err)
	}
	return url, nil
}
