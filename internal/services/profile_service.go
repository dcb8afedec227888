package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/careerai/backend/internal/cache"
	"github.com/careerai/backend/internal/models"
	pgrepo "github.com/careerai/backend/internal/repositories/postgres"
	"github.com/careerai/backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// Letters and whitespace only, Turkish diacritics included.
var nameRe = regexp.MustCompile(`^[a-zA-ZçÇğĞıİöÖşŞüÜ\s]+$`)

type ProfileService interface {
	// UpdateProfile writes the caller's display name. bio is accepted for
	// forward compatibility but is not persisted.
	UpdateProfile(ctx context.Context, email, name, bio string) (*models.User, error)
}

type profileService struct {
	users pgrepo.UserRepository
	cache cache.Cache
	log   *logrus.Logger
}

func NewProfileService(users pgrepo.UserRepository, c cache.Cache, log *logrus.Logger) ProfileService {
	if log == nil {
		log = logrus.New()
	}
	return &profileService{users: users, cache: c, log: log}
}

func (s *profileService) UpdateProfile(ctx context.Context, email, name, bio string) (*models.User, error) {
	const op = "ProfileService.UpdateProfile"

	if email == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "unauthorized", nil)
	}

	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 2 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name must be at least 2 characters", nil)
	}
	if !nameRe.MatchString(name) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name may only contain letters and spaces", nil)
	}

	user, err := s.users.UpdateName(ctx, email, name)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		s.log.WithError(err).WithField("email", email).Error("profile name update failed")
		return nil, utils.E(utils.CodeInternal, op, "failed to update profile", err)
	}

	// Rendered dashboard/settings views must pick up the new name.
	if s.cache != nil {
		if err := s.cache.Del(ctx, cache.HistoryKey(user.ID), cache.SettingsKey(user.ID)); err != nil {
			s.log.WithError(err).Warn("profile cache invalidation failed")
		}
	}

	return user, nil
}
