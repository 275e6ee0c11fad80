package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	profiledomain "github.com/micro-ha/nocontact/internal/domain/profile"
	"github.com/micro-ha/nocontact/internal/model"
	"github.com/micro-ha/nocontact/internal/pkg/utils"
)

// Service implements profile.Service use-cases.
type Service struct {
	repo   profiledomain.Repository
	logger *slog.Logger
	now    func() time.Time
}

func New(repo profiledomain.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: utils.NowUTC}
}

// GetProfile returns the caller's profile, creating an empty one on first use.
func (s *Service) GetProfile(ctx context.Context, userID string) (profiledomain.Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, profiledomain.ErrProfileNotFound) {
		return profiledomain.Profile{}, err
	}

	now := s.now()
	p = profiledomain.Profile{
		ID:                  userID,
		NotificationMethods: []string{model.MethodEmail},
		Role:                model.RoleUser,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repo.InsertProfile(ctx, p); err != nil {
		if !utils.IsUniqueConstraintError(err) {
			return profiledomain.Profile{}, err
		}
		// Provisioned concurrently by another request.
		return s.repo.GetProfile(ctx, userID)
	}
	s.logger.Info("profile provisioned", "user_id", userID)
	return p, nil
}

// UpdateProfile changes name, phone and methods. Email and role are kept.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in profiledomain.Input) (profiledomain.Profile, error) {
	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return profiledomain.Profile{}, err
	}
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return profiledomain.Profile{}, fmt.Errorf("%w: full name is required", profiledomain.ErrProfileInvalid)
	}
	methods := current.NotificationMethods
	if in.NotificationMethods != nil {
		methods, err = model.NormalizeMethods(in.NotificationMethods)
		if err != nil {
			return profiledomain.Profile{}, fmt.Errorf("%w: %s", profiledomain.ErrProfileInvalid, err)
		}
	}

	current.FullName = name
	current.PhoneNumber = nil
	if phone := model.NormalizePhone(in.PhoneNumber); phone != "" {
		current.PhoneNumber = &phone
	}
	current.NotificationMethods = methods
	current.UpdatedAt = s.now()
	if err := s.repo.UpdateProfile(ctx, current); err != nil {
		return profiledomain.Profile{}, err
	}
	s.logger.Info("profile updated", "user_id", userID)
	return current, nil
}
