package device

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	devicedomain "github.com/micro-ha/nocontact/internal/domain/device"
	"github.com/micro-ha/nocontact/internal/interval"
	"github.com/micro-ha/nocontact/internal/model"
	"github.com/micro-ha/nocontact/internal/pkg/utils"
)

// Service implements device.Service use-cases.
type Service struct {
	repo   devicedomain.Repository
	logger *slog.Logger
	now    func() time.Time
}

// New creates device service reading the wall clock.
func New(repo devicedomain.Repository, logger *slog.Logger) *Service {
	return NewWithClock(repo, logger, utils.NowUTC)
}

// NewWithClock creates device service with an explicit clock.
func NewWithClock(repo devicedomain.Repository, logger *slog.Logger, now func() time.Time) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: now}
}

// ListDevices returns the user's lines with status derived at call time.
func (s *Service) ListDevices(ctx context.Context, userID string, filter devicedomain.ListFilter) ([]devicedomain.View, error) {
	items, err := s.repo.ListDevices(ctx, userID)
	if err != nil {
		return nil, err
	}
	return filterViews(buildViews(items, s.now()), filter), nil
}

// ListAllDevices returns lines of every user, used by the sweeper and CLI.
func (s *Service) ListAllDevices(ctx context.Context) ([]devicedomain.View, error) {
	items, err := s.repo.ListDevices(ctx, "")
	if err != nil {
		return nil, err
	}
	return buildViews(items, s.now()), nil
}

// GetDevice returns one line by id.
func (s *Service) GetDevice(ctx context.Context, userID, id string) (devicedomain.View, error) {
	item, err := s.repo.GetDevice(ctx, userID, id)
	if err != nil {
		return devicedomain.View{}, err
	}
	return model.NewDeviceView(item, s.now()), nil
}

// CreateDevice validates the form payload and stores a new line.
func (s *Service) CreateDevice(ctx context.Context, userID string, in devicedomain.Input) (devicedomain.View, error) {
	fields, err := validateInput(in)
	if err != nil {
		return devicedomain.View{}, fmt.Errorf("%w: %s", devicedomain.ErrDeviceInvalid, err)
	}
	now := s.now()
	item := model.Device{
		ID:              uuid.NewString(),
		UserID:          userID,
		PhoneNumber:     fields.phone,
		Location:        fields.location,
		NoContactPeriod: interval.HoursToDuration(fields.hours),
		Active:          fields.active,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.InsertDevice(ctx, item); err != nil {
		if utils.IsUniqueConstraintError(err) {
			return devicedomain.View{}, fmt.Errorf("%w: phone number %s is already monitored", devicedomain.ErrDeviceInvalid, item.PhoneNumber)
		}
		return devicedomain.View{}, err
	}
	s.logger.Info("device created", "device_id", item.ID, "user_id", userID, "threshold", item.NoContactPeriod)
	return model.NewDeviceView(item, now), nil
}

// UpdateDevice replaces the form fields of an existing line.
func (s *Service) UpdateDevice(ctx context.Context, userID, id string, in devicedomain.Input) (devicedomain.View, error) {
	current, err := s.repo.GetDevice(ctx, userID, id)
	if err != nil {
		return devicedomain.View{}, err
	}
	if in.ThresholdHours == nil {
		if hours := interval.DurationToHours(current.NoContactPeriod); hours.Valid {
			value := hours.Value
			in.ThresholdHours = &value
		}
	}
	if in.Active == nil {
		active := current.Active
		in.Active = &active
	}
	fields, err := validateInput(in)
	if err != nil {
		return devicedomain.View{}, fmt.Errorf("%w: %s", devicedomain.ErrDeviceInvalid, err)
	}

	now := s.now()
	current.PhoneNumber = fields.phone
	current.Location = fields.location
	current.NoContactPeriod = interval.HoursToDuration(fields.hours)
	current.Active = fields.active
	current.UpdatedAt = now
	if err := s.repo.UpdateDevice(ctx, current); err != nil {
		if utils.IsUniqueConstraintError(err) {
			return devicedomain.View{}, fmt.Errorf("%w: phone number %s is already monitored", devicedomain.ErrDeviceInvalid, current.PhoneNumber)
		}
		return devicedomain.View{}, err
	}
	s.logger.Info("device updated", "device_id", id, "user_id", userID, "threshold", current.NoContactPeriod)
	return model.NewDeviceView(current, now), nil
}

// DeleteDevice removes a line.
func (s *Service) DeleteDevice(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteDevice(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("device deleted", "device_id", id, "user_id", userID)
	return nil
}

// ListActivity returns recent inbound signals for one of the user's lines.
func (s *Service) ListActivity(ctx context.Context, userID, id string, limit int) ([]devicedomain.ActivityEvent, error) {
	if _, err := s.repo.GetDevice(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.repo.ListActivityEvents(ctx, id, limit)
}

func buildViews(items []model.Device, now time.Time) []model.DeviceView {
	views := make([]model.DeviceView, 0, len(items))
	for _, item := range items {
		views = append(views, model.NewDeviceView(item, now))
	}
	return views
}
