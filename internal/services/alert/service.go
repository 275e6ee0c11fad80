package alert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	alertdomain "github.com/micro-ha/nocontact/internal/domain/alert"
	"github.com/micro-ha/nocontact/internal/model"
	"github.com/micro-ha/nocontact/internal/pkg/utils"
)

// DefaultListLimit caps history responses when the caller sets no limit.
const DefaultListLimit = 200

// statusPattern admits pending, sent, failed and any other single token the
// workflow reports, such as "delivered" or "no_answer".
var statusPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,31}$`)

// Service implements alert.Service use-cases.
type Service struct {
	repo   alertdomain.Repository
	logger *slog.Logger
	now    func() time.Time
}

func New(repo alertdomain.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: utils.NowUTC}
}

func (s *Service) ListAlerts(ctx context.Context, userID string, filter alertdomain.Filter) ([]alertdomain.Record, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.DevicePhoneNumber != "" {
		filter.DevicePhoneNumber = model.NormalizePhone(filter.DevicePhoneNumber)
	}
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	return s.repo.ListAlerts(ctx, userID, filter)
}

// RecordAlert stores the outcome of an alert dispatched by the workflow.
func (s *Service) RecordAlert(ctx context.Context, userID string, in alertdomain.Input) (alertdomain.Record, error) {
	rec, err := buildRecord(in)
	if err != nil {
		return alertdomain.Record{}, fmt.Errorf("%w: %s", alertdomain.ErrAlertInvalid, err)
	}
	rec.ID = uuid.NewString()
	rec.UserID = userID
	rec.CreatedAt = s.now()
	if err := s.repo.InsertAlert(ctx, rec); err != nil {
		return alertdomain.Record{}, err
	}
	s.logger.Info("alert recorded",
		"alert_id", rec.ID,
		"user_id", userID,
		"method", rec.NotificationMethod,
		"status", rec.Status,
	)
	return rec, nil
}

func buildRecord(in alertdomain.Input) (alertdomain.Record, error) {
	rec := alertdomain.Record{
		AlertType:          strings.TrimSpace(in.AlertType),
		NotificationMethod: strings.ToLower(strings.TrimSpace(in.NotificationMethod)),
		Status:             strings.ToLower(strings.TrimSpace(in.Status)),
		Message:            strings.TrimSpace(in.Message),
		ResponseLog:        optional(in.ResponseLog),
		ContactEmail:       optional(in.ContactEmail),
		ContactPhone:       optional(model.NormalizePhone(in.ContactPhone)),
		DevicePhoneNumber:  optional(model.NormalizePhone(in.DevicePhoneNumber)),
	}
	switch {
	case rec.AlertType == "":
		return rec, errors.New("alert_type is required")
	case rec.NotificationMethod == "":
		return rec, errors.New("notification_method is required")
	case rec.Message == "":
		return rec, errors.New("message is required")
	}
	if rec.Status == "" {
		rec.Status = model.AlertStatusPending
	}
	if !statusPattern.MatchString(rec.Status) {
		return rec, fmt.Errorf("invalid status %q", in.Status)
	}
	if in.SentAt != nil {
		sent := in.SentAt.UTC()
		rec.SentAt = &sent
	}
	return rec, nil
}

func optional(raw string) *string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	return &value
}
