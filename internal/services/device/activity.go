package device

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	devicedomain "github.com/micro-ha/nocontact/internal/domain/device"
	"github.com/micro-ha/nocontact/internal/model"
)

// futureSkew bounds how far ahead of the local clock a signal timestamp may be.
const futureSkew = 5 * time.Minute

// RecordActivity stores an inbound signal and advances last activity of every
// line registered under its phone number. Older signals are kept in history
// but never move last activity backwards.
func (s *Service) RecordActivity(ctx context.Context, in devicedomain.ActivityInput) (devicedomain.ActivityResult, error) {
	phone := model.NormalizePhone(in.PhoneNumber)
	if phone == "" {
		return devicedomain.ActivityResult{}, fmt.Errorf("%w: phone number is required", devicedomain.ErrActivityInvalid)
	}
	now := s.now()
	receivedAt := in.ReceivedAt.UTC()
	if in.ReceivedAt.IsZero() {
		receivedAt = now
	}
	if receivedAt.After(now.Add(futureSkew)) {
		return devicedomain.ActivityResult{}, fmt.Errorf("%w: received_at %s is in the future", devicedomain.ErrActivityInvalid, receivedAt.Format(time.RFC3339))
	}
	source := strings.ToLower(strings.TrimSpace(in.Source))
	if source == "" {
		source = devicedomain.SourceHTTP
	}
	var message *string
	if text := strings.TrimSpace(in.Message); text != "" {
		message = &text
	}

	matches, err := s.repo.FindDevicesByPhone(ctx, phone)
	if err != nil {
		return devicedomain.ActivityResult{}, err
	}

	result := devicedomain.ActivityResult{DevicesMatched: len(matches)}
	events := make([]devicedomain.ActivityEvent, 0, max(len(matches), 1))
	if len(matches) == 0 {
		events = append(events, devicedomain.ActivityEvent{PhoneNumber: phone})
	}
	for _, match := range matches {
		deviceID := match.ID
		events = append(events, devicedomain.ActivityEvent{DeviceID: &deviceID, PhoneNumber: phone})
	}
	for i := range events {
		events[i].ID = uuid.NewString()
		events[i].Message = message
		events[i].Source = source
		events[i].ReceivedAt = receivedAt
		events[i].CreatedAt = now
		if err := s.repo.InsertActivityEvent(ctx, events[i]); err != nil {
			return devicedomain.ActivityResult{}, err
		}
	}
	result.EventID = events[0].ID

	if len(matches) > 0 {
		updated, err := s.repo.TouchActivity(ctx, phone, receivedAt, now)
		if err != nil {
			return devicedomain.ActivityResult{}, err
		}
		result.DevicesUpdated = int(updated)
	}

	s.logger.Debug("activity recorded",
		"phone", phone,
		"source", source,
		"received_at", receivedAt,
		"matched", result.DevicesMatched,
		"updated", result.DevicesUpdated,
	)
	return result, nil
}
