package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/micro-ha/nocontact/internal/activity"
	"github.com/micro-ha/nocontact/internal/model"
	"github.com/micro-ha/nocontact/internal/realtime"
)

// DeviceLister returns every monitored line with status derived at call time.
type DeviceLister interface {
	ListAllDevices(ctx context.Context) ([]model.DeviceView, error)
}

// Publisher receives status transitions.
type Publisher interface {
	Publish(ev realtime.Event)
}

// Poller re-evaluates line status on a fixed interval and publishes changes.
type Poller struct {
	devices   DeviceLister
	publisher Publisher
	interval  time.Duration
	refreshCh chan struct{}
	logger    *slog.Logger

	mu       sync.Mutex
	last     map[string]model.DeviceView
	baseline bool
}

func New(devices DeviceLister, publisher Publisher, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Poller{
		devices:   devices,
		publisher: publisher,
		interval:  interval,
		refreshCh: make(chan struct{}, 1),
		logger:    logger,
		last:      map[string]model.DeviceView{},
	}
}

func (p *Poller) TriggerRefresh() {
	select {
	case p.refreshCh <- struct{}{}:
	default:
	}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-p.refreshCh:
			timer.Stop()
		case <-timer.C:
		}
		if _, err := p.SweepOnce(ctx); err != nil && ctx.Err() == nil {
			p.logger.Error("status sweep failed", "err", err)
		}
	}
}

// SweepOnce diffs current states against the previous sweep and publishes
// one event per changed, added or removed line. The first sweep only records
// a baseline.
func (p *Poller) SweepOnce(ctx context.Context) ([]realtime.Event, error) {
	views, err := p.devices.ListAllDevices(ctx)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now().UTC()
	events := []realtime.Event{}
	seen := make(map[string]struct{}, len(views))
	for _, view := range views {
		seen[view.ID] = struct{}{}
		prev, known := p.last[view.ID]
		p.last[view.ID] = view
		if !p.baseline {
			continue
		}
		var previous activity.State
		if known {
			if prev.Status.State == view.Status.State {
				continue
			}
			previous = prev.Status.State
		}
		events = append(events, realtime.Event{
			Type:     realtime.EventDeviceStatus,
			UserID:   view.UserID,
			Previous: previous,
			Device:   view,
			At:       now,
		})
		if view.Status.State == activity.StateInactive && view.Active {
			p.logger.Warn("line inactive",
				"device_id", view.ID,
				"user_id", view.UserID,
				"location", view.Location,
				"threshold", view.ThresholdHours.String(),
				"message", view.Status.Message,
			)
		}
	}
	for id, prev := range p.last {
		if _, ok := seen[id]; ok {
			continue
		}
		delete(p.last, id)
		if p.baseline {
			events = append(events, realtime.Event{Type: realtime.EventDeviceRemoved, UserID: prev.UserID, Device: prev, At: now})
		}
	}
	p.baseline = true

	for _, ev := range events {
		p.publisher.Publish(ev)
	}
	if len(events) > 0 {
		p.logger.Info("status sweep published changes", "devices", len(views), "events", len(events))
	}
	return events, nil
}
