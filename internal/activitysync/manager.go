package activitysync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	devicedomain "github.com/micro-ha/nocontact/internal/domain/device"
)

// Fetcher returns the latest activity per line from the backend.
type Fetcher interface {
	FetchLatest(ctx context.Context) ([]LatestActivity, error)
}

// Recorder stores one activity signal.
type Recorder interface {
	RecordActivity(ctx context.Context, in devicedomain.ActivityInput) (devicedomain.ActivityResult, error)
}

// Manager pulls backend activity and feeds rows newer than the last pull
// into the recorder.
type Manager struct {
	fetcher  Fetcher
	recorder Recorder
	interval time.Duration
	logger   *slog.Logger

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewManager(fetcher Fetcher, recorder Recorder, interval time.Duration, logger *slog.Logger) *Manager {
	return &Manager{
		fetcher:  fetcher,
		recorder: recorder,
		interval: interval,
		logger:   logger,
		seen:     map[string]time.Time{},
	}
}

// SyncOnce performs one pull and reports how many lines moved forward.
func (m *Manager) SyncOnce(ctx context.Context) (int, error) {
	rows, err := m.fetcher.FetchLatest(ctx)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	updated := 0
	for _, row := range rows {
		if row.PhoneNumber == "" || row.LastActivityAt == nil {
			continue
		}
		if last, ok := m.seen[row.PhoneNumber]; ok && !row.LastActivityAt.After(last) {
			continue
		}
		res, err := m.recorder.RecordActivity(ctx, devicedomain.ActivityInput{
			PhoneNumber: row.PhoneNumber,
			ReceivedAt:  *row.LastActivityAt,
			Source:      devicedomain.SourceBackend,
		})
		if err != nil {
			m.logger.Warn("backend activity rejected", "phone", row.PhoneNumber, "err", err)
			continue
		}
		m.seen[row.PhoneNumber] = *row.LastActivityAt
		updated += res.DevicesUpdated
	}
	return updated, nil
}

// Run pulls immediately and then every interval. onChanged is called after
// pulls that moved at least one line.
func (m *Manager) Run(ctx context.Context, onChanged func()) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		syncCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		updated, err := m.SyncOnce(syncCtx)
		cancel()
		switch {
		case err != nil && ctx.Err() == nil:
			m.logger.Warn("backend activity sync failed", "err", err)
		case updated > 0:
			m.logger.Info("backend activity synced", "updated", updated)
			if onChanged != nil {
				onChanged()
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
