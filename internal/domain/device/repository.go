package device

import (
	"context"
	"time"
)

// Repository defines persistent storage operations for device domain.
// An empty userID on list calls means all users.
type Repository interface {
	ListDevices(ctx context.Context, userID string) ([]Device, error)
	GetDevice(ctx context.Context, userID, id string) (Device, error)
	InsertDevice(ctx context.Context, d Device) error
	UpdateDevice(ctx context.Context, d Device) error
	DeleteDevice(ctx context.Context, userID, id string) error

	FindDevicesByPhone(ctx context.Context, phone string) ([]Device, error)
	TouchActivity(ctx context.Context, phone string, at, updatedAt time.Time) (int64, error)
	InsertActivityEvent(ctx context.Context, ev ActivityEvent) error
	ListActivityEvents(ctx context.Context, deviceID string, limit int) ([]ActivityEvent, error)
}
