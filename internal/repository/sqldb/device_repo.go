package sqldb

import (
	"context"
	"errors"
	"time"

	devicedomain "github.com/micro-ha/nocontact/internal/domain/device"
	"github.com/micro-ha/nocontact/internal/storage"
)

// DeviceRepository is the SQL implementation of device.Repository.
type DeviceRepository struct {
	db *DB
}

// NewDeviceRepository creates SQL-backed device repository.
func NewDeviceRepository(db *DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// ListDevices returns lines for a user, or every line when userID is empty.
func (r *DeviceRepository) ListDevices(ctx context.Context, userID string) ([]devicedomain.Device, error) {
	return r.db.storage.ListDevices(ctx, userID)
}

// GetDevice returns one line owned by userID.
func (r *DeviceRepository) GetDevice(ctx context.Context, userID, id string) (devicedomain.Device, error) {
	d, err := r.db.storage.GetDevice(ctx, userID, id)
	return d, mapNotFound(err, devicedomain.ErrDeviceNotFound)
}

// InsertDevice stores a new line.
func (r *DeviceRepository) InsertDevice(ctx context.Context, d devicedomain.Device) error {
	return r.db.storage.InsertDevice(ctx, d)
}

// UpdateDevice rewrites form fields of an existing line.
func (r *DeviceRepository) UpdateDevice(ctx context.Context, d devicedomain.Device) error {
	return mapNotFound(r.db.storage.UpdateDevice(ctx, d), devicedomain.ErrDeviceNotFound)
}

// DeleteDevice removes a line.
func (r *DeviceRepository) DeleteDevice(ctx context.Context, userID, id string) error {
	return mapNotFound(r.db.storage.DeleteDevice(ctx, userID, id), devicedomain.ErrDeviceNotFound)
}

// FindDevicesByPhone returns all lines registered for phone across users.
func (r *DeviceRepository) FindDevicesByPhone(ctx context.Context, phone string) ([]devicedomain.Device, error) {
	return r.db.storage.FindDevicesByPhone(ctx, phone)
}

// TouchActivity advances last activity for phone.
func (r *DeviceRepository) TouchActivity(ctx context.Context, phone string, at, updatedAt time.Time) (int64, error) {
	return r.db.storage.TouchActivity(ctx, phone, at, updatedAt)
}

// InsertActivityEvent stores an inbound signal.
func (r *DeviceRepository) InsertActivityEvent(ctx context.Context, ev devicedomain.ActivityEvent) error {
	return r.db.storage.InsertActivityEvent(ctx, ev)
}

// ListActivityEvents returns latest signals for a line.
func (r *DeviceRepository) ListActivityEvents(ctx context.Context, deviceID string, limit int) ([]devicedomain.ActivityEvent, error) {
	return r.db.storage.ListActivityEvents(ctx, deviceID, limit)
}

func mapNotFound(err, target error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return target
	}
	return err
}
