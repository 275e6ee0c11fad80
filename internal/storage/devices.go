package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/micro-ha/nocontact/internal/model"
)

const deviceColumns = `id, user_id, phone_number, location, no_contact_period, active, last_activity_at, created_at, updated_at`

func scanDevice(scan func(dest ...any) error) (model.Device, error) {
	var (
		d                    model.Device
		period, lastActivity sql.NullString
		createdAt, updatedAt string
	)
	if err := scan(&d.ID, &d.UserID, &d.PhoneNumber, &d.Location, &period, &d.Active, &lastActivity, &createdAt, &updatedAt); err != nil {
		return model.Device{}, err
	}
	d.NoContactPeriod = period.String
	d.LastActivityAt = toTimePtr(lastActivity)
	d.CreatedAt = parseTime(createdAt)
	d.UpdatedAt = parseTime(updatedAt)
	return d, nil
}

// ListDevices returns lines newest first. Empty userID lists every user.
func (r *Repository) ListDevices(ctx context.Context, userID string) ([]model.Device, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if userID == "" {
		rows, err = r.query(ctx, `SELECT `+deviceColumns+` FROM phone_lines ORDER BY created_at DESC, id`)
	} else {
		rows, err = r.query(ctx, `SELECT `+deviceColumns+` FROM phone_lines WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Device{}
	for rows.Next() {
		d, err := scanDevice(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *Repository) GetDevice(ctx context.Context, userID, id string) (model.Device, error) {
	row := r.queryRow(ctx, `SELECT `+deviceColumns+` FROM phone_lines WHERE id = ? AND user_id = ?`, id, userID)
	d, err := scanDevice(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Device{}, fmt.Errorf("%w: device %s", ErrNotFound, id)
	}
	return d, err
}

func (r *Repository) InsertDevice(ctx context.Context, d model.Device) error {
	_, err := r.exec(ctx, `
		INSERT INTO phone_lines (`+deviceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.PhoneNumber, d.Location, nullable(&d.NoContactPeriod), d.Active,
		fromTimePtr(d.LastActivityAt), formatTime(d.CreatedAt), formatTime(d.UpdatedAt),
	)
	return err
}

// UpdateDevice rewrites the form fields. last_activity_at is owned by TouchActivity.
func (r *Repository) UpdateDevice(ctx context.Context, d model.Device) error {
	res, err := r.exec(ctx, `
		UPDATE phone_lines
		SET phone_number = ?, location = ?, no_contact_period = ?, active = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		d.PhoneNumber, d.Location, nullable(&d.NoContactPeriod), d.Active, formatTime(d.UpdatedAt),
		d.ID, d.UserID,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteDevice(ctx context.Context, userID, id string) error {
	res, err := r.exec(ctx, `DELETE FROM phone_lines WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) FindDevicesByPhone(ctx context.Context, phone string) ([]model.Device, error) {
	rows, err := r.query(ctx, `SELECT `+deviceColumns+` FROM phone_lines WHERE phone_number = ? ORDER BY created_at, id`, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Device{}
	for rows.Next() {
		d, err := scanDevice(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// TouchActivity advances last_activity_at for every line with phone when at
// is newer than the stored value. Touched rows get updatedAt.
func (r *Repository) TouchActivity(ctx context.Context, phone string, at, updatedAt time.Time) (int64, error) {
	stamp := formatTime(at)
	res, err := r.exec(ctx, `
		UPDATE phone_lines
		SET last_activity_at = ?, updated_at = ?
		WHERE phone_number = ? AND (last_activity_at IS NULL OR last_activity_at < ?)`,
		stamp, formatTime(updatedAt), phone, stamp,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *Repository) InsertActivityEvent(ctx context.Context, ev model.ActivityEvent) error {
	_, err := r.exec(ctx, `
		INSERT INTO activity_events (id, device_id, phone_number, message, source, received_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, nullable(ev.DeviceID), ev.PhoneNumber, nullable(ev.Message), ev.Source,
		formatTime(ev.ReceivedAt), formatTime(ev.CreatedAt),
	)
	return err
}

func (r *Repository) ListActivityEvents(ctx context.Context, deviceID string, limit int) ([]model.ActivityEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.query(ctx, `
		SELECT id, device_id, phone_number, message, source, received_at, created_at
		FROM activity_events
		WHERE device_id = ?
		ORDER BY received_at DESC, id
		LIMIT ?`, deviceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.ActivityEvent{}
	for rows.Next() {
		var (
			ev                    model.ActivityEvent
			device, message       sql.NullString
			receivedAt, createdAt string
		)
		if err := rows.Scan(&ev.ID, &device, &ev.PhoneNumber, &message, &ev.Source, &receivedAt, &createdAt); err != nil {
			return nil, err
		}
		ev.DeviceID = strPtr(device)
		ev.Message = strPtr(message)
		ev.ReceivedAt = parseTime(receivedAt)
		ev.CreatedAt = parseTime(createdAt)
		result = append(result, ev)
	}
	return result, rows.Err()
}
