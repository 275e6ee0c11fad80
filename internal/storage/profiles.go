package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/micro-ha/nocontact/internal/model"
)

func (r *Repository) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	var (
		p                             model.Profile
		phone                         sql.NullString
		methods, createdAt, updatedAt string
	)
	err := r.queryRow(ctx, `
		SELECT id, email, full_name, phone_number, notification_methods, role, created_at, updated_at
		FROM users WHERE id = ?`, userID).
		Scan(&p.ID, &p.Email, &p.FullName, &phone, &methods, &p.Role, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if err != nil {
		return model.Profile{}, err
	}
	p.PhoneNumber = strPtr(phone)
	p.NotificationMethods = ParseMethodsJSON(methods)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

func (r *Repository) InsertProfile(ctx context.Context, p model.Profile) error {
	_, err := r.exec(ctx, `
		INSERT INTO users (id, email, full_name, phone_number, notification_methods, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Email, p.FullName, nullable(p.PhoneNumber), EncodeMethodsJSON(p.NotificationMethods),
		p.Role, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	return err
}

// UpdateProfile never touches email or role.
func (r *Repository) UpdateProfile(ctx context.Context, p model.Profile) error {
	res, err := r.exec(ctx, `
		UPDATE users
		SET full_name = ?, phone_number = ?, notification_methods = ?, updated_at = ?
		WHERE id = ?`,
		p.FullName, nullable(p.PhoneNumber), EncodeMethodsJSON(p.NotificationMethods), formatTime(p.UpdatedAt), p.ID,
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
