package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/micro-ha/nocontact/internal/model"
)

const contactColumns = `id, user_id, contact_name, relationship, email, phone_number, notification_methods, created_at, updated_at`

func scanContact(scan func(dest ...any) error) (model.Contact, error) {
	var (
		c                           model.Contact
		relationship, email, phone  sql.NullString
		methods, createdAt, updated string
	)
	if err := scan(&c.ID, &c.UserID, &c.ContactName, &relationship, &email, &phone, &methods, &createdAt, &updated); err != nil {
		return model.Contact{}, err
	}
	c.Relationship = strPtr(relationship)
	c.Email = strPtr(email)
	c.PhoneNumber = strPtr(phone)
	c.NotificationMethods = ParseMethodsJSON(methods)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updated)
	return c, nil
}

func (r *Repository) ListContacts(ctx context.Context, userID string) ([]model.Contact, error) {
	rows, err := r.query(ctx, `SELECT `+contactColumns+` FROM user_contacts WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Contact{}
	for rows.Next() {
		c, err := scanContact(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *Repository) GetContact(ctx context.Context, userID, id string) (model.Contact, error) {
	row := r.queryRow(ctx, `SELECT `+contactColumns+` FROM user_contacts WHERE id = ? AND user_id = ?`, id, userID)
	c, err := scanContact(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Contact{}, fmt.Errorf("%w: contact %s", ErrNotFound, id)
	}
	return c, err
}

func (r *Repository) InsertContact(ctx context.Context, c model.Contact) error {
	_, err := r.exec(ctx, `
		INSERT INTO user_contacts (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.ContactName, nullable(c.Relationship), nullable(c.Email), nullable(c.PhoneNumber),
		EncodeMethodsJSON(c.NotificationMethods), formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	return err
}

func (r *Repository) UpdateContact(ctx context.Context, c model.Contact) error {
	res, err := r.exec(ctx, `
		UPDATE user_contacts
		SET contact_name = ?, relationship = ?, email = ?, phone_number = ?, notification_methods = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		c.ContactName, nullable(c.Relationship), nullable(c.Email), nullable(c.PhoneNumber),
		EncodeMethodsJSON(c.NotificationMethods), formatTime(c.UpdatedAt),
		c.ID, c.UserID,
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

func (r *Repository) DeleteContact(ctx context.Context, userID, id string) error {
	res, err := r.exec(ctx, `DELETE FROM user_contacts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
