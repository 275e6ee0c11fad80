package storage

import (
	"context"
	"database/sql"
	"strings"

	"github.com/micro-ha/nocontact/internal/domain/alert"
	"github.com/micro-ha/nocontact/internal/model"
)

func (r *Repository) ListAlerts(ctx context.Context, userID string, filter alert.Filter) ([]model.AlertRecord, error) {
	where := []string{"user_id = ?"}
	args := []any{userID}
	if phone := strings.TrimSpace(filter.DevicePhoneNumber); phone != "" {
		where = append(where, "device_phone_number = ?")
		args = append(args, phone)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		where = append(where, "status = ?")
		args = append(args, status)
	}
	query := `
		SELECT id, user_id, alert_type, notification_method, status, message, response_log,
			contact_email, contact_phone, device_phone_number, sent_at, created_at
		FROM alert_history
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.AlertRecord{}
	for rows.Next() {
		var (
			rec                                     model.AlertRecord
			responseLog, email, phone, device, sent sql.NullString
			createdAt                               string
		)
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.AlertType, &rec.NotificationMethod, &rec.Status, &rec.Message,
			&responseLog, &email, &phone, &device, &sent, &createdAt,
		); err != nil {
			return nil, err
		}
		rec.ResponseLog = strPtr(responseLog)
		rec.ContactEmail = strPtr(email)
		rec.ContactPhone = strPtr(phone)
		rec.DevicePhoneNumber = strPtr(device)
		rec.SentAt = toTimePtr(sent)
		rec.CreatedAt = parseTime(createdAt)
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (r *Repository) InsertAlert(ctx context.Context, rec model.AlertRecord) error {
	_, err := r.exec(ctx, `
		INSERT INTO alert_history (id, user_id, alert_type, notification_method, status, message, response_log,
			contact_email, contact_phone, device_phone_number, sent_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.AlertType, rec.NotificationMethod, rec.Status, rec.Message,
		nullable(rec.ResponseLog), nullable(rec.ContactEmail), nullable(rec.ContactPhone),
		nullable(rec.DevicePhoneNumber), fromTimePtr(rec.SentAt), formatTime(rec.CreatedAt),
	)
	return err
}
