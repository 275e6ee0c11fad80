package model

import (
	"encoding/json"
	"strings"
	"time"
)

type Contact struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	ContactName         string    `json:"contact_name"`
	Relationship        *string   `json:"relationship,omitempty"`
	Email               *string   `json:"email,omitempty"`
	PhoneNumber         *string   `json:"phone_number,omitempty"`
	NotificationMethods []string  `json:"notification_methods"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Profile roles. Super users see the admin controls on the dashboard.
const (
	RoleUser  = "user"
	RoleSuper = "super"
)

type Profile struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	FullName            string    `json:"full_name"`
	PhoneNumber         *string   `json:"phone_number,omitempty"`
	NotificationMethods []string  `json:"notification_methods"`
	Role                string    `json:"role"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Alert delivery statuses written by the external workflow. Other
// lowercase tokens are stored as reported.
const (
	AlertStatusPending = "pending"
	AlertStatusSent    = "sent"
	AlertStatusFailed  = "failed"
)

type AlertRecord struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	AlertType          string     `json:"alert_type"`
	NotificationMethod string     `json:"notification_method"`
	Status             string     `json:"status"`
	Message            string     `json:"message"`
	ResponseLog        *string    `json:"response_log,omitempty"`
	ContactEmail       *string    `json:"contact_email,omitempty"`
	ContactPhone       *string    `json:"contact_phone,omitempty"`
	DevicePhoneNumber  *string    `json:"device_phone_number,omitempty"`
	SentAt             *time.Time `json:"sent_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// DisplayAt is the time shown in history: sent_at when delivered, else created_at.
func (a AlertRecord) DisplayAt() time.Time {
	if a.SentAt != nil {
		return *a.SentAt
	}
	return a.CreatedAt
}

// MethodLabel turns "voice_call" into "voice call".
func (a AlertRecord) MethodLabel() string {
	return strings.Replace(a.NotificationMethod, "_", " ", 1)
}

// MarshalJSON adds display_at and method_label to the stored fields.
func (a AlertRecord) MarshalJSON() ([]byte, error) {
	type stored AlertRecord
	return json.Marshal(struct {
		stored
		DisplayAt   time.Time `json:"display_at"`
		MethodLabel string    `json:"method_label"`
	}{
		stored:      stored(a),
		DisplayAt:   a.DisplayAt(),
		MethodLabel: a.MethodLabel(),
	})
}
