package alert

import (
	"context"
	"errors"
	"time"

	"github.com/micro-ha/nocontact/internal/model"
)

// ErrAlertInvalid means an alert outcome payload failed validation.
var ErrAlertInvalid = errors.New("alert invalid")

// Record is one alert dispatched by the external workflow.
type Record = model.AlertRecord

// Filter narrows alert history.
type Filter struct {
	DevicePhoneNumber string
	Status            string
	Limit             int
}

// Input is posted by the workflow automation after it dispatched an alert.
type Input struct {
	AlertType          string     `json:"alert_type"`
	NotificationMethod string     `json:"notification_method"`
	Status             string     `json:"status"`
	Message            string     `json:"message"`
	ResponseLog        string     `json:"response_log"`
	ContactEmail       string     `json:"contact_email"`
	ContactPhone       string     `json:"contact_phone"`
	DevicePhoneNumber  string     `json:"device_phone_number"`
	SentAt             *time.Time `json:"sent_at"`
}

// Repository defines alert history persistence.
type Repository interface {
	ListAlerts(ctx context.Context, userID string, filter Filter) ([]Record, error)
	InsertAlert(ctx context.Context, r Record) error
}

// Service exposes alert history use-cases.
type Service interface {
	ListAlerts(ctx context.Context, userID string, filter Filter) ([]Record, error)
	RecordAlert(ctx context.Context, userID string, in Input) (Record, error)
}
