package model

import (
	"time"

	"github.com/micro-ha/nocontact/internal/activity"
	"github.com/micro-ha/nocontact/internal/interval"
)

// Notification methods selectable for contacts and the caregiver profile.
const (
	MethodEmail = "email"
	MethodSMS   = "sms"
	MethodVoice = "voice"
)

// NotificationMethods lists supported methods in display order.
var NotificationMethods = []string{MethodEmail, MethodSMS, MethodVoice}

// Device is a monitored phone line at a location.
type Device struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	PhoneNumber     string     `json:"phone_number"`
	Location        string     `json:"location"`
	NoContactPeriod string     `json:"no_contact_period"`
	Active          bool       `json:"active"`
	LastActivityAt  *time.Time `json:"last_activity_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DeviceView is the read model served to the dashboard. Status is derived
// at read time and never stored.
type DeviceView struct {
	Device
	ThresholdHours    interval.Hours  `json:"threshold_hours"`
	Status            activity.Status `json:"status"`
	LastActivityLabel string          `json:"last_activity_label"`
}

// NewDeviceView derives threshold and status for d at now.
func NewDeviceView(d Device, now time.Time) DeviceView {
	threshold := interval.DurationToHours(d.NoContactPeriod)
	return DeviceView{
		Device:            d,
		ThresholdHours:    threshold,
		Status:            activity.Evaluate(d.LastActivityAt, threshold, now),
		LastActivityLabel: activity.LastActivityLabel(d.LastActivityAt, now),
	}
}

// ActivityEvent is one inbound signal (SMS, MQTT heartbeat, backend sync)
// proving a line is alive.
type ActivityEvent struct {
	ID          string    `json:"id"`
	DeviceID    *string   `json:"device_id,omitempty"`
	PhoneNumber string    `json:"phone_number"`
	Message     *string   `json:"message,omitempty"`
	Source      string    `json:"source"`
	ReceivedAt  time.Time `json:"received_at"`
	CreatedAt   time.Time `json:"created_at"`
}
