package device

import (
	"time"

	"github.com/micro-ha/nocontact/internal/activity"
	"github.com/micro-ha/nocontact/internal/model"
)

// Device is the persisted phone line row.
type Device = model.Device

// View is the API read model with derived status.
type View = model.DeviceView

// ActivityEvent is one stored inbound activity signal.
type ActivityEvent = model.ActivityEvent

// Input is the device form payload. ThresholdHours is whole hours; the
// storage interval string is derived from it.
type Input struct {
	PhoneNumber    string `json:"phone_number"`
	Location       string `json:"location"`
	ThresholdHours *int   `json:"threshold_hours"`
	Active         *bool  `json:"active"`
}

// ListFilter applies device list query constraints.
type ListFilter struct {
	State  activity.State
	Query  string
	Active *bool
}

// ActivityInput is an inbound activity signal for a phone number.
type ActivityInput struct {
	PhoneNumber string    `json:"phone_number"`
	ReceivedAt  time.Time `json:"received_at"`
	Message     string    `json:"message,omitempty"`
	Source      string    `json:"source,omitempty"`
}

// Activity sources.
const (
	SourceHTTP    = "http"
	SourceMQTT    = "mqtt"
	SourceBackend = "backend"
)

// ActivityResult summarizes one RecordActivity call.
type ActivityResult struct {
	EventID        string `json:"event_id"`
	DevicesMatched int    `json:"devices_matched"`
	DevicesUpdated int    `json:"devices_updated"`
}
