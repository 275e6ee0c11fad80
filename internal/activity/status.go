package activity

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/micro-ha/nocontact/internal/interval"
)

// State is the derived liveness of a monitored line.
type State string

const (
	StateUnknown  State = "unknown"
	StateActive   State = "active"
	StateInactive State = "inactive"
)

// Color tags consumed by the dashboard and the CLI.
const (
	ColorGray  = "gray"
	ColorGreen = "green"
	ColorRed   = "red"
)

const (
	msPerHour = 3_600_000

	messageUnknown = "No activity recorded"
	messageActive  = "Active recently"
)

// Status is recomputed on every read and never persisted.
type Status struct {
	State         State  `json:"state"`
	Color         string `json:"color"`
	Message       string `json:"message"`
	HoursInactive *int   `json:"hours_inactive,omitempty"`
}

// Evaluate classifies a line from its last activity and threshold at now.
// A threshold of exactly hoursSince is inactive. An invalid threshold never
// compares as active.
func Evaluate(lastActivityAt *time.Time, threshold interval.Hours, now time.Time) Status {
	if lastActivityAt == nil {
		return Status{State: StateUnknown, Color: ColorGray, Message: messageUnknown}
	}

	hoursSince := HoursSince(*lastActivityAt, now)
	if threshold.Valid && hoursSince < float64(threshold.Value) {
		return Status{State: StateActive, Color: ColorGreen, Message: messageActive}
	}

	elapsed := int(math.Floor(hoursSince))
	if elapsed < 0 {
		elapsed = 0
	}
	return Status{
		State:         StateInactive,
		Color:         ColorRed,
		Message:       fmt.Sprintf("Inactive for %dh", elapsed),
		HoursInactive: &elapsed,
	}
}

// HoursSince returns fractional hours between last and now at millisecond precision.
func HoursSince(last, now time.Time) float64 {
	return float64(now.Sub(last).Milliseconds()) / msPerHour
}

// ParseState maps a query value to a state. Empty input means no filter.
func ParseState(raw string) (State, error) {
	switch state := State(strings.ToLower(strings.TrimSpace(raw))); state {
	case "", StateUnknown, StateActive, StateInactive:
		return state, nil
	default:
		return "", errors.New("state must be one of unknown, active, inactive")
	}
}
