package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	devicedomain "github.com/micro-ha/nocontact/internal/domain/device"
	"github.com/micro-ha/nocontact/internal/interval"
)

// RecordActivity accepts an inbound activity signal for a phone number.
func (a *API) RecordActivity(w http.ResponseWriter, r *http.Request) {
	var payload devicedomain.ActivityInput
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}
	if payload.Source == "" {
		payload.Source = devicedomain.SourceHTTP
	}
	result, err := a.devices.RecordActivity(r.Context(), payload)
	if err != nil {
		a.writeServiceError(w, err, "activity_failed")
		return
	}
	if result.DevicesUpdated > 0 {
		a.triggerRefresh()
	}
	writeJSON(w, http.StatusAccepted, result)
}

// Interval converts between whole hours and the stored "H:00:00" format.
func (a *API) Interval(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	rawHours := strings.TrimSpace(query.Get("hours"))
	duration, hasDuration := query["duration"]

	switch {
	case rawHours != "":
		hours, err := strconv.Atoi(rawHours)
		if err != nil || hours < 0 {
			writeError(w, http.StatusBadRequest, "invalid_hours", "hours must be a non-negative integer")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"hours":    hours,
			"duration": interval.HoursToDuration(hours),
		})
	case hasDuration:
		value := ""
		if len(duration) > 0 {
			value = duration[0]
		}
		hours, err := interval.ParseHours(value)
		payload := map[string]any{"duration": value, "hours": interval.DurationToHours(value)}
		switch {
		case errors.Is(err, interval.ErrAbsent):
			payload["reason"] = "absent"
		case errors.Is(err, interval.ErrMalformed):
			payload["reason"] = "malformed"
		default:
			payload["display"] = strconv.Itoa(hours) + "h"
		}
		writeJSON(w, http.StatusOK, payload)
	default:
		writeError(w, http.StatusBadRequest, "missing_parameter", "hours or duration is required")
	}
}
