package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/micro-ha/nocontact/internal/activity"
	devicedomain "github.com/micro-ha/nocontact/internal/domain/device"
	"github.com/micro-ha/nocontact/internal/export"
)

// ListDevices returns the caller's lines with derived status.
func (a *API) ListDevices(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseDeviceFilter(w, r)
	if !ok {
		return
	}
	items, err := a.devices.ListDevices(r.Context(), UserID(r), filter)
	if err != nil {
		a.writeServiceError(w, err, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// GetDevice returns one line by id.
func (a *API) GetDevice(w http.ResponseWriter, r *http.Request, id string) {
	item, err := a.devices.GetDevice(r.Context(), UserID(r), id)
	if err != nil {
		a.writeServiceError(w, err, "get_failed")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// CreateDevice adds a monitored line.
func (a *API) CreateDevice(w http.ResponseWriter, r *http.Request) {
	var payload devicedomain.Input
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}
	item, err := a.devices.CreateDevice(r.Context(), UserID(r), payload)
	if err != nil {
		a.writeServiceError(w, err, "create_failed")
		return
	}
	a.triggerRefresh()
	writeJSON(w, http.StatusCreated, item)
}

// UpdateDevice replaces form fields of a line.
func (a *API) UpdateDevice(w http.ResponseWriter, r *http.Request, id string) {
	var payload devicedomain.Input
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}
	item, err := a.devices.UpdateDevice(r.Context(), UserID(r), id, payload)
	if err != nil {
		a.writeServiceError(w, err, "update_failed")
		return
	}
	a.triggerRefresh()
	writeJSON(w, http.StatusOK, item)
}

// DeleteDevice removes a line.
func (a *API) DeleteDevice(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.devices.DeleteDevice(r.Context(), UserID(r), id); err != nil {
		a.writeServiceError(w, err, "delete_failed")
		return
	}
	a.triggerRefresh()
	w.WriteHeader(http.StatusNoContent)
}

// ListDeviceActivity returns recent inbound signals of a line.
func (a *API) ListDeviceActivity(w http.ResponseWriter, r *http.Request, id string) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	items, err := a.devices.ListActivity(r.Context(), UserID(r), id, limit)
	if err != nil {
		a.writeServiceError(w, err, "activity_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// ExportDevices streams the filtered device list as XLSX.
func (a *API) ExportDevices(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseDeviceFilter(w, r)
	if !ok {
		return
	}
	items, err := a.devices.ListDevices(r.Context(), UserID(r), filter)
	if err != nil {
		a.writeServiceError(w, err, "export_failed")
		return
	}
	data, err := export.Devices(items)
	if err != nil {
		a.writeServiceError(w, err, "export_failed")
		return
	}
	writeFile(w, "devices.xlsx", data)
}

func parseDeviceFilter(w http.ResponseWriter, r *http.Request) (devicedomain.ListFilter, bool) {
	query := r.URL.Query()
	state, err := activity.ParseState(query.Get("state"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_state_filter", err.Error())
		return devicedomain.ListFilter{}, false
	}
	filter := devicedomain.ListFilter{State: state, Query: query.Get("query")}
	if raw := strings.TrimSpace(query.Get("active")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_active_filter", "active must be true or false")
			return devicedomain.ListFilter{}, false
		}
		filter.Active = &value
	}
	return filter, true
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
		return 0, false
	}
	return value, true
}

func writeFile(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
