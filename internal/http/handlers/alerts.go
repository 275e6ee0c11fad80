package handlers

import (
	"net/http"

	alertdomain "github.com/micro-ha/nocontact/internal/domain/alert"
	"github.com/micro-ha/nocontact/internal/export"
)

// ListAlerts returns alert history newest first.
func (a *API) ListAlerts(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseAlertFilter(w, r)
	if !ok {
		return
	}
	items, err := a.alerts.ListAlerts(r.Context(), UserID(r), filter)
	if err != nil {
		a.writeServiceError(w, err, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// RecordAlert stores an alert outcome reported by the workflow automation.
func (a *API) RecordAlert(w http.ResponseWriter, r *http.Request) {
	var payload alertdomain.Input
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}
	item, err := a.alerts.RecordAlert(r.Context(), UserID(r), payload)
	if err != nil {
		a.writeServiceError(w, err, "record_failed")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// ExportAlerts streams alert history as XLSX.
func (a *API) ExportAlerts(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseAlertFilter(w, r)
	if !ok {
		return
	}
	items, err := a.alerts.ListAlerts(r.Context(), UserID(r), filter)
	if err != nil {
		a.writeServiceError(w, err, "export_failed")
		return
	}
	data, err := export.Alerts(items)
	if err != nil {
		a.writeServiceError(w, err, "export_failed")
		return
	}
	writeFile(w, "alerts.xlsx", data)
}

func parseAlertFilter(w http.ResponseWriter, r *http.Request) (alertdomain.Filter, bool) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return alertdomain.Filter{}, false
	}
	query := r.URL.Query()
	return alertdomain.Filter{
		DevicePhoneNumber: query.Get("device_phone"),
		Status:            query.Get("status"),
		Limit:             limit,
	}, true
}
