package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	alertdomain "github.com/micro-ha/nocontact/internal/domain/alert"
	contactdomain "github.com/micro-ha/nocontact/internal/domain/contact"
	devicedomain "github.com/micro-ha/nocontact/internal/domain/device"
	profiledomain "github.com/micro-ha/nocontact/internal/domain/profile"
)

// Poller triggers an asynchronous status sweep.
type Poller interface {
	TriggerRefresh()
}

// Realtime upgrades a request into a per-user event stream.
type Realtime interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID string) error
}

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps lists the services behind the HTTP API.
type Deps struct {
	Devices   devicedomain.Service
	Contacts  contactdomain.Service
	Profiles  profiledomain.Service
	Alerts    alertdomain.Service
	Poller    Poller
	Realtime  Realtime
	DB        Pinger
	Logger    *slog.Logger
	StaticDir string
}

// API groups HTTP handlers and dependencies.
type API struct {
	devices   devicedomain.Service
	contacts  contactdomain.Service
	profiles  profiledomain.Service
	alerts    alertdomain.Service
	poller    Poller
	realtime  Realtime
	db        Pinger
	logger    *slog.Logger
	staticDir string
}

// New creates HTTP handlers with explicit dependencies.
func New(deps Deps) *API {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		devices:   deps.Devices,
		contacts:  deps.Contacts,
		profiles:  deps.Profiles,
		alerts:    deps.Alerts,
		poller:    deps.Poller,
		realtime:  deps.Realtime,
		db:        deps.DB,
		logger:    logger,
		staticDir: deps.StaticDir,
	}
}

// Logger returns request logger used by HTTP middleware.
func (a *API) Logger() *slog.Logger {
	return a.logger
}

// Health reports service liveness and database reachability.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	if a.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.db.PingContext(ctx); err != nil {
			a.logger.Warn("health check failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "database": "ok"})
}

// Refresh forces an immediate status sweep.
func (a *API) Refresh(w http.ResponseWriter, _ *http.Request) {
	a.triggerRefresh()
	writeJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}

// Static serves frontend assets and SPA fallback.
func (a *API) Static(w http.ResponseWriter, r *http.Request) {
	if a.staticDir == "" {
		writeError(w, http.StatusNotFound, "frontend_missing", "Frontend dist not found")
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/")
	if path == "" {
		path = "index.html"
	}
	cleanPath := strings.TrimPrefix(filepath.Clean("/"+path), "/")
	fullPath := filepath.Join(a.staticDir, cleanPath)
	if info, err := os.Stat(fullPath); err == nil && !info.IsDir() {
		http.ServeFile(w, r, fullPath)
		return
	}
	index := filepath.Join(a.staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		writeError(w, http.StatusNotFound, "frontend_missing", "Frontend dist not found")
		return
	}
	http.ServeFile(w, r, index)
}

func (a *API) triggerRefresh() {
	if a.poller != nil {
		a.poller.TriggerRefresh()
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

// writeServiceError maps domain sentinels to HTTP codes. Validation
// messages are returned without the sentinel prefix.
func (a *API) writeServiceError(w http.ResponseWriter, err error, fallbackCode string) {
	invalid := []struct {
		sentinel error
		code     string
	}{
		{devicedomain.ErrDeviceInvalid, "device_invalid"},
		{devicedomain.ErrActivityInvalid, "activity_invalid"},
		{contactdomain.ErrContactInvalid, "contact_invalid"},
		{profiledomain.ErrProfileInvalid, "profile_invalid"},
		{alertdomain.ErrAlertInvalid, "alert_invalid"},
	}
	for _, item := range invalid {
		if errors.Is(err, item.sentinel) {
			writeError(w, http.StatusBadRequest, item.code, strings.TrimPrefix(err.Error(), item.sentinel.Error()+": "))
			return
		}
	}

	switch {
	case errors.Is(err, devicedomain.ErrDeviceNotFound):
		writeError(w, http.StatusNotFound, "device_not_found", "Device not found")
	case errors.Is(err, contactdomain.ErrContactNotFound):
		writeError(w, http.StatusNotFound, "contact_not_found", "Contact not found")
	case errors.Is(err, profiledomain.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
	default:
		a.logger.Error("request failed", "code", fallbackCode, "err", err)
		writeError(w, http.StatusInternalServerError, fallbackCode, err.Error())
	}
}
