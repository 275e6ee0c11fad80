package handlers

import (
	"errors"
	"net/http"

	"github.com/micro-ha/nocontact/internal/realtime"
)

// Realtime upgrades to a websocket streaming the caller's status events.
func (a *API) Realtime(w http.ResponseWriter, r *http.Request) {
	if a.realtime == nil {
		writeError(w, http.StatusServiceUnavailable, "realtime_disabled", "Realtime updates are disabled")
		return
	}
	err := a.realtime.ServeWS(w, r, UserID(r))
	switch {
	case errors.Is(err, realtime.ErrHubClosed):
		// Returned before the upgrade only.
		writeError(w, http.StatusServiceUnavailable, "realtime_closed", "Server is shutting down")
	case err != nil:
		// Upgrade failures already wrote the HTTP error.
		a.logger.Debug("websocket upgrade failed", "err", err)
	}
}
