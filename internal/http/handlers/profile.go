package handlers

import (
	"net/http"

	profiledomain "github.com/micro-ha/nocontact/internal/domain/profile"
)

// GetProfile returns the caller's profile, provisioning it on first use.
func (a *API) GetProfile(w http.ResponseWriter, r *http.Request) {
	item, err := a.profiles.GetProfile(r.Context(), UserID(r))
	if err != nil {
		a.writeServiceError(w, err, "get_failed")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// UpdateProfile saves name, phone and alert methods. Email is read-only.
func (a *API) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var payload profiledomain.Input
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}
	item, err := a.profiles.UpdateProfile(r.Context(), UserID(r), payload)
	if err != nil {
		a.writeServiceError(w, err, "update_failed")
		return
	}
	writeJSON(w, http.StatusOK, item)
}
