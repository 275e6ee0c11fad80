package handlers

import (
	"net/http"

	contactdomain "github.com/micro-ha/nocontact/internal/domain/contact"
)

func (a *API) ListContacts(w http.ResponseWriter, r *http.Request) {
	items, err := a.contacts.ListContacts(r.Context(), UserID(r))
	if err != nil {
		a.writeServiceError(w, err, "list_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) GetContact(w http.ResponseWriter, r *http.Request, id string) {
	item, err := a.contacts.GetContact(r.Context(), UserID(r), id)
	if err != nil {
		a.writeServiceError(w, err, "get_failed")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (a *API) CreateContact(w http.ResponseWriter, r *http.Request) {
	var payload contactdomain.Input
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}
	item, err := a.contacts.CreateContact(r.Context(), UserID(r), payload)
	if err != nil {
		a.writeServiceError(w, err, "create_failed")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (a *API) UpdateContact(w http.ResponseWriter, r *http.Request, id string) {
	var payload contactdomain.Input
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}
	item, err := a.contacts.UpdateContact(r.Context(), UserID(r), id, payload)
	if err != nil {
		a.writeServiceError(w, err, "update_failed")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (a *API) DeleteContact(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.contacts.DeleteContact(r.Context(), UserID(r), id); err != nil {
		a.writeServiceError(w, err, "delete_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
