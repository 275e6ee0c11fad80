package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micro-ha/nocontact/internal/activity"
	"github.com/micro-ha/nocontact/internal/model"
)

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWS(w, r, r.URL.Query().Get("user"))
	}))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, user string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + user
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Clients() == want }, 2*time.Second, 10*time.Millisecond)
}

func TestHubDeliversOnlyToOwner(t *testing.T) {
	hub, srv := newTestHub(t)
	owner := dial(t, srv, "u1")
	other := dial(t, srv, "u2")
	waitClients(t, hub, 2)

	hub.Publish(Event{
		Type:     EventDeviceStatus,
		UserID:   "u1",
		Previous: activity.StateActive,
		Device:   model.DeviceView{Device: model.Device{ID: "d1"}, Status: activity.Status{State: activity.StateInactive}},
	})

	require.NoError(t, owner.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := owner.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(payload, &ev))
	assert.Equal(t, EventDeviceStatus, ev.Type)
	assert.Equal(t, "d1", ev.Device.ID)
	assert.Equal(t, activity.StateInactive, ev.Device.Status.State)
	assert.Equal(t, activity.StateActive, ev.Previous)
	assert.False(t, ev.At.IsZero())

	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = other.ReadMessage()
	assert.Error(t, err, "other users must not receive the event")
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub, srv := newTestHub(t)
	conn := dial(t, srv, "u1")
	waitClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitClients(t, hub, 0)
}

func TestServeWSAfterStop(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.Run(ctx)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ws", nil)
	assert.ErrorIs(t, hub.ServeWS(rec, req, "u1"), ErrHubClosed)
}

func TestServeWSClosesUpgradedConnWhenHubStops(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	served := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served <- hub.ServeWS(w, r, "u1")
	}))
	t.Cleanup(srv.Close)

	// Run is not started, so registration blocks until done closes.
	conn := dial(t, srv, "u1")
	close(hub.done)

	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ServeWS did not return after hub stop")
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "err = %v", err)
}
