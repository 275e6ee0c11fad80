package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micro-ha/nocontact/internal/activity"
	"github.com/micro-ha/nocontact/internal/model"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"serve", "status", "interval"} {
		assert.True(t, names[want], "%s should be registered with rootCmd", want)
	}
	assert.NotNil(t, rootCmd.RunE, "root should default to serve")
}

func TestStatusFlags(t *testing.T) {
	for _, name := range []string{"user", "state", "query"} {
		assert.NotNil(t, statusCmd.Flags().Lookup(name), "--%s flag should exist", name)
	}
	assert.Equal(t, "q", statusCmd.Flags().Lookup("query").Shorthand)
}

func TestPrintHours(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printHours(&out, 36))
	assert.Equal(t, "36:00:00\n", out.String())

	out.Reset()
	require.NoError(t, printHours(&out, 0))
	assert.Equal(t, "0:00:00\n", out.String())

	out.Reset()
	require.NoError(t, printHours(&out, 200))
	assert.Equal(t, "200:00:00\n", out.String())

	out.Reset()
	err := printHours(&out, -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")
	assert.Empty(t, out.String())
}

func TestPrintDuration(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"48:00:00", "48\n"},
		{"", "N/A (duration absent)\n"},
		{"abc", "N/A (duration malformed)\n"},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		printDuration(&out, tc.in)
		assert.Equal(t, tc.want, out.String(), "duration %q", tc.in)
	}
}

func TestBadgeWidth(t *testing.T) {
	for _, state := range []activity.State{activity.StateActive, activity.StateInactive, activity.StateUnknown} {
		rendered := badge(state)
		assert.Contains(t, rendered, strings.ToUpper(string(state)))
	}
}

func TestRenderStatus(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-2 * time.Hour)
	old := now.Add(-30 * time.Hour)
	views := []model.DeviceView{
		model.NewDeviceView(model.Device{ID: "1", Location: "Kitchen", PhoneNumber: "+15550001", NoContactPeriod: "24:00:00", Active: true, LastActivityAt: &recent}, now),
		model.NewDeviceView(model.Device{ID: "2", Location: "Cabin", PhoneNumber: "+15550002", NoContactPeriod: "24:00:00", Active: true, LastActivityAt: &old}, now),
		model.NewDeviceView(model.Device{ID: "3", Location: "Garage", PhoneNumber: "+15550003", NoContactPeriod: "bogus", Active: false}, now),
	}

	var out bytes.Buffer
	require.NoError(t, renderStatus(&out, views))
	text := out.String()

	assert.Contains(t, text, "LOCATION")
	assert.Contains(t, text, "Last activity: 2h ago")
	assert.Contains(t, text, "Kitchen")
	assert.Contains(t, text, "24h")
	assert.Contains(t, text, "N/A")
	assert.Contains(t, text, "(paused)")
	assert.Contains(t, text, "1 active, 1 inactive, 1 unknown")
}

func TestRenderStatusEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, renderStatus(&out, nil))
	assert.Contains(t, out.String(), "No lines monitored")
}

func TestAcquireLockRejectsSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nocontact.db.lock")

	unlock, err := acquireLock(context.Background(), path)
	require.NoError(t, err)

	other := flock.New(path)
	locked, err := other.TryLock()
	require.NoError(t, err)
	assert.False(t, locked, "lock should be held")

	unlock()
	locked, err = other.TryLock()
	require.NoError(t, err)
	assert.True(t, locked, "lock should be free after unlock")
	require.NoError(t, other.Unlock())
}
