package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micro-ha/nocontact/internal/interval"
)

var referenceNow = time.Date(2025, 11, 8, 12, 0, 0, 0, time.UTC)

func ago(d time.Duration) *time.Time {
	ts := referenceNow.Add(-d)
	return &ts
}

func TestEvaluateUnknownWithoutActivity(t *testing.T) {
	for _, threshold := range []interval.Hours{interval.Known(24), interval.Known(0), {}} {
		got := Evaluate(nil, threshold, referenceNow)
		assert.Equal(t, StateUnknown, got.State)
		assert.Equal(t, ColorGray, got.Color)
		assert.Equal(t, "No activity recorded", got.Message)
		assert.Nil(t, got.HoursInactive)
	}
}

func TestEvaluateActiveBelowThreshold(t *testing.T) {
	got := Evaluate(ago(10*time.Hour), interval.Known(24), referenceNow)
	assert.Equal(t, StateActive, got.State)
	assert.Equal(t, ColorGreen, got.Color)
	assert.Equal(t, "Active recently", got.Message)
	assert.Nil(t, got.HoursInactive)
}

func TestEvaluateBoundaryIsInactive(t *testing.T) {
	got := Evaluate(ago(24*time.Hour), interval.Known(24), referenceNow)
	assert.Equal(t, StateInactive, got.State)
	assert.Equal(t, "Inactive for 24h", got.Message)
	require.NotNil(t, got.HoursInactive)
	assert.Equal(t, 24, *got.HoursInactive)

	justBefore := Evaluate(ago(24*time.Hour-time.Millisecond), interval.Known(24), referenceNow)
	assert.Equal(t, StateActive, justBefore.State)
}

func TestEvaluateInactiveFloorsElapsedHours(t *testing.T) {
	got := Evaluate(ago(30*time.Hour), interval.Known(24), referenceNow)
	assert.Equal(t, StateInactive, got.State)
	assert.Equal(t, ColorRed, got.Color)
	assert.Equal(t, "Inactive for 30h", got.Message)

	got = Evaluate(ago(30*time.Hour+59*time.Minute), interval.Known(24), referenceNow)
	assert.Equal(t, "Inactive for 30h", got.Message)
}

func TestEvaluateInvalidThresholdIsInactive(t *testing.T) {
	got := Evaluate(ago(2*time.Hour), interval.DurationToHours("garbage"), referenceNow)
	assert.Equal(t, StateInactive, got.State)
	assert.Equal(t, "Inactive for 2h", got.Message)

	got = Evaluate(ago(2*time.Hour), interval.DurationToHours(""), referenceNow)
	assert.Equal(t, StateInactive, got.State)
}

func TestEvaluateFutureActivity(t *testing.T) {
	future := referenceNow.Add(time.Hour)
	assert.Equal(t, StateActive, Evaluate(&future, interval.Known(1), referenceNow).State)

	got := Evaluate(&future, interval.Hours{}, referenceNow)
	assert.Equal(t, "Inactive for 0h", got.Message)
}

func TestEvaluateDeterministic(t *testing.T) {
	last := ago(5 * time.Hour)
	first := Evaluate(last, interval.Known(4), referenceNow)
	second := Evaluate(last, interval.Known(4), referenceNow)
	assert.Equal(t, first, second)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 11, 2, 9, 30, 15, 0, time.UTC)
	inputs := []string{
		"2025-11-02T09:30:15Z",
		"2025-11-02T10:30:15+01:00",
		"2025-11-02 09:30:15+00",
		"2025-11-02 09:30:15.000000+00:00",
		"2025-11-02T09:30:15",
		"2025-11-02 09:30:15",
	}
	for _, input := range inputs {
		got, err := ParseTimestamp(input)
		require.NoError(t, err, input)
		require.NotNil(t, got, input)
		assert.True(t, want.Equal(*got), "%s parsed as %s", input, got)
	}

	for _, input := range []string{"", "  ", "null"} {
		got, err := ParseTimestamp(input)
		require.NoError(t, err)
		assert.Nil(t, got)
	}

	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestLastActivityLabel(t *testing.T) {
	assert.Equal(t, "No activity recorded", LastActivityLabel(nil, referenceNow))
	assert.Equal(t, "Last activity: just now", LastActivityLabel(ago(10*time.Second), referenceNow))
	assert.Equal(t, "Last activity: 15m ago", LastActivityLabel(ago(15*time.Minute), referenceNow))
	assert.Equal(t, "Last activity: 5h ago", LastActivityLabel(ago(5*time.Hour), referenceNow))
	assert.Equal(t, "Last activity: 3d ago", LastActivityLabel(ago(72*time.Hour), referenceNow))
}

func TestParseState(t *testing.T) {
	state, err := ParseState(" Inactive ")
	require.NoError(t, err)
	assert.Equal(t, StateInactive, state)

	state, err = ParseState("")
	require.NoError(t, err)
	assert.Equal(t, State(""), state)

	_, err = ParseState("offline")
	assert.Error(t, err)
}
