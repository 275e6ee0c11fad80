package mqtt

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micro-ha/nocontact/internal/config"
	devicedomain "github.com/micro-ha/nocontact/internal/domain/device"
)

type stubRecorder struct {
	inputs  []devicedomain.ActivityInput
	updated int
}

func (s *stubRecorder) RecordActivity(ctx context.Context, in devicedomain.ActivityInput) (devicedomain.ActivityResult, error) {
	_ = ctx
	s.inputs = append(s.inputs, in)
	return devicedomain.ActivityResult{DevicesMatched: s.updated, DevicesUpdated: s.updated}, nil
}

func newTestSubscriber(topic string, rec *stubRecorder, onChanged func()) *Subscriber {
	cfg := config.MQTTConfig{Broker: "tcp://localhost:1883", Topic: topic, ClientID: "test"}
	return NewSubscriber(cfg, rec, slog.New(slog.NewTextHandler(io.Discard, nil)), onChanged)
}

func TestHandleMessageDecodesPayload(t *testing.T) {
	rec := &stubRecorder{updated: 1}
	changed := 0
	sub := newTestSubscriber("nocontact/activity", rec, func() { changed++ })

	err := sub.HandleMessage(context.Background(), "nocontact/activity",
		[]byte(`{"phone_number":"+1555","received_at":"2025-01-10 10:00:00+00","message":"ping"}`))
	require.NoError(t, err)
	require.Len(t, rec.inputs, 1)
	assert.Equal(t, "+1555", rec.inputs[0].PhoneNumber)
	assert.Equal(t, devicedomain.SourceMQTT, rec.inputs[0].Source)
	assert.Equal(t, "ping", rec.inputs[0].Message)
	assert.True(t, rec.inputs[0].ReceivedAt.Equal(time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, changed)
}

func TestHandleMessagePhoneFromWildcardTopic(t *testing.T) {
	rec := &stubRecorder{}
	sub := newTestSubscriber("nocontact/activity/+", rec, nil)

	require.NoError(t, sub.HandleMessage(context.Background(), "nocontact/activity/+15550100", []byte(`{}`)))
	require.Len(t, rec.inputs, 1)
	assert.Equal(t, "+15550100", rec.inputs[0].PhoneNumber)
	assert.True(t, rec.inputs[0].ReceivedAt.IsZero(), "service fills the receive time")
}

func TestHandleMessageRejectsBadPayloads(t *testing.T) {
	rec := &stubRecorder{}
	sub := newTestSubscriber("nocontact/activity", rec, nil)

	assert.Error(t, sub.HandleMessage(context.Background(), "nocontact/activity", []byte(`not json`)))
	assert.Error(t, sub.HandleMessage(context.Background(), "nocontact/activity", []byte(`{}`)))
	assert.Error(t, sub.HandleMessage(context.Background(), "nocontact/activity", []byte(`{"phone_number":"+1","received_at":"yesterday"}`)))
	assert.Empty(t, rec.inputs)
}
