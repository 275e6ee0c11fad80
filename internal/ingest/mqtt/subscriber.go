package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/micro-ha/nocontact/internal/activity"
	"github.com/micro-ha/nocontact/internal/config"
	devicedomain "github.com/micro-ha/nocontact/internal/domain/device"
)

const handleTimeout = 10 * time.Second

// Recorder stores one activity signal.
type Recorder interface {
	RecordActivity(ctx context.Context, in devicedomain.ActivityInput) (devicedomain.ActivityResult, error)
}

// Subscriber feeds activity messages from an MQTT topic into the recorder.
type Subscriber struct {
	cfg       config.MQTTConfig
	recorder  Recorder
	logger    *slog.Logger
	client    paho.Client
	onChanged func()
}

func NewSubscriber(cfg config.MQTTConfig, recorder Recorder, logger *slog.Logger, onChanged func()) *Subscriber {
	return &Subscriber{cfg: cfg, recorder: recorder, logger: logger, onChanged: onChanged}
}

// Start connects and subscribes. Subscriptions are restored on reconnect.
func (s *Subscriber) Start(ctx context.Context) error {
	opts := paho.NewClientOptions()
	opts.AddBroker(s.cfg.Broker)
	opts.SetClientID(s.cfg.ClientID)
	if s.cfg.Username != "" {
		opts.SetUsername(s.cfg.Username)
	}
	if s.cfg.Password != "" {
		opts.SetPassword(s.cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(c paho.Client) {
		token := c.Subscribe(s.cfg.Topic, byte(s.cfg.QoS), func(_ paho.Client, msg paho.Message) {
			handleCtx, cancel := context.WithTimeout(ctx, handleTimeout)
			defer cancel()
			if err := s.HandleMessage(handleCtx, msg.Topic(), msg.Payload()); err != nil {
				s.logger.Warn("mqtt activity rejected", "topic", msg.Topic(), "err", err)
			}
		})
		if token.Wait() && token.Error() != nil {
			s.logger.Error("mqtt subscribe failed", "topic", s.cfg.Topic, "err", token.Error())
			return
		}
		s.logger.Info("mqtt subscribed", "broker", s.cfg.Broker, "topic", s.cfg.Topic)
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		s.logger.Warn("mqtt connection lost", "err", err)
	})

	s.client = paho.NewClient(opts)
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect mqtt broker %s: %w", s.cfg.Broker, token.Error())
	}
	return nil
}

// Stop disconnects from the broker.
func (s *Subscriber) Stop() {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(250)
	}
}

type message struct {
	PhoneNumber string `json:"phone_number"`
	ReceivedAt  string `json:"received_at"`
	Message     string `json:"message"`
}

// HandleMessage decodes one payload. A message without phone_number takes
// the phone from the last topic segment when the subscription uses a
// wildcard, e.g. nocontact/activity/+15550100.
func (s *Subscriber) HandleMessage(ctx context.Context, topic string, payload []byte) error {
	var msg message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	phone := strings.TrimSpace(msg.PhoneNumber)
	if phone == "" && strings.ContainsAny(s.cfg.Topic, "+#") {
		if idx := strings.LastIndex(topic, "/"); idx >= 0 {
			phone = topic[idx+1:]
		}
	}
	if phone == "" {
		return errors.New("phone_number is missing")
	}

	in := devicedomain.ActivityInput{
		PhoneNumber: phone,
		Message:     msg.Message,
		Source:      devicedomain.SourceMQTT,
	}
	ts, err := activity.ParseTimestamp(msg.ReceivedAt)
	if err != nil {
		return err
	}
	if ts != nil {
		in.ReceivedAt = *ts
	}

	res, err := s.recorder.RecordActivity(ctx, in)
	if err != nil {
		return err
	}
	if res.DevicesUpdated > 0 && s.onChanged != nil {
		s.onChanged()
	}
	return nil
}
